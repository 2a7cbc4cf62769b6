package report_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskform/pkg/service/report"
)

// lineMeasurer wraps only at explicit line breaks
type lineMeasurer struct{}

func (lineMeasurer) SplitText(txt string, _ float64) []string {
	if txt == "" {
		return nil
	}
	return strings.Split(txt, "\n")
}

var testColumns = []report.Column{
	{Width: 80, Align: "L"},
	{Width: 40, Align: "L"},
	{Width: 40, Align: "L"},
}

var testHeader = []string{"Question", "Response", "Weight"}

func TestPlanTableRowHeight(t *testing.T) {
	geo := report.TableGeometry{LineHeight: 10, PageTop: 10, PageBottom: 282}
	rows := [][]string{
		{"first line\nsecond line\nthird line", "Yes", "50"},
		{"short", "No", "20"},
	}

	plan := report.PlanTable(lineMeasurer{}, testColumns, testHeader, rows, 50, geo)
	gt.A(t, plan.Rows).Length(3).Required()

	header := plan.Rows[0]
	gt.B(t, header.Header).True()
	gt.Number(t, header.Y).Equal(50)
	gt.Number(t, header.Height).Equal(10)

	tall := plan.Rows[1]
	gt.B(t, tall.Header).False()
	gt.Number(t, tall.Y).Equal(60)
	gt.Number(t, tall.Height).Equal(30)
	gt.A(t, tall.Cells[0]).Length(3)
	gt.A(t, tall.Cells[1]).Length(1)
	gt.A(t, tall.Cells[2]).Length(1)

	next := plan.Rows[2]
	gt.Number(t, next.Y).Equal(90)
	gt.Number(t, next.Height).Equal(10)

	gt.Number(t, plan.EndPage).Equal(0)
	gt.Number(t, plan.EndY).Equal(100)
}

func TestPlanTableHeightFollowsTallestCell(t *testing.T) {
	geo := report.TableGeometry{LineHeight: 10, PageTop: 10, PageBottom: 282}
	rows := [][]string{
		{"one", "a\nb", "1\n2\n3\n4"},
	}

	plan := report.PlanTable(lineMeasurer{}, testColumns, testHeader, rows, 10, geo)
	gt.A(t, plan.Rows).Length(2).Required()
	gt.Number(t, plan.Rows[1].Height).Equal(40)
}

func TestPlanTableEmptyCellTakesOneLine(t *testing.T) {
	geo := report.TableGeometry{LineHeight: 10, PageTop: 10, PageBottom: 282}
	rows := [][]string{{"", "", ""}}

	plan := report.PlanTable(lineMeasurer{}, testColumns, testHeader, rows, 10, geo)
	gt.A(t, plan.Rows).Length(2).Required()
	gt.Number(t, plan.Rows[1].Height).Equal(10)
	gt.A(t, plan.Rows[1].Cells[0]).Length(1)
}

func TestPlanTablePageBreakRepeatsHeader(t *testing.T) {
	geo := report.TableGeometry{LineHeight: 10, PageTop: 10, PageBottom: 282}
	rows := [][]string{
		{"fits", "Yes", "10"},
		{"does\nnot fit", "No", "20"},
	}

	plan := report.PlanTable(lineMeasurer{}, testColumns, testHeader, rows, 250, geo)
	gt.A(t, plan.Rows).Length(4).Required()

	gt.B(t, plan.Rows[0].Header).True()
	gt.Number(t, plan.Rows[0].Page).Equal(0)
	gt.Number(t, plan.Rows[1].Y).Equal(260)

	repeated := plan.Rows[2]
	gt.B(t, repeated.Header).True()
	gt.Number(t, repeated.Page).Equal(1)
	gt.Number(t, repeated.Y).Equal(10)

	moved := plan.Rows[3]
	gt.Number(t, moved.Page).Equal(1)
	gt.Number(t, moved.Y).Equal(20)
	gt.Number(t, moved.Height).Equal(20)

	gt.Number(t, plan.EndPage).Equal(1)
	gt.Number(t, plan.EndY).Equal(40)
}

func TestPlanTableHeaderMovesWithFirstRow(t *testing.T) {
	geo := report.TableGeometry{LineHeight: 10, PageTop: 10, PageBottom: 282}
	rows := [][]string{
		{"first\nrow", "Yes", "10"},
		{"second", "No", "20"},
	}

	plan := report.PlanTable(lineMeasurer{}, testColumns, testHeader, rows, 265, geo)
	gt.A(t, plan.Rows).Length(3).Required()

	header := plan.Rows[0]
	gt.B(t, header.Header).True()
	gt.Number(t, header.Page).Equal(1)
	gt.Number(t, header.Y).Equal(10)

	first := plan.Rows[1]
	gt.B(t, first.Header).False()
	gt.Number(t, first.Page).Equal(1)
	gt.Number(t, first.Y).Equal(20)

	gt.Number(t, plan.Rows[2].Y).Equal(40)
	gt.Number(t, plan.EndPage).Equal(1)
}

func TestPlanTableOversizedRowIsPlacedOnFreshPage(t *testing.T) {
	geo := report.TableGeometry{LineHeight: 10, PageTop: 10, PageBottom: 60}
	rows := [][]string{
		{strings.Repeat("x\n", 9) + "x", "Yes", "1"},
	}

	plan := report.PlanTable(lineMeasurer{}, testColumns, testHeader, rows, 10, geo)
	gt.A(t, plan.Rows).Length(2).Required()
	gt.Number(t, plan.Rows[1].Page).Equal(0)
	gt.Number(t, plan.Rows[1].Height).Equal(100)
}
