package report

// TextMeasurer splits text into the lines it occupies in a column of width w.
// *fpdf.Fpdf satisfies it for the current font.
type TextMeasurer interface {
	SplitText(txt string, w float64) []string
}

// Column describes one table column
type Column struct {
	Width float64
	Align string
}

// TableGeometry is the vertical frame a table is laid out in
type TableGeometry struct {
	LineHeight float64
	// PageTop is the y where the table continues after a page break
	PageTop float64
	// PageBottom is the lowest y a row may reach
	PageBottom float64
}

// PlacedRow is a table row with its final position. Every cell of the row is
// Height tall, regardless of how many lines the cell itself needs.
type PlacedRow struct {
	Header bool
	// Page counts page breaks since the table started, 0 is the starting page
	Page   int
	Y      float64
	Height float64
	Cells  [][]string
}

// TablePlan is the result of PlanTable
type TablePlan struct {
	Rows []PlacedRow
	// EndPage and EndY are the cursor position right after the last row
	EndPage int
	EndY    float64
}

// PlanTable lays out header and rows starting at startY. Each cell is wrapped
// independently to its column width; the row height is the largest line count
// of its cells times the line height and the next row starts right below it.
// A row that would cross PageBottom moves to the next page, where the header
// is repeated first. The header never stays alone at the bottom of a page. A
// row taller than a whole page is placed anyway.
func PlanTable(m TextMeasurer, cols []Column, header []string, rows [][]string, startY float64, geo TableGeometry) TablePlan {
	plan := TablePlan{}
	page := 0
	y := startY

	headerCells, headerHeight := wrapRow(m, cols, header, geo.LineHeight)

	placeHeader := func() {
		plan.Rows = append(plan.Rows, PlacedRow{
			Header: true,
			Page:   page,
			Y:      y,
			Height: headerHeight,
			Cells:  headerCells,
		})
		y += headerHeight
	}

	// The header starts on the page of the first row
	needed := headerHeight
	if len(rows) > 0 {
		_, firstHeight := wrapRow(m, cols, rows[0], geo.LineHeight)
		needed += firstHeight
	}
	if y+needed > geo.PageBottom && y > geo.PageTop {
		page++
		y = geo.PageTop
	}
	placeHeader()

	for _, row := range rows {
		cells, height := wrapRow(m, cols, row, geo.LineHeight)

		if y+height > geo.PageBottom && y > geo.PageTop+headerHeight {
			page++
			y = geo.PageTop
			placeHeader()
		}

		plan.Rows = append(plan.Rows, PlacedRow{
			Page:   page,
			Y:      y,
			Height: height,
			Cells:  cells,
		})
		y += height
	}

	plan.EndPage = page
	plan.EndY = y
	return plan
}

func wrapRow(m TextMeasurer, cols []Column, row []string, lineHeight float64) ([][]string, float64) {
	cells := make([][]string, len(cols))
	maxLines := 1
	for i, col := range cols {
		text := ""
		if i < len(row) {
			text = row[i]
		}

		lines := m.SplitText(text, col.Width)
		if len(lines) == 0 {
			lines = []string{""}
		}
		cells[i] = lines
		maxLines = max(maxLines, len(lines))
	}
	return cells, float64(maxLines) * lineHeight
}
