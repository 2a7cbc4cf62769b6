package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet written by the XLSX export
const SheetName = "Assessment"

var (
	ErrEmptyTable     = goerr.New("table has no header row")
	ErrInvalidHeader  = goerr.New("unexpected table header")
	ErrInvalidRow     = goerr.New("invalid table row")
	ErrInvalidTabular = goerr.New("invalid tabular format")
)

// Tabular exports assessments as ordered Question/Response/Weight rows
type Tabular struct {
	labels      model.Labels
	includeMeta bool
}

type TabularOption func(*Tabular)

// WithTabularLanguage selects header and response wording
func WithTabularLanguage(lang types.Language) TabularOption {
	return func(t *Tabular) {
		t.labels = model.LabelsFor(lang)
	}
}

// WithMeta prepends Assessment and Validator columns to every row
func WithMeta(enabled bool) TabularOption {
	return func(t *Tabular) {
		t.includeMeta = enabled
	}
}

func NewTabular(opts ...TabularOption) *Tabular {
	t := &Tabular{
		labels: model.LabelsFor(types.LanguageEnglish),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tabular) header(meta bool) []string {
	h := []string{t.labels.Question, t.labels.Response, t.labels.Weight}
	if meta {
		h = append([]string{t.labels.Assessment, t.labels.Validator}, h...)
	}
	return h
}

func (t *Tabular) rows(a *model.Assessment, meta bool) [][]string {
	questions := a.AnsweredQuestions()
	rows := make([][]string, 0, len(questions))
	for _, q := range questions {
		row := []string{q.Text, t.labels.ResponseText(q.Response), strconv.Itoa(q.Weight)}
		if meta {
			row = append([]string{a.Title, a.Validator}, row...)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes header and answered questions as CSV
func (t *Tabular) WriteCSV(w io.Writer, a *model.Assessment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header(t.includeMeta)); err != nil {
		return goerr.Wrap(err, "failed to write CSV header")
	}
	if err := cw.WriteAll(t.rows(a, t.includeMeta)); err != nil {
		return goerr.Wrap(err, "failed to write CSV rows", goerr.V("title", a.Title))
	}
	return nil
}

// WriteXLSX writes header and answered questions as a single-sheet workbook
func (t *Tabular) WriteXLSX(w io.Writer, a *model.Assessment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return goerr.Wrap(err, "failed to name sheet")
	}
	if err := t.writeHeader(f, t.includeMeta); err != nil {
		return err
	}
	if err := t.appendRows(f, 2, t.rows(a, t.includeMeta)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return goerr.Wrap(err, "failed to write XLSX", goerr.V("title", a.Title))
	}
	return nil
}

// AppendXLSX appends the answered questions of a to the workbook at path,
// creating it with a header when it does not exist. The column layout of an
// existing workbook is kept, new workbooks always carry meta columns.
func (t *Tabular) AppendXLSX(path string, a *model.Assessment) error {
	var f *excelize.File
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
			return goerr.Wrap(err, "failed to name sheet")
		}
		if err := t.writeHeader(f, true); err != nil {
			return err
		}
	} else {
		opened, err := excelize.OpenFile(path)
		if err != nil {
			return goerr.Wrap(err, "failed to open workbook", goerr.V("path", path))
		}
		f = opened
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	existing, err := f.GetRows(sheet)
	if err != nil {
		return goerr.Wrap(err, "failed to read workbook", goerr.V("path", path))
	}
	if len(existing) == 0 {
		if err := t.writeHeader(f, true); err != nil {
			return err
		}
		existing = [][]string{t.header(true)}
	}

	meta := len(existing[0]) >= len(t.header(true))
	if err := t.appendRows(f, len(existing)+1, t.rows(a, meta)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return goerr.Wrap(err, "failed to save workbook", goerr.V("path", path))
	}
	return nil
}

func (t *Tabular) writeHeader(f *excelize.File, meta bool) error {
	sheet := f.GetSheetName(0)
	header := t.header(meta)

	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return goerr.Wrap(err, "failed to write XLSX header")
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return goerr.Wrap(err, "failed to create header style")
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve header range")
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return goerr.Wrap(err, "failed to style XLSX header")
	}

	questionCol, err := excelize.ColumnNumberToName(len(header) - 2)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve question column")
	}
	if err := f.SetColWidth(sheet, questionCol, questionCol, 60); err != nil {
		return goerr.Wrap(err, "failed to size question column")
	}
	return nil
}

// appendRows writes rows starting at the 1-based row index. The weight column
// is stored as a number.
func (t *Tabular) appendRows(f *excelize.File, start int, rows [][]string) error {
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if w, err := strconv.Atoi(row[len(row)-1]); err == nil {
			cells[len(row)-1] = w
		}

		cell, err := excelize.CoordinatesToCellName(1, start+i)
		if err != nil {
			return goerr.Wrap(err, "failed to resolve cell", goerr.V("row", start+i))
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return goerr.Wrap(err, "failed to write XLSX row", goerr.V("row", start+i))
		}
	}
	return nil
}

// ReadCSV parses a CSV export back into questions
func ReadCSV(r io.Reader) ([]model.Question, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidTabular, "failed to parse CSV", goerr.V("cause", err.Error()))
	}
	return parseTable(records)
}

// ReadXLSX parses the first sheet of an XLSX export back into questions
func ReadXLSX(r io.Reader) ([]model.Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidTabular, "failed to open XLSX", goerr.V("cause", err.Error()))
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read XLSX rows")
	}
	return parseTable(rows)
}

// parseTable accepts both the 3-column and the 5-column (with meta) layouts.
// Header wording is not checked so that exports in any language read back.
func parseTable(records [][]string) ([]model.Question, error) {
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	width := len(records[0])
	if width != 3 && width != 5 {
		return nil, goerr.Wrap(ErrInvalidHeader, "unexpected column count", goerr.V("columns", width))
	}
	offset := width - 3

	questions := make([]model.Question, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if isBlank(rec) {
			continue
		}
		if len(rec) < width {
			return nil, goerr.Wrap(ErrInvalidRow, "missing columns", goerr.V("line", line))
		}

		resp, err := types.ParseResponse(rec[offset+1])
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidRow, "invalid response", goerr.V("line", line), goerr.V("response", rec[offset+1]))
		}
		weight, err := strconv.Atoi(strings.TrimSpace(rec[offset+2]))
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidRow, "invalid weight", goerr.V("line", line), goerr.V("weight", rec[offset+2]))
		}

		questions = append(questions, model.Question{
			Text:     rec[offset],
			Response: resp,
			Weight:   weight,
		})
	}
	return questions, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ExportCSV renders the CSV export as a document
func (t *Tabular) ExportCSV(a *model.Assessment) (*model.Document, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf, a); err != nil {
		return nil, err
	}
	return &model.Document{
		FileName:    FileName(a.Title, t.labels.FileSuffix, ".csv"),
		ContentType: model.ContentTypeCSV,
		Data:        buf.Bytes(),
	}, nil
}

// ExportXLSX renders the XLSX export as a document
func (t *Tabular) ExportXLSX(a *model.Assessment) (*model.Document, error) {
	var buf bytes.Buffer
	if err := t.WriteXLSX(&buf, a); err != nil {
		return nil, err
	}
	return &model.Document{
		FileName:    FileName(a.Title, t.labels.FileSuffix, ".xlsx"),
		ContentType: model.ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}
