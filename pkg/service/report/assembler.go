package report

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
)

// Page geometry in millimeters
const (
	pageMargin      = 10.0
	autoBreakMargin = 15.0
	lineHeight      = 10.0

	logoX     = 10.0
	logoY     = 8.0
	logoWidth = 30.0

	questionColWidth = 80.0
	responseColWidth = 40.0
	weightColWidth   = 40.0
)

const logoImageName = "logo"

// Assembler renders an assessment and its score into a PDF document
type Assembler struct {
	labels     model.Labels
	creator    string
	compressed bool
}

type Option func(*Assembler)

// WithLanguage selects the report wording
func WithLanguage(lang types.Language) Option {
	return func(a *Assembler) {
		a.labels = model.LabelsFor(lang)
	}
}

// WithCreator sets the PDF creator metadata
func WithCreator(creator string) Option {
	return func(a *Assembler) {
		a.creator = creator
	}
}

// WithCompression toggles content stream compression, enabled by default
func WithCompression(enabled bool) Option {
	return func(a *Assembler) {
		a.compressed = enabled
	}
}

func New(opts ...Option) *Assembler {
	a := &Assembler{
		labels:     model.LabelsFor(types.LanguageEnglish),
		creator:    "riskform",
		compressed: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Labels returns the wording used by the assembler
func (a *Assembler) Labels() model.Labels {
	return a.labels
}

func (a *Assembler) columns() []Column {
	return []Column{
		{Width: questionColWidth, Align: "L"},
		{Width: responseColWidth, Align: "L"},
		{Width: weightColWidth, Align: "L"},
	}
}

// Assemble renders the report. Only answered questions are listed, in their
// insertion order. A logo that cannot be decoded is skipped with a warning and
// never fails the report.
func (a *Assembler) Assemble(ctx context.Context, assessment *model.Assessment, score model.RiskScore, logo []byte) (*model.Document, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, autoBreakMargin)
	pdf.SetCompression(a.compressed)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(assessment.Title, true)
	pdf.SetAuthor(assessment.Validator, true)
	pdf.SetCreator(a.creator, true)
	if !assessment.CreatedAt.IsZero() {
		pdf.SetCreationDate(assessment.CreatedAt)
		pdf.SetModificationDate(assessment.CreatedAt)
	}

	pdf.AddPage()

	if len(logo) > 0 {
		a.drawLogo(ctx, pdf, logo)
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, lineHeight, tr(latin1(a.labels.Title+": "+assessment.Title)), "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, lineHeight, tr(latin1(a.labels.ValidatedBy+": "+assessment.Validator)), "", 1, "", false, 0, "")
	pdf.Ln(lineHeight)

	pdf.SetFont("Arial", "", 10)
	a.drawTable(pdf, tr, assessment.AnsweredQuestions())

	pdf.Ln(lineHeight)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, lineHeight, tr(latin1(a.labels.RiskPercentage+": "+score.String())), "", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, lineHeight, tr(latin1(a.labels.Narrative(score.Band))), "", "", false)

	pages := pdf.PageNo()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, goerr.Wrap(err, "failed to render PDF", goerr.V("title", assessment.Title))
	}

	return &model.Document{
		FileName:    FileName(assessment.Title, a.labels.FileSuffix, ".pdf"),
		ContentType: model.ContentTypePDF,
		Data:        buf.Bytes(),
		Pages:       pages,
	}, nil
}

func (a *Assembler) drawLogo(ctx context.Context, pdf *fpdf.Fpdf, logo []byte) {
	logger := logging.From(ctx)

	imageType, err := imageTypeOf(logo)
	if err != nil {
		logger.Warn("Unreadable logo, rendering without logo", "error", err.Error())
		return
	}

	// fpdf panics on some malformed streams that pass the header check
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Failed to decode logo, rendering without logo", "panic", r)
			pdf.ClearError()
		}
	}()

	opt := fpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(logoImageName, opt, bytes.NewReader(logo))
	if pdf.Err() {
		logger.Warn("Failed to decode logo, rendering without logo", "error", pdf.Error())
		pdf.ClearError()
		return
	}

	pdf.ImageOptions(logoImageName, logoX, logoY, logoWidth, 0, false, opt, 0, "")
}

// drawTable draws header and rows from PlanTable. Auto page break is off while
// drawing because the plan already decided where pages end.
func (a *Assembler) drawTable(pdf *fpdf.Fpdf, tr func(string) string, questions []model.Question) {
	cols := a.columns()
	header := []string{latin1(a.labels.Question), latin1(a.labels.Response), latin1(a.labels.Weight)}

	rows := make([][]string, len(questions))
	for i, q := range questions {
		rows[i] = []string{
			latin1(q.Text),
			latin1(a.labels.ResponseText(q.Response)),
			strconv.Itoa(q.Weight),
		}
	}

	_, pageHeight := pdf.GetPageSize()
	geo := TableGeometry{
		LineHeight: lineHeight,
		PageTop:    pageMargin,
		PageBottom: pageHeight - autoBreakMargin,
	}

	startPage := pdf.PageNo()
	plan := PlanTable(pdf, cols, header, rows, pdf.GetY(), geo)

	pdf.SetAutoPageBreak(false, 0)
	for _, row := range plan.Rows {
		for pdf.PageNo() < startPage+row.Page {
			pdf.AddPage()
		}

		x := pageMargin
		for i, col := range cols {
			align := col.Align
			if row.Header {
				align = "C"
			}
			pdf.Rect(x, row.Y, col.Width, row.Height, "D")
			for j, line := range row.Cells[i] {
				pdf.SetXY(x, row.Y+float64(j)*lineHeight)
				pdf.CellFormat(col.Width, lineHeight, tr(line), "", 0, align, false, 0, "")
			}
			x += col.Width
		}
	}
	pdf.SetAutoPageBreak(true, autoBreakMargin)

	for pdf.PageNo() < startPage+plan.EndPage {
		pdf.AddPage()
	}
	pdf.SetXY(pageMargin, plan.EndY)
}

// imageTypeOf decodes the image header and returns the fpdf image type
func imageTypeOf(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", goerr.Wrap(err, "failed to decode logo header")
	}

	switch format {
	case "png":
		return "PNG", nil
	case "jpeg":
		return "JPG", nil
	case "gif":
		return "GIF", nil
	default:
		return "", goerr.New("unsupported logo format", goerr.V("format", format))
	}
}
