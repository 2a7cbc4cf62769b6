package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/interfaces"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/secmon-lab/riskform/pkg/service/report"
	"github.com/secmon-lab/riskform/pkg/utils/async"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
)

type ReportUseCase struct {
	repo       interfaces.Repository
	logo       interfaces.LogoLoader
	storage    interfaces.ArtifactStorage
	notifier   interfaces.Notifier
	dispatcher *async.Dispatcher
	creator    string
}

// PublishResult is the outcome of PublishReport
type PublishResult struct {
	Document *model.Document
	Score    model.RiskScore
	// Location is where the document was stored, empty without storage
	Location string
}

// GenerateReport scores the answered questions and renders the PDF report.
// It fails with model.ErrNoQuestions, producing no document, when nothing was
// answered. An unavailable logo only produces a warning.
func (uc *ReportUseCase) GenerateReport(ctx context.Context, assessment *model.Assessment, lang types.Language) (*model.Document, model.RiskScore, error) {
	score, err := model.Score(assessment.AnsweredQuestions())
	if err != nil {
		return nil, model.RiskScore{}, goerr.Wrap(err, "failed to score assessment", goerr.V("title", assessment.Title))
	}

	assembler := report.New(
		report.WithLanguage(lang),
		report.WithCreator(uc.creator),
	)
	doc, err := assembler.Assemble(ctx, assessment, score, uc.loadLogo(ctx))
	if err != nil {
		return nil, model.RiskScore{}, goerr.Wrap(err, "failed to assemble report", goerr.V("title", assessment.Title))
	}

	logging.From(ctx).Info("Report generated",
		"title", assessment.Title,
		"file_name", doc.FileName,
		"pages", doc.Pages,
		"percentage", score.String(),
		"band", score.Band,
	)
	return doc, score, nil
}

// GenerateReportByID renders the report of a stored assessment
func (uc *ReportUseCase) GenerateReportByID(ctx context.Context, id model.AssessmentID, lang types.Language) (*model.Document, error) {
	assessment, err := getAssessment(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	doc, _, err := uc.GenerateReport(ctx, assessment, lang)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate report", goerr.V(AssessmentIDKey, id))
	}
	return doc, nil
}

// PublishReport generates the report, writes it to the configured storage and
// announces it. Notification failures are logged and never fail the call.
func (uc *ReportUseCase) PublishReport(ctx context.Context, assessment *model.Assessment, lang types.Language) (*PublishResult, error) {
	doc, score, err := uc.GenerateReport(ctx, assessment, lang)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{Document: doc, Score: score}

	if uc.storage != nil {
		location, err := uc.storage.Put(ctx, doc.FileName, doc.ContentType, doc.Data)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to store report", goerr.V("file_name", doc.FileName))
		}
		result.Location = location
	}

	uc.notify(ctx, assessment, score, result.Location)

	return result, nil
}

// PublishReportByID publishes the report of a stored assessment. Unlike
// PublishReport it requires a storage since the document is not returned to
// the caller.
func (uc *ReportUseCase) PublishReportByID(ctx context.Context, id model.AssessmentID, lang types.Language) (*PublishResult, error) {
	if uc.storage == nil {
		return nil, goerr.Wrap(ErrStorageNotConfigured, "cannot publish report", goerr.V(AssessmentIDKey, id))
	}

	assessment, err := getAssessment(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	result, err := uc.PublishReport(ctx, assessment, lang)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to publish report", goerr.V(AssessmentIDKey, id))
	}
	return result, nil
}

func (uc *ReportUseCase) notify(ctx context.Context, assessment *model.Assessment, score model.RiskScore, location string) {
	if uc.notifier == nil {
		return
	}

	send := func(ctx context.Context) error {
		if err := uc.notifier.NotifyAssessment(ctx, assessment, score, location); err != nil {
			logging.From(ctx).Warn("Failed to send assessment notification",
				"title", assessment.Title,
				"error", err.Error(),
			)
		}
		return nil
	}

	if uc.dispatcher != nil {
		uc.dispatcher.Dispatch(ctx, send)
		return
	}
	_ = send(ctx)
}

func (uc *ReportUseCase) loadLogo(ctx context.Context) []byte {
	if uc.logo == nil {
		return nil
	}

	data, err := uc.logo.Load(ctx)
	if err != nil {
		logging.From(ctx).Warn("Logo is unavailable, generating report without logo", "error", err.Error())
		return nil
	}
	return data
}

// Export renders the answered questions as CSV or XLSX
func (uc *ReportUseCase) Export(ctx context.Context, assessment *model.Assessment, format types.ExportFormat, includeMeta bool, lang types.Language) (*model.Document, error) {
	if len(assessment.AnsweredQuestions()) == 0 {
		return nil, goerr.Wrap(model.ErrNoQuestions, "nothing to export", goerr.V("title", assessment.Title))
	}

	tab := report.NewTabular(
		report.WithTabularLanguage(lang),
		report.WithMeta(includeMeta),
	)

	var (
		doc *model.Document
		err error
	)
	switch format {
	case types.ExportFormatCSV:
		doc, err = tab.ExportCSV(assessment)
	case types.ExportFormatXLSX:
		doc, err = tab.ExportXLSX(assessment)
	default:
		return nil, goerr.Wrap(ErrUnsupportedFormat, "failed to export assessment", goerr.V(FormatKey, format))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to export assessment", goerr.V(FormatKey, format), goerr.V("title", assessment.Title))
	}
	return doc, nil
}

// ExportByID exports a stored assessment
func (uc *ReportUseCase) ExportByID(ctx context.Context, id model.AssessmentID, format types.ExportFormat, includeMeta bool, lang types.Language) (*model.Document, error) {
	assessment, err := getAssessment(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	return uc.Export(ctx, assessment, format, includeMeta, lang)
}

// StoreDocument writes doc to the configured storage
func (uc *ReportUseCase) StoreDocument(ctx context.Context, doc *model.Document) (string, error) {
	if uc.storage == nil {
		return "", goerr.Wrap(ErrStorageNotConfigured, "cannot store document", goerr.V("file_name", doc.FileName))
	}
	location, err := uc.storage.Put(ctx, doc.FileName, doc.ContentType, doc.Data)
	if err != nil {
		return "", goerr.Wrap(err, "failed to store document", goerr.V("file_name", doc.FileName))
	}
	return location, nil
}

// AppendToWorkbook appends the answered questions to a local XLSX register,
// creating it when missing
func (uc *ReportUseCase) AppendToWorkbook(ctx context.Context, assessment *model.Assessment, path string, lang types.Language) error {
	if len(assessment.AnsweredQuestions()) == 0 {
		return goerr.Wrap(model.ErrNoQuestions, "nothing to append", goerr.V("title", assessment.Title))
	}

	tab := report.NewTabular(report.WithTabularLanguage(lang))
	if err := tab.AppendXLSX(path, assessment); err != nil {
		return goerr.Wrap(err, "failed to append to workbook", goerr.V("path", path))
	}

	logging.From(ctx).Info("Assessment appended to workbook", "path", path, "title", assessment.Title)
	return nil
}
