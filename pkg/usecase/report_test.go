package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/secmon-lab/riskform/pkg/repository/memory"
	"github.com/secmon-lab/riskform/pkg/service/report"
	"github.com/secmon-lab/riskform/pkg/usecase"
	"github.com/secmon-lab/riskform/pkg/utils/async"
)

type mockLogo struct {
	data []byte
	err  error
}

func (m *mockLogo) Load(ctx context.Context) ([]byte, error) {
	return m.data, m.err
}

type mockStorage struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (m *mockStorage) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = append(m.names, name)
	return "mem://" + name, nil
}

type mockNotifier struct {
	mu       sync.Mutex
	calls    int
	location string
	err      error
}

func (m *mockNotifier) NotifyAssessment(ctx context.Context, assessment *model.Assessment, score model.RiskScore, location string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.location = location
	return m.err
}

func TestReportUseCase_GenerateReport(t *testing.T) {
	t.Run("renders PDF", func(t *testing.T) {
		uc := usecase.New(memory.New())

		doc, score, err := uc.Report.GenerateReport(context.Background(), usecase.NewTestAssessment("Vendor", 50, 20, 20), types.LanguageEnglish)
		gt.NoError(t, err).Required()
		gt.Value(t, doc.FileName).Equal("Vendor_analysis.pdf")
		gt.Value(t, doc.ContentType).Equal(model.ContentTypePDF)
		gt.Bool(t, bytes.HasPrefix(doc.Data, []byte("%PDF-"))).True()
		gt.Value(t, score.String()).Equal("30.00%")
	})

	t.Run("logo failure is not fatal", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithLogoLoader(&mockLogo{err: errors.New("404")}))

		doc, _, err := uc.Report.GenerateReport(context.Background(), usecase.NewTestAssessment("Vendor", 10), types.LanguagePortuguese)
		gt.NoError(t, err).Required()
		gt.Value(t, doc.FileName).Equal("Vendor_analise.pdf")
	})

	t.Run("no questions produces no document", func(t *testing.T) {
		uc := usecase.New(memory.New())

		doc, _, err := uc.Report.GenerateReport(context.Background(), &model.Assessment{Title: "Empty"}, types.LanguageEnglish)
		gt.Error(t, err).Is(model.ErrNoQuestions)
		gt.Value(t, doc).Nil()
	})
}

func TestReportUseCase_GenerateReportByID(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	created, _, err := uc.Assessment.CreateAssessment(ctx, usecase.NewTestAssessment("Stored", 40))
	gt.NoError(t, err).Required()

	doc, err := uc.Report.GenerateReportByID(ctx, created.ID, types.LanguageEnglish)
	gt.NoError(t, err).Required()
	gt.Value(t, doc.FileName).Equal("Stored_analysis.pdf")

	_, err = uc.Report.GenerateReportByID(ctx, model.NewAssessmentID(), types.LanguageEnglish)
	gt.Error(t, err).Is(usecase.ErrAssessmentNotFound)
}

func TestReportUseCase_PublishReport(t *testing.T) {
	t.Run("stores and notifies", func(t *testing.T) {
		store := &mockStorage{}
		notifier := &mockNotifier{}
		uc := usecase.New(memory.New(), usecase.WithStorage(store), usecase.WithNotifier(notifier))

		result, err := uc.Report.PublishReport(context.Background(), usecase.NewTestAssessment("Vendor", 80), types.LanguageEnglish)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Location).Equal("mem://Vendor_analysis.pdf")
		gt.Value(t, result.Score.Band).Equal(types.SeverityCritical)
		gt.Array(t, store.names).Length(1)
		gt.Number(t, notifier.calls).Equal(1)
		gt.Value(t, notifier.location).Equal("mem://Vendor_analysis.pdf")
	})

	t.Run("notification failure is not fatal", func(t *testing.T) {
		notifier := &mockNotifier{err: errors.New("channel_not_found")}
		uc := usecase.New(memory.New(), usecase.WithNotifier(notifier))

		result, err := uc.Report.PublishReport(context.Background(), usecase.NewTestAssessment("Vendor", 10), types.LanguageEnglish)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Location).Equal("")
		gt.Number(t, notifier.calls).Equal(1)
	})

	t.Run("storage failure fails the call", func(t *testing.T) {
		notifier := &mockNotifier{}
		uc := usecase.New(memory.New(), usecase.WithStorage(&mockStorage{err: errors.New("disk full")}), usecase.WithNotifier(notifier))

		_, err := uc.Report.PublishReport(context.Background(), usecase.NewTestAssessment("Vendor", 10), types.LanguageEnglish)
		gt.Value(t, err).NotNil()
		gt.Number(t, notifier.calls).Equal(0)
	})

	t.Run("dispatched notification", func(t *testing.T) {
		notifier := &mockNotifier{}
		dispatcher := &async.Dispatcher{}
		uc := usecase.New(memory.New(), usecase.WithNotifier(notifier), usecase.WithDispatcher(dispatcher))

		_, err := uc.Report.PublishReport(context.Background(), usecase.NewTestAssessment("Vendor", 10), types.LanguageEnglish)
		gt.NoError(t, err).Required()

		dispatcher.Wait()
		gt.Number(t, notifier.calls).Equal(1)
	})
}

func TestReportUseCase_PublishReportByID(t *testing.T) {
	ctx := context.Background()
	store := &mockStorage{}
	notifier := &mockNotifier{}
	uc := usecase.New(memory.New(), usecase.WithStorage(store), usecase.WithNotifier(notifier))

	created, _, err := uc.Assessment.CreateAssessment(ctx, usecase.NewTestAssessment("Stored", 40, 60))
	gt.NoError(t, err).Required()

	result, err := uc.Report.PublishReportByID(ctx, created.ID, types.LanguagePortuguese)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Location).Equal("mem://Stored_analise.pdf")
	gt.Value(t, result.Score.String()).Equal("50.00%")
	gt.Number(t, notifier.calls).Equal(1)

	_, err = uc.Report.PublishReportByID(ctx, model.NewAssessmentID(), types.LanguageEnglish)
	gt.Error(t, err).Is(usecase.ErrAssessmentNotFound)

	_, err = usecase.New(memory.New()).Report.PublishReportByID(ctx, created.ID, types.LanguageEnglish)
	gt.Error(t, err).Is(usecase.ErrStorageNotConfigured)
}

func TestReportUseCase_Export(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()
	a := usecase.NewTestAssessment("Vendor", 50, 20)

	t.Run("csv", func(t *testing.T) {
		doc, err := uc.Report.Export(ctx, a, types.ExportFormatCSV, false, types.LanguageEnglish)
		gt.NoError(t, err).Required()
		gt.Value(t, doc.FileName).Equal("Vendor_analysis.csv")

		questions, err := report.ReadCSV(bytes.NewReader(doc.Data))
		gt.NoError(t, err).Required()
		gt.Value(t, questions).Equal(a.AnsweredQuestions())
	})

	t.Run("xlsx with meta", func(t *testing.T) {
		doc, err := uc.Report.Export(ctx, a, types.ExportFormatXLSX, true, types.LanguageEnglish)
		gt.NoError(t, err).Required()
		gt.Value(t, doc.ContentType).Equal(model.ContentTypeXLSX)

		questions, err := report.ReadXLSX(bytes.NewReader(doc.Data))
		gt.NoError(t, err).Required()
		gt.Value(t, questions).Equal(a.AnsweredQuestions())
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := uc.Report.Export(ctx, a, types.ExportFormat("pdf"), false, types.LanguageEnglish)
		gt.Error(t, err).Is(usecase.ErrUnsupportedFormat)
	})

	t.Run("no questions", func(t *testing.T) {
		_, err := uc.Report.Export(ctx, &model.Assessment{Title: "Empty"}, types.ExportFormatCSV, false, types.LanguageEnglish)
		gt.Error(t, err).Is(model.ErrNoQuestions)
	})
}

func TestReportUseCase_AppendToWorkbook(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "register.xlsx")

	gt.NoError(t, uc.Report.AppendToWorkbook(ctx, usecase.NewTestAssessment("First", 10, 20), path, types.LanguageEnglish)).Required()
	gt.NoError(t, uc.Report.AppendToWorkbook(ctx, usecase.NewTestAssessment("Second", 30), path, types.LanguageEnglish)).Required()

	f, err := os.Open(path)
	gt.NoError(t, err).Required()
	defer f.Close()

	questions, err := report.ReadXLSX(f)
	gt.NoError(t, err).Required()
	gt.Array(t, questions).Length(3)
}

func TestReportUseCase_StoreDocument(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{FileName: "a.csv", ContentType: model.ContentTypeCSV, Data: []byte("x")}

	_, err := usecase.New(memory.New()).Report.StoreDocument(ctx, doc)
	gt.Error(t, err).Is(usecase.ErrStorageNotConfigured)

	store := &mockStorage{}
	location, err := usecase.New(memory.New(), usecase.WithStorage(store)).Report.StoreDocument(ctx, doc)
	gt.NoError(t, err).Required()
	gt.Value(t, location).Equal("mem://a.csv")
}
