package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/secmon-lab/riskform/pkg/usecase"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
)

// AssessmentUseCase is the assessment API consumed by the server
type AssessmentUseCase interface {
	CreateAssessment(ctx context.Context, assessment *model.Assessment) (*model.Assessment, model.RiskScore, error)
	GetAssessment(ctx context.Context, id model.AssessmentID) (*model.Assessment, model.RiskScore, error)
	ListAssessments(ctx context.Context, validator string) ([]*model.Assessment, error)
	DeleteAssessment(ctx context.Context, id model.AssessmentID) error
}

// ReportUseCase is the document API consumed by the server
type ReportUseCase interface {
	GenerateReportByID(ctx context.Context, id model.AssessmentID, lang types.Language) (*model.Document, error)
	ExportByID(ctx context.Context, id model.AssessmentID, format types.ExportFormat, includeMeta bool, lang types.Language) (*model.Document, error)
	PublishReportByID(ctx context.Context, id model.AssessmentID, lang types.Language) (*usecase.PublishResult, error)
}

var (
	_ AssessmentUseCase = (*usecase.AssessmentUseCase)(nil)
	_ ReportUseCase     = (*usecase.ReportUseCase)(nil)
)

type Server struct {
	router       *chi.Mux
	assessmentUC AssessmentUseCase
	reportUC     ReportUseCase
	lang         types.Language
}

type Options func(*Server)

// WithDefaultLanguage sets the language used when a request has no lang parameter
func WithDefaultLanguage(lang types.Language) Options {
	return func(s *Server) {
		s.lang = lang.Normalize()
	}
}

func New(assessmentUC AssessmentUseCase, reportUC ReportUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:       r,
		assessmentUC: assessmentUC,
		reportUC:     reportUC,
		lang:         types.LanguageEnglish,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/assessments", func(r chi.Router) {
		r.Post("/", s.createAssessment)
		r.Get("/", s.listAssessments)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getAssessment)
			r.Delete("/", s.deleteAssessment)
			r.Get("/score", s.getScore)
			r.Get("/report.pdf", s.getReport)
			r.Post("/publish", s.publishReport)
			r.Get("/export.{format}", s.getExport)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok")) //nolint:errcheck // header already committed
}
