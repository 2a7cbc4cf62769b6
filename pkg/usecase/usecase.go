package usecase

import (
	"github.com/secmon-lab/riskform/pkg/domain/interfaces"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/utils/async"
)

type UseCases struct {
	repo         interfaces.Repository
	logo         interfaces.LogoLoader
	storage      interfaces.ArtifactStorage
	notifier     interfaces.Notifier
	dispatcher   *async.Dispatcher
	maxQuestions int
	creator      string

	Assessment *AssessmentUseCase
	Report     *ReportUseCase
}

type Option func(*UseCases)

// WithLogoLoader sets the source of the report logo
func WithLogoLoader(logo interfaces.LogoLoader) Option {
	return func(uc *UseCases) {
		uc.logo = logo
	}
}

// WithStorage sets where generated reports are written
func WithStorage(storage interfaces.ArtifactStorage) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

// WithNotifier enables assessment notifications
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

// WithDispatcher sends notifications in the background instead of inline
func WithDispatcher(d *async.Dispatcher) Option {
	return func(uc *UseCases) {
		uc.dispatcher = d
	}
}

// WithMaxQuestions sets the question slot limit, model.DefaultMaxQuestions when zero
func WithMaxQuestions(n int) Option {
	return func(uc *UseCases) {
		uc.maxQuestions = n
	}
}

// WithCreator sets the creator written into PDF metadata
func WithCreator(creator string) Option {
	return func(uc *UseCases) {
		uc.creator = creator
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:         repo,
		maxQuestions: model.DefaultMaxQuestions,
		creator:      "riskform",
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Assessment = NewAssessmentUseCase(repo, uc.maxQuestions)
	uc.Report = &ReportUseCase{
		repo:       repo,
		logo:       uc.logo,
		storage:    uc.storage,
		notifier:   uc.notifier,
		dispatcher: uc.dispatcher,
		creator:    uc.creator,
	}

	return uc
}
