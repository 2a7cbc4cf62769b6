package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultMaxQuestions is the number of question slots offered when not configured
	DefaultMaxQuestions = 10
	// MaxQuestionsLimit is the hard upper bound of question slots
	MaxQuestionsLimit = 100
)

// AssessmentID is a UUID-based identifier for Assessment
type AssessmentID string

// NewAssessmentID generates a new UUID v4 AssessmentID
func NewAssessmentID() AssessmentID {
	return AssessmentID(uuid.New().String())
}

// String returns the string representation of AssessmentID
func (id AssessmentID) String() string {
	return string(id)
}

// Assessment is one named risk review. Questions keep insertion order.
type Assessment struct {
	ID        AssessmentID
	Title     string
	Validator string
	Questions []Question
	CreatedAt time.Time
}

// AnsweredQuestions returns the questions with text, in insertion order
func (a *Assessment) AnsweredQuestions() []Question {
	answered := make([]Question, 0, len(a.Questions))
	for _, q := range a.Questions {
		if q.IsAnswered() {
			answered = append(answered, q)
		}
	}
	return answered
}

// Validate checks the assessment against the given question limit. A limit
// of zero means DefaultMaxQuestions. Having no answered question is not a
// validation error, scoring reports it with ErrNoQuestions.
func (a *Assessment) Validate(maxQuestions int) error {
	if maxQuestions == 0 {
		maxQuestions = DefaultMaxQuestions
	}
	if maxQuestions < 1 || maxQuestions > MaxQuestionsLimit {
		return goerr.Wrap(ErrInvalidMaxEntries, "invalid assessment", goerr.V(MaxQuestionsKey, maxQuestions))
	}

	if strings.TrimSpace(a.Title) == "" {
		return goerr.Wrap(ErrMissingTitle, "invalid assessment")
	}

	if len(a.Questions) > maxQuestions {
		return goerr.Wrap(ErrTooManyQuestions, "invalid assessment",
			goerr.V(MaxQuestionsKey, maxQuestions),
			goerr.V("count", len(a.Questions)))
	}

	for i, q := range a.Questions {
		if !q.IsAnswered() {
			continue
		}
		if err := q.Validate(); err != nil {
			return goerr.Wrap(err, "invalid assessment", goerr.V(QuestionIndexKey, i))
		}
	}

	return nil
}
