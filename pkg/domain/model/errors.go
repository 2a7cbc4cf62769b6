package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrNoQuestions       = goerr.New("no answered questions, analysis was not performed")
	ErrInvalidWeight     = goerr.New("weight must be between 0 and 100")
	ErrInvalidResponse   = goerr.New("invalid response")
	ErrTooManyQuestions  = goerr.New("too many questions")
	ErrMissingTitle      = goerr.New("assessment title is required")
	ErrInvalidMaxEntries = goerr.New("max questions must be between 1 and 100")
)

// Context keys for error values
const (
	QuestionIndexKey = "question_index"
	WeightKey        = "weight"
	ResponseKey      = "response"
	MaxQuestionsKey  = "max_questions"
)
