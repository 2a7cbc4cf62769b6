package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrAssessmentNotFound = errors.New("assessment not found")

	// Input errors
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// Configuration errors
	ErrStorageNotConfigured = errors.New("artifact storage is not configured")
)

// Context keys for error values
const (
	AssessmentIDKey = "assessment_id"
	FormatKey       = "format"
)
