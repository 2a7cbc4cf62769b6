package interfaces

import "errors"

// ErrNotFound is wrapped by every repository backend when an entity does not exist
var ErrNotFound = errors.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	Assessment() AssessmentRepository

	// Close releases backend resources
	Close() error
}
