package interfaces

import (
	"context"

	"github.com/secmon-lab/riskform/pkg/domain/model"
)

// LogoLoader fetches the logo image drawn in the report header
type LogoLoader interface {
	// Load returns the raw image bytes. Callers treat any error as "no logo".
	Load(ctx context.Context) ([]byte, error)
}

// ArtifactStorage persists generated documents
type ArtifactStorage interface {
	// Put stores data under name and returns where it was written (a file
	// path or a gs:// URL)
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Notifier announces a finished assessment
type Notifier interface {
	NotifyAssessment(ctx context.Context, assessment *model.Assessment, score model.RiskScore, location string) error
}
