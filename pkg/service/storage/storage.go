package storage

import (
	"context"
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/interfaces"
)

const gcsScheme = "gs://"

var (
	ErrInvalidName   = goerr.New("invalid artifact name")
	ErrInvalidTarget = goerr.New("invalid storage target")
)

// Target is a parsed output location
type Target struct {
	// Dir is set for local directories
	Dir string
	// Bucket and Prefix are set for gs://bucket/prefix targets
	Bucket string
	Prefix string
}

// IsGCS reports whether the target is a Cloud Storage location
func (t Target) IsGCS() bool {
	return t.Bucket != ""
}

// ParseTarget parses a local directory or a gs://bucket/prefix URL. An empty
// string means the current directory.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, gcsScheme) {
		if s == "" {
			s = "."
		}
		return Target{Dir: s}, nil
	}

	rest := strings.TrimPrefix(s, gcsScheme)
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Target{}, goerr.Wrap(ErrInvalidTarget, "bucket name is empty", goerr.V("target", s))
	}
	return Target{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// New builds the storage for target
func New(ctx context.Context, target Target) (interfaces.ArtifactStorage, error) {
	if target.IsGCS() {
		return NewGCS(ctx, target.Bucket, target.Prefix)
	}
	return NewLocal(target.Dir)
}

// validateName rejects names that could escape the storage root
func validateName(name string) error {
	if name == "" || name != path.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return goerr.Wrap(ErrInvalidName, "artifact name must be a plain file name", goerr.V("name", name))
	}
	return nil
}
