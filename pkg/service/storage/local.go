package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
	"github.com/secmon-lab/riskform/pkg/utils/safe"
)

// Local writes artifacts into a directory. Existing files with the same name
// are replaced.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
	}
	return &Local{dir: dir}, nil
}

// Put writes data to a temporary file and renames it into place, so readers
// never observe a partial document.
func (l *Local) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(l.dir, "."+name+".*")
	if err != nil {
		return "", goerr.Wrap(err, "failed to create temporary file", goerr.V("dir", l.dir))
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		safe.Close(ctx, tmp)
		safe.Remove(ctx, tmpPath)
		return "", goerr.Wrap(err, "failed to write artifact", goerr.V("path", tmpPath))
	}
	if err := tmp.Close(); err != nil {
		safe.Remove(ctx, tmpPath)
		return "", goerr.Wrap(err, "failed to close artifact", goerr.V("path", tmpPath))
	}

	dst := filepath.Join(l.dir, name)
	if err := os.Rename(tmpPath, dst); err != nil {
		safe.Remove(ctx, tmpPath)
		return "", goerr.Wrap(err, "failed to move artifact into place", goerr.V("path", dst))
	}

	logging.From(ctx).Debug("Stored artifact", "path", dst, "content_type", contentType, "size", len(data))
	return dst, nil
}
