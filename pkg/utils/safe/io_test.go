package safe_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskform/pkg/utils/safe"
)

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	t.Run("closes", func(t *testing.T) {
		c := &closer{}
		safe.Close(ctx, c)
		gt.B(t, c.closed).True()
	})

	t.Run("swallows close error", func(t *testing.T) {
		c := &closer{err: errors.New("boom")}
		safe.Close(ctx, c)
		gt.B(t, c.closed).True()
	})

	t.Run("nil closer", func(t *testing.T) {
		safe.Close(ctx, nil)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "partial.pdf")
	gt.NoError(t, os.WriteFile(path, []byte("x"), 0o600)).Required()

	safe.Remove(ctx, path)
	_, err := os.Stat(path)
	gt.B(t, errors.Is(err, os.ErrNotExist)).True()

	// already removed
	safe.Remove(ctx, path)
	safe.Remove(ctx, "")
}
