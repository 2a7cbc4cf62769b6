package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/fireconf"
)

// RunForTest runs the application writing command output to w
func RunForTest(ctx context.Context, args []string, w io.Writer) error {
	return run(ctx, args, "test", w)
}

// IndexConfigForTest exposes the Firestore index layout
func IndexConfigForTest() *fireconf.Config {
	return getIndexConfig()
}

// LogIndexDiffForTest logs a fireconf diff the way migrate --dry-run does
func LogIndexDiffForTest(logger *slog.Logger, diff *fireconf.DiffResult) int {
	return logIndexDiff(logger, diff)
}
