package config

import (
	"context"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/interfaces"
	"github.com/secmon-lab/riskform/pkg/service/storage"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds the CLI flag selecting where generated documents are written
type Storage struct {
	output string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output directory or gs://bucket/prefix",
			Category:    "Storage",
			Value:       ".",
			Sources:     cli.EnvVars("RISKFORM_OUTPUT"),
			Destination: &x.output,
		},
	}
}

// Configure builds the storage. The returned closer releases the Cloud
// Storage client and is a no-op for local directories.
func (x *Storage) Configure(ctx context.Context) (interfaces.ArtifactStorage, func(), error) {
	target, err := storage.ParseTarget(x.output)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "invalid output", goerr.V("output", x.output))
	}

	s, err := storage.New(ctx, target)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize storage", goerr.V("output", x.output))
	}

	closer := func() {}
	if c, ok := s.(io.Closer); ok {
		closer = func() {
			if err := c.Close(); err != nil {
				logging.Default().Error("failed to close storage", "error", err.Error())
			}
		}
	}

	if target.IsGCS() {
		logging.Default().Info("Writing documents to Cloud Storage", "bucket", target.Bucket, "prefix", target.Prefix)
	} else {
		logging.Default().Debug("Writing documents to local directory", "dir", target.Dir)
	}
	return s, closer, nil
}
