package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/secmon-lab/riskform/pkg/cli/config"
	"github.com/secmon-lab/riskform/pkg/utils/errutil"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	return run(ctx, args, version, os.Stdout)
}

func run(ctx context.Context, args []string, version string, w io.Writer) error {
	// A missing .env is the normal case
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Default().Warn("failed to load .env file", "error", err.Error())
	}

	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closer func()
	var flush func()

	var flags []cli.Flag
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "riskform",
		Usage:   "Weighted yes/no risk assessment scoring and reporting",
		Version: version,
		Flags:   flags,
		Writer:  w,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			fl, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			flush = fl

			logging.Default().Debug("Starting riskform", "logger", loggerCfg, "sentry", sentryCfg)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdScore(),
			cmdReport(),
			cmdExport(),
			cmdServe(),
			cmdMigrate(),
		},
	}

	// Runs last so the final error below still reaches the log file
	defer func() {
		if closer != nil {
			closer()
		}
	}()
	defer func() {
		if flush != nil {
			flush()
		}
	}()

	if err := app.Run(ctx, args); err != nil {
		return errutil.Handle(ctx, err, "failed to run app")
	}

	return nil
}
