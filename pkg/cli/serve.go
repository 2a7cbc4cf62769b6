package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/cli/config"
	httpctrl "github.com/secmon-lab/riskform/pkg/controller/http"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/secmon-lab/riskform/pkg/usecase"
	"github.com/secmon-lab/riskform/pkg/utils/async"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var addr string
	var lang string
	var maxQuestions int
	var repoCfg config.Repository
	var logoCfg config.Logo
	var storageCfg config.Storage
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RISKFORM_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "default-lang",
			Usage:       "Report language when a request has no lang parameter (en, pt)",
			Value:       types.LanguageEnglish.String(),
			Sources:     cli.EnvVars("RISKFORM_DEFAULT_LANG"),
			Destination: &lang,
		},
		&cli.IntFlag{
			Name:        "max-questions",
			Usage:       "Maximum number of question slots per assessment",
			Sources:     cli.EnvVars("RISKFORM_MAX_QUESTIONS"),
			Destination: &maxQuestions,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, logoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			defaultLang, err := types.ParseLanguage(lang)
			if err != nil {
				return goerr.Wrap(config.ErrInvalidConfig, "invalid --default-lang", goerr.V("lang", lang))
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			storage, closeStorage, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closeStorage()

			logo, err := logoCfg.Configure()
			if err != nil {
				return err
			}

			notifier, err := slackCfg.Configure(defaultLang)
			if err != nil {
				return err
			}

			dispatcher := &async.Dispatcher{}
			ucOpts := []usecase.Option{
				usecase.WithStorage(storage),
				usecase.WithDispatcher(dispatcher),
				usecase.WithMaxQuestions(maxQuestions),
			}
			if logo != nil {
				ucOpts = append(ucOpts, usecase.WithLogoLoader(logo))
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logging.Default().Info("Slack notification enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc.Assessment, uc.Report, httpctrl.WithDefaultLanguage(defaultLang)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "repository", repoCfg)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				// Pending notifications
				dispatcher.Wait()

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
