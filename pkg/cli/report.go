package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/cli/config"
	"github.com/secmon-lab/riskform/pkg/repository/memory"
	"github.com/secmon-lab/riskform/pkg/usecase"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdReport() *cli.Command {
	var assessmentCfg config.Assessment
	var logoCfg config.Logo
	var storageCfg config.Storage
	var slackCfg config.Slack

	var flags []cli.Flag
	flags = append(flags, assessmentCfg.Flags()...)
	flags = append(flags, logoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Generate the PDF risk report of an assessment file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			assessment, file, lang, err := assessmentCfg.Configure()
			if err != nil {
				return err
			}

			logo, err := logoCfg.Configure()
			if err != nil {
				return err
			}

			storage, closeStorage, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closeStorage()

			notifier, err := slackCfg.Configure(lang)
			if err != nil {
				return err
			}

			opts := []usecase.Option{
				usecase.WithStorage(storage),
				usecase.WithMaxQuestions(file.MaxQuestions),
			}
			if logo != nil {
				opts = append(opts, usecase.WithLogoLoader(logo))
			}
			if notifier != nil {
				opts = append(opts, usecase.WithNotifier(notifier))
			}
			uc := usecase.New(memory.New(), opts...)

			if _, err := uc.Assessment.Evaluate(ctx, assessment); err != nil {
				if err := skipWhenEmpty(c, err); err != nil {
					return goerr.Wrap(err, "invalid assessment")
				}
				return nil
			}

			result, err := uc.Report.PublishReport(ctx, assessment, lang)
			if err != nil {
				return goerr.Wrap(err, "failed to publish report")
			}

			logging.Default().Info("Report published",
				"title", assessment.Title,
				"percentage", result.Score.String(),
				"band", result.Score.Band,
				"location", result.Location,
				"slack", slackCfg,
			)
			fmt.Fprintln(c.Root().Writer, result.Location) //nolint:errcheck
			return nil
		},
	}
}
