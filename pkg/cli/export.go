package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/cli/config"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/secmon-lab/riskform/pkg/repository/memory"
	"github.com/secmon-lab/riskform/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var assessmentCfg config.Assessment
	var storageCfg config.Storage
	var format string
	var includeMeta bool
	var appendTo string

	var flags []cli.Flag
	flags = append(flags, assessmentCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Export format (csv, xlsx)",
			Value:       types.ExportFormatCSV.String(),
			Sources:     cli.EnvVars("RISKFORM_EXPORT_FORMAT"),
			Destination: &format,
		},
		&cli.BoolFlag{
			Name:        "include-meta",
			Usage:       "Add assessment and validator columns",
			Destination: &includeMeta,
		},
		&cli.StringFlag{
			Name:        "append-to",
			Usage:       "Append the rows to a local XLSX workbook instead of writing a new file",
			Destination: &appendTo,
		},
	)

	return &cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Export the questions of an assessment file as CSV or XLSX",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			assessment, file, lang, err := assessmentCfg.Configure()
			if err != nil {
				return err
			}

			uc := usecase.New(memory.New(), usecase.WithMaxQuestions(file.MaxQuestions))
			if _, err := uc.Assessment.Evaluate(ctx, assessment); err != nil {
				if err := skipWhenEmpty(c, err); err != nil {
					return goerr.Wrap(err, "invalid assessment")
				}
				return nil
			}

			if appendTo != "" {
				if err := uc.Report.AppendToWorkbook(ctx, assessment, appendTo, lang); err != nil {
					return err
				}
				fmt.Fprintln(c.Root().Writer, appendTo) //nolint:errcheck
				return nil
			}

			exportFormat, err := types.ParseExportFormat(format)
			if err != nil {
				return goerr.Wrap(err, "invalid --format")
			}

			storage, closeStorage, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer closeStorage()

			uc = usecase.New(memory.New(),
				usecase.WithStorage(storage),
				usecase.WithMaxQuestions(file.MaxQuestions),
			)
			doc, err := uc.Report.Export(ctx, assessment, exportFormat, includeMeta, lang)
			if err != nil {
				return goerr.Wrap(err, "failed to export assessment")
			}

			location, err := uc.Report.StoreDocument(ctx, doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, location) //nolint:errcheck
			return nil
		},
	}
}
