package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/cli/config"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/repository/memory"
	"github.com/secmon-lab/riskform/pkg/usecase"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const noQuestionsMessage = "No questions answered, analysis was not performed"

// skipWhenEmpty turns ErrNoQuestions into a user notice. Having nothing to
// analyze is not a failure of the command.
func skipWhenEmpty(c *cli.Command, err error) error {
	if !errors.Is(err, model.ErrNoQuestions) {
		return err
	}
	logging.Default().Warn(noQuestionsMessage)
	fmt.Fprintln(c.Root().Writer, noQuestionsMessage) //nolint:errcheck
	return nil
}

func cmdScore() *cli.Command {
	var assessmentCfg config.Assessment

	return &cli.Command{
		Name:  "score",
		Usage: "Compute the risk percentage of an assessment file",
		Flags: assessmentCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			assessment, file, lang, err := assessmentCfg.Configure()
			if err != nil {
				return err
			}

			uc := usecase.New(memory.New(), usecase.WithMaxQuestions(file.MaxQuestions))
			score, err := uc.Assessment.Evaluate(ctx, assessment)
			if err != nil {
				if err := skipWhenEmpty(c, err); err != nil {
					return goerr.Wrap(err, "failed to score assessment")
				}
				return nil
			}

			labels := model.LabelsFor(lang)
			lines := []string{
				fmt.Sprintf("%s: %s", labels.Assessment, assessment.Title),
				fmt.Sprintf("%s: %s", labels.Validator, assessment.Validator),
				fmt.Sprintf("%s: %d", labels.Question, score.QuestionCount),
				fmt.Sprintf("%s: %s", labels.RiskPercentage, score.String()),
				labels.Narrative(score.Band),
			}
			for _, line := range lines {
				fmt.Fprintln(c.Root().Writer, line) //nolint:errcheck
			}
			return nil
		},
	}
}
