package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/slack-go/slack"
)

const headerMaxBytes = 150

// Notifier posts an assessment summary to a fixed channel
type Notifier struct {
	svc     Service
	channel string
	labels  model.Labels
}

// NotifierOption configures Notifier
type NotifierOption func(*Notifier)

// WithLanguage selects the summary wording
func WithLanguage(lang types.Language) NotifierOption {
	return func(n *Notifier) {
		n.labels = model.LabelsFor(lang)
	}
}

func NewNotifier(svc Service, channel string, opts ...NotifierOption) (*Notifier, error) {
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	n := &Notifier{
		svc:     svc,
		channel: channel,
		labels:  model.LabelsFor(types.LanguageEnglish),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// NotifyAssessment posts the summary. location is where the report was stored
// and is omitted from the message when empty.
func (n *Notifier) NotifyAssessment(ctx context.Context, assessment *model.Assessment, score model.RiskScore, location string) error {
	blocks := BuildAssessmentBlocks(n.labels, assessment, score, location)
	fallback := fmt.Sprintf("%s: %s (%s)", n.labels.Title, assessment.Title, score.String())

	if _, err := n.svc.PostMessage(ctx, n.channel, blocks, fallback); err != nil {
		return goerr.Wrap(err, "failed to notify assessment",
			goerr.V("assessment_id", assessment.ID), goerr.V("channel", n.channel))
	}
	return nil
}

// BuildAssessmentBlocks constructs Block Kit blocks for an assessment summary.
func BuildAssessmentBlocks(labels model.Labels, assessment *model.Assessment, score model.RiskScore, location string) []slack.Block {
	header := truncateToMaxBytes(labels.Title+": "+assessment.Title, headerMaxBytes)

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, header, true, false),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%s*\n%s", labels.Validator, assessment.Validator), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%s*\n%s %s", labels.RiskPercentage, score.Band.Emoji(), score.String()), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, labels.Narrative(score.Band), false, false),
			nil, nil,
		),
	}

	contextParts := []string{fmt.Sprintf("%s: %d", labels.Question, score.QuestionCount)}
	if location != "" {
		contextParts = append(contextParts, fmt.Sprintf(":page_facing_up: `%s`", location))
	}
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, strings.Join(contextParts, "  |  "), false, false),
	))

	return blocks
}
