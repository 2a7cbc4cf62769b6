package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/interfaces"
	"github.com/secmon-lab/riskform/pkg/domain/types"
	"github.com/secmon-lab/riskform/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for assessment notifications
type Slack struct {
	botToken string `masq:"secret"`
	channel  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for posting summaries)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("RISKFORM_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID receiving assessment summaries",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("RISKFORM_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// IsConfigured reports whether notifications are enabled
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" || x.channel != ""
}

// Configure returns the notifier, or nil when Slack is not configured. Setting
// only one of token and channel is an error.
func (x *Slack) Configure(lang types.Language) (interfaces.Notifier, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.botToken == "" || x.channel == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "both --slack-bot-token and --slack-channel are required")
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}

	notifier, err := slack.NewNotifier(svc, x.channel, slack.WithLanguage(lang))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	return notifier, nil
}
