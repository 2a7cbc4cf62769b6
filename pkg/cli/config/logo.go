package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/interfaces"
	"github.com/secmon-lab/riskform/pkg/service/logo"
	"github.com/urfave/cli/v3"
)

// Logo holds CLI flags for the report logo
type Logo struct {
	path    string
	url     string
	timeout time.Duration
}

func (x *Logo) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "logo-path",
			Usage:       "Local logo image (PNG, JPEG or GIF)",
			Category:    "Logo",
			Sources:     cli.EnvVars("RISKFORM_LOGO_PATH"),
			Destination: &x.path,
		},
		&cli.StringFlag{
			Name:        "logo-url",
			Usage:       "Remote logo image URL",
			Category:    "Logo",
			Sources:     cli.EnvVars("RISKFORM_LOGO_URL"),
			Destination: &x.url,
		},
		&cli.DurationFlag{
			Name:        "logo-timeout",
			Usage:       "Timeout of the remote logo fetch",
			Category:    "Logo",
			Value:       logo.DefaultTimeout,
			Sources:     cli.EnvVars("RISKFORM_LOGO_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

func (x Logo) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.String("url", x.url),
		slog.Duration("timeout", x.timeout),
	)
}

// Configure returns the logo loader, or nil when no logo is configured
func (x *Logo) Configure() (interfaces.LogoLoader, error) {
	switch {
	case x.path != "" && x.url != "":
		return nil, goerr.Wrap(ErrConflictingFlags, "set either --logo-path or --logo-url")
	case x.path != "":
		return logo.New(x.path), nil
	case x.url != "":
		opts := []logo.Option{}
		if x.timeout > 0 {
			opts = append(opts, logo.WithTimeout(x.timeout))
		}
		return logo.New(x.url, opts...), nil
	default:
		return nil, nil
	}
}
