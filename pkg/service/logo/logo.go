package logo

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/utils/safe"
	"golang.org/x/sync/singleflight"
	"gopkg.in/resty.v1"
)

const (
	// DefaultTimeout bounds a remote logo fetch
	DefaultTimeout = 10 * time.Second
	// DefaultMaxSize is the largest logo accepted, in bytes
	DefaultMaxSize = 5 << 20
)

var (
	ErrNoLocation   = goerr.New("logo location is empty")
	ErrUnavailable  = goerr.New("logo is unavailable")
	ErrLogoTooLarge = goerr.New("logo exceeds size limit")
)

// Loader reads a logo from a local file or an http(s) URL. Concurrent loads
// of the same location share one read.
type Loader struct {
	location string
	maxSize  int
	client   *resty.Client
	group    singleflight.Group
}

type Option func(*Loader)

// WithTimeout sets the timeout of remote fetches
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		l.client.SetTimeout(timeout)
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.client = resty.NewWithClient(client)
	}
}

// WithMaxSize sets the largest accepted logo in bytes
func WithMaxSize(size int) Option {
	return func(l *Loader) {
		l.maxSize = size
	}
}

func New(location string, opts ...Option) *Loader {
	l := &Loader{
		location: strings.TrimSpace(location),
		maxSize:  DefaultMaxSize,
		client:   resty.NewWithClient(&http.Client{Timeout: DefaultTimeout}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Location returns the configured file path or URL
func (l *Loader) Location() string {
	return l.location
}

// IsRemote reports whether the logo is fetched over HTTP
func (l *Loader) IsRemote() bool {
	return isURL(l.location)
}

// Load returns the logo bytes. The content is not validated as an image here,
// the report assembler decides whether it can be drawn.
func (l *Loader) Load(ctx context.Context) ([]byte, error) {
	if l.location == "" {
		return nil, ErrNoLocation
	}

	v, err, _ := l.group.Do(l.location, func() (any, error) {
		if l.IsRemote() {
			return l.fetch(ctx)
		}
		return l.read()
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (l *Loader) read() ([]byte, error) {
	info, err := os.Stat(l.location)
	if err != nil {
		return nil, goerr.Wrap(ErrUnavailable, "failed to stat logo file",
			goerr.V("path", l.location), goerr.V("cause", err.Error()))
	}
	if info.Size() > int64(l.maxSize) {
		return nil, goerr.Wrap(ErrLogoTooLarge, "logo file is too large",
			goerr.V("path", l.location), goerr.V("size", info.Size()))
	}

	data, err := os.ReadFile(l.location)
	if err != nil {
		return nil, goerr.Wrap(ErrUnavailable, "failed to read logo file",
			goerr.V("path", l.location), goerr.V("cause", err.Error()))
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	resp, err := l.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(l.location)
	if err != nil {
		return nil, goerr.Wrap(ErrUnavailable, "failed to fetch logo",
			goerr.V("url", l.location), goerr.V("cause", err.Error()))
	}
	defer safe.Close(ctx, resp.RawBody())
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, goerr.Wrap(ErrUnavailable, "unexpected logo response",
			goerr.V("url", l.location), goerr.V("status", resp.StatusCode()))
	}

	// One byte past the limit is enough to tell an oversized body apart
	body, err := io.ReadAll(io.LimitReader(resp.RawBody(), int64(l.maxSize)+1))
	if err != nil {
		return nil, goerr.Wrap(ErrUnavailable, "failed to read logo response",
			goerr.V("url", l.location), goerr.V("cause", err.Error()))
	}
	if len(body) > l.maxSize {
		return nil, goerr.Wrap(ErrLogoTooLarge, "logo response is too large",
			goerr.V("url", l.location), goerr.V("limit", l.maxSize))
	}
	return body, nil
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
