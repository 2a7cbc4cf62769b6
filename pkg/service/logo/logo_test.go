package logo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskform/pkg/service/logo"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	gt.NoError(t, os.WriteFile(path, pngHeader, 0o600)).Required()

	l := logo.New(path)
	gt.B(t, l.IsRemote()).False()

	data, err := l.Load(context.Background())
	gt.NoError(t, err).Required()
	gt.V(t, data).Equal(pngHeader)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	large := filepath.Join(dir, "large.png")
	gt.NoError(t, os.WriteFile(large, make([]byte, 64), 0o600)).Required()

	tests := []struct {
		name   string
		loader *logo.Loader
		want   error
	}{
		{name: "empty location", loader: logo.New("  "), want: logo.ErrNoLocation},
		{name: "missing file", loader: logo.New(filepath.Join(dir, "missing.png")), want: logo.ErrUnavailable},
		{name: "too large", loader: logo.New(large, logo.WithMaxSize(10)), want: logo.ErrLogoTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Load(context.Background())
			gt.Error(t, err).Is(tt.want)
		})
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logo.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngHeader)
		case "/endless.png":
			// streamed without Content-Length
			chunk := make([]byte, 1024)
			for i := 0; i < 1024; i++ {
				if _, err := w.Write(chunk); err != nil {
					return
				}
				w.(http.Flusher).Flush()
			}
		case "/slow.png":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write(pngHeader)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("success", func(t *testing.T) {
		l := logo.New(srv.URL + "/logo.png")
		gt.B(t, l.IsRemote()).True()

		data, err := l.Load(context.Background())
		gt.NoError(t, err).Required()
		gt.V(t, data).Equal(pngHeader)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := logo.New(srv.URL + "/missing.png").Load(context.Background())
		gt.Error(t, err).Is(logo.ErrUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		l := logo.New(srv.URL+"/slow.png", logo.WithTimeout(20*time.Millisecond))
		_, err := l.Load(context.Background())
		gt.Error(t, err).Is(logo.ErrUnavailable)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := logo.New(srv.URL+"/logo.png", logo.WithMaxSize(4)).Load(context.Background())
		gt.Error(t, err).Is(logo.ErrLogoTooLarge)
	})

	t.Run("streamed body over limit", func(t *testing.T) {
		_, err := logo.New(srv.URL+"/endless.png", logo.WithMaxSize(2048)).Load(context.Background())
		gt.Error(t, err).Is(logo.ErrLogoTooLarge)
	})

	t.Run("exactly at limit", func(t *testing.T) {
		data, err := logo.New(srv.URL+"/logo.png", logo.WithMaxSize(len(pngHeader))).Load(context.Background())
		gt.NoError(t, err).Required()
		gt.V(t, data).Equal(pngHeader)
	})
}

func TestLoadURLConcurrent(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()

	l := logo.New(srv.URL)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := l.Load(context.Background())
			gt.NoError(t, err)
			gt.V(t, data).Equal(pngHeader)
		}()
	}

	// give all callers time to join the in-flight fetch
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	gt.Number(t, hits.Load()).Equal(1)
}
