package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/service/storage"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    storage.Target
		wantErr error
	}{
		{name: "empty means cwd", input: "", want: storage.Target{Dir: "."}},
		{name: "relative dir", input: "out/reports", want: storage.Target{Dir: "out/reports"}},
		{name: "bucket only", input: "gs://reports", want: storage.Target{Bucket: "reports"}},
		{name: "bucket and prefix", input: "gs://reports/risk/2024/", want: storage.Target{Bucket: "reports", Prefix: "risk/2024"}},
		{name: "missing bucket", input: "gs:///prefix", wantErr: storage.ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.ParseTarget(tt.input)
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.V(t, got).Equal(tt.want)
			gt.V(t, got.IsGCS()).Equal(tt.want.Bucket != "")
		})
	}
}

func TestLocalPut(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "out")

	s, err := storage.NewLocal(dir)
	gt.NoError(t, err).Required()

	location, err := s.Put(ctx, "Vendor_analysis.pdf", model.ContentTypePDF, []byte("%PDF-1.3"))
	gt.NoError(t, err).Required()
	gt.S(t, location).Equal(filepath.Join(dir, "Vendor_analysis.pdf"))

	data, err := os.ReadFile(location)
	gt.NoError(t, err).Required()
	gt.S(t, string(data)).Equal("%PDF-1.3")

	t.Run("overwrites existing file", func(t *testing.T) {
		_, err := s.Put(ctx, "Vendor_analysis.pdf", model.ContentTypePDF, []byte("%PDF-1.4"))
		gt.NoError(t, err).Required()

		data, err := os.ReadFile(location)
		gt.NoError(t, err).Required()
		gt.S(t, string(data)).Equal("%PDF-1.4")
	})

	t.Run("leaves no temporary files", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		gt.NoError(t, err).Required()
		for _, e := range entries {
			gt.B(t, strings.HasPrefix(e.Name(), ".")).False().Describef("unexpected file %s", e.Name())
		}
	})
}

func TestLocalPutRejectsUnsafeNames(t *testing.T) {
	s, err := storage.NewLocal(t.TempDir())
	gt.NoError(t, err).Required()

	for _, name := range []string{"", ".", "..", "../escape.pdf", "a/b.pdf", `a\b.pdf`} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(context.Background(), name, model.ContentTypePDF, []byte("x"))
			gt.Error(t, err).Is(storage.ErrInvalidName)
		})
	}
}

func TestGCSPut(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET is not set")
	}

	ctx := context.Background()
	s, err := storage.NewGCS(ctx, bucket, "riskform-test")
	gt.NoError(t, err).Required()
	defer func() { gt.NoError(t, s.Close()) }()

	location, err := s.Put(ctx, "test_analysis.csv", model.ContentTypeCSV, []byte("Question,Response,Weight\n"))
	gt.NoError(t, err).Required()
	gt.S(t, location).Equal("gs://" + bucket + "/riskform-test/test_analysis.csv")
}
