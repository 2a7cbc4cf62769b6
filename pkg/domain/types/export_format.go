package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ExportFormat is the file format of a tabular export
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// AllExportFormats returns all supported export formats
func AllExportFormats() []ExportFormat {
	return []ExportFormat{
		ExportFormatCSV,
		ExportFormatXLSX,
	}
}

// IsValid checks if the format is supported
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportFormatCSV, ExportFormatXLSX:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format
func (f ExportFormat) String() string {
	return string(f)
}

// ParseExportFormat parses a format name or file extension such as ".xlsx"
func ParseExportFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	if !f.IsValid() {
		return "", goerr.New("unsupported export format", goerr.V("format", s))
	}
	return f, nil
}
