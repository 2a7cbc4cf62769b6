package model

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Document is a generated artifact held in memory until it is stored or served
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
	Pages       int
}
