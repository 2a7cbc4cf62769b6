package report

// Latin1 exposes the PDF text sanitizer for tests
var Latin1 = latin1
