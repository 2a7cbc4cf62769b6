package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Response is the yes/no answer given to a question
type Response string

const (
	ResponseYes Response = "YES"
	ResponseNo  Response = "NO"
)

// AllResponses returns all valid responses
func AllResponses() []Response {
	return []Response{
		ResponseYes,
		ResponseNo,
	}
}

// IsValid checks if the response is valid
func (r Response) IsValid() bool {
	switch r {
	case ResponseYes, ResponseNo:
		return true
	default:
		return false
	}
}

// String returns the string representation of the response
func (r Response) String() string {
	return string(r)
}

// ParseResponse parses user input into a Response. It accepts the canonical
// values as well as the English and Portuguese words shown on forms and in
// exported spreadsheets, case-insensitively.
func ParseResponse(s string) (Response, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "sim", "s":
		return ResponseYes, nil
	case "no", "n", "false", "não", "nao":
		return ResponseNo, nil
	default:
		return "", goerr.New("invalid response", goerr.V("response", s))
	}
}
