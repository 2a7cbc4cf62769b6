package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/service/report"
	"github.com/secmon-lab/riskform/pkg/usecase"
	"github.com/secmon-lab/riskform/pkg/utils/errutil"
	"github.com/secmon-lab/riskform/pkg/utils/logging"
)

// ErrBadRequest marks malformed input detected by the handlers themselves
var ErrBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrNoQuestions):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrStorageNotConfigured):
		return http.StatusNotImplemented
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, usecase.ErrUnsupportedFormat),
		errors.Is(err, model.ErrMissingTitle),
		errors.Is(err, model.ErrInvalidWeight),
		errors.Is(err, model.ErrInvalidResponse),
		errors.Is(err, model.ErrTooManyQuestions),
		errors.Is(err, model.ErrInvalidMaxEntries),
		errors.Is(err, report.ErrInvalidTabular):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Server errors go through errutil so they
// reach Sentry, client errors are only logged.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		errutil.HandleHTTP(r.Context(), w, err, status)
		return
	}

	msg := err.Error()
	if errors.Is(err, model.ErrNoQuestions) {
		msg = model.ErrNoQuestions.Error()
	}

	logging.From(r.Context()).Warn("request rejected", "status", status, "error", err.Error())
	respondJSON(w, r, status, errorResponse{Error: msg})
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

// respondDocument sends doc as a download
func respondDocument(w http.ResponseWriter, doc *model.Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data) //nolint:errcheck // header already committed
}
