package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskform/pkg/domain/model"
	"github.com/secmon-lab/riskform/pkg/domain/types"
)

// maxRequestBody bounds the JSON body of POST /api/assessments
const maxRequestBody = 1 << 20

type questionRequest struct {
	Text     string `json:"text"`
	Response string `json:"response"`
	Weight   int    `json:"weight"`
}

type assessmentRequest struct {
	Title     string            `json:"title"`
	Validator string            `json:"validator"`
	Questions []questionRequest `json:"questions"`
}

type questionResponse struct {
	Text     string `json:"text"`
	Response string `json:"response"`
	Weight   int    `json:"weight"`
}

type scoreResponse struct {
	Percentage     float64 `json:"percentage"`
	PercentageText string  `json:"percentage_text"`
	Band           string  `json:"band"`
	Narrative      string  `json:"narrative"`
	Color          string  `json:"color"`
	QuestionCount  int     `json:"question_count"`
}

type assessmentResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Validator string             `json:"validator"`
	CreatedAt time.Time          `json:"created_at"`
	Questions []questionResponse `json:"questions"`
	Score     *scoreResponse     `json:"score,omitempty"`
}

type publishResponse struct {
	FileName string         `json:"file_name"`
	Location string         `json:"location"`
	Score    *scoreResponse `json:"score"`
}

type assessmentListResponse struct {
	Assessments []assessmentResponse `json:"assessments"`
}

// toModel converts the request body. Responses of blank questions are not
// parsed since those slots are ignored.
func (req *assessmentRequest) toModel() (*model.Assessment, error) {
	a := &model.Assessment{
		Title:     req.Title,
		Validator: req.Validator,
		Questions: make([]model.Question, len(req.Questions)),
	}

	for i, q := range req.Questions {
		a.Questions[i] = model.Question{Text: q.Text, Weight: q.Weight}
		if strings.TrimSpace(q.Text) == "" {
			continue
		}

		resp, err := types.ParseResponse(q.Response)
		if err != nil {
			return nil, goerr.Wrap(model.ErrInvalidResponse, "invalid question response",
				goerr.V(model.QuestionIndexKey, i), goerr.V(model.ResponseKey, q.Response))
		}
		a.Questions[i].Response = resp
	}
	return a, nil
}

func toScoreResponse(score model.RiskScore, lang types.Language) *scoreResponse {
	labels := model.LabelsFor(lang)
	return &scoreResponse{
		Percentage:     score.Float(),
		PercentageText: score.String(),
		Band:           score.Band.String(),
		Narrative:      labels.Narrative(score.Band),
		Color:          score.Band.Color(),
		QuestionCount:  score.QuestionCount,
	}
}

func toAssessmentResponse(a *model.Assessment) assessmentResponse {
	resp := assessmentResponse{
		ID:        a.ID.String(),
		Title:     a.Title,
		Validator: a.Validator,
		CreatedAt: a.CreatedAt,
		Questions: make([]questionResponse, len(a.Questions)),
	}
	for i, q := range a.Questions {
		resp.Questions[i] = questionResponse{
			Text:     q.Text,
			Response: q.Response.String(),
			Weight:   q.Weight,
		}
	}
	return resp
}

func (s *Server) language(r *http.Request) (types.Language, error) {
	raw := r.URL.Query().Get("lang")
	if raw == "" {
		return s.lang, nil
	}
	lang, err := types.ParseLanguage(raw)
	if err != nil {
		return "", goerr.Wrap(ErrBadRequest, "unsupported language", goerr.V("lang", raw))
	}
	return lang, nil
}

func (s *Server) createAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req assessmentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(ErrBadRequest, "invalid request body", goerr.V("cause", err.Error())))
		return
	}

	lang, err := s.language(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	input, err := req.toModel()
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, score, err := s.assessmentUC.CreateAssessment(ctx, input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := toAssessmentResponse(created)
	resp.Score = toScoreResponse(score, lang)
	respondJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) listAssessments(w http.ResponseWriter, r *http.Request) {
	assessments, err := s.assessmentUC.ListAssessments(r.Context(), r.URL.Query().Get("validator"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := assessmentListResponse{
		Assessments: make([]assessmentResponse, len(assessments)),
	}
	for i, a := range assessments {
		resp.Assessments[i] = toAssessmentResponse(a)
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) getAssessment(w http.ResponseWriter, r *http.Request) {
	lang, err := s.language(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	a, score, err := s.assessmentUC.GetAssessment(r.Context(), assessmentID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := toAssessmentResponse(a)
	resp.Score = toScoreResponse(score, lang)
	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) deleteAssessment(w http.ResponseWriter, r *http.Request) {
	if err := s.assessmentUC.DeleteAssessment(r.Context(), assessmentID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getScore(w http.ResponseWriter, r *http.Request) {
	lang, err := s.language(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	_, score, err := s.assessmentUC.GetAssessment(r.Context(), assessmentID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toScoreResponse(score, lang))
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	lang, err := s.language(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	doc, err := s.reportUC.GenerateReportByID(r.Context(), assessmentID(r), lang)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondDocument(w, doc)
}

func (s *Server) publishReport(w http.ResponseWriter, r *http.Request) {
	lang, err := s.language(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.reportUC.PublishReportByID(r.Context(), assessmentID(r), lang)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, publishResponse{
		FileName: result.Document.FileName,
		Location: result.Location,
		Score:    toScoreResponse(result.Score, lang),
	})
}

func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	lang, err := s.language(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	raw := chi.URLParam(r, "format")
	format, err := types.ParseExportFormat(raw)
	if err != nil {
		respondError(w, r, goerr.Wrap(ErrBadRequest, "unsupported export format", goerr.V("format", raw)))
		return
	}

	includeMeta := false
	if v := r.URL.Query().Get("meta"); v != "" {
		includeMeta, err = strconv.ParseBool(v)
		if err != nil {
			respondError(w, r, goerr.Wrap(ErrBadRequest, "invalid meta parameter", goerr.V("meta", v)))
			return
		}
	}

	doc, err := s.reportUC.ExportByID(r.Context(), assessmentID(r), format, includeMeta, lang)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondDocument(w, doc)
}

func assessmentID(r *http.Request) model.AssessmentID {
	return model.AssessmentID(chi.URLParam(r, "id"))
}
