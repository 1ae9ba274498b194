package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"killtest/internal/importer"
	"killtest/internal/model"
	"killtest/internal/presenter"
	"killtest/internal/questionnaire"
	"killtest/internal/service"

	"github.com/gorilla/mux"
)

// SessionHandler handles the questionnaire session endpoints
type SessionHandler struct {
	assessment *service.AssessmentService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(assessment *service.AssessmentService) *SessionHandler {
	return &SessionHandler{assessment: assessment}
}

// SessionView is a session plus the cursor details a client renders
type SessionView struct {
	*service.Session
	Question   *QuestionView `json:"question,omitempty"`
	Total      int           `json:"total"`
	CanProceed bool          `json:"canProceed"`
	IsLast     bool          `json:"isLast"`
}

func newSessionView(s *service.Session, lang model.Language) SessionView {
	v := SessionView{Session: s, Total: questionnaire.Total()}
	if p, ok := s.CurrentQuestion(); ok {
		qv := questionView(p, lang)
		v.Question = &qv
		v.CanProceed = questionnaire.CanProceed(s.Cursor, s.Answers)
		v.IsLast = questionnaire.IsLast(s.Cursor)
	}
	return v
}

// CreateSessionRequest is the optional body of POST /v1/sessions
type CreateSessionRequest struct {
	Language model.Language `json:"language"`
}

// CreateSessionResponse carries the session and its bearer token
type CreateSessionResponse struct {
	model.SessionTokenResponse
	Session SessionView `json:"session"`
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang := req.Language
	if !lang.Valid() {
		lang = requestLanguage(r, model.LangEnglish)
	}

	sess, token, err := h.assessment.Create(r.Context(), lang)
	if err != nil {
		writeServiceError(w, err, lang)
		return
	}

	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionTokenResponse: model.SessionTokenResponse{SessionID: sess.ID, Token: token},
		Session:              newSessionView(sess, lang),
	})
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.assessment.Get(r.Context(), mux.Vars(r)["id"])
	h.respond(w, r, sess, err, http.StatusOK)
}

// Start handles POST /v1/sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess, err := h.assessment.Start(r.Context(), mux.Vars(r)["id"])
	h.respond(w, r, sess, err, http.StatusOK)
}

// Begin handles POST /v1/sessions/{id}/begin
func (h *SessionHandler) Begin(w http.ResponseWriter, r *http.Request) {
	sess, err := h.assessment.Begin(r.Context(), mux.Vars(r)["id"])
	h.respond(w, r, sess, err, http.StatusOK)
}

// Next handles POST /v1/sessions/{id}/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	sess, err := h.assessment.Next(r.Context(), mux.Vars(r)["id"])
	h.respond(w, r, sess, err, http.StatusOK)
}

// Prev handles POST /v1/sessions/{id}/prev
func (h *SessionHandler) Prev(w http.ResponseWriter, r *http.Request) {
	sess, err := h.assessment.Prev(r.Context(), mux.Vars(r)["id"])
	h.respond(w, r, sess, err, http.StatusOK)
}

// SetAnswerRequest is the body of PUT /v1/sessions/{id}/answers/{questionId}
type SetAnswerRequest struct {
	Value *model.AnswerValue `json:"value"`
}

// SetAnswer handles PUT /v1/sessions/{id}/answers/{questionId}
func (h *SessionHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req SetAnswerRequest
	if err := decodeBody(w, r, &req); err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.assessment.SetAnswer(r.Context(), vars["id"], vars["questionId"], *req.Value)
	h.respond(w, r, sess, err, http.StatusOK)
}

// SetLanguageRequest is the body of PUT /v1/sessions/{id}/language
type SetLanguageRequest struct {
	Language string `json:"language"`
}

// SetLanguage handles PUT /v1/sessions/{id}/language
func (h *SessionHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req SetLanguageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.assessment.SetLanguage(r.Context(), mux.Vars(r)["id"], model.ParseLanguage(req.Language))
	h.respond(w, r, sess, err, http.StatusOK)
}

// Submit handles POST /v1/sessions/{id}/submit. The response carries the
// offline verdict; enrichment arrives over the WebSocket.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, err := h.assessment.Submit(r.Context(), mux.Vars(r)["id"])
	h.respond(w, r, sess, err, http.StatusAccepted)
}

// Import handles POST /v1/sessions/{id}/import with a JSON or YAML document
func (h *SessionHandler) Import(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	lang := requestLanguage(r, model.LangEnglish)

	answers, err := readImport(w, r)
	if err != nil {
		writeServiceError(w, err, lang)
		return
	}

	sess, err := h.assessment.Import(r.Context(), id, answers)
	h.respond(w, r, sess, err, http.StatusAccepted)
}

// Reset handles POST /v1/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, err := h.assessment.Reset(r.Context(), mux.Vars(r)["id"])
	h.respond(w, r, sess, err, http.StatusOK)
}

// Result handles GET /v1/sessions/{id}/result
func (h *SessionHandler) Result(w http.ResponseWriter, r *http.Request) {
	sess, err := h.assessment.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err, model.LangEnglish)
		return
	}
	if sess.Result == nil {
		writeError(w, http.StatusNotFound, "no result yet")
		return
	}

	lang := requestLanguage(r, sess.Language)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId":  sess.ID,
		"state":      sess.State,
		"enrichment": sess.Enrichment,
		"view":       presenter.Build(*sess.Result, sess.Answers, lang, sess.State == model.StateAnalyzing),
	})
}

// Summary handles GET /v1/sessions/{id}/summary as plain text
func (h *SessionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess, err := h.assessment.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err, model.LangEnglish)
		return
	}
	if sess.Result == nil {
		writeError(w, http.StatusNotFound, "no result yet")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, presenter.Summary(*sess.Result, sess.Answers, requestLanguage(r, sess.Language)))
}

func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, sess *service.Session, err error, status int) {
	if err != nil {
		writeServiceError(w, err, requestLanguage(r, model.LangEnglish))
		return
	}
	writeJSON(w, status, newSessionView(sess, requestLanguage(r, sess.Language)))
}

// readImport decodes an import document into answers. The format comes
// from ?format=, then Content-Type, then the first byte of the body.
func readImport(w http.ResponseWriter, r *http.Request) (model.AnswerSet, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &importer.ValidationError{Kind: importer.ErrInvalidFormat, Cause: err}
	}

	var format importer.Format
	switch {
	case r.URL.Query().Get("format") != "":
		format = importer.Format(strings.ToLower(r.URL.Query().Get("format")))
	case strings.Contains(r.Header.Get("Content-Type"), "yaml"):
		format = importer.FormatYAML
	default:
		format = importer.DetectFormat(data)
	}

	doc, err := importer.Parse(data, format)
	if err != nil {
		return nil, err
	}
	return importer.ToAnswers(doc), nil
}
