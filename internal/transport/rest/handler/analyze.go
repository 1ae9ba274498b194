package handler

import (
	"net/http"

	"killtest/internal/model"
	"killtest/internal/service"
)

// AnalyzeHandler exposes the upstream analysis as a stateless endpoint
type AnalyzeHandler struct {
	analyzer *service.AnalyzerService
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzer *service.AnalyzerService) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// Analyze handles POST /v1/analyze. It always answers 200 with a usable
// analysis; upstream failures fall back to the offline rules.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Answers == nil {
		req.Answers = model.AnswerSet{}
	}
	lang := req.Language
	if !lang.Valid() {
		lang = requestLanguage(r, lang)
	}

	writeJSON(w, http.StatusOK, h.analyzer.Analyze(r.Context(), req.Answers, lang))
}
