package handler

import (
	"net/http"
	"strconv"

	"killtest/internal/cache"
	"killtest/internal/model"
	"killtest/internal/presenter"
	"killtest/internal/repository"
	"killtest/internal/service"

	"github.com/gorilla/mux"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// ResultHandler serves completed assessments
type ResultHandler struct {
	assessment *service.AssessmentService
	results    repository.ResultRepo
	tally      cache.VerdictTally
}

// NewResultHandler creates a new result handler. results and tally may be
// nil; stats fall back from the archive to the tally, then answer 503.
func NewResultHandler(assessment *service.AssessmentService, results repository.ResultRepo, tally cache.VerdictTally) *ResultHandler {
	return &ResultHandler{
		assessment: assessment,
		results:    results,
		tally:      tally,
	}
}

// Get handles GET /v1/results/{id}
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.assessment.Result(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err, model.LangEnglish)
		return
	}

	lang := requestLanguage(r, rec.Language)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": rec,
		"view":   presenter.Build(rec.Result, rec.Answers, lang, false),
	})
}

// Recent handles GET /v1/results?limit=N. Only summaries are listed;
// answers stay behind the per-session result id.
func (h *ResultHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		writeError(w, http.StatusServiceUnavailable, "result archive is not configured")
		return
	}

	limit := int64(defaultRecentLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	recs, err := h.results.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []model.ResultSummary{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// Stats handles GET /v1/results/stats
func (h *ResultHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var counts map[model.Verdict]int64
	var err error
	source := "archive"
	switch {
	case h.results != nil:
		counts, err = h.results.CountByVerdict(r.Context())
	case h.tally != nil:
		source = "tally"
		counts, err = h.tallyCounts(r)
	default:
		writeError(w, http.StatusServiceUnavailable, "result archive is not configured")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"source":    source,
		"total":     total,
		"byVerdict": counts,
	})
}

// tallyCounts zero-fills every verdict like the archive aggregation does
func (h *ResultHandler) tallyCounts(r *http.Request) (map[model.Verdict]int64, error) {
	ranked, err := h.tally.Ranked(r.Context())
	if err != nil {
		return nil, err
	}
	counts := make(map[model.Verdict]int64, len(model.Verdicts))
	for _, v := range model.Verdicts {
		counts[v] = 0
	}
	for _, e := range ranked {
		counts[model.Verdict(e.Verdict)] = e.Count
	}
	return counts, nil
}
