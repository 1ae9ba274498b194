package service

import (
	"context"

	"killtest/internal/model"
)

// EnrichmentStatus tells whether an AI analysis is attached
type EnrichmentStatus string

const (
	EnrichmentPending     EnrichmentStatus = "pending"
	EnrichmentEnriched    EnrichmentStatus = "enriched"
	EnrichmentUnavailable EnrichmentStatus = "unavailable"
)

// Enrichment is the outcome of one enrichment attempt. It is either Enriched
// with an analysis or Unavailable with a reason; it is never an error.
type Enrichment struct {
	Status   EnrichmentStatus        `json:"status"`
	Analysis *model.AnalysisResponse `json:"analysis,omitempty"`
	Reason   string                  `json:"reason,omitempty"`
}

func Enriched(a model.AnalysisResponse) Enrichment {
	return Enrichment{Status: EnrichmentEnriched, Analysis: &a}
}

func Unavailable(reason string) Enrichment {
	return Enrichment{Status: EnrichmentUnavailable, Reason: reason}
}

// OK reports whether an analysis is present
func (e Enrichment) OK() bool {
	return e.Status == EnrichmentEnriched && e.Analysis != nil
}

// Enricher fetches an AI analysis for a completed answer set. Implementations
// make a single attempt and report failure as Unavailable.
type Enricher interface {
	Enrich(ctx context.Context, answers model.AnswerSet, lang model.Language) Enrichment
}
