package model

import "time"

// SessionState is a step of the assessment lifecycle
type SessionState string

const (
	StateNotStarted SessionState = "not-started"
	StateIntroShown SessionState = "intro-shown"
	StateInProgress SessionState = "in-progress"
	StateAnalyzing  SessionState = "analyzing"
	StateCompleted  SessionState = "completed"
)

// ArchivedResult is the durable copy of a completed assessment
type ArchivedResult struct {
	SessionID   string         `json:"sessionId" bson:"_id"`
	Language    Language       `json:"language" bson:"language"`
	Answers     AnswerSet      `json:"answers" bson:"answers"`
	Result      Result         `json:"result" bson:"result"`
	Source      AnalysisSource `json:"source" bson:"source"` // ai when enrichment was merged
	Imported    bool           `json:"imported" bson:"imported"`
	CompletedAt time.Time      `json:"completedAt" bson:"completedAt"`
}

// ResultSummary is the listing form of an archived result. It carries no
// answers or narrative.
type ResultSummary struct {
	SessionID   string         `json:"sessionId"`
	Verdict     Verdict        `json:"verdict"`
	Language    Language       `json:"language"`
	Source      AnalysisSource `json:"source"`
	Imported    bool           `json:"imported"`
	CompletedAt time.Time      `json:"completedAt"`
}

// Summary strips r down to its listing form
func (r *ArchivedResult) Summary() ResultSummary {
	return ResultSummary{
		SessionID:   r.SessionID,
		Verdict:     r.Result.Verdict,
		Language:    r.Language,
		Source:      r.Source,
		Imported:    r.Imported,
		CompletedAt: r.CompletedAt,
	}
}
