package verdict

import "killtest/internal/model"

// OfflineConfidence is reported when no external evaluator was consulted
const OfflineConfidence = 60

var offlineRationale = map[model.Verdict]string{
	model.VerdictKill:  "High risks combined with weak defensibility signals. The combination of copycat vulnerability and platform dependency makes this structurally fragile.",
	model.VerdictFlip:  "The risk-to-strength ratio suggests a pivot is needed. Consider repositioning toward stronger lock-in or reduced platform dependency.",
	model.VerdictBet:   "Moderate defensibility with manageable risks. Success depends heavily on execution speed and building moats before competitors catch up.",
	model.VerdictBuild: "Strong fundamentals with good lock-in potential. Focus on deepening customer relationships and expanding the moat while you have momentum.",
}

// Analysis renders an offline Result in the analysis endpoint's wire shape.
// Contradictions need a model to detect, so the list is always empty.
func Analysis(r model.Result) model.AnalysisResponse {
	return model.AnalysisResponse{
		Verdict:        r.Verdict,
		Confidence:     OfflineConfidence,
		Rationale:      offlineRationale[r.Verdict],
		Contradictions: []model.Contradiction{},
		AdjustedScores: r.Scores,
		Source:         model.SourceOffline,
	}
}

// Merge applies an external analysis to an offline result. Only the verdict
// is replaced; scores and weak signals stay as computed from the answers.
func Merge(offline model.Result, a model.AnalysisResponse) model.Result {
	merged := offline
	merged.Verdict = model.ParseVerdict(string(a.Verdict))
	merged.AIAnalysis = a.ToAIAnalysis()
	return merged
}
