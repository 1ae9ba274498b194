// Package verdict is the deterministic offline verdict engine. It performs no
// I/O and is shared by the session flow and the analysis endpoint fallback.
package verdict

import (
	"math"

	"killtest/internal/model"
)

const (
	// DefaultScore stands in for any missing or unusable self-score
	DefaultScore = 5

	minScore = 1

	// riskWeakAt flags copycat and platform risk at or above this score
	riskWeakAt = 7
	// strengthWeakAt flags lock-in and pricing power at or below this score
	strengthWeakAt = 4

	// buildStrengthFloor and buildCopycatCeiling gate the build verdict
	buildStrengthFloor  = 6
	buildCopycatCeiling = 5
)

// Compute derives the offline Result for an answer set. It never fails and
// returns identical output for identical input. The answers are only read.
func Compute(answers model.AnswerSet) model.Result {
	scores := ExtractScores(answers)

	signals := make([]model.WeakSignal, 0, len(model.Signals))
	for _, id := range model.Signals {
		signals = append(signals, model.WeakSignal{
			ID:       id,
			Score:    scores.Get(id),
			MaxScore: model.MaxScore,
			IsWeak:   isWeak(id, scores.Get(id)),
		})
	}
	applyOverrides(signals, answers)

	weak := weakSet(signals)
	v := decide(len(weak), scores)

	return model.Result{
		Verdict:          v,
		Scores:           scores,
		WeakSignals:      signals,
		CompoundingStory: compoundingStory(weak, v),
		PivotSuggestions: pivotSuggestions(weak),
	}
}

// ExtractScores reads the four self-scores, defaulting and clamping each
func ExtractScores(answers model.AnswerSet) model.ScoreSet {
	return model.ScoreSet{
		CopycatRisk:    scoreOf(answers, model.QCopycatRiskScore),
		PlatformRisk:   scoreOf(answers, model.QPlatformRiskScore),
		LockInStrength: scoreOf(answers, model.QLockInStrengthScore),
		PricingPower:   scoreOf(answers, model.QPricingPowerScore),
	}
}

// scoreOf treats zero the same as missing, matching the scale's 1..10 range
func scoreOf(answers model.AnswerSet, id string) float64 {
	v, ok := answers.Get(id)
	if !ok {
		return DefaultScore
	}
	f, ok := v.Float()
	if !ok || f == 0 {
		return DefaultScore
	}
	return ClampScore(f)
}

// ClampScore bounds a score to [1,10]
func ClampScore(f float64) float64 {
	return math.Max(minScore, math.Min(model.MaxScore, f))
}

func isWeak(id model.SignalID, score float64) bool {
	if id.IsRisk() {
		return score >= riskWeakAt
	}
	return score <= strengthWeakAt
}

// applyOverrides lets qualitative answers flag a signal weak. They never clear one.
func applyOverrides(signals []model.WeakSignal, answers model.AnswerSet) {
	force := map[model.SignalID]bool{
		model.SignalCopycatRisk:    answers.Text(model.QCopycatVelocity) == model.VelocityUnder30,
		model.SignalLockInStrength: answers.Text(model.QDataCompounding) == model.CompoundingNo,
		model.SignalPricingPower:   answers.Text(model.QPricingPower) == model.PricingNo,
	}
	for i := range signals {
		if force[signals[i].ID] {
			signals[i].IsWeak = true
		}
	}
}

func weakSet(signals []model.WeakSignal) map[model.SignalID]bool {
	weak := make(map[model.SignalID]bool)
	for _, s := range signals {
		if s.IsWeak {
			weak[s.ID] = true
		}
	}
	return weak
}

// decide picks the verdict. One weak signal is not enough to rule out build.
func decide(weakCount int, s model.ScoreSet) model.Verdict {
	switch {
	case weakCount >= 3:
		return model.VerdictKill
	case weakCount == 2:
		return model.VerdictFlip
	case s.LockInStrength >= buildStrengthFloor && s.PricingPower >= buildStrengthFloor && s.CopycatRisk <= buildCopycatCeiling:
		return model.VerdictBuild
	default:
		return model.VerdictBet
	}
}
