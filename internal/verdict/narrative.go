package verdict

import (
	"strings"

	"killtest/internal/model"
)

const (
	storyCopyAndLockIn = "Because this idea is easy to copy and has weak customer lock-in, competitors can undercut pricing quickly. "
	storyPricing       = "The fragile pricing power means there's little margin to absorb competitive pressure. "
	storyPlatform      = "Heavy platform dependency adds a layer of existential risk that compounds other weaknesses. "
	storyStrong        = "The core signals are strong. Focus on execution and building moats early while you have momentum."
	storyMixed         = "The risk profile is mixed. The outcome depends heavily on external factors and execution quality."
)

// pivots is ordered by check order, not by severity
var pivots = []struct {
	signal     model.SignalID
	kind       model.PivotType
	suggestion string
}{
	{model.SignalLockInStrength, model.PivotLockIn, "Shift from a convenience feature to a system that owns a critical workflow (e.g., revenue recovery, compliance, payments)."},
	{model.SignalCopycatRisk, model.PivotNiche, "Focus on a narrowly defined vertical where domain rules, language, or regulation create friction for competitors."},
	{model.SignalPricingPower, model.PivotValue, "Tie pricing to recovered revenue, avoided costs, or risk reduction rather than usage or features."},
	{model.SignalPlatformRisk, model.PivotPlatform, "Add a second execution path (multi-channel, offline fallback, or customer-owned data layer)."},
}

func compoundingStory(weak map[model.SignalID]bool, v model.Verdict) string {
	var b strings.Builder
	if weak[model.SignalCopycatRisk] && weak[model.SignalLockInStrength] {
		b.WriteString(storyCopyAndLockIn)
	}
	if weak[model.SignalPricingPower] {
		b.WriteString(storyPricing)
	}
	if weak[model.SignalPlatformRisk] {
		b.WriteString(storyPlatform)
	}
	if b.Len() > 0 {
		return b.String()
	}
	if v == model.VerdictBuild {
		return storyStrong
	}
	return storyMixed
}

func pivotSuggestions(weak map[model.SignalID]bool) []model.PivotSuggestion {
	out := []model.PivotSuggestion{}
	for _, p := range pivots {
		if weak[p.signal] {
			out = append(out, model.PivotSuggestion{Type: p.kind, Suggestion: p.suggestion})
		}
	}
	return out
}
