// Package presenter turns a Result into display-ready structures. It holds
// no rules of its own beyond risk bucketing.
package presenter

import (
	"fmt"
	"strconv"
	"strings"

	"killtest/internal/model"
)

// Level is a coarse bucket for one metric
type Level string

const (
	LevelLow      Level = "low"      // risk metric, good
	LevelModerate Level = "moderate" // either direction
	LevelHigh     Level = "high"     // risk metric, bad
	LevelStrong   Level = "strong"   // strength metric, good
	LevelWeak     Level = "weak"     // strength metric, bad
)

// Tone is the traffic-light colour paired with a level
type Tone string

const (
	ToneGood Tone = "green"
	ToneWarn Tone = "yellow"
	ToneBad  Tone = "red"
)

// VerdictColor names the palette for each verdict
var VerdictColor = map[model.Verdict]string{
	model.VerdictKill:  "red",
	model.VerdictFlip:  "yellow",
	model.VerdictBuild: "green",
	model.VerdictBet:   "orange",
}

// Bucket classifies a score. Risk metrics: <=3 low, <=6 moderate, else high.
// Strength metrics: >=7 strong, >=4 moderate, else weak.
func Bucket(id model.SignalID, score float64) Level {
	if id.IsRisk() {
		switch {
		case score <= 3:
			return LevelLow
		case score <= 6:
			return LevelModerate
		default:
			return LevelHigh
		}
	}
	switch {
	case score >= 7:
		return LevelStrong
	case score >= 4:
		return LevelModerate
	default:
		return LevelWeak
	}
}

// ToneOf maps a level to its colour
func ToneOf(l Level) Tone {
	switch l {
	case LevelLow, LevelStrong:
		return ToneGood
	case LevelModerate:
		return ToneWarn
	default:
		return ToneBad
	}
}

// LevelLabel localizes a level
func LevelLabel(l Level, lang model.Language) string {
	switch l {
	case LevelLow:
		return riskLow.in(lang)
	case LevelModerate:
		return riskModerate.in(lang)
	case LevelHigh:
		return riskHigh.in(lang)
	case LevelStrong:
		return strengthHigh.in(lang)
	default:
		return strengthWeak.in(lang)
	}
}

// SignalView is one row of the score panel
type SignalView struct {
	ID            model.SignalID `json:"id"`
	Label         string         `json:"label"`
	Explanation   string         `json:"explanation"`
	SelfScore     float64        `json:"selfScore"`
	AdjustedScore *float64       `json:"adjustedScore,omitempty"` // only when it differs from SelfScore
	MaxScore      int            `json:"maxScore"`
	Level         Level          `json:"level"`
	LevelLabel    string         `json:"levelLabel"`
	Tone          Tone           `json:"tone"`
	IsWeak        bool           `json:"isWeak"`
	WeakReason    string         `json:"weakReason,omitempty"`
}

// PivotView is a labelled pivot suggestion
type PivotView struct {
	Type       model.PivotType `json:"type"`
	Label      string          `json:"label"`
	Suggestion string          `json:"suggestion"`
}

// View is the full results screen
type View struct {
	Verdict          model.Verdict         `json:"verdict"`
	Color            string                `json:"color"`
	Headline         VerdictCopy           `json:"headline"`
	Analyzing        bool                  `json:"analyzing"`
	Confidence       *float64              `json:"confidence,omitempty"`
	Rationale        string                `json:"rationale,omitempty"`
	Contradictions   []model.Contradiction `json:"contradictions,omitempty"`
	Signals          []SignalView          `json:"signals"`
	WeakSignals      []SignalView          `json:"weakSignals"`
	CompoundingStory string                `json:"compoundingStory"`
	Pivots           []PivotView           `json:"pivots"`
	Idea             string                `json:"idea"`
	BiggestRisk      string                `json:"biggestRisk"`
}

// Headline returns the title block for a verdict
func Headline(v model.Verdict, lang model.Language) VerdictCopy {
	return VerdictCopy{
		Title:       strings.ToUpper(string(v)),
		Emoji:       verdictEmoji[v],
		Label:       verdictLabels[v].in(lang),
		Description: verdictDescriptions[v].in(lang),
	}
}

// Build assembles the results view. The level of each metric follows the
// AI-adjusted score when one is attached, otherwise the self score.
func Build(r model.Result, answers model.AnswerSet, lang model.Language, analyzing bool) View {
	v := View{
		Verdict:          r.Verdict,
		Color:            VerdictColor[r.Verdict],
		Headline:         Headline(r.Verdict, lang),
		Analyzing:        analyzing,
		CompoundingStory: r.CompoundingStory,
		Signals:          make([]SignalView, 0, len(r.WeakSignals)),
		WeakSignals:      []SignalView{},
		Pivots:           make([]PivotView, 0, len(r.PivotSuggestions)),
		Idea:             answers.Text(model.QIdeaDefinition),
		BiggestRisk:      answers.Text(model.QBiggestUnresolvedRisk),
	}
	if ai := r.AIAnalysis; ai != nil {
		confidence := ai.Confidence
		v.Confidence = &confidence
		v.Rationale = ai.Rationale
		v.Contradictions = ai.Contradictions
	}

	for _, ws := range r.WeakSignals {
		sv := signalView(ws, r.AIAnalysis, lang)
		v.Signals = append(v.Signals, sv)
		if sv.IsWeak {
			v.WeakSignals = append(v.WeakSignals, sv)
		}
	}
	for _, p := range r.PivotSuggestions {
		v.Pivots = append(v.Pivots, PivotView{Type: p.Type, Label: pivotLabels[p.Type].in(lang), Suggestion: p.Suggestion})
	}
	return v
}

func signalView(ws model.WeakSignal, ai *model.AIAnalysis, lang model.Language) SignalView {
	shown := ws.Score
	sv := SignalView{
		ID:          ws.ID,
		Label:       signalLabels[ws.ID].in(lang),
		Explanation: signalExplanations[ws.ID].in(lang),
		SelfScore:   ws.Score,
		MaxScore:    ws.MaxScore,
		IsWeak:      ws.IsWeak,
	}
	if ai != nil {
		shown = ai.AdjustedScores.Get(ws.ID)
		if shown != ws.Score {
			adjusted := shown
			sv.AdjustedScore = &adjusted
		}
	}
	sv.Level = Bucket(ws.ID, shown)
	sv.LevelLabel = LevelLabel(sv.Level, lang)
	sv.Tone = ToneOf(sv.Level)
	if ws.IsWeak {
		sv.WeakReason = weakSignalReasons[ws.ID].in(lang)
	}
	return sv
}

// Summary renders the plain-text copy of a result
func Summary(r model.Result, answers model.AnswerSet, lang model.Language) string {
	h := Headline(r.Verdict, lang)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", h.Label)
	fmt.Fprintf(&b, "%s: %s %s\n\n", textResultsTitle.in(lang), h.Title, h.Emoji)
	fmt.Fprintf(&b, "%s: %s\n\n", textIdea.in(lang), answers.Text(model.QIdeaDefinition))
	fmt.Fprintf(&b, "%s\n\n", h.Description)
	fmt.Fprintf(&b, "%s:\n", textScoresTitle.in(lang))
	for _, id := range model.Signals {
		fmt.Fprintf(&b, "- %s: %s/%d\n", signalLabels[id].in(lang), formatScore(r.Scores.Get(id)), model.MaxScore)
	}
	fmt.Fprintf(&b, "\n%s\n\n", strings.TrimSpace(r.CompoundingStory))
	fmt.Fprintf(&b, "%s: %s\n\n", textBiggestRisk.in(lang), answers.Text(model.QBiggestUnresolvedRisk))
	b.WriteString("---\n")
	b.WriteString(Footer)
	return b.String()
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
