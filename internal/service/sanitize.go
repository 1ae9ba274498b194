package service

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strings"

	"killtest/internal/model"
	"killtest/internal/verdict"
)

// ErrUnparseableAnalysis means no JSON object could be recovered from a response
var ErrUnparseableAnalysis = errors.New("analysis response is not a JSON object")

const defaultConfidence = 50

var (
	// jsonBlockPattern matches an object inside a markdown code fence
	jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	// jsonObjectPattern is the greedy fallback for bare objects
	jsonObjectPattern = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	// trailingCommaPattern matches trailing commas before ] or }
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// extractJSON pulls a JSON object out of model output that may carry prose or fences
func extractJSON(content string) string {
	raw := ""
	if m := jsonBlockPattern.FindStringSubmatch(content); len(m) > 1 {
		raw = m[1]
	} else if m := jsonObjectPattern.FindString(content); m != "" {
		raw = m
	}
	return trailingCommaPattern.ReplaceAllString(raw, "$1")
}

// DecodeAnalysis parses and sanitizes an analysis payload. Fields are decoded
// one at a time so a single malformed field falls back to its default instead
// of rejecting the whole response.
func DecodeAnalysis(content string) (model.AnalysisResponse, error) {
	raw := extractJSON(strings.TrimSpace(content))
	if raw == "" {
		return model.AnalysisResponse{}, ErrUnparseableAnalysis
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return model.AnalysisResponse{}, errors.Join(ErrUnparseableAnalysis, err)
	}
	return Sanitize(fields), nil
}

// Sanitize coerces loosely typed fields into a valid analysis:
// unknown verdict becomes bet, confidence lands in [0,100] with 50 for
// missing or zero, adjusted scores land in [1,10] with 5 for missing or zero.
func Sanitize(fields map[string]json.RawMessage) model.AnalysisResponse {
	var out model.AnalysisResponse

	var v string
	_ = json.Unmarshal(fields["verdict"], &v)
	out.Verdict = model.ParseVerdict(v)

	out.Confidence = defaultConfidence
	if c, ok := number(fields["confidence"]); ok && c != 0 {
		out.Confidence = math.Max(0, math.Min(100, c))
	}

	_ = json.Unmarshal(fields["rationale"], &out.Rationale)
	out.Contradictions = contradictions(fields["contradictions"])

	var scores map[string]json.RawMessage
	_ = json.Unmarshal(fields["adjustedScores"], &scores)
	out.AdjustedScores = model.ScoreSet{
		CopycatRisk:    adjustedScore(scores, model.SignalCopycatRisk),
		PlatformRisk:   adjustedScore(scores, model.SignalPlatformRisk),
		LockInStrength: adjustedScore(scores, model.SignalLockInStrength),
		PricingPower:   adjustedScore(scores, model.SignalPricingPower),
	}
	return out
}

func adjustedScore(scores map[string]json.RawMessage, id model.SignalID) float64 {
	f, ok := number(scores[string(id)])
	if !ok || f == 0 {
		return verdict.DefaultScore
	}
	return verdict.ClampScore(f)
}

// contradictions keeps every well-formed entry and drops the rest
func contradictions(raw json.RawMessage) []model.Contradiction {
	out := []model.Contradiction{}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		var f map[string]json.RawMessage
		if err := json.Unmarshal(item, &f); err != nil {
			continue
		}
		var c model.Contradiction
		_ = json.Unmarshal(f["field"], &c.Field)
		_ = json.Unmarshal(f["issue"], &c.Issue)
		c.UserScore, _ = number(f["userScore"])
		if c.Field == "" && c.Issue == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// number accepts a JSON number or a numeric string
func number(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var v model.AnswerValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v.Float()
}
