package model

// Verdict is the four-way classification of an idea
type Verdict string

const (
	VerdictKill  Verdict = "kill"  // Structurally weak, move on
	VerdictFlip  Verdict = "flip"  // Needs a pivot
	VerdictBuild Verdict = "build" // Defensible with discipline
	VerdictBet   Verdict = "bet"   // Risky, asymmetric upside
)

// Verdicts lists every valid verdict in display order
var Verdicts = []Verdict{VerdictKill, VerdictFlip, VerdictBuild, VerdictBet}

// Valid reports whether v is one of the four verdicts
func (v Verdict) Valid() bool {
	switch v {
	case VerdictKill, VerdictFlip, VerdictBuild, VerdictBet:
		return true
	}
	return false
}

// ParseVerdict maps any external value onto the enumeration. Matching is
// exact; anything else, including "KILL", falls back to bet.
func ParseVerdict(s string) Verdict {
	v := Verdict(s)
	if v.Valid() {
		return v
	}
	return VerdictBet
}

// SignalID names one of the four defensibility metrics
type SignalID string

const (
	SignalCopycatRisk    SignalID = "copycatRisk"
	SignalPlatformRisk   SignalID = "platformRisk"
	SignalLockInStrength SignalID = "lockInStrength"
	SignalPricingPower   SignalID = "pricingPower"
)

// Signals lists the metrics in their fixed check order
var Signals = []SignalID{SignalCopycatRisk, SignalPlatformRisk, SignalLockInStrength, SignalPricingPower}

// IsRisk reports whether lower scores are better for this metric
func (s SignalID) IsRisk() bool {
	return s == SignalCopycatRisk || s == SignalPlatformRisk
}

// MaxScore is the top of every self-assessment scale
const MaxScore = 10

// ScoreSet holds the four metrics, each in [1,10]
type ScoreSet struct {
	CopycatRisk    float64 `json:"copycatRisk" bson:"copycatRisk"`       // Higher = easier to copy
	PlatformRisk   float64 `json:"platformRisk" bson:"platformRisk"`     // Higher = more platform exposure
	LockInStrength float64 `json:"lockInStrength" bson:"lockInStrength"` // Higher = stickier
	PricingPower   float64 `json:"pricingPower" bson:"pricingPower"`     // Higher = can charge more
}

// Get returns the score for a metric
func (s ScoreSet) Get(id SignalID) float64 {
	switch id {
	case SignalCopycatRisk:
		return s.CopycatRisk
	case SignalPlatformRisk:
		return s.PlatformRisk
	case SignalLockInStrength:
		return s.LockInStrength
	case SignalPricingPower:
		return s.PricingPower
	}
	return 0
}

// WeakSignal flags a metric that reads as a vulnerability
type WeakSignal struct {
	ID       SignalID `json:"id" bson:"id"`
	Score    float64  `json:"score" bson:"score"`
	MaxScore int      `json:"maxScore" bson:"maxScore"`
	IsWeak   bool     `json:"isWeak" bson:"isWeak"`
}

// PivotType tags a pivot suggestion
type PivotType string

const (
	PivotLockIn   PivotType = "lockIn"
	PivotNiche    PivotType = "niche"
	PivotValue    PivotType = "value"
	PivotPlatform PivotType = "platform"
)

// PivotSuggestion is one canned pivot for a weak signal
type PivotSuggestion struct {
	Type       PivotType `json:"type" bson:"type"`
	Suggestion string    `json:"suggestion" bson:"suggestion"`
}

// Contradiction is a mismatch between a written answer and a self-score
type Contradiction struct {
	Field     string  `json:"field" bson:"field"`
	UserScore float64 `json:"userScore" bson:"userScore"`
	Issue     string  `json:"issue" bson:"issue"`
}

// AIAnalysis is the enrichment attached after the external evaluator answers
type AIAnalysis struct {
	Confidence     float64         `json:"confidence" bson:"confidence"` // 0-100
	Rationale      string          `json:"rationale" bson:"rationale"`
	Contradictions []Contradiction `json:"contradictions" bson:"contradictions"`
	AdjustedScores ScoreSet        `json:"adjustedScores" bson:"adjustedScores"`
}

// Result is the outcome of one completed questionnaire
type Result struct {
	Verdict          Verdict           `json:"verdict" bson:"verdict"`
	Scores           ScoreSet          `json:"scores" bson:"scores"`
	WeakSignals      []WeakSignal      `json:"weakSignals" bson:"weakSignals"`
	CompoundingStory string            `json:"compoundingStory" bson:"compoundingStory"`
	PivotSuggestions []PivotSuggestion `json:"pivotSuggestions" bson:"pivotSuggestions"`
	AIAnalysis       *AIAnalysis       `json:"aiAnalysis,omitempty" bson:"aiAnalysis,omitempty"`
}

// WeakCount returns the number of flagged signals
func (r *Result) WeakCount() int {
	n := 0
	for _, s := range r.WeakSignals {
		if s.IsWeak {
			n++
		}
	}
	return n
}

// AnalysisSource records which path produced an AnalysisResponse
type AnalysisSource string

const (
	SourceAI      AnalysisSource = "ai"
	SourceOffline AnalysisSource = "offline"
)

// AnalysisRequest is the body of POST /v1/analyze
type AnalysisRequest struct {
	Answers  AnswerSet `json:"answers"`
	Language Language  `json:"language"`
}

// AnalysisResponse is the wire shape returned by the analysis endpoint
type AnalysisResponse struct {
	Verdict        Verdict         `json:"verdict"`
	Confidence     float64         `json:"confidence"`
	Rationale      string          `json:"rationale"`
	Contradictions []Contradiction `json:"contradictions"`
	AdjustedScores ScoreSet        `json:"adjustedScores"`
	Source         AnalysisSource  `json:"source,omitempty"`
}

// ToAIAnalysis drops the verdict, which the merge applies separately
func (a *AnalysisResponse) ToAIAnalysis() *AIAnalysis {
	contradictions := a.Contradictions
	if contradictions == nil {
		contradictions = []Contradiction{}
	}
	return &AIAnalysis{
		Confidence:     a.Confidence,
		Rationale:      a.Rationale,
		Contradictions: contradictions,
		AdjustedScores: a.AdjustedScores,
	}
}
