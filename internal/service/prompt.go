package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"killtest/internal/model"
	"killtest/internal/verdict"
)

const systemPrompt = "You are a brutally honest startup idea evaluator. Always respond with valid JSON only."

const analysisPrompt = `You are a brutally honest startup idea evaluator. Your job is to cut through founder optimism and identify real weaknesses.

Analyze this founder's responses and:

1. Generate a verdict:
   - KILL: Fundamentally weak. Too many structural problems. Move on.
   - FLIP: Has potential but needs a significant pivot. Rethink the positioning or model.
   - BUILD: Defensible with discipline. Execute carefully and focus on moats.
   - BET: Risky but asymmetric upside. The potential reward justifies the gamble.

2. Identify contradictions between their written answers and self-assessment scores. Look for:
   - Optimistic scores that don't match concerning written responses
   - Claims of defensibility without evidence
   - Underestimating platform or copycat risk
   - Overestimating lock-in or pricing power

3. Provide adjusted risk scores based on what they actually described (not what they scored themselves).

## Founder Responses:
{RESPONSES}

## Self-Assessment Scores:
- Copycat Risk: {COPYCAT_RISK}/10 (higher = easier to copy)
- Platform Risk: {PLATFORM_RISK}/10 (higher = more dependent)
- Lock-in Strength: {LOCKIN_STRENGTH}/10 (higher = stickier)
- Pricing Power: {PRICING_POWER}/10 (higher = can charge more)

Be direct and honest. If this idea has fatal flaws, say so clearly. Founders need truth, not encouragement.

Respond in JSON only (no markdown, no explanation outside JSON):
{
  "verdict": "kill" | "flip" | "build" | "bet",
  "confidence": 0-100,
  "rationale": "2-3 sentences explaining your verdict. Be specific about the key issues or strengths.",
  "contradictions": [
    {"field": "fieldName", "userScore": 8, "issue": "Specific contradiction explanation..."}
  ],
  "adjustedScores": {
    "copycatRisk": 1-10,
    "platformRisk": 1-10,
    "lockInStrength": 1-10,
    "pricingPower": 1-10
  }
}`

const spanishInstruction = "\n\nWrite the rationale and every contradiction issue in Spanish. Keep the JSON keys and verdict values in English."

// promptFields are the written answers sent to the evaluator, in prompt order
var promptFields = []string{
	model.QIdeaDefinition,
	model.QTargetCustomer,
	model.QCoreWorkflow,
	model.QMonetization,
	model.QPlatformDependencies,
	model.QDisappearanceTest,
	model.QInevitabilityTest,
	model.QCopycatVelocity,
	model.QAICommoditization,
	model.QPlatformHostageRisk,
	model.QDataMoatReality,
	model.QDataCompounding,
	model.QWorkflowLockIn,
	model.QPricingPower,
	model.QBudgetOwner,
	model.QSoloFounderRisk,
	model.QScalingStress,
	model.QLikelyFailureMode,
	model.QBiggestUnresolvedRisk,
}

// BuildPrompt renders the evaluator prompt for one answer set
func BuildPrompt(answers model.AnswerSet, lang model.Language) string {
	s := verdict.ExtractScores(answers)
	out := strings.NewReplacer(
		"{RESPONSES}", renderResponses(answers),
		"{COPYCAT_RISK}", formatScore(s.CopycatRisk),
		"{PLATFORM_RISK}", formatScore(s.PlatformRisk),
		"{LOCKIN_STRENGTH}", formatScore(s.LockInStrength),
		"{PRICING_POWER}", formatScore(s.PricingPower),
	).Replace(analysisPrompt)
	if lang.OrDefault() == model.LangSpanish {
		out += spanishInstruction
	}
	return out
}

// renderResponses writes the answers as an indented JSON object with keys in
// prompt order. encoding/json sorts map keys, so the object is built by hand.
func renderResponses(answers model.AnswerSet) string {
	var b bytes.Buffer
	b.WriteString("{\n")
	for i, id := range promptFields {
		b.WriteString("  ")
		b.WriteString(quote(id))
		b.WriteString(": ")
		b.WriteString(quote(answers.Text(id)))
		if i < len(promptFields)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.String()
}

func quote(s string) string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(b.String(), "\n")
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
