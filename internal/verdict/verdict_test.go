package verdict

import (
	"encoding/json"
	"testing"

	"killtest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scores(copycat, platform, lockIn, pricing float64) model.AnswerSet {
	return model.AnswerSet{
		model.QCopycatRiskScore:    model.Number(copycat),
		model.QPlatformRiskScore:   model.Number(platform),
		model.QLockInStrengthScore: model.Number(lockIn),
		model.QPricingPowerScore:   model.Number(pricing),
	}
}

func weakIDs(r model.Result) []model.SignalID {
	var out []model.SignalID
	for _, s := range r.WeakSignals {
		if s.IsWeak {
			out = append(out, s.ID)
		}
	}
	return out
}

func TestComputeScenarios(t *testing.T) {
	tests := []struct {
		name    string
		answers model.AnswerSet
		verdict model.Verdict
		weak    int
	}{
		{"all four weak", scores(8, 8, 2, 2), model.VerdictKill, 4},
		{"all strong", scores(3, 3, 7, 7), model.VerdictBuild, 0},
		{"only lock-in weak", scores(5, 5, 3, 5), model.VerdictBet, 1},
		{"two weak", scores(8, 8, 6, 6), model.VerdictFlip, 2},
		{"three weak", scores(7, 7, 4, 6), model.VerdictKill, 3},
		{"one weak still builds", scores(3, 9, 6, 6), model.VerdictBuild, 1},
		{"copycat just above build ceiling", scores(6, 3, 8, 8), model.VerdictBet, 0},
		{"empty answers", model.AnswerSet{}, model.VerdictBet, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute(tt.answers)
			assert.Equal(t, tt.verdict, r.Verdict)
			assert.Equal(t, tt.weak, r.WeakCount())
		})
	}
}

func TestComputeDefaultsMissingAndInvalidScores(t *testing.T) {
	r := Compute(model.AnswerSet{
		model.QCopycatRiskScore:  model.Text("not a number"),
		model.QPlatformRiskScore: model.Number(0),
		model.QPricingPowerScore: model.Text("  "),
	})
	assert.Equal(t, model.ScoreSet{CopycatRisk: 5, PlatformRisk: 5, LockInStrength: 5, PricingPower: 5}, r.Scores)
}

func TestComputeAcceptsNumericStrings(t *testing.T) {
	r := Compute(model.AnswerSet{
		model.QCopycatRiskScore:    model.Text("8"),
		model.QPlatformRiskScore:   model.Text(" 2 "),
		model.QLockInStrengthScore: model.Text("7.5"),
	})
	assert.Equal(t, 8.0, r.Scores.CopycatRisk)
	assert.Equal(t, 2.0, r.Scores.PlatformRisk)
	assert.Equal(t, 7.5, r.Scores.LockInStrength)
}

func TestComputeClampsOutOfRange(t *testing.T) {
	r := Compute(scores(42, -3, 11, 0.5))
	assert.Equal(t, model.ScoreSet{CopycatRisk: 10, PlatformRisk: 1, LockInStrength: 10, PricingPower: 1}, r.Scores)
	for _, s := range r.WeakSignals {
		assert.Equal(t, model.MaxScore, s.MaxScore)
	}
}

func TestComputeVerdictAlwaysValid(t *testing.T) {
	values := []float64{0, 1, 3, 4, 5, 6, 7, 10, 99}
	for _, c := range values {
		for _, p := range values {
			for _, l := range values {
				for _, pr := range values {
					r := Compute(scores(c, p, l, pr))
					require.True(t, r.Verdict.Valid(), "scores %v %v %v %v", c, p, l, pr)
					switch n := r.WeakCount(); {
					case n >= 3:
						require.Equal(t, model.VerdictKill, r.Verdict)
					case n == 2:
						require.Equal(t, model.VerdictFlip, r.Verdict)
					default:
						require.Contains(t, []model.Verdict{model.VerdictBuild, model.VerdictBet}, r.Verdict)
					}
				}
			}
		}
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	answers := scores(8, 4, 3, 7)
	answers.Set(model.QCopycatVelocity, model.Text(model.VelocityUnder30))
	answers.Set(model.QDataCompounding, model.Text(model.CompoundingNo))

	first, err := json.Marshal(Compute(answers))
	require.NoError(t, err)
	second, err := json.Marshal(Compute(answers))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestComputeDoesNotMutateAnswers(t *testing.T) {
	answers := scores(8, 8, 2, 2)
	before := answers.Clone()
	Compute(answers)
	assert.Equal(t, before, answers)
}

func TestDirectionInvariant(t *testing.T) {
	for _, risk := range []model.SignalID{model.SignalCopycatRisk, model.SignalPlatformRisk} {
		prev := -1
		for score := 1.0; score <= 10; score++ {
			a := scores(5, 5, 5, 5)
			if risk == model.SignalCopycatRisk {
				a.Set(model.QCopycatRiskScore, model.Number(score))
			} else {
				a.Set(model.QPlatformRiskScore, model.Number(score))
			}
			r := Compute(a)
			n := r.WeakCount()
			assert.GreaterOrEqual(t, n, prev, "%s at %v", risk, score)
			prev = n
		}
	}

	for _, strength := range []string{model.QLockInStrengthScore, model.QPricingPowerScore} {
		prev := 5
		for score := 1.0; score <= 10; score++ {
			a := scores(5, 5, 5, 5)
			a.Set(strength, model.Number(score))
			r := Compute(a)
			n := r.WeakCount()
			assert.LessOrEqual(t, n, prev, "%s at %v", strength, score)
			prev = n
		}
	}
}

func TestThresholdBoundaries(t *testing.T) {
	r := Compute(scores(6, 6, 5, 5))
	assert.Empty(t, weakIDs(r))

	r = Compute(scores(7, 5, 5, 5))
	assert.Equal(t, []model.SignalID{model.SignalCopycatRisk}, weakIDs(r))

	r = Compute(scores(5, 5, 5, 4))
	assert.Equal(t, []model.SignalID{model.SignalPricingPower}, weakIDs(r))
}

func TestCategoricalOverrides(t *testing.T) {
	a := scores(1, 1, 9, 9)
	a.Set(model.QCopycatVelocity, model.Text(model.VelocityUnder30))
	r := Compute(a)
	assert.Equal(t, []model.SignalID{model.SignalCopycatRisk}, weakIDs(r))
	assert.Equal(t, 1.0, r.WeakSignals[0].Score)

	a = scores(1, 1, 9, 9)
	a.Set(model.QDataCompounding, model.Text(model.CompoundingNo))
	a.Set(model.QPricingPower, model.Text(model.PricingNo))
	r = Compute(a)
	assert.Equal(t, []model.SignalID{model.SignalLockInStrength, model.SignalPricingPower}, weakIDs(r))
	assert.Equal(t, model.VerdictFlip, r.Verdict)
}

func TestOverridesNeverClearWeakness(t *testing.T) {
	a := scores(9, 5, 2, 5)
	a.Set(model.QCopycatVelocity, model.Text(model.VelocityOver6Months))
	a.Set(model.QDataCompounding, model.Text(model.CompoundingYesStrongly))
	a.Set(model.QPricingPower, model.Text(model.PricingYes))
	r := Compute(a)
	assert.Equal(t, []model.SignalID{model.SignalCopycatRisk, model.SignalLockInStrength}, weakIDs(r))
}

func TestWeakSignalOrder(t *testing.T) {
	r := Compute(scores(5, 5, 5, 5))
	require.Len(t, r.WeakSignals, 4)
	assert.Equal(t, model.SignalCopycatRisk, r.WeakSignals[0].ID)
	assert.Equal(t, model.SignalPlatformRisk, r.WeakSignals[1].ID)
	assert.Equal(t, model.SignalLockInStrength, r.WeakSignals[2].ID)
	assert.Equal(t, model.SignalPricingPower, r.WeakSignals[3].ID)
}

func TestCompoundingStory(t *testing.T) {
	r := Compute(scores(8, 8, 2, 2))
	assert.Equal(t, storyCopyAndLockIn+storyPricing+storyPlatform, r.CompoundingStory)

	r = Compute(scores(5, 8, 5, 5))
	assert.Equal(t, storyPlatform, r.CompoundingStory)

	// copycat alone has no fragment of its own
	r = Compute(scores(8, 5, 5, 5))
	assert.Equal(t, storyMixed, r.CompoundingStory)

	r = Compute(scores(3, 3, 7, 7))
	assert.Equal(t, storyStrong, r.CompoundingStory)
}

func TestPivotSuggestionOrder(t *testing.T) {
	r := Compute(scores(8, 8, 2, 2))
	require.Len(t, r.PivotSuggestions, 4)
	var kinds []model.PivotType
	for _, p := range r.PivotSuggestions {
		kinds = append(kinds, p.Type)
		assert.NotEmpty(t, p.Suggestion)
	}
	assert.Equal(t, []model.PivotType{model.PivotLockIn, model.PivotNiche, model.PivotValue, model.PivotPlatform}, kinds)

	r = Compute(scores(3, 3, 7, 7))
	assert.NotNil(t, r.PivotSuggestions)
	assert.Empty(t, r.PivotSuggestions)
}
