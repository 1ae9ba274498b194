package service

import (
	"testing"

	"killtest/internal/model"
	"killtest/internal/questionnaire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillRequired answers every required question so navigation can reach the end
func fillRequired(t *testing.T, s *Session) {
	t.Helper()
	for _, p := range questionnaire.All() {
		q := p.Question
		if !q.Required {
			continue
		}
		switch q.Type {
		case model.QuestionTypeScale:
			require.NoError(t, s.SetAnswer(q.ID, model.Number(5)))
		case model.QuestionTypeRadio:
			require.NoError(t, s.SetAnswer(q.ID, model.Text(q.Options[0])))
		default:
			require.NoError(t, s.SetAnswer(q.ID, model.Text("answer")))
		}
	}
}

func inProgress(t *testing.T) *Session {
	t.Helper()
	s := NewSession("s1", model.LangEnglish)
	require.NoError(t, s.Start())
	require.NoError(t, s.Begin())
	return s
}

func TestSessionHappyPath(t *testing.T) {
	s := NewSession("s1", "")
	assert.Equal(t, model.StateNotStarted, s.State)
	assert.Equal(t, model.LangEnglish, s.Language)

	require.NoError(t, s.Start())
	assert.Equal(t, model.StateIntroShown, s.State)
	require.NoError(t, s.Begin())
	assert.Equal(t, model.StateInProgress, s.State)
	assert.Equal(t, 0, s.Cursor)

	fillRequired(t, s)
	for !questionnaire.IsLast(s.Cursor) {
		require.NoError(t, s.Next())
	}
	gen, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, model.StateAnalyzing, s.State)
	require.NotNil(t, s.Result, "offline result is installed synchronously")
	assert.Equal(t, EnrichmentPending, s.Enrichment)

	applied, err := s.Complete(gen, Unavailable("timeout"))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, model.StateCompleted, s.State)
	assert.Equal(t, EnrichmentUnavailable, s.Enrichment)
	assert.Nil(t, s.Result.AIAnalysis)
}

func TestSessionInvalidTransitions(t *testing.T) {
	s := NewSession("s1", model.LangEnglish)
	assert.ErrorIs(t, s.Begin(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Next(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Prev(), ErrInvalidTransition)
	assert.ErrorIs(t, s.SetAnswer(model.QIdeaDefinition, model.Text("x")), ErrInvalidTransition)
	_, err := s.Submit()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = s.Complete(0, Unavailable("x"))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Start(), ErrInvalidTransition)
}

func TestSessionNavigation(t *testing.T) {
	s := inProgress(t)

	require.NoError(t, s.Prev())
	assert.Equal(t, 0, s.Cursor, "prev clamps at the first question")

	assert.ErrorIs(t, s.Next(), ErrCannotProceed)
	require.NoError(t, s.SetAnswer(model.QIdeaDefinition, model.Text("   ")))
	assert.ErrorIs(t, s.Next(), ErrCannotProceed, "whitespace does not satisfy a required question")

	require.NoError(t, s.SetAnswer(model.QIdeaDefinition, model.Text("Idea")))
	require.NoError(t, s.Next())
	assert.Equal(t, 1, s.Cursor)
	require.NoError(t, s.Prev())
	assert.Equal(t, 0, s.Cursor)

	assert.ErrorIs(t, s.SetAnswer("nope", model.Text("x")), ErrUnknownQuestion)
}

func TestSessionSubmitOnlyFromLastQuestion(t *testing.T) {
	s := inProgress(t)
	fillRequired(t, s)
	_, err := s.Submit()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s.Cursor = questionnaire.Total() - 1
	require.NoError(t, s.Next(), "next on the last question is a no-op")
	assert.Equal(t, questionnaire.Total()-1, s.Cursor)
}

func TestSessionCompleteMergesEnrichment(t *testing.T) {
	s := NewSession("s1", model.LangEnglish)
	gen, err := s.SubmitAnswers(weakAnswers())
	require.NoError(t, err)
	assert.True(t, s.Imported)
	assert.Equal(t, model.VerdictKill, s.Result.Verdict)
	offlineScores := s.Result.Scores

	applied, err := s.Complete(gen, Enriched(model.AnalysisResponse{
		Verdict:        model.VerdictFlip,
		Confidence:     70,
		AdjustedScores: model.ScoreSet{CopycatRisk: 6, PlatformRisk: 6, LockInStrength: 6, PricingPower: 6},
	}))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, model.VerdictFlip, s.Result.Verdict)
	assert.Equal(t, offlineScores, s.Result.Scores)
	assert.Equal(t, 4, s.Result.WeakCount(), "weak signals stay as computed offline")
	require.NotNil(t, s.Result.AIAnalysis)
	assert.Equal(t, 70.0, s.Result.AIAnalysis.Confidence)
	assert.Equal(t, EnrichmentEnriched, s.Enrichment)
}

func TestSessionDiscardsStaleEnrichment(t *testing.T) {
	s := NewSession("s1", model.LangEnglish)
	gen, err := s.SubmitAnswers(weakAnswers())
	require.NoError(t, err)

	s.Reset()
	assert.Equal(t, model.StateNotStarted, s.State)
	assert.Empty(t, s.Answers)
	assert.Nil(t, s.Result)

	gen2, err := s.SubmitAnswers(model.AnswerSet{})
	require.NoError(t, err)
	assert.NotEqual(t, gen, gen2)

	applied, err := s.Complete(gen, Enriched(model.AnalysisResponse{Verdict: model.VerdictBuild}))
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, model.StateAnalyzing, s.State, "the new run keeps waiting")
	assert.Nil(t, s.Result.AIAnalysis)
}

func TestSessionSubmitAnswersGuards(t *testing.T) {
	s := NewSession("s1", model.LangEnglish)
	_, err := s.SubmitAnswers(model.AnswerSet{})
	require.NoError(t, err)

	_, err = s.SubmitAnswers(model.AnswerSet{})
	assert.ErrorIs(t, err, ErrInvalidTransition, "refused while analyzing")

	_, err = s.Complete(s.Generation, Unavailable("x"))
	require.NoError(t, err)
	_, err = s.SubmitAnswers(weakAnswers())
	assert.NoError(t, err, "allowed again once completed")
}

func TestSessionResetFromEveryState(t *testing.T) {
	for _, prepare := range []func(*Session){
		func(s *Session) {},
		func(s *Session) { s.Start() },
		func(s *Session) { s.Start(); s.Begin() },
		func(s *Session) { s.SubmitAnswers(model.AnswerSet{}) },
		func(s *Session) { g, _ := s.SubmitAnswers(model.AnswerSet{}); s.Complete(g, Unavailable("x")) },
	} {
		s := NewSession("s1", model.LangEnglish)
		prepare(s)
		before := s.Generation
		s.Reset()
		assert.Equal(t, model.StateNotStarted, s.State)
		assert.Equal(t, before+1, s.Generation)
	}
}

func TestSessionCurrentQuestion(t *testing.T) {
	s := NewSession("s1", model.LangEnglish)
	_, ok := s.CurrentQuestion()
	assert.False(t, ok)

	s = inProgress(t)
	p, ok := s.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, model.QIdeaDefinition, p.Question.ID)
}
