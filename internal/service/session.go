package service

import (
	"errors"
	"fmt"
	"time"

	"killtest/internal/model"
	"killtest/internal/questionnaire"
	"killtest/internal/verdict"
)

var (
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrCannotProceed     = errors.New("current question requires an answer")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownQuestion   = errors.New("unknown question")
)

// Session is one assessment run. Methods mutate in place; callers serialize
// access per session.
type Session struct {
	ID         string             `json:"id"`
	State      model.SessionState `json:"state"`
	Language   model.Language     `json:"language"`
	Cursor     int                `json:"cursor"`
	Answers    model.AnswerSet    `json:"answers"`
	Result     *model.Result      `json:"result,omitempty"`
	Enrichment EnrichmentStatus   `json:"enrichment,omitempty"`
	Imported   bool               `json:"imported"`
	// Generation increments on every reset so late enrichment for an
	// abandoned run can be recognised and dropped.
	Generation  uint64    `json:"generation"`
	SubmittedAt time.Time `json:"submittedAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewSession returns a session in not-started
func NewSession(id string, lang model.Language) *Session {
	return &Session{
		ID:        id,
		State:     model.StateNotStarted,
		Language:  lang.OrDefault(),
		Answers:   model.AnswerSet{},
		UpdatedAt: time.Now(),
	}
}

func (s *Session) require(states ...model.SessionState) error {
	for _, st := range states {
		if s.State == st {
			return nil
		}
	}
	return fmt.Errorf("%w: not allowed in %s", ErrInvalidTransition, s.State)
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// Start shows the intro
func (s *Session) Start() error {
	if err := s.require(model.StateNotStarted); err != nil {
		return err
	}
	s.State = model.StateIntroShown
	s.touch()
	return nil
}

// Begin leaves the intro for the first question
func (s *Session) Begin() error {
	if err := s.require(model.StateIntroShown); err != nil {
		return err
	}
	s.State = model.StateInProgress
	s.Cursor = 0
	s.touch()
	return nil
}

// CurrentQuestion returns the question under the cursor
func (s *Session) CurrentQuestion() (questionnaire.Position, bool) {
	if s.State != model.StateInProgress {
		return questionnaire.Position{}, false
	}
	return questionnaire.At(s.Cursor)
}

// SetAnswer stores a value without validating it
func (s *Session) SetAnswer(id string, v model.AnswerValue) error {
	if err := s.require(model.StateInProgress); err != nil {
		return err
	}
	if _, ok := questionnaire.Lookup(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	s.Answers.Set(id, v)
	s.touch()
	return nil
}

// Next advances unless the current required question is unanswered.
// At the last question it is a no-op.
func (s *Session) Next() error {
	if err := s.require(model.StateInProgress); err != nil {
		return err
	}
	if questionnaire.IsLast(s.Cursor) {
		return nil
	}
	if !questionnaire.CanProceed(s.Cursor, s.Answers) {
		return ErrCannotProceed
	}
	s.Cursor = questionnaire.Next(s.Cursor)
	s.touch()
	return nil
}

// Prev steps back, staying on the first question
func (s *Session) Prev() error {
	if err := s.require(model.StateInProgress); err != nil {
		return err
	}
	s.Cursor = questionnaire.Prev(s.Cursor)
	s.touch()
	return nil
}

// Submit finishes the questionnaire from the last question. The offline
// result is installed before returning; the returned generation must be
// passed to Complete.
func (s *Session) Submit() (uint64, error) {
	if err := s.require(model.StateInProgress); err != nil {
		return 0, err
	}
	if !questionnaire.IsLast(s.Cursor) {
		return 0, fmt.Errorf("%w: submit is only allowed from the last question", ErrInvalidTransition)
	}
	if !questionnaire.CanProceed(s.Cursor, s.Answers) {
		return 0, ErrCannotProceed
	}
	s.analyze()
	return s.Generation, nil
}

// SubmitAnswers replaces the answers wholesale and jumps to analyzing.
// This is the bulk import entry and is refused only while analyzing.
func (s *Session) SubmitAnswers(answers model.AnswerSet) (uint64, error) {
	if s.State == model.StateAnalyzing {
		return 0, fmt.Errorf("%w: analysis already running", ErrInvalidTransition)
	}
	if s.State == model.StateCompleted {
		s.Generation++
	}
	s.Answers = answers.Clone()
	s.Imported = true
	s.analyze()
	return s.Generation, nil
}

func (s *Session) analyze() {
	r := verdict.Compute(s.Answers)
	s.Result = &r
	s.State = model.StateAnalyzing
	s.Enrichment = EnrichmentPending
	s.SubmittedAt = time.Now()
	s.touch()
}

// Complete resolves the analysis. It reports false, with no error, when gen
// belongs to an abandoned run and the enrichment was discarded.
func (s *Session) Complete(gen uint64, e Enrichment) (bool, error) {
	if gen != s.Generation {
		return false, nil
	}
	if err := s.require(model.StateAnalyzing); err != nil {
		return false, err
	}
	if e.OK() && s.Result != nil {
		merged := verdict.Merge(*s.Result, *e.Analysis)
		s.Result = &merged
		s.Enrichment = EnrichmentEnriched
	} else {
		s.Enrichment = EnrichmentUnavailable
	}
	s.State = model.StateCompleted
	s.touch()
	return true, nil
}

// Reset returns to not-started from any state and discards answers and result
func (s *Session) Reset() {
	s.State = model.StateNotStarted
	s.Cursor = 0
	s.Answers = model.AnswerSet{}
	s.Result = nil
	s.Enrichment = ""
	s.Imported = false
	s.SubmittedAt = time.Time{}
	s.Generation++
	s.touch()
}
