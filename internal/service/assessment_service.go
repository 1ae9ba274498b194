package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"killtest/internal/cache"
	"killtest/internal/metrics"
	"killtest/internal/model"
	"killtest/internal/repository"

	"github.com/google/uuid"
)

// AssessmentService drives sessions through the questionnaire and runs the
// asynchronous enrichment for each submission
type AssessmentService struct {
	sessions    cache.Store[Session]
	results     repository.ResultRepo
	tally       cache.VerdictTally
	enricher    Enricher
	auth        *AuthService
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      *slog.Logger
	timeout     time.Duration

	mu    sync.Mutex
	locks map[string]*sessionLock

	pending sync.WaitGroup
}

// NewAssessmentService creates the service. results may be nil, in which
// case completed assessments are only kept in the session store.
func NewAssessmentService(sessions cache.Store[Session], results repository.ResultRepo, enricher Enricher, auth *AuthService, m *metrics.Metrics, logger *slog.Logger) *AssessmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessmentService{
		sessions: sessions,
		results:  results,
		enricher: enricher,
		auth:     auth,
		metrics:  m,
		logger:   logger,
		timeout:  DefaultEnrichmentTimeout,
		locks:    make(map[string]*sessionLock),
	}
}

// SetBroadcaster sets the broadcaster for real-time updates
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetTally counts each final verdict in t
func (s *AssessmentService) SetTally(t cache.VerdictTally) {
	s.tally = t
}

// SetEnrichmentTimeout bounds each enrichment attempt
func (s *AssessmentService) SetEnrichmentTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Wait blocks until in-flight enrichments have resolved
func (s *AssessmentService) Wait() {
	s.pending.Wait()
}

// Create opens a new session and returns a token scoped to it
func (s *AssessmentService) Create(ctx context.Context, lang model.Language) (*Session, string, error) {
	sess := NewSession(uuid.New().String(), lang)
	if err := s.sessions.Set(ctx, sess.ID, sess); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}
	token, err := s.auth.GenerateSessionToken(sess.ID)
	if err != nil {
		return nil, "", err
	}
	s.metrics.Transition(string(sess.State))
	return sess, token, nil
}

// Get loads a session
func (s *AssessmentService) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// sessionLock is dropped from the map once nobody holds or waits on it
type sessionLock struct {
	sync.Mutex
	refs int
}

func (s *AssessmentService) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// mutate applies fn to the stored session under the per-session lock and
// persists the result only when fn succeeds
func (s *AssessmentService) mutate(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	unlock := s.lock(id)
	defer unlock()
	return s.mutateLocked(ctx, id, fn)
}

// mutateLocked is mutate for callers already holding the session lock
func (s *AssessmentService) mutateLocked(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := sess.State
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, id, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	if sess.State != before {
		s.metrics.Transition(string(sess.State))
	}
	return sess, nil
}

func (s *AssessmentService) Start(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, (*Session).Start)
}

func (s *AssessmentService) Begin(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, (*Session).Begin)
}

func (s *AssessmentService) Next(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, (*Session).Next)
}

func (s *AssessmentService) Prev(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, (*Session).Prev)
}

func (s *AssessmentService) SetAnswer(ctx context.Context, id, questionID string, v model.AnswerValue) (*Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		return sess.SetAnswer(questionID, v)
	})
}

// SetLanguage switches the session language; it applies to later enrichment
func (s *AssessmentService) SetLanguage(ctx context.Context, id string, lang model.Language) (*Session, error) {
	return s.mutate(ctx, id, func(sess *Session) error {
		sess.Language = lang.OrDefault()
		return nil
	})
}

// Reset abandons the current run and drops its archived result. Any
// enrichment still in flight for it will be discarded when it lands.
func (s *AssessmentService) Reset(ctx context.Context, id string) (*Session, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.mutateLocked(ctx, id, func(sess *Session) error {
		sess.Reset()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.results != nil {
		if err := s.results.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("delete archived result: %w", err)
		}
	}
	s.broadcast(id, MsgSessionReset, map[string]interface{}{"sessionId": id, "generation": sess.Generation})
	return sess, nil
}

// Submit finishes the questionnaire. The returned session already carries
// the offline result; enrichment continues in the background.
func (s *AssessmentService) Submit(ctx context.Context, id string) (*Session, error) {
	var gen uint64
	sess, err := s.mutate(ctx, id, func(sess *Session) error {
		var err error
		gen, err = sess.Submit()
		return err
	})
	if err != nil {
		return nil, err
	}
	s.startEnrichment(sess, gen)
	return sess, nil
}

// Import replaces the answers with an externally supplied set and goes
// straight to analysis
func (s *AssessmentService) Import(ctx context.Context, id string, answers model.AnswerSet) (*Session, error) {
	var gen uint64
	sess, err := s.mutate(ctx, id, func(sess *Session) error {
		var err error
		gen, err = sess.SubmitAnswers(answers)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.startEnrichment(sess, gen)
	return sess, nil
}

func (s *AssessmentService) startEnrichment(sess *Session, gen uint64) {
	s.metrics.Verdict(string(sess.Result.Verdict), "offline")
	s.broadcast(sess.ID, MsgAnalysisStarted, map[string]interface{}{
		"sessionId": sess.ID,
		"result":    sess.Result,
	})

	answers := sess.Answers.Clone()
	id, lang := sess.ID, sess.Language

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		started := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		e := s.enrich(ctx, answers, lang)
		cancel()

		s.complete(id, gen, e, time.Since(started))
	}()
}

func (s *AssessmentService) enrich(ctx context.Context, answers model.AnswerSet, lang model.Language) (e Enrichment) {
	if s.enricher == nil {
		return Unavailable("enrichment disabled")
	}
	defer func() {
		if r := recover(); r != nil {
			e = Unavailable(fmt.Sprintf("enricher panic: %v", r))
		}
	}()
	return s.enricher.Enrich(ctx, answers, lang)
}

func (s *AssessmentService) complete(id string, gen uint64, e Enrichment, took time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// held through archiving so a concurrent Reset cannot be undone by the save
	unlock := s.lock(id)
	defer unlock()

	applied := false
	sess, err := s.mutateLocked(ctx, id, func(sess *Session) error {
		var err error
		applied, err = sess.Complete(gen, e)
		return err
	})
	if err != nil {
		s.logger.Warn("enrichment could not be applied", slog.String("session", id), slog.String("error", err.Error()))
		return
	}
	if !applied {
		s.metrics.Enrichment(metrics.OutcomeStale, took)
		s.logger.Info("discarded stale enrichment", slog.String("session", id), slog.Uint64("generation", gen))
		return
	}

	outcome := metrics.OutcomeUnavailable
	if e.OK() {
		outcome = metrics.OutcomeEnriched
		s.broadcast(id, MsgResultUpdated, map[string]interface{}{
			"sessionId": id,
			"result":    sess.Result,
		})
	} else {
		s.logger.Warn("enrichment unavailable", slog.String("session", id), slog.String("reason", e.Reason))
	}
	s.metrics.Enrichment(outcome, took)
	s.metrics.Verdict(string(sess.Result.Verdict), "final")
	if s.tally != nil {
		if err := s.tally.Increment(ctx, string(sess.Result.Verdict)); err != nil {
			s.logger.Warn("failed to count verdict", slog.String("session", id), slog.String("error", err.Error()))
		}
	}
	s.broadcast(id, MsgAnalysisComplete, map[string]interface{}{
		"sessionId":  id,
		"state":      sess.State,
		"enrichment": sess.Enrichment,
	})

	s.archive(ctx, sess, e)
}

func (s *AssessmentService) archive(ctx context.Context, sess *Session, e Enrichment) {
	if s.results == nil || sess.Result == nil {
		return
	}
	source := model.SourceOffline
	if e.OK() {
		source = e.Analysis.Source
		if source == "" {
			source = model.SourceAI
		}
	}
	rec := &model.ArchivedResult{
		SessionID:   sess.ID,
		Language:    sess.Language,
		Answers:     sess.Answers,
		Result:      *sess.Result,
		Source:      source,
		Imported:    sess.Imported,
		CompletedAt: sess.UpdatedAt,
	}
	if err := s.results.Save(ctx, rec); err != nil {
		s.logger.Error("failed to archive result", slog.String("session", sess.ID), slog.String("error", err.Error()))
	}
}

// Result returns the archived result for a session, or the live one when
// the session is completed but nothing was archived
func (s *AssessmentService) Result(ctx context.Context, id string) (*model.ArchivedResult, error) {
	if s.results != nil {
		rec, err := s.results.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.State != model.StateCompleted || sess.Result == nil {
		return nil, ErrSessionNotFound
	}
	source := model.SourceOffline
	if sess.Enrichment == EnrichmentEnriched {
		source = model.SourceAI
	}
	return &model.ArchivedResult{
		SessionID:   sess.ID,
		Language:    sess.Language,
		Answers:     sess.Answers,
		Result:      *sess.Result,
		Source:      source,
		Imported:    sess.Imported,
		CompletedAt: sess.UpdatedAt,
	}, nil
}

func (s *AssessmentService) broadcast(id, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(id, msgType, payload)
	}
}
