package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"timed-quiz-service/internal/domain"
)

// QuestionProvider fetches a batch of questions. One call is one best-effort attempt.
type QuestionProvider interface {
	FetchQuestions(ctx context.Context, difficulty domain.Difficulty, count int) ([]domain.Question, error)
}

// ErrLoadSuperseded is returned by Load when a Reset or a newer Load replaced it
// before the fetch completed. The fetched batch is discarded.
var ErrLoadSuperseded = errors.New("load superseded")

// Settings controls question count and session timing.
type Settings struct {
	QuestionCount   int
	TotalTime       time.Duration
	TickInterval    time.Duration
	TransitionDelay time.Duration
}

// DefaultSettings is a 10 second countdown in 100ms ticks with a 2 second pause between questions.
func DefaultSettings() Settings {
	return Settings{
		QuestionCount:   6,
		TotalTime:       10 * time.Second,
		TickInterval:    100 * time.Millisecond,
		TransitionDelay: 2 * time.Second,
	}
}

func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.QuestionCount <= 0 {
		s.QuestionCount = def.QuestionCount
	}
	if s.TotalTime <= 0 {
		s.TotalTime = def.TotalTime
	}
	if s.TickInterval <= 0 {
		s.TickInterval = def.TickInterval
	}
	if s.TransitionDelay <= 0 {
		s.TransitionDelay = def.TransitionDelay
	}
	return s
}

// Option customizes a Session.
type Option func(*Session)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithShuffler replaces the answer shuffler.
func WithShuffler(shuffler *Shuffler) Option {
	return func(s *Session) { s.shuffler = shuffler }
}

// Session is one play-through of a timed quiz. Every state change, whether a command,
// a countdown tick, the post-answer delay or a fetch completion, runs through dispatch
// and is therefore serialized.
type Session struct {
	id       string
	provider QuestionProvider
	settings Settings
	clock    Clock
	shuffler *Shuffler

	mu           sync.Mutex
	closed       bool
	state        domain.State
	difficulty   domain.Difficulty
	questions    []domain.Question
	index        int
	score        int
	answers      []string
	selected     string
	hasSelection bool
	answered     bool
	hintShown    bool
	errMsg       string
	loadGen      uint64
	countdown    *countdown
	advance      *timerSlot
	subscribers  map[chan domain.Snapshot]struct{}
}

// NewSession builds an idle session.
func NewSession(id string, provider QuestionProvider, settings Settings, opts ...Option) *Session {
	s := &Session{
		id:          id,
		provider:    provider,
		settings:    settings.withDefaults(),
		clock:       SystemClock,
		state:       domain.StateIdle,
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shuffler == nil {
		s.shuffler = NewShuffler()
	}
	s.countdown = newCountdown(s.clock, s.dispatch, s.settings.TotalTime, s.settings.TickInterval)
	s.advance = newTimerSlot(s.clock, s.dispatch)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// dispatch is the session's single event stream. It reports whether fn ran.
func (s *Session) dispatch(fn func() bool) {
	s.run(fn)
}

func (s *Session) run(fn func() bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if fn() {
		s.broadcastLocked()
	}
	return true
}

// Load fetches a new batch and starts the first question. Any running game is abandoned.
// Fetch failures and empty batches leave the session in StateFailed and are returned.
// The provider is called without holding the session lock, so timers and other commands
// keep flowing while the fetch is in flight.
func (s *Session) Load(ctx context.Context, difficulty domain.Difficulty) error {
	var gen uint64
	if !s.run(func() bool {
		s.stopTimersLocked()
		s.clearLocked()
		s.loadGen++
		gen = s.loadGen
		s.difficulty = difficulty
		s.errMsg = ""
		s.state = domain.StateLoading
		return true
	}) {
		return domain.ErrSessionNotFound
	}

	questions, err := s.fetch(ctx, difficulty)

	result := ErrLoadSuperseded
	s.run(func() bool {
		if gen != s.loadGen {
			return false
		}
		if err != nil {
			s.state = domain.StateFailed
			s.errMsg = failureMessage(err)
			result = err
			return true
		}
		s.questions = questions
		s.index = 0
		s.score = 0
		s.prepareLocked()
		result = nil
		return true
	})
	return result
}

func (s *Session) fetch(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, domain.ErrInvalidDifficulty)
	}
	questions, err := s.provider.FetchQuestions(ctx, difficulty, s.settings.QuestionCount)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, domain.ErrEmptyResult
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
		}
	}
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out, nil
}

func failureMessage(err error) string {
	if errors.Is(err, domain.ErrEmptyResult) {
		return "No questions returned"
	}
	return err.Error()
}

// prepareLocked activates the question at the current index.
func (s *Session) prepareLocked() {
	s.answers = s.shuffler.Shuffle(s.questions[s.index])
	s.selected = ""
	s.hasSelection = false
	s.answered = false
	s.hintShown = false
	s.state = domain.StateActive
	s.countdown.start(func() bool { return s.answered }, s.expireLocked)
}

// SelectAnswer answers the current question. It reports false, changing nothing, when no
// question is active or the question was already answered or timed out. Answers that are
// not in the presented set simply score as incorrect.
func (s *Session) SelectAnswer(answer string) bool {
	accepted := false
	s.run(func() bool {
		if s.state != domain.StateActive || s.answered {
			return false
		}
		s.selected = answer
		s.hasSelection = true
		s.answered = true
		s.countdown.cancel()
		if answer == s.questions[s.index].CorrectAnswer {
			s.score++
		}
		s.enterAnsweredLocked()
		accepted = true
		return true
	})
	return accepted
}

// expireLocked is the countdown reaching zero: an implicit answer with no selection.
func (s *Session) expireLocked() {
	if s.state != domain.StateActive || s.answered {
		return
	}
	s.answered = true
	s.enterAnsweredLocked()
}

func (s *Session) enterAnsweredLocked() {
	s.state = domain.StateAnswered
	s.advance.schedule(s.settings.TransitionDelay, s.advanceLocked)
}

func (s *Session) advanceLocked() bool {
	if s.state != domain.StateAnswered {
		return false
	}
	s.index++
	if s.index < len(s.questions) {
		s.prepareLocked()
		return true
	}
	s.countdown.cancel()
	s.answers = nil
	s.state = domain.StateGameOver
	return true
}

// ShowHint sets the one-way hint flag for the active, unanswered question.
func (s *Session) ShowHint() bool {
	shown := false
	s.run(func() bool {
		if s.state != domain.StateActive || s.answered || s.hintShown {
			return false
		}
		s.hintShown = true
		shown = true
		return true
	})
	return shown
}

// Reset cancels both timers, drops the questions and returns to StateIdle.
// An in-flight Load is superseded.
func (s *Session) Reset() {
	s.run(func() bool {
		s.stopTimersLocked()
		s.clearLocked()
		s.loadGen++
		s.difficulty = ""
		s.errMsg = ""
		s.state = domain.StateIdle
		return true
	})
}

// Close tears the session down: timers are stopped and subscriber channels closed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopTimersLocked()
	s.loadGen++
	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) stopTimersLocked() {
	s.countdown.cancel()
	s.advance.cancel()
}

func (s *Session) clearLocked() {
	s.questions = nil
	s.index = 0
	s.score = 0
	s.answers = nil
	s.selected = ""
	s.hasSelection = false
	s.answered = false
	s.hintShown = false
	s.countdown.reset()
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot after every state change, starting
// with the current one. The caller must invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// slow reader: replace the oldest pending snapshot
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Session) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		State:         s.state,
		Difficulty:    s.difficulty,
		Index:         s.index,
		Total:         len(s.questions),
		Selected:      s.selected,
		HasSelection:  s.hasSelection,
		Answered:      s.answered,
		HintShown:     s.hintShown,
		TimeRemaining: s.countdown.seconds(),
		Score:         s.score,
		GameOver:      s.state == domain.StateGameOver,
		Loading:       s.state == domain.StateLoading,
		Error:         s.errMsg,
	}
	if (s.state == domain.StateActive || s.state == domain.StateAnswered) && s.index < len(s.questions) {
		q := s.questions[s.index]
		snap.Category = q.Category
		snap.Question = q.Text
		snap.Answers = append([]string(nil), s.answers...)
		if s.answered {
			snap.CorrectAnswer = q.CorrectAnswer
		}
		if s.hintShown {
			snap.Suppressed = SuppressedAnswers(s.answers, q.CorrectAnswer)
		}
	}
	if snap.GameOver {
		snap.Percentage = ScorePercentage(s.score, len(s.questions))
	}
	return snap
}

// ScorePercentage is round(score/total*100), or 0 for an empty quiz.
func ScorePercentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// SuppressedAnswers lists the answers a revealed hint hides: everything past the first
// two presented positions that is not the correct answer.
func SuppressedAnswers(answers []string, correct string) []string {
	var out []string
	for i, a := range answers {
		if i < 2 || a == correct {
			continue
		}
		out = append(out, a)
	}
	return out
}
