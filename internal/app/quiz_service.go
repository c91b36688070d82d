package app

import (
	"context"

	"github.com/google/uuid"

	"timed-quiz-service/internal/domain"
)

// SessionRepository abstracts where live sessions are kept (in-memory, Redis-tracked, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// QuizService contains the quiz use cases exposed to transports.
type QuizService struct {
	sessions SessionRepository
	provider QuestionProvider
	settings Settings
	opts     []Option
}

func NewQuizService(store SessionRepository, provider QuestionProvider, settings Settings, opts ...Option) *QuizService {
	return &QuizService{sessions: store, provider: provider, settings: settings, opts: opts}
}

// Create registers a new idle session under a random id.
func (s *QuizService) Create(_ context.Context) *Session {
	session := NewSession(uuid.NewString(), s.provider, s.settings, s.opts...)
	s.sessions.Save(session)
	return session
}

// Load starts a game on an existing session. It blocks until the fetch resolves.
func (s *QuizService) Load(ctx context.Context, sessionID string, difficulty domain.Difficulty) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.Load(ctx, difficulty)
}

// SelectAnswer answers the session's current question and reports whether it was accepted.
func (s *QuizService) SelectAnswer(_ context.Context, sessionID, answer string) (bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.SelectAnswer(answer), nil
}

// ShowHint reveals the hint for the current question.
func (s *QuizService) ShowHint(_ context.Context, sessionID string) (bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.ShowHint(), nil
}

// Reset returns the session to idle.
func (s *QuizService) Reset(_ context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Reset()
	return nil
}

// Snapshot returns the current state of a session.
func (s *QuizService) Snapshot(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives snapshot updates for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Snapshot, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Close tears down the session and forgets it.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(sessionID)
}
