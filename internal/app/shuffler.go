package app

import (
	"math/rand"
	"sync"
	"time"

	"timed-quiz-service/internal/domain"
)

// Shuffler produces the presentation order of a question's answers.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewShuffler seeds from the current time.
func NewShuffler() *Shuffler {
	return NewSeededShuffler(time.Now().UnixNano())
}

// NewSeededShuffler gives a reproducible order sequence for a fixed seed.
func NewSeededShuffler(seed int64) *Shuffler {
	return &Shuffler{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a fresh slice holding the correct answer and every incorrect answer
// in uniformly random order. Each call draws a new permutation.
func (s *Shuffler) Shuffle(q domain.Question) []string {
	answers := make([]string, 0, len(q.IncorrectAnswers)+1)
	answers = append(answers, q.CorrectAnswer)
	answers = append(answers, q.IncorrectAnswers...)

	s.mu.Lock()
	s.rnd.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})
	s.mu.Unlock()
	return answers
}
