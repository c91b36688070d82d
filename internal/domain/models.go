package domain

import (
	"fmt"
	"strings"
)

// Difficulty is the requested question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes raw input into a known difficulty.
func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, raw)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single multiple-choice quiz item. It is never mutated once loaded.
type Question struct {
	ID               string     `json:"id"`
	Category         string     `json:"category"`
	Text             string     `json:"question"`
	CorrectAnswer    string     `json:"correctAnswer"`
	IncorrectAnswers []string   `json:"incorrectAnswers"`
	Difficulty       Difficulty `json:"difficulty"`
}

// Validate checks that the question can be presented: it needs a prompt, at least one
// incorrect answer, and a correct answer that does not appear among the incorrect ones.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidQuestion)
	}
	if q.CorrectAnswer == "" {
		return fmt.Errorf("%w: missing correct answer", ErrInvalidQuestion)
	}
	if len(q.IncorrectAnswers) == 0 {
		return fmt.Errorf("%w: no incorrect answers", ErrInvalidQuestion)
	}
	for _, a := range q.IncorrectAnswers {
		if a == q.CorrectAnswer {
			return fmt.Errorf("%w: correct answer %q duplicated", ErrInvalidQuestion, a)
		}
	}
	return nil
}

// State is the quiz session lifecycle stage.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateActive   State = "active"
	StateAnswered State = "answered"
	StateGameOver State = "game_over"
	StateFailed   State = "failed"
)

// Snapshot is the read-only view of a session handed to presentation layers.
type Snapshot struct {
	State         State      `json:"state"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
	Index         int        `json:"index"`
	Total         int        `json:"total"`
	Category      string     `json:"category,omitempty"`
	Question      string     `json:"question,omitempty"`
	Answers       []string   `json:"answers,omitempty"`
	Selected      string     `json:"selected,omitempty"`
	HasSelection  bool       `json:"hasSelection"`
	Answered      bool       `json:"answered"`
	HintShown     bool       `json:"hintShown"`
	Suppressed    []string   `json:"suppressed,omitempty"`
	CorrectAnswer string     `json:"correctAnswer,omitempty"` // set once the question is answered
	TimeRemaining float64    `json:"timeRemaining"`
	Score         int        `json:"score"`
	Percentage    int        `json:"percentage"`
	GameOver      bool       `json:"gameOver"`
	Loading       bool       `json:"loading"`
	Error         string     `json:"error,omitempty"`
}
