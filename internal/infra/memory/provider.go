package memory

import (
	"context"

	"timed-quiz-service/internal/domain"
)

// StaticProvider serves questions from an in-memory bank (useful for tests, demos and
// offline play).
type StaticProvider struct {
	questions []domain.Question
}

func NewStaticProvider(questions []domain.Question) *StaticProvider {
	return &StaticProvider{questions: questions}
}

// FetchQuestions returns up to count questions of the requested difficulty in bank order.
func (p *StaticProvider) FetchQuestions(_ context.Context, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
	if !difficulty.Valid() || count <= 0 {
		return nil, domain.ErrInvalidRequest
	}
	out := make([]domain.Question, 0, count)
	for _, q := range p.questions {
		if q.Difficulty != difficulty {
			continue
		}
		out = append(out, q)
		if len(out) == count {
			break
		}
	}
	return out, nil
}

// SampleQuestions is a small built-in bank used when no upstream provider is configured.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "easy-1", Category: "Geography", Text: "What is the capital of France?", CorrectAnswer: "Paris", IncorrectAnswers: []string{"Berlin", "Madrid", "Rome"}, Difficulty: domain.DifficultyEasy},
		{ID: "easy-2", Category: "Science", Text: "Which planet is known as the Red Planet?", CorrectAnswer: "Mars", IncorrectAnswers: []string{"Venus", "Jupiter", "Saturn"}, Difficulty: domain.DifficultyEasy},
		{ID: "easy-3", Category: "Mathematics", Text: "What is 15 multiplied by 4?", CorrectAnswer: "60", IncorrectAnswers: []string{"50", "70", "80"}, Difficulty: domain.DifficultyEasy},
		{ID: "easy-4", Category: "Animals", Text: "How many legs does a spider have?", CorrectAnswer: "8", IncorrectAnswers: []string{"6", "10", "12"}, Difficulty: domain.DifficultyEasy},
		{ID: "easy-5", Category: "Geography", Text: "What is the largest ocean on Earth?", CorrectAnswer: "Pacific", IncorrectAnswers: []string{"Atlantic", "Indian", "Arctic"}, Difficulty: domain.DifficultyEasy},
		{ID: "easy-6", Category: "Science", Text: "What is the chemical symbol for water?", CorrectAnswer: "H2O", IncorrectAnswers: []string{"CO2", "O2", "NaCl"}, Difficulty: domain.DifficultyEasy},
		{ID: "medium-1", Category: "History", Text: "In which year did the Berlin Wall fall?", CorrectAnswer: "1989", IncorrectAnswers: []string{"1987", "1991", "1985"}, Difficulty: domain.DifficultyMedium},
		{ID: "medium-2", Category: "Science", Text: "What is the hardest natural substance?", CorrectAnswer: "Diamond", IncorrectAnswers: []string{"Quartz", "Granite", "Topaz"}, Difficulty: domain.DifficultyMedium},
		{ID: "medium-3", Category: "Literature", Text: "Who wrote \"One Hundred Years of Solitude\"?", CorrectAnswer: "Gabriel Garcia Marquez", IncorrectAnswers: []string{"Jorge Luis Borges", "Isabel Allende", "Mario Vargas Llosa"}, Difficulty: domain.DifficultyMedium},
		{ID: "hard-1", Category: "Mathematics", Text: "What is the smallest perfect number?", CorrectAnswer: "6", IncorrectAnswers: []string{"28", "1", "12"}, Difficulty: domain.DifficultyHard},
		{ID: "hard-2", Category: "Science", Text: "Which element has the atomic number 74?", CorrectAnswer: "Tungsten", IncorrectAnswers: []string{"Osmium", "Iridium", "Rhenium"}, Difficulty: domain.DifficultyHard},
	}
}
