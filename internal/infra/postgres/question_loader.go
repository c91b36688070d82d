package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"timed-quiz-service/internal/domain"
)

// QuestionLoader draws random questions from the questions table.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) FetchQuestions(ctx context.Context, difficulty domain.Difficulty, count int) ([]domain.Question, error) {
	if !difficulty.Valid() || count <= 0 {
		return nil, fmt.Errorf("%w: difficulty=%q count=%d", domain.ErrInvalidRequest, difficulty, count)
	}

	rows, err := l.pool.Query(ctx, `
		SELECT id, category, question, correct_answer, incorrect_answers, difficulty
		FROM questions
		WHERE difficulty = $1
		ORDER BY random()
		LIMIT $2`, string(difficulty), count)
	if err != nil {
		return nil, fmt.Errorf("%w: query questions: %w", domain.ErrTransport, err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q     domain.Question
			level string
		)
		if err := rows.Scan(&q.ID, &q.Category, &q.Text, &q.CorrectAnswer, &q.IncorrectAnswers, &level); err != nil {
			return nil, fmt.Errorf("%w: scan question: %w", domain.ErrDecode, err)
		}
		q.Difficulty = domain.Difficulty(level)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read questions: %w", domain.ErrTransport, err)
	}
	return questions, nil
}
