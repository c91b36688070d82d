package domain

import (
	"errors"
	"testing"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input   string
		want    Difficulty
		wantErr bool
	}{
		{input: "easy", want: DifficultyEasy},
		{input: " Medium ", want: DifficultyMedium},
		{input: "HARD", want: DifficultyHard},
		{input: "", wantErr: true},
		{input: "insane", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseDifficulty(tc.input)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidDifficulty) {
				t.Fatalf("ParseDifficulty(%q) error = %v, want ErrInvalidDifficulty", tc.input, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseDifficulty(%q) = %q, %v; want %q", tc.input, got, err, tc.want)
		}
	}
}

func TestQuestionValidate(t *testing.T) {
	ok := Question{Text: "2+2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "5"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid question, got %v", err)
	}

	bad := []Question{
		{Text: "", CorrectAnswer: "4", IncorrectAnswers: []string{"3"}},
		{Text: "2+2?", CorrectAnswer: "4"},
		{Text: "2+2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "4"}},
		{Text: "2+2?", IncorrectAnswers: []string{"3"}},
	}
	for i, q := range bad {
		if err := q.Validate(); !errors.Is(err, ErrInvalidQuestion) {
			t.Fatalf("case %d: expected ErrInvalidQuestion, got %v", i, err)
		}
	}
}
