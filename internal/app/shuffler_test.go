package app

import (
	"reflect"
	"testing"

	"timed-quiz-service/internal/domain"
)

func TestShuffleKeepsEveryAnswerOnce(t *testing.T) {
	q := domain.Question{
		Text:             "Largest planet?",
		CorrectAnswer:    "Jupiter",
		IncorrectAnswers: []string{"Mars", "Venus", "Mercury"},
	}
	s := NewSeededShuffler(7)

	for i := 0; i < 50; i++ {
		answers := s.Shuffle(q)
		if len(answers) != 4 {
			t.Fatalf("expected 4 answers, got %v", answers)
		}
		seen := map[string]int{}
		for _, a := range answers {
			seen[a]++
		}
		for _, want := range append([]string{q.CorrectAnswer}, q.IncorrectAnswers...) {
			if seen[want] != 1 {
				t.Fatalf("expected %q exactly once in %v", want, answers)
			}
		}
	}
}

func TestShuffleIsReproducibleForSeed(t *testing.T) {
	q := domain.Question{CorrectAnswer: "a", IncorrectAnswers: []string{"b", "c", "d", "e"}}

	first := NewSeededShuffler(99)
	second := NewSeededShuffler(99)
	for i := 0; i < 10; i++ {
		if got, want := first.Shuffle(q), second.Shuffle(q); !reflect.DeepEqual(got, want) {
			t.Fatalf("round %d: %v != %v", i, got, want)
		}
	}
}

func TestShuffleReturnsFreshSlices(t *testing.T) {
	q := domain.Question{CorrectAnswer: "a", IncorrectAnswers: []string{"b"}}
	s := NewSeededShuffler(1)

	answers := s.Shuffle(q)
	answers[0] = "mutated"
	for _, a := range s.Shuffle(q) {
		if a == "mutated" {
			t.Fatalf("shuffle reused a previously returned slice")
		}
	}
	if q.IncorrectAnswers[0] != "b" {
		t.Fatalf("shuffle mutated the question")
	}
}

func TestShuffleProducesDifferentOrders(t *testing.T) {
	q := domain.Question{CorrectAnswer: "a", IncorrectAnswers: []string{"b", "c", "d"}}
	s := NewSeededShuffler(3)

	orders := map[string]bool{}
	for i := 0; i < 100; i++ {
		answers := s.Shuffle(q)
		orders[answers[0]+answers[1]+answers[2]+answers[3]] = true
	}
	if len(orders) < 2 {
		t.Fatalf("expected multiple permutations, got %v", orders)
	}
}
