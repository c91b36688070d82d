package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been created or was closed.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrInvalidDifficulty is returned for difficulties outside easy, medium and hard.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrInvalidRequest means the provider rejected the fetch parameters.
	ErrInvalidRequest = errors.New("invalid question request")
	// ErrTransport means the fetch could not complete.
	ErrTransport = errors.New("question fetch failed")
	// ErrDecode means the provider response did not have the expected shape.
	ErrDecode = errors.New("malformed question payload")
	// ErrEmptyResult means the fetch succeeded but yielded zero questions.
	ErrEmptyResult = errors.New("no questions returned")

	// ErrInvalidQuestion indicates a question record breaks the answer invariants.
	ErrInvalidQuestion = errors.New("invalid question")
)
