package engine

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAnswer        = errors.New("missing answer")
	ErrInvalidAnswer        = errors.New("invalid answer")
	ErrInvalidPositionInput = errors.New("invalid position input")
	ErrInvalidStats         = errors.New("invalid stats")
)

// MissingAnswerError means a declared question has no answer. The evaluation
// is aborted and no Decision is produced.
type MissingAnswerError struct {
	QuestionID string
}

func (e *MissingAnswerError) Error() string {
	return fmt.Sprintf("missing answer for question %q", e.QuestionID)
}

func (e *MissingAnswerError) Is(target error) bool {
	return target == ErrMissingAnswer
}

// InvalidAnswerError means an answer does not match its declared type or bounds.
type InvalidAnswerError struct {
	QuestionID string
	Reason     string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for question %q: %s", e.QuestionID, e.Reason)
}

func (e *InvalidAnswerError) Is(target error) bool {
	return target == ErrInvalidAnswer
}

// InvalidPositionInputError is recovered by the engine: the Decision is still
// produced, without a lot size, and the error text becomes a warning.
type InvalidPositionInputError struct {
	Field string
	Value float64
}

func (e *InvalidPositionInputError) Error() string {
	return fmt.Sprintf("invalid position input: %s must be > 0, got %g", e.Field, e.Value)
}

func (e *InvalidPositionInputError) Is(target error) bool {
	return target == ErrInvalidPositionInput
}

// InvalidStatsError means the session statistics cannot be checked against
// the loss rules. Like a malformed answer it aborts the call.
type InvalidStatsError struct {
	Field  string
	Reason string
}

func (e *InvalidStatsError) Error() string {
	return fmt.Sprintf("invalid stats: %s %s", e.Field, e.Reason)
}

func (e *InvalidStatsError) Is(target error) bool {
	return target == ErrInvalidStats
}
