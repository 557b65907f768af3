package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidHeuristic indicates a negative tuning constant.
var ErrInvalidHeuristic = errors.New("invalid layout heuristic")

// HeuristicError names the offending constant.
type HeuristicError struct {
	Field string
	Value int
}

func (e *HeuristicError) Error() string {
	return fmt.Sprintf("%v: %s must be >= 0, got %d", ErrInvalidHeuristic, e.Field, e.Value)
}

func (e *HeuristicError) Unwrap() error { return ErrInvalidHeuristic }
