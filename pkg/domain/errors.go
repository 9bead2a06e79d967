package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingVariable is returned when a placeholder has no value in the lesson variables.
	// It is an authoring error and must never be defaulted silently.
	ErrMissingVariable = errors.New("missing variable")

	// ErrOutOfRange is returned when an option index is outside the listed options.
	ErrOutOfRange = errors.New("option index out of range")

	// ErrInvalidState is returned when an operation is not allowed in the current runner state,
	// e.g. advancing a terminated lesson.
	ErrInvalidState = errors.New("invalid runner state")

	// ErrCycle is returned when fast-forwarding revisits a narration line without learner input.
	ErrCycle = errors.New("narration cycle detected")

	// ErrInvariant is returned when the projector observes a state fast-forward should have consumed.
	ErrInvariant = errors.New("transcript invariant violated")

	// ErrNodeNotFound is returned when a node reference does not exist in the script.
	ErrNodeNotFound = errors.New("node not found")

	// ErrLessonNotFound is returned when a live lesson ID is unknown.
	ErrLessonNotFound = errors.New("lesson not found")
)

// MissingVariableError names the placeholder that could not be resolved.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing variable %q", e.Name)
}

func (e *MissingVariableError) Is(target error) bool {
	return target == ErrMissingVariable
}

// OutOfRangeError describes a rejected option selection.
type OutOfRangeError struct {
	NodeID string
	Index  int
	Count  int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("option %d out of range [0, %d) at node %s", e.Index, e.Count, e.NodeID)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
