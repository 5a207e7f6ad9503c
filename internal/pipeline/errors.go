package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResume is returned before any model call when the resume has no text.
	ErrEmptyResume = errors.New("resume text is empty")
	// ErrEmptyRole is returned before any model call when no target role is given.
	ErrEmptyRole = errors.New("target role is empty")
)

// StageError reports which stage aborted a pipeline run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
