package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// Stage failure kinds. A StageError matches the kind for its stage via errors.Is.
var (
	ErrExtractionFailed = errors.New("extraction failed")
	ErrStorageFailed    = errors.New("storage failed")
	ErrMatchFailed      = errors.New("match detection failed")
)

// Stage names the pipeline boundary where a collaborator failed.
type Stage string

const (
	StageExtraction Stage = "extraction"
	StageStorage    Stage = "storage"
	StageMatch      Stage = "match"
)

// StageError wraps a collaborator failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

// NewStageError returns a StageError for the given stage.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the failure kind for this stage.
func (e *StageError) Is(target error) bool {
	switch e.Stage {
	case StageExtraction:
		return target == ErrExtractionFailed
	case StageStorage:
		return target == ErrStorageFailed
	case StageMatch:
		return target == ErrMatchFailed
	}
	return false
}
