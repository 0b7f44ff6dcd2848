package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidCategory = errors.New("invalid category")
	ErrExtraction      = errors.New("metadata extraction failed")
	ErrRegister        = errors.New("registration failed")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Stage names the step of a registration that failed
type Stage int

const (
	StageExtract Stage = iota
	StageBegin
	StageReplace
	StageAllocate
	StageGroup
	StageBind
	StageWrite
	StageCommit
)

func (s Stage) String() string {
	switch s {
	case StageExtract:
		return "extract"
	case StageBegin:
		return "begin"
	case StageReplace:
		return "replace"
	case StageAllocate:
		return "allocate"
	case StageGroup:
		return "group"
	case StageBind:
		return "bind"
	case StageWrite:
		return "write"
	case StageCommit:
		return "commit"
	default:
		return "unknown"
	}
}

// RegisterError reports the stage at which registering a file failed.
// Nothing from the failed registration is persisted.
type RegisterError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("cannot register %s (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *RegisterError) Unwrap() error {
	return e.Err
}

func (e *RegisterError) Is(target error) bool {
	if target == ErrExtraction {
		return e.Stage == StageExtract
	}
	return target == ErrRegister
}
