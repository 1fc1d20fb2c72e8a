package birthday

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Phase is the stage of the search.
type Phase string

// Phases of the search.
const (
	PhaseGeneration  Phase = "generation"
	PhaseSorting     Phase = "sorting"
	PhaseSearch      Phase = "search"
	PhasePersistence Phase = "persistence"
)

// ErrInterrupted matches every InterruptedError.
var ErrInterrupted = errors.New("search interrupted")

// InterruptedError is returned when search is canceled. Nothing is persisted in that case.
type InterruptedError struct {
	Phase Phase
	Err   error
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("%s interrupted: %s", e.Phase, e.Err)
}

// Unwrap returns the cause of interruption.
func (e *InterruptedError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInterrupted.
func (e *InterruptedError) Is(target error) bool {
	return target == ErrInterrupted
}

func phaseError(phase Phase, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &InterruptedError{Phase: phase, Err: err}
	}
	return errors.Wrapf(err, "%s failed", phase)
}
