package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState reports a snapshot containing NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig reports a frame driver configuration that cannot run.
	ErrInvalidConfig = errors.New("sim: invalid configuration")
)

// SimError records where a run stopped.
type SimError struct {
	Frame   int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return ErrInvalidState }
