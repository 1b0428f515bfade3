package runner

import (
	"fmt"
	"time"
)

// MissingInputError signals that a declared input key was absent from the
// context snapshot. This class of failure points at a planning or ordering
// bug upstream, so fallback policies never apply to it.
type MissingInputError struct {
	TaskID string
	Keys   []string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing inputs: %v", e.Keys)
}

// TimeoutError signals that a body did not finish within its declared
// timeout
type TimeoutError struct {
	TaskID  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task %v timed out after %v", e.TaskID, e.Timeout)
}

// BodyError wraps a failure returned (or recovered) from a task body
type BodyError struct {
	TaskID string
	Err    error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("task %v body failed: %v", e.TaskID, e.Err)
}

func (e *BodyError) Unwrap() error {
	return e.Err
}
