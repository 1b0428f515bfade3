package execution

// TaskStatus represents the terminal outcome of a single task run
type TaskStatus string

const (
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusSkipped   TaskStatus = "skipped"
)

// SessionStatus represents the overall state of a run session
type SessionStatus string

const (
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)

// FallbackTrigger identifies which fallback branch produced a degraded
// success
type FallbackTrigger string

const (
	FallbackOnTimeout FallbackTrigger = "on_timeout"
	FallbackOnError   FallbackTrigger = "on_error"
)

// FallbackActionKey is the output key carrying the declared fallback action
// value when a fallback converts a failure into a completed result
const FallbackActionKey = "fallback_action"

// IsTerminal returns true for a finished session
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusFailed
}
