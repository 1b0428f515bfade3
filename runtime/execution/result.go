package execution

import (
	"time"

	"github.com/viant/cascade/internal/clock"
)

// TaskResult records the outcome of one task within a run. A result is
// immutable once its status is set; the orchestrator appends it to the
// session's ordered result list and never revisits it.
type TaskResult struct {
	TaskID            string                 `json:"taskId"`
	Status            TaskStatus             `json:"status"`
	Outputs           map[string]interface{} `json:"outputs,omitempty"`
	Error             string                 `json:"error,omitempty"`
	FallbackTriggered FallbackTrigger        `json:"fallbackTriggered,omitempty"`
	Wave              int                    `json:"wave"`
	StartedAt         time.Time              `json:"startedAt"`
	EndedAt           time.Time              `json:"endedAt"`
	Elapsed           time.Duration          `json:"elapsed"`
}

// NewTaskResult creates a started result for the supplied task id
func NewTaskResult(taskID string, wave int) *TaskResult {
	return &TaskResult{
		TaskID:    taskID,
		Wave:      wave,
		StartedAt: clock.Now(),
	}
}

// Complete marks the result completed with the supplied outputs
func (r *TaskResult) Complete(outputs map[string]interface{}) *TaskResult {
	r.Status = TaskStatusCompleted
	r.Outputs = outputs
	r.end()
	return r
}

// CompleteWithFallback marks the result completed through a fallback branch;
// the declared action value becomes the sole output
func (r *TaskResult) CompleteWithFallback(trigger FallbackTrigger, action string, cause error) *TaskResult {
	r.Status = TaskStatusCompleted
	r.FallbackTriggered = trigger
	r.Outputs = map[string]interface{}{FallbackActionKey: action}
	if cause != nil {
		r.Error = cause.Error()
	}
	r.end()
	return r
}

// Fail marks the result failed
func (r *TaskResult) Fail(err error) *TaskResult {
	r.Status = TaskStatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.end()
	return r
}

// Skip marks the result skipped; skipped results carry no outputs
func (r *TaskResult) Skip() *TaskResult {
	r.Status = TaskStatusSkipped
	r.end()
	return r
}

func (r *TaskResult) end() {
	r.EndedAt = clock.Now()
	r.Elapsed = r.EndedAt.Sub(r.StartedAt)
}
