package execution

import (
	"fmt"
	"sync"
	"time"

	"github.com/viant/cascade/internal/clock"
	"github.com/viant/cascade/internal/idgen"
)

// Session is the top-level record of one engine run: the immutable input
// facts, the outputs accumulated between waves, and the ordered task
// results. Only the orchestrator mutates a live session; every reader goes
// through the accessor methods, which copy.
type Session struct {
	ID        string                 `json:"id"`
	TaskSet   string                 `json:"taskSet,omitempty"`
	Input     map[string]interface{} `json:"input,omitempty"`
	Output    map[string]interface{} `json:"output,omitempty"`
	Results   []*TaskResult          `json:"results,omitempty"`
	Status    SessionStatus          `json:"status"`
	Error     string                 `json:"error,omitempty"`
	Waves     int                    `json:"waves,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	EndedAt   *time.Time             `json:"endedAt,omitempty"`

	mu sync.RWMutex
}

// ResultListener is invoked after every appended task result
type ResultListener func(s *Session, result *TaskResult)

// NewSession creates a running session for the supplied task set and input.
// The input map is copied so that later caller mutations cannot leak into
// the run.
func NewSession(taskSet string, input map[string]interface{}, options ...Option) *Session {
	session := &Session{
		ID:        idgen.New(),
		TaskSet:   taskSet,
		Input:     make(map[string]interface{}, len(input)),
		Output:    make(map[string]interface{}),
		Status:    SessionStatusRunning,
		CreatedAt: clock.Now(),
	}
	for k, v := range input {
		session.Input[k] = v
	}
	for _, option := range options {
		option(session)
	}
	return session
}

// Snapshot returns a frozen merged view of input and accumulated outputs.
// All tasks of one wave receive the identical snapshot; a sibling's output
// never becomes visible mid-wave.
func (s *Session) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[string]interface{}, len(s.Input)+len(s.Output))
	for k, v := range s.Input {
		snapshot[k] = v
	}
	for k, v := range s.Output {
		snapshot[k] = v
	}
	return snapshot
}

// Merge folds the supplied outputs into the accumulated output map. The
// orchestrator calls it once per completed result, between waves only.
func (s *Session) Merge(outputs map[string]interface{}) {
	if len(outputs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range outputs {
		s.Output[k] = v
	}
}

// AddResult appends a task result to the ordered result list
func (s *Session) AddResult(result *TaskResult) {
	if result == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Results = append(s.Results, result)
}

// Result returns the recorded result for a task id, or nil
func (s *Session) Result(taskID string) *TaskResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, result := range s.Results {
		if result.TaskID == taskID {
			return result
		}
	}
	return nil
}

// Complete marks the session completed
func (s *Session) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = SessionStatusCompleted
	now := clock.Now()
	s.EndedAt = &now
}

// Fail marks the session failed; only planner misconfiguration or an
// orchestrator-internal error ends a session this way, task failures do not
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = SessionStatusFailed
	if err != nil {
		s.Error = err.Error()
	}
	now := clock.Now()
	s.EndedAt = &now
}

// Summary aggregates per-status result counters for the session
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

func (s Summary) String() string {
	return fmt.Sprintf("total: %v, completed: %v, failed: %v, skipped: %v", s.Total, s.Completed, s.Failed, s.Skipped)
}

// Summary computes the progress summary from the recorded results
func (s *Session) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary := Summary{Total: len(s.Results)}
	for _, result := range s.Results {
		switch result.Status {
		case TaskStatusCompleted:
			summary.Completed++
		case TaskStatusFailed:
			summary.Failed++
		case TaskStatusSkipped:
			summary.Skipped++
		}
	}
	return summary
}

// Clone returns a deep enough copy for read-only inspection: results are
// shared (immutable once terminal), maps are copied.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:        s.ID,
		TaskSet:   s.TaskSet,
		Status:    s.Status,
		Error:     s.Error,
		Waves:     s.Waves,
		CreatedAt: s.CreatedAt,
		Input:     make(map[string]interface{}, len(s.Input)),
		Output:    make(map[string]interface{}, len(s.Output)),
		Results:   append([]*TaskResult(nil), s.Results...),
	}
	for k, v := range s.Input {
		clone.Input[k] = v
	}
	for k, v := range s.Output {
		clone.Output[k] = v
	}
	if s.EndedAt != nil {
		endedAt := *s.EndedAt
		clone.EndedAt = &endedAt
	}
	return clone
}
