package model

import (
	"fmt"

	"github.com/viant/cascade/model/state"
)

// Source provides information about the origin of a task set
type Source struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// TaskSet is a declarative set of interdependent tasks together with the
// statically configured default execution plan
type TaskSet struct {
	// Source provides information about the origin of the task set
	Source *Source `json:"source,omitempty" yaml:"source,omitempty"`

	// Name is the unique identifier for the task set
	Name string `json:"name" yaml:"name"`

	// Description provides a human-readable description of the task set
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Version specifies the task set version
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Init parameters are merged into the run input before the first wave
	Init state.Parameters `json:"init,omitempty" yaml:"init,omitempty"`

	// Tasks holds the declarations, in document order
	Tasks []*Task `json:"tasks,omitempty" yaml:"tasks,omitempty"`

	// Plan is the designer's known-good wave partition, used whenever the
	// planning oracle is unavailable or proposes an invalid partition
	Plan [][]string `json:"plan,omitempty" yaml:"plan,omitempty"`
}

// NewTaskSet creates a named task set
func NewTaskSet(name string, tasks ...*Task) *TaskSet {
	return &TaskSet{Name: name, Tasks: tasks}
}

// WithPlan sets the static default plan
func (s *TaskSet) WithPlan(waves ...[]string) *TaskSet {
	s.Plan = waves
	return s
}

// WithInit adds an initialization parameter
func (s *TaskSet) WithInit(name string, value interface{}) *TaskSet {
	if s.Init == nil {
		s.Init = make(state.Parameters, 0)
	}
	s.Init.Add(name, value)
	return s
}

// Lookup returns the task with the supplied id, or nil
func (s *TaskSet) Lookup(id string) *Task {
	for _, task := range s.Tasks {
		if task.ID == id {
			return task
		}
	}
	return nil
}

// TaskIDs returns the declared task ids in document order
func (s *TaskSet) TaskIDs() []string {
	ids := make([]string, 0, len(s.Tasks))
	for _, task := range s.Tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

// Compile parses every activation condition once. Malformed conditions are
// not fatal here; they surface as permanently skipped tasks.
func (s *TaskSet) Compile() []error {
	var issues []error
	for _, task := range s.Tasks {
		if err := task.Compile(); err != nil {
			issues = append(issues, err)
		}
	}
	return issues
}

// Validate performs a best-effort structural validation of the task set.
// The returned slice is empty when the set is sound; otherwise it contains
// human-readable error descriptions. The function does NOT evaluate any
// conditions, it only verifies static properties.
func (s *TaskSet) Validate() []error {
	var issues []error

	if len(s.Tasks) == 0 {
		issues = append(issues, fmt.Errorf("task set %q has no tasks", s.Name))
		return issues
	}

	seen := map[string]bool{}
	produced := map[string]bool{}
	for _, param := range s.Init {
		produced[param.Name] = true
	}
	for _, task := range s.Tasks {
		if task.ID == "" {
			issues = append(issues, fmt.Errorf("task set %q has a task with empty id", s.Name))
			continue
		}
		if seen[task.ID] {
			issues = append(issues, fmt.Errorf("duplicate task id %s", task.ID))
		}
		seen[task.ID] = true
		for _, key := range task.Outputs {
			produced[key] = true
		}
	}

	// An input satisfied neither by init parameters nor by any task's
	// declared outputs can only come from the caller's run input, which is
	// unknown here, so it is not flagged. Self-produced inputs are.
	for _, task := range s.Tasks {
		for _, key := range task.Inputs {
			for _, out := range task.Outputs {
				if key == out {
					issues = append(issues, fmt.Errorf("task %s declares %s as both input and output", task.ID, key))
				}
			}
		}
	}
	return issues
}

// Clone returns a deep copy of the task set
func (s *TaskSet) Clone() *TaskSet {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Tasks = make([]*Task, len(s.Tasks))
	for i, task := range s.Tasks {
		clone.Tasks[i] = task.Clone()
	}
	clone.Plan = make([][]string, len(s.Plan))
	for i, wave := range s.Plan {
		clone.Plan[i] = append([]string(nil), wave...)
	}
	clone.Init = s.Init.Clone()
	if s.Source != nil {
		source := *s.Source
		clone.Source = &source
	}
	return &clone
}
