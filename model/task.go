package model

import (
	"log"
	"time"

	"github.com/viant/cascade/model/condition"
	"github.com/viant/cascade/model/state"
)

type (
	// Action binds a task to a registered service method
	Action struct {
		Service string      `json:"service,omitempty" yaml:"service,omitempty"`
		Method  string      `json:"method,omitempty" yaml:"method,omitempty"`
		Input   interface{} `json:"input,omitempty" yaml:"input,omitempty"`
	}

	// ExecPolicy bounds a single execution of a task body
	ExecPolicy struct {
		Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // duration string, e.g. 10ms
		Retries int    `json:"retries,omitempty" yaml:"retries,omitempty"`
		Sync    bool   `json:"sync,omitempty" yaml:"sync,omitempty"`
	}

	// FallbackPolicy substitutes a declared action value when a task times
	// out or errors, converting the failure into a degraded success
	FallbackPolicy struct {
		OnTimeout string `json:"onTimeout,omitempty" yaml:"onTimeout,omitempty"`
		OnError   string `json:"onError,omitempty" yaml:"onError,omitempty"`
	}

	// Task declares one unit of work. Declarations are created at
	// configuration time and never mutated afterwards; Clone before
	// deriving a variant.
	Task struct {
		ID          string           `json:"id,omitempty" yaml:"id,omitempty"`
		Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
		Description string           `json:"description,omitempty" yaml:"description,omitempty"`
		Inputs      []string         `json:"inputs,omitempty" yaml:"inputs,omitempty"`
		Outputs     []string         `json:"outputs,omitempty" yaml:"outputs,omitempty"`
		Condition   string           `json:"condition,omitempty" yaml:"condition,omitempty"`
		Exec        *ExecPolicy      `json:"exec,omitempty" yaml:"exec,omitempty"`
		Fallback    *FallbackPolicy  `json:"fallback,omitempty" yaml:"fallback,omitempty"`
		Action      *Action          `json:"action,omitempty" yaml:"action,omitempty"`
		Init        state.Parameters `json:"init,omitempty" yaml:"init,omitempty"`

		cond    *condition.Expr
		condErr error
	}
)

// NewTask creates a task declaration with the supplied id
func NewTask(id string) *Task {
	return &Task{ID: id, Name: id}
}

// WithDescription sets the task description
func (t *Task) WithDescription(description string) *Task {
	t.Description = description
	return t
}

// WithInputs declares context keys required before the task may run
func (t *Task) WithInputs(keys ...string) *Task {
	t.Inputs = append(t.Inputs, keys...)
	return t
}

// WithOutputs declares context keys the task is expected to produce
func (t *Task) WithOutputs(keys ...string) *Task {
	t.Outputs = append(t.Outputs, keys...)
	return t
}

// WithCondition sets the activation condition expression
func (t *Task) WithCondition(expression string) *Task {
	t.Condition = expression
	t.cond, t.condErr = nil, nil
	return t
}

// WithTimeout sets the execution timeout
func (t *Task) WithTimeout(timeout time.Duration) *Task {
	if t.Exec == nil {
		t.Exec = &ExecPolicy{}
	}
	t.Exec.Timeout = timeout.String()
	return t
}

// WithRetries sets the body retry budget
func (t *Task) WithRetries(retries int) *Task {
	if t.Exec == nil {
		t.Exec = &ExecPolicy{}
	}
	t.Exec.Retries = retries
	return t
}

// WithSync marks the task as synchronous within its wave
func (t *Task) WithSync(sync bool) *Task {
	if t.Exec == nil {
		t.Exec = &ExecPolicy{}
	}
	t.Exec.Sync = sync
	return t
}

// WithFallback sets the timeout and error fallback actions
func (t *Task) WithFallback(onTimeout, onError string) *Task {
	t.Fallback = &FallbackPolicy{OnTimeout: onTimeout, OnError: onError}
	return t
}

// WithAction sets the action for the task
func (t *Task) WithAction(service string, method string, input interface{}) *Task {
	t.Action = &Action{
		Service: service,
		Method:  method,
		Input:   input,
	}
	return t
}

// WithInit adds an initialization parameter to the task
func (t *Task) WithInit(name string, value interface{}) *Task {
	if t.Init == nil {
		t.Init = make(state.Parameters, 0)
	}
	t.Init.Add(name, value)
	return t
}

// IsSync returns true when the task requested synchronous execution
func (t *Task) IsSync() bool {
	return t.Exec != nil && t.Exec.Sync
}

// Timeout returns the declared execution timeout, or zero when unbounded
func (t *Task) Timeout() time.Duration {
	if t.Exec == nil || t.Exec.Timeout == "" {
		return 0
	}
	timeout, err := time.ParseDuration(t.Exec.Timeout)
	if err != nil {
		log.Printf("[WARN] task %v: invalid timeout %q, running unbounded", t.ID, t.Exec.Timeout)
		return 0
	}
	return timeout
}

// Retries returns the declared body retry budget
func (t *Task) Retries() int {
	if t.Exec == nil {
		return 0
	}
	return t.Exec.Retries
}

// Compile parses the activation condition once so that evaluation does not
// re-parse per run. A malformed condition is reported but not fatal: the
// task is permanently skipped, mirroring the evaluator's failure mode.
func (t *Task) Compile() error {
	if t.Condition == "" {
		t.cond, t.condErr = nil, nil
		return nil
	}
	t.cond, t.condErr = condition.Parse(t.Condition)
	return t.condErr
}

// MeetsCondition evaluates the activation condition against a context
// snapshot. Absent or malformed conditions follow the evaluator contract:
// empty is true, malformed is false with a warning.
func (t *Task) MeetsCondition(context map[string]interface{}) bool {
	if t.Condition == "" {
		return true
	}
	if t.condErr != nil {
		log.Printf("[WARN] task %v: %v", t.ID, t.condErr)
		return false
	}
	if t.cond != nil {
		return t.cond.Eval(context)
	}
	return condition.Evaluate(t.Condition, context)
}

// Clone returns a deep copy of the declaration
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	clone.Inputs = append([]string(nil), t.Inputs...)
	clone.Outputs = append([]string(nil), t.Outputs...)
	if t.Exec != nil {
		exec := *t.Exec
		clone.Exec = &exec
	}
	if t.Fallback != nil {
		fallback := *t.Fallback
		clone.Fallback = &fallback
	}
	if t.Action != nil {
		action := *t.Action
		clone.Action = &action
	}
	clone.Init = t.Init.Clone()
	return &clone
}
