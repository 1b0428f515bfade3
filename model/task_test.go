package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTask_Builders(t *testing.T) {
	task := NewTask("classify").
		WithDescription("assign a priority color").
		WithInputs("symptoms").
		WithOutputs("color").
		WithCondition("status == 'active'").
		WithTimeout(250 * time.Millisecond).
		WithRetries(2).
		WithFallback("retry_later", "manual_review").
		WithAction("plan/oracle", "complete", nil)

	assert.Equal(t, "classify", task.ID)
	assert.Equal(t, []string{"symptoms"}, task.Inputs)
	assert.Equal(t, []string{"color"}, task.Outputs)
	assert.Equal(t, 250*time.Millisecond, task.Timeout())
	assert.Equal(t, 2, task.Retries())
	assert.Equal(t, "retry_later", task.Fallback.OnTimeout)
	assert.Equal(t, "manual_review", task.Fallback.OnError)
	assert.False(t, task.IsSync())
}

func TestTask_MeetsCondition(t *testing.T) {
	tests := []struct {
		name     string
		task     *Task
		context  map[string]interface{}
		expected bool
	}{
		{
			name:     "no condition always runs",
			task:     NewTask("t1"),
			context:  map[string]interface{}{},
			expected: true,
		},
		{
			name:     "condition met",
			task:     NewTask("t2").WithCondition("status == 'active'"),
			context:  map[string]interface{}{"status": "active"},
			expected: true,
		},
		{
			name:     "condition unmet",
			task:     NewTask("t3").WithCondition("status == 'active'"),
			context:  map[string]interface{}{"status": "closed"},
			expected: false,
		},
		{
			name:     "malformed condition never runs",
			task:     NewTask("t4").WithCondition("status =="),
			context:  map[string]interface{}{"status": "active"},
			expected: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_ = tc.task.Compile()
			assert.Equal(t, tc.expected, tc.task.MeetsCondition(tc.context))
		})
	}
}

func TestTask_Clone(t *testing.T) {
	task := NewTask("a").WithInputs("x").WithOutputs("y").WithTimeout(time.Second)
	clone := task.Clone()
	clone.Inputs[0] = "z"
	clone.Exec.Timeout = "5s"
	assert.Equal(t, []string{"x"}, task.Inputs)
	assert.Equal(t, "1s", task.Exec.Timeout)
}

func TestTask_InvalidTimeout(t *testing.T) {
	task := NewTask("a")
	task.Exec = &ExecPolicy{Timeout: "not-a-duration"}
	assert.Equal(t, time.Duration(0), task.Timeout())
}

func TestTaskSet_Validate(t *testing.T) {
	tests := []struct {
		name   string
		set    *TaskSet
		issues int
	}{
		{
			name:   "valid set",
			set:    NewTaskSet("triage", NewTask("a").WithOutputs("x"), NewTask("b").WithInputs("x").WithOutputs("y")),
			issues: 0,
		},
		{
			name:   "empty set",
			set:    NewTaskSet("empty"),
			issues: 1,
		},
		{
			name:   "duplicate id",
			set:    NewTaskSet("dup", NewTask("a"), NewTask("a")),
			issues: 1,
		},
		{
			name:   "self produced input",
			set:    NewTaskSet("loop", NewTask("a").WithInputs("x").WithOutputs("x")),
			issues: 1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, tc.set.Validate(), tc.issues)
		})
	}
}

func TestTaskSet_Lookup(t *testing.T) {
	set := NewTaskSet("triage", NewTask("a"), NewTask("b")).WithPlan([]string{"a"}, []string{"b"})
	assert.NotNil(t, set.Lookup("a"))
	assert.Nil(t, set.Lookup("missing"))
	assert.Equal(t, []string{"a", "b"}, set.TaskIDs())
	assert.Equal(t, [][]string{{"a"}, {"b"}}, set.Plan)
}
