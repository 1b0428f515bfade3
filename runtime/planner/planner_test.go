package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/cascade/model"
)

type oracleFunc func(ctx context.Context, taskSet *model.TaskSet, input map[string]interface{}) (*Plan, error)

func (f oracleFunc) Propose(ctx context.Context, taskSet *model.TaskSet, input map[string]interface{}) (*Plan, error) {
	return f(ctx, taskSet, input)
}

func triageSet() *model.TaskSet {
	return model.NewTaskSet("triage",
		model.NewTask("a").WithOutputs("x"),
		model.NewTask("b").WithInputs("x").WithOutputs("y"),
		model.NewTask("c").WithInputs("x"),
	).WithPlan([]string{"a"}, []string{"b", "c"})
}

func TestNew_FailFast(t *testing.T) {
	tests := []struct {
		name    string
		taskSet *model.TaskSet
		options []Option
		wantErr bool
	}{
		{
			name:    "declared plan is valid",
			taskSet: triageSet(),
		},
		{
			name:    "no static plan",
			taskSet: model.NewTaskSet("bare", model.NewTask("a")),
			wantErr: true,
		},
		{
			name:    "plan misses a task",
			taskSet: model.NewTaskSet("partial", model.NewTask("a"), model.NewTask("b")).WithPlan([]string{"a"}),
			wantErr: true,
		},
		{
			name:    "plan duplicates a task",
			taskSet: model.NewTaskSet("dup", model.NewTask("a")).WithPlan([]string{"a"}, []string{"a"}),
			wantErr: true,
		},
		{
			name:    "plan references unknown task",
			taskSet: model.NewTaskSet("ghost", model.NewTask("a")).WithPlan([]string{"a", "z"}),
			wantErr: true,
		},
		{
			name:    "plan has empty wave",
			taskSet: model.NewTaskSet("hollow", model.NewTask("a")).WithPlan([]string{"a"}, []string{}),
			wantErr: true,
		},
		{
			name:    "option plan overrides declared",
			taskSet: triageSet(),
			options: []Option{WithStaticPlan(&Plan{Waves: [][]string{{"a", "b", "c"}}})},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, err := New(tc.taskSet, tc.options...)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, service.Static())
		})
	}
}

func TestService_Plan(t *testing.T) {
	taskSet := triageSet()
	static := [][]string{{"a"}, {"b", "c"}}

	tests := []struct {
		name     string
		oracle   Oracle
		expected [][]string
	}{
		{
			name:     "no oracle uses static",
			expected: static,
		},
		{
			name: "oracle proposal accepted",
			oracle: oracleFunc(func(_ context.Context, _ *model.TaskSet, _ map[string]interface{}) (*Plan, error) {
				return &Plan{Waves: [][]string{{"a"}, {"c"}, {"b"}}}, nil
			}),
			expected: [][]string{{"a"}, {"c"}, {"b"}},
		},
		{
			name: "oracle error falls back",
			oracle: oracleFunc(func(_ context.Context, _ *model.TaskSet, _ map[string]interface{}) (*Plan, error) {
				return nil, errors.New("oracle unavailable")
			}),
			expected: static,
		},
		{
			name: "partial proposal falls back",
			oracle: oracleFunc(func(_ context.Context, _ *model.TaskSet, _ map[string]interface{}) (*Plan, error) {
				return &Plan{Waves: [][]string{{"a"}}}, nil
			}),
			expected: static,
		},
		{
			name: "duplicating proposal falls back",
			oracle: oracleFunc(func(_ context.Context, _ *model.TaskSet, _ map[string]interface{}) (*Plan, error) {
				return &Plan{Waves: [][]string{{"a", "b"}, {"b", "c"}}}, nil
			}),
			expected: static,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var options []Option
			if tc.oracle != nil {
				options = append(options, WithOracle(tc.oracle))
			}
			service, err := New(taskSet, options...)
			assert.NoError(t, err)
			plan := service.Plan(context.Background(), map[string]interface{}{})
			assert.Equal(t, tc.expected, plan.Waves)
		})
	}
}

func TestPlan_Tasks(t *testing.T) {
	plan := &Plan{Waves: [][]string{{"a"}, {"b", "c"}}}
	assert.Equal(t, 3, plan.Tasks())
}
