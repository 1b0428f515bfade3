package taskset

import (
	"context"
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/cascade/service/meta"
)

//go:embed testdata/*
var testFS embed.FS

func newTestService() *Service {
	return New(WithMetaService(meta.New(afs.New(), "embed:///testdata", &testFS)))
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	taskSet, err := service.Load(ctx, "triage.yaml")
	assert.NoError(t, err)
	if !assert.NotNil(t, taskSet) {
		return
	}

	assert.Equal(t, "triage", taskSet.Name)
	assert.Equal(t, "clinical triage decision pipeline", taskSet.Description)
	assert.Equal(t, "1.0", taskSet.Version)
	assert.EqualValues(t, map[string]interface{}{"threshold": float64(3)}, taskSet.Init.ToMap())
	assert.Equal(t, []string{"intake", "classify", "notify"}, taskSet.TaskIDs())
	assert.Equal(t, [][]string{{"intake"}, {"classify", "notify"}}, taskSet.Plan)

	intake := taskSet.Lookup("intake")
	if assert.NotNil(t, intake) {
		assert.Equal(t, []string{"symptoms"}, intake.Inputs)
		assert.Equal(t, []string{"severity"}, intake.Outputs)
		assert.Equal(t, "printer", intake.Action.Service)
		assert.Equal(t, "print", intake.Action.Method)
		assert.Equal(t, "200ms", intake.Exec.Timeout)
		assert.Equal(t, 2, intake.Exec.Retries)
		if assert.NotNil(t, intake.Fallback) {
			assert.Equal(t, "retry_later", intake.Fallback.OnTimeout)
			assert.Equal(t, "manual_review", intake.Fallback.OnError)
		}
	}

	classify := taskSet.Lookup("classify")
	if assert.NotNil(t, classify) {
		assert.Equal(t, "status == 'active'", classify.Condition)
		assert.True(t, classify.IsSync())
		assert.EqualValues(t, map[string]interface{}{"message": "classified"}, classify.Action.Input)
	}

	notify := taskSet.Lookup("notify")
	if assert.NotNil(t, notify) {
		assert.Equal(t, "nop", notify.Action.Service)
		assert.Equal(t, "nop", notify.Action.Method)
	}
}

func TestService_Load_TypedParameters(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	taskSet, err := service.Load(ctx, "typed")
	assert.NoError(t, err)
	if !assert.NotNil(t, taskSet) {
		return
	}
	policy, ok := taskSet.Init.Get("policy")
	if assert.True(t, ok) {
		assert.Equal(t, "triage.Policy", policy.DataType)
		if assert.NotNil(t, policy.Location) {
			assert.Equal(t, "resource", policy.Location.Kind)
			assert.Equal(t, "file:///etc/triage.json", policy.Location.In)
		}
	}
}

func TestService_Load_Invalid(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	_, err := service.Load(ctx, "broken.yaml")
	assert.Error(t, err)

	_, err = service.Load(ctx, "missing.yaml")
	assert.Error(t, err)
}

func TestService_DecodeYAML(t *testing.T) {
	service := New()

	testCases := []struct {
		description string
		yaml        string
		expectErr   bool
		verify      func(t *testing.T, name string, plan [][]string)
	}{
		{
			description: "anonymous set with scalar wave",
			yaml: `
tasks:
  assess:
    outputs: [severity]
plan:
  - assess
`,
			verify: func(t *testing.T, name string, plan [][]string) {
				assert.Contains(t, name, "anonymous-")
				assert.Equal(t, [][]string{{"assess"}}, plan)
			},
		},
		{
			description: "empty task set rejected",
			yaml:        `name: empty`,
			expectErr:   true,
		},
		{
			description: "non mapping tasks rejected",
			yaml: `
name: bad
tasks:
  - assess
`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			taskSet, err := service.DecodeYAML([]byte(tc.yaml))
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tc.verify != nil {
				tc.verify(t, taskSet.Name, taskSet.Plan)
			}
		})
	}
}

func TestService_DecodeYAML_MalformedCondition(t *testing.T) {
	service := New()

	taskSet, err := service.DecodeYAML([]byte(`
name: guarded
tasks:
  assess:
    outputs: [severity]
    condition: "status == "
`))
	assert.NoError(t, err)
	if assert.NotNil(t, taskSet) {
		task := taskSet.Lookup("assess")
		assert.False(t, task.MeetsCondition(map[string]interface{}{"status": "active"}))
	}
}
