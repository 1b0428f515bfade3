package cascade_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/cascade"
	"github.com/viant/cascade/model"
	"github.com/viant/cascade/runtime/execution"
	"github.com/viant/cascade/runtime/planner"
	"github.com/viant/cascade/runtime/runner"
	"github.com/viant/cascade/service/dao"
)

// Two tasks chained over a shared key: a produces x, b consumes it, across
// two waves.
func chainedSet() *model.TaskSet {
	return model.NewTaskSet("chained",
		model.NewTask("a").WithOutputs("x"),
		model.NewTask("b").WithInputs("x").WithOutputs("y"),
	).WithPlan([]string{"a"}, []string{"b"})
}

func TestRuntime_Run_Waves(t *testing.T) {
	srv := cascade.New(cascade.WithRunnerOptions(
		runner.WithBody("a", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			return map[string]interface{}{"x": 1}, nil
		}),
		runner.WithBody("b", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			return map[string]interface{}{"y": input["x"]}, nil
		}),
	))

	session, err := srv.Runtime().Run(context.Background(), chainedSet(), nil)
	assert.NoError(t, err)
	assert.Equal(t, execution.SessionStatusCompleted, session.Status)
	assert.Equal(t, 2, session.Waves)
	assert.EqualValues(t, map[string]interface{}{"x": 1, "y": 1}, session.Output)

	if assert.Len(t, session.Results, 2) {
		assert.Equal(t, "a", session.Results[0].TaskID)
		assert.Equal(t, 0, session.Results[0].Wave)
		assert.Equal(t, "b", session.Results[1].TaskID)
		assert.Equal(t, 1, session.Results[1].Wave)
	}
}

func TestRuntime_Run_ConditionSkip(t *testing.T) {
	taskSet := model.NewTaskSet("guarded",
		model.NewTask("notify").WithCondition("status == 'active'"),
	).WithPlan([]string{"notify"})

	invoked := false
	srv := cascade.New(cascade.WithRunnerOptions(
		runner.WithBody("notify", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			invoked = true
			return nil, nil
		}),
	))

	session, err := srv.Runtime().Run(context.Background(), taskSet, map[string]interface{}{"status": "closed"})
	assert.NoError(t, err)
	assert.False(t, invoked)
	assert.Equal(t, execution.SessionStatusCompleted, session.Status)
	if result := session.Result("notify"); assert.NotNil(t, result) {
		assert.Equal(t, execution.TaskStatusSkipped, result.Status)
	}
}

func TestRuntime_Run_TimeoutFallback(t *testing.T) {
	taskSet := model.NewTaskSet("slow",
		model.NewTask("fetch").
			WithTimeout(10*time.Millisecond).
			WithFallback("retry_later", ""),
	).WithPlan([]string{"fetch"})

	srv := cascade.New(cascade.WithRunnerOptions(
		runner.WithBody("fetch", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			time.Sleep(50 * time.Millisecond)
			return map[string]interface{}{"late": true}, nil
		}),
	))

	session, err := srv.Runtime().Run(context.Background(), taskSet, nil)
	assert.NoError(t, err)
	assert.Equal(t, execution.SessionStatusCompleted, session.Status)
	if result := session.Result("fetch"); assert.NotNil(t, result) {
		assert.Equal(t, execution.TaskStatusCompleted, result.Status)
		assert.Equal(t, execution.FallbackOnTimeout, result.FallbackTriggered)
		assert.EqualValues(t, map[string]interface{}{execution.FallbackActionKey: "retry_later"}, result.Outputs)
	}
}

func TestRuntime_Run_FailureDoesNotFailSession(t *testing.T) {
	taskSet := model.NewTaskSet("partial",
		model.NewTask("flaky"),
		model.NewTask("steady").WithOutputs("ok"),
	).WithPlan([]string{"flaky", "steady"})

	srv := cascade.New(cascade.WithRunnerOptions(
		runner.WithBody("flaky", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			return nil, fmt.Errorf("downstream unavailable")
		}),
		runner.WithBody("steady", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			return map[string]interface{}{"ok": true}, nil
		}),
	))

	session, err := srv.Runtime().Run(context.Background(), taskSet, nil)
	assert.NoError(t, err)
	assert.Equal(t, execution.SessionStatusCompleted, session.Status)
	assert.EqualValues(t, map[string]interface{}{"ok": true}, session.Output)

	summary := session.Summary()
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 1, summary.Failed)
}

// Siblings of one wave must not see each other's outputs; each receives the
// identical pre-wave snapshot.
func TestRuntime_Run_WaveIsolation(t *testing.T) {
	taskSet := model.NewTaskSet("siblings",
		model.NewTask("left").WithOutputs("l"),
		model.NewTask("right").WithOutputs("r"),
	).WithPlan([]string{"left", "right"})

	var leftSawR, rightSawL bool
	srv := cascade.New(cascade.WithRunnerOptions(
		runner.WithBody("left", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			time.Sleep(5 * time.Millisecond)
			_, leftSawR = input["r"]
			return map[string]interface{}{"l": 1}, nil
		}),
		runner.WithBody("right", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			time.Sleep(5 * time.Millisecond)
			_, rightSawL = input["l"]
			return map[string]interface{}{"r": 1}, nil
		}),
	))

	session, err := srv.Runtime().Run(context.Background(), taskSet, nil)
	assert.NoError(t, err)
	assert.False(t, leftSawR)
	assert.False(t, rightSawL)
	assert.EqualValues(t, map[string]interface{}{"l": 1, "r": 1}, session.Output)
}

type fixedOracle struct {
	plan *planner.Plan
	err  error
}

func (o *fixedOracle) Propose(context.Context, *model.TaskSet, map[string]interface{}) (*planner.Plan, error) {
	return o.plan, o.err
}

func TestRuntime_Run_OracleProposal(t *testing.T) {
	bodies := cascade.WithRunnerOptions(
		runner.WithBody("a", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			return map[string]interface{}{"x": 1}, nil
		}),
		runner.WithBody("b", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			return map[string]interface{}{"y": 2}, nil
		}),
	)

	t.Run("accepted proposal shapes the run", func(t *testing.T) {
		oracle := &fixedOracle{plan: &planner.Plan{Waves: [][]string{{"a", "b"}}}}
		srv := cascade.New(cascade.WithOracle(oracle), bodies)
		session, err := srv.Runtime().Run(context.Background(), chainedSet(), nil)
		assert.NoError(t, err)
		assert.Equal(t, 1, session.Waves)
	})

	t.Run("invalid proposal falls back to the static plan", func(t *testing.T) {
		oracle := &fixedOracle{plan: &planner.Plan{Waves: [][]string{{"a"}}}}
		srv := cascade.New(cascade.WithOracle(oracle), bodies)
		session, err := srv.Runtime().Run(context.Background(), chainedSet(), nil)
		assert.NoError(t, err)
		assert.Equal(t, 2, session.Waves)
	})

	t.Run("oracle error falls back to the static plan", func(t *testing.T) {
		oracle := &fixedOracle{err: fmt.Errorf("unavailable")}
		srv := cascade.New(cascade.WithOracle(oracle), bodies)
		session, err := srv.Runtime().Run(context.Background(), chainedSet(), nil)
		assert.NoError(t, err)
		assert.Equal(t, 2, session.Waves)
	})
}

func TestRuntime_StartAndWait(t *testing.T) {
	srv := cascade.New(cascade.WithRunnerOptions(
		runner.WithBody("a", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			time.Sleep(10 * time.Millisecond)
			return map[string]interface{}{"x": 1}, nil
		}),
		runner.WithBody("b", func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			return map[string]interface{}{"y": 2}, nil
		}),
	))

	ctx := context.Background()
	id, wait, err := srv.Runtime().Start(ctx, chainedSet(), nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	session, err := wait(ctx, time.Second)
	assert.NoError(t, err)
	assert.Equal(t, id, session.ID)
	assert.Equal(t, execution.SessionStatusCompleted, session.Status)

	// the finished session is retrievable from the store
	stored, err := srv.Runtime().Session(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, execution.SessionStatusCompleted, stored.Status)

	summary, err := srv.Runtime().Summary(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Completed)

	sessions, err := srv.Runtime().Sessions(ctx, dao.NewParameter("Status", string(execution.SessionStatusCompleted)))
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)

	assert.NoError(t, srv.Runtime().DeleteSession(ctx, id))
	_, err = srv.Runtime().Session(ctx, id)
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestRuntime_Run_MissingInputs(t *testing.T) {
	taskSet := model.NewTaskSet("strict",
		model.NewTask("consume").WithInputs("x", "y").WithFallback("", "ignored"),
	).WithPlan([]string{"consume"})

	srv := cascade.New()
	session, err := srv.Runtime().Run(context.Background(), taskSet, map[string]interface{}{})
	assert.NoError(t, err)
	if result := session.Result("consume"); assert.NotNil(t, result) {
		assert.Equal(t, execution.TaskStatusFailed, result.Status)
		assert.Contains(t, result.Error, "missing inputs: [x y]")
		assert.Empty(t, result.FallbackTriggered)
	}
}
