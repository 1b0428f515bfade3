package cascade

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/cascade/extension"
	"github.com/viant/cascade/internal/idgen"
	"github.com/viant/cascade/model"
	"github.com/viant/cascade/runtime/execution"
	"github.com/viant/cascade/runtime/orchestrator"
	"github.com/viant/cascade/runtime/planner"
	"github.com/viant/cascade/runtime/runner"
	"github.com/viant/cascade/service/dao"
	"github.com/viant/cascade/service/dao/session"
	"github.com/viant/cascade/service/dao/taskset"
	"github.com/viant/cascade/service/event"
)

// Wait blocks until the identified session reaches a terminal status or the
// timeout elapses.
type Wait func(ctx context.Context, timeout time.Duration) (*execution.Session, error)

// Runtime runs task sets and tracks their sessions.
type Runtime struct {
	taskSetDAO     *taskset.Service
	sessionStore   session.Store
	actions        *extension.Actions
	oracle         planner.Oracle
	events         *event.Service
	runnerOptions  []runner.Option
	maxConcurrency int
	sessionTTL     time.Duration
}

// LoadTaskSet loads a task set declaration from the configured meta service.
func (r *Runtime) LoadTaskSet(ctx context.Context, location string) (*model.TaskSet, error) {
	return r.taskSetDAO.Load(ctx, location)
}

// DecodeYAMLTaskSet decodes a task set from raw YAML.
func (r *Runtime) DecodeYAMLTaskSet(data []byte) (*model.TaskSet, error) {
	return r.taskSetDAO.DecodeYAML(data)
}

// Run executes the task set synchronously and returns the finished session.
// The session is persisted in the session store either way; a task failure
// never fails the run, only the returned session records it.
func (r *Runtime) Run(ctx context.Context, taskSet *model.TaskSet, input map[string]interface{}, options ...execution.Option) (*execution.Session, error) {
	orch, err := r.newOrchestrator(taskSet)
	if err != nil {
		return nil, err
	}
	aSession, err := orch.Execute(ctx, input, options...)
	if aSession != nil {
		if saveErr := r.sessionStore.Put(ctx, aSession, r.sessionTTL); saveErr != nil && err == nil {
			err = saveErr
		}
	}
	return aSession, err
}

// Start executes the task set in the background and returns the session id
// together with a wait function.
func (r *Runtime) Start(ctx context.Context, taskSet *model.TaskSet, input map[string]interface{}) (string, Wait, error) {
	orch, err := r.newOrchestrator(taskSet)
	if err != nil {
		return "", nil, err
	}
	id := idgen.New()
	go func() {
		aSession, _ := orch.Execute(ctx, input, execution.WithID(id))
		if aSession != nil {
			_ = r.sessionStore.Put(ctx, aSession, r.sessionTTL)
		}
	}()
	wait := func(ctx context.Context, timeout time.Duration) (*execution.Session, error) {
		return r.WaitForSession(ctx, id, timeout)
	}
	return id, wait, nil
}

// WaitForSession polls the session store until the session reaches a
// terminal status or the timeout elapses.
func (r *Runtime) WaitForSession(ctx context.Context, id string, timeout time.Duration) (*execution.Session, error) {
	deadline := time.Now().Add(timeout)
	for {
		aSession, err := r.sessionStore.Get(ctx, id)
		if err == nil && aSession.Status.IsTerminal() {
			return aSession, nil
		}
		if err != nil && err != dao.ErrNotFound {
			return nil, err
		}
		if time.Now().After(deadline) {
			return aSession, fmt.Errorf("timeout waiting for session %q", id)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}

// Session returns a stored session by id.
func (r *Runtime) Session(ctx context.Context, id string) (*execution.Session, error) {
	return r.sessionStore.Get(ctx, id)
}

// Sessions lists stored sessions, optionally filtered by a Status parameter.
func (r *Runtime) Sessions(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Session, error) {
	return r.sessionStore.List(ctx, parameters...)
}

// DeleteSession removes a stored session.
func (r *Runtime) DeleteSession(ctx context.Context, id string) error {
	return r.sessionStore.Delete(ctx, id)
}

// Summary returns the progress summary of a stored session.
func (r *Runtime) Summary(ctx context.Context, id string) (*execution.Summary, error) {
	aSession, err := r.sessionStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := aSession.Summary()
	return &summary, nil
}

func (r *Runtime) newOrchestrator(taskSet *model.TaskSet) (*orchestrator.Service, error) {
	if taskSet == nil {
		return nil, fmt.Errorf("taskSet was nil")
	}
	aPlanner, err := planner.New(taskSet, planner.WithOracle(r.oracle))
	if err != nil {
		return nil, err
	}
	runnerOptions := append([]runner.Option{runner.WithActions(r.actions)}, r.runnerOptions...)
	aRunner := runner.New(runnerOptions...)
	var orchestratorOptions []orchestrator.Option
	if r.events != nil {
		orchestratorOptions = append(orchestratorOptions, orchestrator.WithEvents(r.events))
	}
	if r.maxConcurrency > 0 {
		orchestratorOptions = append(orchestratorOptions, orchestrator.WithMaxConcurrency(r.maxConcurrency))
	}
	return orchestrator.New(taskSet, aPlanner, aRunner, orchestratorOptions...)
}
