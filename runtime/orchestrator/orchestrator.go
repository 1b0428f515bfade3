package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/viant/cascade/model"
	"github.com/viant/cascade/policy"
	"github.com/viant/cascade/progress"
	"github.com/viant/cascade/runtime/execution"
	"github.com/viant/cascade/runtime/planner"
	"github.com/viant/cascade/runtime/runner"
	"github.com/viant/cascade/service/event"
	"github.com/viant/cascade/tracing"
)

// Service executes a task set wave by wave
type Service struct {
	taskSet        *model.TaskSet
	planner        *planner.Service
	runner         *runner.Service
	events         *event.Service
	maxConcurrency int
}

// Option customises the orchestrator
type Option func(*Service)

// WithEvents attaches an event service; task results are published on it
func WithEvents(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithMaxConcurrency caps the number of bodies running at once within a
// wave; zero means unbounded
func WithMaxConcurrency(limit int) Option {
	return func(s *Service) {
		s.maxConcurrency = limit
	}
}

// New creates an orchestrator for the supplied task set. The planner's
// static-plan validation runs here, so a misconfigured fallback plan fails
// construction rather than a run.
func New(taskSet *model.TaskSet, aPlanner *planner.Service, aRunner *runner.Service, options ...Option) (*Service, error) {
	if taskSet == nil {
		return nil, fmt.Errorf("task set was nil")
	}
	if aRunner == nil {
		return nil, fmt.Errorf("runner was nil")
	}
	var err error
	if aPlanner == nil {
		if aPlanner, err = planner.New(taskSet); err != nil {
			return nil, err
		}
	}
	if issues := taskSet.Compile(); len(issues) > 0 {
		for _, issue := range issues {
			log.Printf("[WARN] task set %v: %v", taskSet.Name, issue)
		}
	}
	ret := &Service{taskSet: taskSet, planner: aPlanner, runner: aRunner}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}

// Execute runs the task set against the supplied input and returns a
// complete session with per-task outcomes. The returned error is non-nil
// only for infrastructure failure (cancelled context); partial task failure
// is reported through the session's results, never as an error.
func (s *Service) Execute(ctx context.Context, input map[string]interface{}, options ...execution.Option) (*execution.Session, error) {
	seed := s.taskSet.Init.ToMap()
	for k, v := range input {
		seed[k] = v
	}
	session := execution.NewSession(s.taskSet.Name, seed, options...)

	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("session.run %s", s.taskSet.Name), "INTERNAL")
	var runErr error
	defer func() { tracing.EndSpan(span, runErr) }()

	tracker, hasTracker := progress.FromContext(ctx)
	if !hasTracker {
		ctx, tracker = progress.WithNewTracker(ctx, session.ID, s.taskSet.Name, nil)
	}

	// Plan once, with the initial context only; later waves never re-plan
	plan := s.planner.Plan(ctx, session.Snapshot())
	session.Waves = len(plan.Waves)
	tracker.Update(progress.Delta{Total: plan.Tasks(), Pending: plan.Tasks()})

	for waveIndex, wave := range plan.Waves {
		if err := ctx.Err(); err != nil {
			runErr = err
			session.Fail(err)
			return session, err
		}
		results := s.executeWave(ctx, waveIndex, wave, session.Snapshot())
		for _, result := range results {
			session.AddResult(result)
			s.track(tracker, result)
			s.publish(ctx, session, result)
			if result.Status == execution.TaskStatusCompleted {
				session.Merge(result.Outputs)
			}
		}
	}
	session.Complete()
	return session, nil
}

// executeWave launches every member of a wave against the identical frozen
// snapshot, then blocks on the full barrier. Results come back in wave
// order regardless of completion order.
func (s *Service) executeWave(ctx context.Context, waveIndex int, wave []string, snapshot map[string]interface{}) []*execution.TaskResult {
	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("wave.run %d", waveIndex), "INTERNAL")
	defer tracing.EndSpan(span, nil)

	results := make([]*execution.TaskResult, len(wave))
	gate := policy.FromContext(ctx)

	var semaphore chan struct{}
	if s.maxConcurrency > 0 {
		semaphore = make(chan struct{}, s.maxConcurrency)
	}

	var waitGroup sync.WaitGroup
	var pending []int
	for i, taskID := range wave {
		task := s.taskSet.Lookup(taskID)
		if task == nil {
			// The planner validates coverage, an unknown id here is a bug
			results[i] = execution.NewTaskResult(taskID, waveIndex).Fail(fmt.Errorf("task %v not declared", taskID))
			continue
		}
		if !gate.IsAllowed(taskID) {
			results[i] = execution.NewTaskResult(taskID, waveIndex).Skip()
			continue
		}
		if task.IsSync() {
			// Synchronous members run on the orchestrator goroutine, in
			// wave order, before the concurrent batch is launched
			results[i] = s.runner.Run(ctx, task, snapshot, waveIndex)
			continue
		}
		pending = append(pending, i)
	}

	for _, i := range pending {
		task := s.taskSet.Lookup(wave[i])
		waitGroup.Add(1)
		go func(slot int, task *model.Task) {
			defer waitGroup.Done()
			if semaphore != nil {
				semaphore <- struct{}{}
				defer func() { <-semaphore }()
			}
			results[slot] = s.runner.Run(ctx, task, snapshot, waveIndex)
		}(i, task)
	}
	waitGroup.Wait()
	return results
}

func (s *Service) track(tracker *progress.Progress, result *execution.TaskResult) {
	delta := progress.Delta{Pending: -1}
	switch result.Status {
	case execution.TaskStatusCompleted:
		delta.Completed = 1
	case execution.TaskStatusFailed:
		delta.Failed = 1
	case execution.TaskStatusSkipped:
		delta.Skipped = 1
	}
	tracker.Update(delta)
}

func (s *Service) publish(ctx context.Context, session *execution.Session, result *execution.TaskResult) {
	if s.events == nil {
		return
	}
	publisher, err := event.PublisherOf[*execution.TaskResult](s.events)
	if err != nil {
		log.Printf("failed to resolve task result publisher: %v", err)
		return
	}
	eventContext := &event.Context{
		SessionID:   session.ID,
		TaskID:      result.TaskID,
		EventType:   string(result.Status),
		TimeTakenMs: int(result.Elapsed.Milliseconds()),
	}
	if task := s.taskSet.Lookup(result.TaskID); task != nil && task.Action != nil {
		eventContext.Service = task.Action.Service
		eventContext.Method = task.Action.Method
	}
	if err := publisher.Publish(ctx, event.NewEvent(eventContext, result)); err != nil {
		log.Printf("failed to publish task result event: %v", err)
	}
}

// TaskSet returns the orchestrated declarations
func (s *Service) TaskSet() *model.TaskSet {
	return s.taskSet
}
