package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/viant/cascade/extension"
	"github.com/viant/cascade/model"
	"github.com/viant/cascade/runtime/execution"
	"github.com/viant/structology/conv"
)

// Body is an opaque task computation. It receives a frozen context snapshot
// and returns the outputs to merge after the wave barrier. Retrying on
// flakiness is the body's own concern; the runner invokes it exactly once.
type Body func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error)

// Service runs a single task declaration against a context snapshot. It
// evaluates the activation condition, validates declared inputs, races the
// body against the declared timeout and applies the fallback policy.
type Service struct {
	actions   *extension.Actions
	converter *conv.Converter
	bodies    map[string]Body
	listener  Listener
}

// Listener is invoked once per produced result, before the orchestrator
// records it
type Listener func(task *model.Task, result *execution.TaskResult)

// Option customises the runner
type Option func(*Service)

// WithActions attaches the action registry used to resolve declaration
// bound bodies
func WithActions(actions *extension.Actions) Option {
	return func(s *Service) {
		s.actions = actions
	}
}

// WithBody binds an opaque body function to a task id, taking precedence
// over the declaration's action binding
func WithBody(taskID string, body Body) Option {
	return func(s *Service) {
		s.bodies[taskID] = body
	}
}

// WithListener attaches a result listener
func WithListener(listener Listener) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// New creates a runner
func New(options ...Option) *Service {
	converterOptions := conv.DefaultOptions()
	converterOptions.ClonePointerData = true
	converterOptions.IgnoreUnmapped = true
	converterOptions.AccessUnexported = true
	ret := &Service{
		converter: conv.NewConverter(converterOptions),
		bodies:    make(map[string]Body),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Run executes one task against a frozen snapshot and returns its result.
// The returned result is always terminal; a task failure never propagates
// as an error to the caller.
func (s *Service) Run(ctx context.Context, task *model.Task, snapshot map[string]interface{}, wave int) *execution.TaskResult {
	result := execution.NewTaskResult(task.ID, wave)

	if !task.MeetsCondition(snapshot) {
		return s.done(task, result.Skip())
	}

	if missing := missingInputs(task, snapshot); len(missing) > 0 {
		return s.done(task, result.Fail(&MissingInputError{TaskID: task.ID, Keys: missing}))
	}

	body := s.body(task)
	outputs, err := s.race(ctx, task, body, snapshot)
	if err == nil {
		return s.done(task, result.Complete(outputs))
	}

	switch actual := err.(type) {
	case *TimeoutError:
		if task.Fallback != nil && task.Fallback.OnTimeout != "" {
			return s.done(task, result.CompleteWithFallback(execution.FallbackOnTimeout, task.Fallback.OnTimeout, actual))
		}
	default:
		if task.Fallback != nil && task.Fallback.OnError != "" {
			return s.done(task, result.CompleteWithFallback(execution.FallbackOnError, task.Fallback.OnError, err))
		}
	}
	return s.done(task, result.Fail(err))
}

func (s *Service) done(task *model.Task, result *execution.TaskResult) *execution.TaskResult {
	if s.listener != nil {
		s.listener(task, result)
	}
	return result
}

// body resolves the computation for a task: an explicitly bound body wins,
// then the declaration's action binding, then a passthrough.
func (s *Service) body(task *model.Task) Body {
	if body, ok := s.bodies[task.ID]; ok {
		return body
	}
	if task.Action != nil {
		return func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
			return s.invoke(ctx, task, input)
		}
	}
	return func(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
		return map[string]interface{}{}, nil
	}
}

// race runs the body in its own goroutine and waits for completion, the
// declared timeout or caller cancellation, whichever comes first. A body
// that overruns its timeout is abandoned; its late result is discarded.
func (s *Service) race(ctx context.Context, task *model.Task, body Body, snapshot map[string]interface{}) (map[string]interface{}, error) {
	timeout := task.Timeout()
	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	runCtx = execution.WithTaskID(runCtx, task.ID)

	type outcome struct {
		outputs map[string]interface{}
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: &BodyError{TaskID: task.ID, Err: fmt.Errorf("recovered: %v", r)}}
			}
		}()
		outputs, err := body(runCtx, cloneSnapshot(snapshot))
		if err != nil {
			var timedOut *TimeoutError
			switch {
			case errors.As(err, &timedOut):
			case timeout > 0 && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
				// a cooperative body observed the runner imposed deadline
				err = &TimeoutError{TaskID: task.ID, Timeout: timeout}
			default:
				err = &BodyError{TaskID: task.ID, Err: err}
			}
			done <- outcome{err: err}
			return
		}
		done <- outcome{outputs: outputs}
	}()

	var timer <-chan time.Time
	if timeout > 0 {
		expiry := time.NewTimer(timeout)
		defer expiry.Stop()
		timer = expiry.C
	}
	select {
	case o := <-done:
		return o.outputs, o.err
	case <-timer:
		return nil, &TimeoutError{TaskID: task.ID, Timeout: timeout}
	case <-ctx.Done():
		return nil, &BodyError{TaskID: task.ID, Err: ctx.Err()}
	}
}

// invoke executes the declaration bound action: it resolves the registered
// service method, coerces the snapshot derived input into the method's
// input struct and converts the produced output struct back to a map.
func (s *Service) invoke(ctx context.Context, task *model.Task, snapshot map[string]interface{}) (map[string]interface{}, error) {
	if s.actions == nil {
		return nil, fmt.Errorf("no action registry configured")
	}
	action := task.Action
	actionService := s.actions.Lookup(action.Service)
	if actionService == nil {
		return nil, fmt.Errorf("service %v not found", action.Service)
	}
	if action.Method == "" {
		return nil, fmt.Errorf("method not found for service %v", action.Service)
	}
	method, err := actionService.Method(action.Method)
	if err != nil {
		return nil, fmt.Errorf("failed to find method %v for service %v: %w", action.Method, action.Service, err)
	}
	signature := actionService.Methods().Lookup(action.Method)
	if signature == nil {
		return nil, fmt.Errorf("missing signature for method %v on service %v", action.Method, action.Service)
	}

	inputMap := map[string]interface{}{}
	for _, param := range task.Init {
		value := param.Value
		if value == nil {
			value = param.Default
		}
		inputMap[param.Name] = value
	}
	if declared, ok := action.Input.(map[string]interface{}); ok {
		for k, v := range declared {
			inputMap[k] = v
		}
	}
	for _, key := range task.Inputs {
		inputMap[key] = snapshot[key]
	}

	input, err := s.typedValue(signature.Input, inputMap)
	if err != nil {
		return nil, err
	}
	output, err := s.typedValue(signature.Output, map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	if initable, ok := input.(interface{ Init(ctx context.Context) error }); ok {
		if err := initable.Init(ctx); err != nil {
			return nil, err
		}
	}
	if validatable, ok := input.(interface{ Validate(ctx context.Context) error }); ok {
		if err := validatable.Validate(ctx); err != nil {
			return nil, err
		}
	}
	if err := method(ctx, input, output); err != nil {
		return nil, err
	}
	return asMap(output)
}

func (s *Service) typedValue(aType reflect.Type, value interface{}) (interface{}, error) {
	instance := newInstancePtr(aType)
	if instance == nil {
		return nil, fmt.Errorf("untyped method signature")
	}
	err := s.converter.Convert(value, instance)
	return instance, err
}

// asMap converts an action output struct into the key/value outputs merged
// into session state
func asMap(output interface{}) (map[string]interface{}, error) {
	if output == nil {
		return map[string]interface{}{}, nil
	}
	if actual, ok := output.(map[string]interface{}); ok {
		return actual, nil
	}
	data, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("failed to map output %T: %w", output, err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to map output %T: %w", output, err)
	}
	return result, nil
}

// newInstancePtr creates a new instance pointer of the given type
func newInstancePtr(t reflect.Type) interface{} {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface()
}

func missingInputs(task *model.Task, snapshot map[string]interface{}) []string {
	var missing []string
	for _, key := range task.Inputs {
		if value, ok := snapshot[key]; !ok || value == nil {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func cloneSnapshot(snapshot map[string]interface{}) map[string]interface{} {
	clone := make(map[string]interface{}, len(snapshot))
	for k, v := range snapshot {
		clone[k] = v
	}
	return clone
}
