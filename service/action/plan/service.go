// Package plan exposes execution planning as an action service so that a
// pipeline task can request a wave partition for another task set.
package plan

import (
	"context"
	"fmt"
	"log"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/viant/cascade/model"
	"github.com/viant/cascade/model/types"
	"github.com/viant/cascade/runtime/planner"
	"github.com/viant/cascade/service/dao/taskset"
)

const Name = "plan"

const baseRetryDelay = 100 * time.Millisecond

// Service proposes execution plans, consulting an oracle with retries and
// falling back to the task set's static plan.
type Service struct {
	oracle  planner.Oracle
	taskDao *taskset.Service
	sleep   func(time.Duration)
}

// Option customises the plan service.
type Option func(*Service)

// WithOracle sets the planning oracle.
func WithOracle(oracle planner.Oracle) Option {
	return func(s *Service) {
		s.oracle = oracle
	}
}

// WithTaskSetDao sets the task set loader.
func WithTaskSetDao(dao *taskset.Service) Option {
	return func(s *Service) {
		s.taskDao = dao
	}
}

func withSleep(sleep func(time.Duration)) Option {
	return func(s *Service) {
		s.sleep = sleep
	}
}

// New creates a plan action service.
func New(options ...Option) *Service {
	ret := &Service{taskDao: taskset.New(), sleep: time.Sleep}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Input requests a plan for a task set, referenced by URL or supplied inline.
type Input struct {
	URL     string                 `json:"url,omitempty" description:"task set URL to load"`
	TaskSet *model.TaskSet         `json:"taskSet,omitempty" description:"inline task set declaration"`
	Context map[string]interface{} `json:"context,omitempty" description:"initial run context"`
	Retries int                    `json:"retries,omitempty" description:"oracle retry budget"`
}

// Output carries the proposed wave partition.
type Output struct {
	Waves  [][]string `json:"waves"`
	Source string     `json:"source"` // oracle or static
}

// Name returns the service name
func (s *Service) Name() string {
	return Name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "propose",
			Description: "Proposes a wave partition for a task set.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "propose":
		return s.propose, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) propose(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Propose(ctx, input, output)
}

// Propose resolves the task set and computes its plan. The oracle is retried
// with exponential backoff before the static plan takes over.
func (s *Service) Propose(ctx context.Context, input *Input, output *Output) error {
	aTaskSet := input.TaskSet
	if aTaskSet == nil {
		if input.URL == "" {
			return fmt.Errorf("either url or taskSet is required")
		}
		loaded, err := s.taskDao.Load(ctx, input.URL)
		if err != nil {
			return err
		}
		aTaskSet = loaded
	}

	aPlanner, err := planner.New(aTaskSet, planner.WithOracle(s.retryingOracle(input.Retries)))
	if err != nil {
		return err
	}
	plan := aPlanner.Plan(ctx, input.Context)
	output.Waves = plan.Waves
	output.Source = "oracle"
	if s.oracle == nil || planEqual(plan, aPlanner.Static()) {
		output.Source = "static"
	}
	return nil
}

// retryingOracle wraps the configured oracle with a 2^i backoff retry loop.
func (s *Service) retryingOracle(retries int) planner.Oracle {
	if s.oracle == nil {
		return nil
	}
	return oracleFunc(func(ctx context.Context, taskSet *model.TaskSet, input map[string]interface{}) (*planner.Plan, error) {
		var lastErr error
		for attempt := 0; attempt <= retries; attempt++ {
			if attempt > 0 {
				delay := time.Duration(float64(baseRetryDelay) * math.Pow(2, float64(attempt-1)))
				log.Printf("[WARN] plan: oracle attempt %d failed: %v, retrying in %v", attempt, lastErr, delay)
				s.sleep(delay)
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			plan, err := s.oracle.Propose(ctx, taskSet, input)
			if err == nil {
				return plan, nil
			}
			lastErr = err
		}
		return nil, lastErr
	})
}

type oracleFunc func(ctx context.Context, taskSet *model.TaskSet, input map[string]interface{}) (*planner.Plan, error)

func (f oracleFunc) Propose(ctx context.Context, taskSet *model.TaskSet, input map[string]interface{}) (*planner.Plan, error) {
	return f(ctx, taskSet, input)
}

func planEqual(a, b *planner.Plan) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Waves) != len(b.Waves) {
		return false
	}
	for i := range a.Waves {
		if len(a.Waves[i]) != len(b.Waves[i]) {
			return false
		}
		for j := range a.Waves[i] {
			if a.Waves[i][j] != b.Waves[i][j] {
				return false
			}
		}
	}
	return true
}
