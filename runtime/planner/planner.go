package planner

import (
	"context"
	"fmt"
	"log"

	"github.com/viant/cascade/model"
)

// Plan is an ordered list of waves; each wave is a non-empty set of task ids
// executed concurrently. Every declared task appears in exactly one wave.
type Plan struct {
	Waves [][]string `json:"waves" yaml:"waves"`
}

// Oracle proposes a wave partition for a task set given the initial run
// input. It may be backed by a reasoning model and is allowed to fail or to
// return garbage; the planner treats any invalid proposal as a miss.
type Oracle interface {
	Propose(ctx context.Context, taskSet *model.TaskSet, input map[string]interface{}) (*Plan, error)
}

// Service computes the execution plan for a run. An optional oracle is
// consulted first; the statically configured plan backs it whenever the
// oracle is unavailable or proposes an invalid partition. The static plan is
// validated once, at construction, so a misconfiguration surfaces before any
// run starts.
type Service struct {
	taskSet *model.TaskSet
	static  *Plan
	oracle  Oracle
}

// Option customises the planner
type Option func(*Service)

// WithOracle attaches a planning oracle
func WithOracle(oracle Oracle) Option {
	return func(s *Service) {
		s.oracle = oracle
	}
}

// WithStaticPlan overrides the task set's declared default plan
func WithStaticPlan(plan *Plan) Option {
	return func(s *Service) {
		s.static = plan
	}
}

// New creates a planner for the supplied task set. It fails when the static
// plan does not cover every declared task exactly once.
func New(taskSet *model.TaskSet, options ...Option) (*Service, error) {
	if taskSet == nil {
		return nil, fmt.Errorf("task set was nil")
	}
	ret := &Service{taskSet: taskSet}
	for _, option := range options {
		option(ret)
	}
	if ret.static == nil && len(taskSet.Plan) > 0 {
		ret.static = &Plan{Waves: taskSet.Plan}
	}
	if ret.static == nil {
		return nil, fmt.Errorf("task set %q has no static plan", taskSet.Name)
	}
	if err := ret.static.Validate(taskSet); err != nil {
		return nil, fmt.Errorf("invalid static plan for task set %q: %w", taskSet.Name, err)
	}
	return ret, nil
}

// Plan partitions the task set into waves. It is called once per run, with
// the initial input only; later waves do not trigger re-planning. The
// returned plan is always valid.
func (s *Service) Plan(ctx context.Context, input map[string]interface{}) *Plan {
	if s.oracle == nil {
		return s.static
	}
	proposed, err := s.oracle.Propose(ctx, s.taskSet, input)
	if err != nil {
		log.Printf("[WARN] planner: oracle failed for task set %v, using static plan: %v", s.taskSet.Name, err)
		return s.static
	}
	if err := proposed.Validate(s.taskSet); err != nil {
		log.Printf("[WARN] planner: oracle proposal for task set %v rejected, using static plan: %v", s.taskSet.Name, err)
		return s.static
	}
	return proposed
}

// Static returns the fallback plan
func (s *Service) Static() *Plan {
	return s.static
}

// Validate checks that the plan covers every task declared by the set
// exactly once, references no unknown ids and has no empty waves.
func (p *Plan) Validate(taskSet *model.TaskSet) error {
	if p == nil {
		return fmt.Errorf("plan was nil")
	}
	if len(p.Waves) == 0 {
		return fmt.Errorf("plan has no waves")
	}
	seen := map[string]bool{}
	for i, wave := range p.Waves {
		if len(wave) == 0 {
			return fmt.Errorf("wave %v is empty", i)
		}
		for _, id := range wave {
			if taskSet.Lookup(id) == nil {
				return fmt.Errorf("unknown task id %q in wave %v", id, i)
			}
			if seen[id] {
				return fmt.Errorf("task id %q appears more than once", id)
			}
			seen[id] = true
		}
	}
	for _, id := range taskSet.TaskIDs() {
		if !seen[id] {
			return fmt.Errorf("task id %q is not covered by any wave", id)
		}
	}
	return nil
}

// Tasks returns the total number of task slots in the plan
func (p *Plan) Tasks() int {
	total := 0
	for _, wave := range p.Waves {
		total += len(wave)
	}
	return total
}
