// Package taskset loads task set declarations from YAML documents.
package taskset

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/cascade/internal/yml"
	"github.com/viant/cascade/model"
	"github.com/viant/cascade/model/state"
	"github.com/viant/cascade/service/dao/taskset/parameters"
	"github.com/viant/cascade/service/meta"
	"gopkg.in/yaml.v3"
)

// Service parses task set documents. A document declares the task map, the
// optional init parameters and the static wave plan.
type Service struct {
	metaService *meta.Service
}

// DecodeYAML decodes a task set from raw YAML.
func (s *Service) DecodeYAML(encoded []byte) (*model.TaskSet, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(encoded, &node); err != nil {
		return nil, err
	}
	return s.ParseTaskSet("", &node)
}

// Load loads a task set from YAML at the specified URL.
func (s *Service) Load(ctx context.Context, URL string) (*model.TaskSet, error) {
	ext := filepath.Ext(URL)
	if ext == "" {
		URL += ".yaml"
	}
	var node yaml.Node
	if err := s.metaService.Load(ctx, URL, &node); err != nil {
		return nil, fmt.Errorf("failed to load task set from %s: %w", URL, err)
	}
	return s.ParseTaskSet(URL, &node)
}

// ParseTaskSet converts a YAML document into a task set declaration. The
// returned set is validated and its conditions compiled, so malformed
// documents are rejected at load time rather than at run.
func (s *Service) ParseTaskSet(URL string, node *yaml.Node) (*model.TaskSet, error) {
	taskSet := &model.TaskSet{
		Source: &model.Source{URL: URL},
		Name:   taskSetNameFromURL(URL),
	}
	if err := s.parseTaskSet((*yml.Node)(node), taskSet); err != nil {
		return nil, fmt.Errorf("failed to parse task set from %s: %w", URL, err)
	}
	if taskSet.Name == "" {
		taskSet.Name = generateAnonymousName()
	}
	if issues := taskSet.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	// Malformed conditions are not fatal: the affected tasks surface as
	// permanently skipped at run time.
	for _, issue := range taskSet.Compile() {
		log.Printf("[WARN] taskset %s: %v", taskSet.Name, issue)
	}
	return taskSet, nil
}

// taskSetNameFromURL extracts a set name from URL (file name without extension)
func taskSetNameFromURL(URL string) string {
	base := filepath.Base(URL)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseTaskSet converts a YAML node to the task set model
func (s *Service) parseTaskSet(node *yml.Node, taskSet *model.TaskSet) error {
	rootNode := node
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		rootNode = (*yml.Node)(node.Content[0])
	}
	return rootNode.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			if valueNode.Kind == yaml.ScalarNode {
				taskSet.Name = valueNode.Value
			}
		case "description":
			if valueNode.Kind == yaml.ScalarNode {
				taskSet.Description = valueNode.Value
			}
		case "version":
			if valueNode.Kind == yaml.ScalarNode {
				taskSet.Version = valueNode.Value
			}
		case "init":
			init, err := parseParameters(valueNode)
			if err != nil {
				return fmt.Errorf("failed to parse init parameters: %w", err)
			}
			taskSet.Init = init
		case "tasks":
			if valueNode.Kind != yaml.MappingNode {
				return fmt.Errorf("tasks node should be a mapping")
			}
			if err := valueNode.Pairs(func(taskID string, taskNode *yml.Node) error {
				task, err := s.parseTask(taskID, taskNode)
				if err != nil {
					return err
				}
				taskSet.Tasks = append(taskSet.Tasks, task)
				return nil
			}); err != nil {
				return err
			}
		case "plan":
			plan, err := parsePlan(valueNode)
			if err != nil {
				return err
			}
			taskSet.Plan = plan
		}
		return nil
	})
}

// parseTask converts a YAML node to a task declaration
func (s *Service) parseTask(id string, node *yml.Node) (*model.Task, error) {
	task := model.NewTask(id)
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("task %s node should be a mapping", id)
	}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			if valueNode.Kind == yaml.ScalarNode {
				task.Name = valueNode.Value
			}
		case "description":
			if valueNode.Kind == yaml.ScalarNode {
				task.Description = valueNode.Value
			}
		case "inputs":
			keys, err := parseStringList(valueNode)
			if err != nil {
				return fmt.Errorf("task %s: inputs should be a string or a slice of strings", id)
			}
			task.Inputs = keys
		case "outputs":
			keys, err := parseStringList(valueNode)
			if err != nil {
				return fmt.Errorf("task %s: outputs should be a string or a slice of strings", id)
			}
			task.Outputs = keys
		case "condition", "when":
			if valueNode.Kind == yaml.ScalarNode {
				task.Condition = valueNode.Value
			}
		case "action":
			action, err := parseAction(valueNode)
			if err != nil {
				return fmt.Errorf("task %s: %w", id, err)
			}
			if task.Action != nil && task.Action.Input != nil && action.Input == nil {
				action.Input = task.Action.Input
			}
			task.Action = action
		case "input":
			if task.Action == nil {
				task.Action = &model.Action{}
			}
			task.Action.Input = valueNode.Interface()
		case "exec":
			if valueNode.Kind != yaml.MappingNode {
				return fmt.Errorf("task %s: exec should be a mapping", id)
			}
			policy, err := parseExecPolicy(valueNode)
			if err != nil {
				return fmt.Errorf("task %s: %w", id, err)
			}
			task.Exec = policy
		case "timeout":
			if valueNode.Kind == yaml.ScalarNode {
				ensureExec(task).Timeout = valueNode.Value
			}
		case "retries":
			count, ok := valueNode.Interface().(int)
			if !ok {
				return fmt.Errorf("task %s: retries should be an integer", id)
			}
			ensureExec(task).Retries = count
		case "sync":
			flag, ok := valueNode.Interface().(bool)
			if !ok {
				return fmt.Errorf("task %s: sync should be a boolean", id)
			}
			ensureExec(task).Sync = flag
		case "fallback":
			if valueNode.Kind != yaml.MappingNode {
				return fmt.Errorf("task %s: fallback should be a mapping", id)
			}
			fallback, err := parseFallback(valueNode)
			if err != nil {
				return fmt.Errorf("task %s: %w", id, err)
			}
			task.Fallback = fallback
		case "init":
			params, err := parseParameters(valueNode)
			if err != nil {
				return fmt.Errorf("task %s: %w", id, err)
			}
			task.Init = params
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// parseAction accepts either a "service:method" scalar or a mapping with
// service, method and input keys.
func parseAction(node *yml.Node) (*model.Action, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		parts := strings.Split(node.Value, ":")
		action := &model.Action{Service: parts[0]}
		if len(parts) > 1 {
			action.Method = parts[1]
		}
		return action, nil
	case yaml.MappingNode:
		action := &model.Action{}
		err := node.Pairs(func(key string, valueNode *yml.Node) error {
			switch strings.ToLower(key) {
			case "service":
				action.Service = valueNode.Value
			case "method":
				action.Method = valueNode.Value
			case "input":
				action.Input = valueNode.Interface()
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return action, nil
	}
	return nil, fmt.Errorf("action should be a scalar or a mapping")
}

func parseExecPolicy(node *yml.Node) (*model.ExecPolicy, error) {
	policy := &model.ExecPolicy{}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "timeout":
			policy.Timeout = valueNode.Value
		case "retries":
			count, ok := valueNode.Interface().(int)
			if !ok {
				return fmt.Errorf("retries should be an integer")
			}
			policy.Retries = count
		case "sync":
			flag, ok := valueNode.Interface().(bool)
			if !ok {
				return fmt.Errorf("sync should be a boolean")
			}
			policy.Sync = flag
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return policy, nil
}

func parseFallback(node *yml.Node) (*model.FallbackPolicy, error) {
	fallback := &model.FallbackPolicy{}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "ontimeout", "on_timeout":
			fallback.OnTimeout = valueNode.Value
		case "onerror", "on_error":
			fallback.OnError = valueNode.Value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fallback, nil
}

// parsePlan converts a sequence of sequences of task ids into wave form
func parsePlan(node *yml.Node) ([][]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("plan should be a sequence of waves")
	}
	var plan [][]string
	err := node.Items(func(index int, waveNode *yml.Node) error {
		ids, err := parseStringList(waveNode)
		if err != nil {
			return fmt.Errorf("plan wave %d should be a string or a slice of strings", index)
		}
		plan = append(plan, ids)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// parseStringList accepts a scalar or a sequence of scalars
func parseStringList(node *yml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		var out []string
		err := node.Items(func(index int, item *yml.Node) error {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("expected scalar at %d", index)
			}
			out = append(out, item.Value)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a scalar or a sequence")
}

// parseParameters converts a YAML mapping to parameters. Keys carrying the
// name[type](kind/location) shorthand are parsed into typed declarations.
func parseParameters(node *yml.Node) (state.Parameters, error) {
	var params state.Parameters
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parameters node should be a mapping")
	}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		if strings.Contains(key, "[") && !strings.HasSuffix(key, "[]") {
			parameter, err := parameters.Parse([]byte(key))
			if err != nil {
				return fmt.Errorf("failed to parse parameter: %w", err)
			}
			parameter.Value = valueNode.Interface()
			params = append(params, parameter)
			return nil
		}
		val := valueNode.Interface()
		// Numeric scalars normalize to float64 so that declaration values
		// compare equal to JSON round-tripped run state.
		switch typed := val.(type) {
		case int:
			val = float64(typed)
		case int64:
			val = float64(typed)
		case uint:
			val = float64(typed)
		case uint64:
			val = float64(typed)
		}
		params = append(params, &state.Parameter{Name: key, Value: val})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return params, nil
}

func ensureExec(task *model.Task) *model.ExecPolicy {
	if task.Exec == nil {
		task.Exec = &model.ExecPolicy{}
	}
	return task.Exec
}

// New creates a new task set service instance
func New(opts ...Option) *Service {
	ret := &Service{
		metaService: meta.New(afs.New(), ""),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
