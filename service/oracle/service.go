// Package oracle provides an LLM-backed planning oracle. The model receives
// the task declarations and the initial run input and proposes a wave
// partition; any malformed or incomplete proposal is rejected by the planner
// in favour of the static plan.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
	"github.com/viant/cascade/model"
	"github.com/viant/cascade/runtime/planner"
	"github.com/viant/scy"
)

const defaultModel = "gpt-4o-mini"

// Config holds the connection settings for the planning model. The API key
// may be supplied inline or as an encrypted scy resource.
type Config struct {
	// URL overrides the completion endpoint base URL (e.g. a local gateway)
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Model names the completion model
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// APIKey is the inline API key; prefer APIKeyURL in configuration files
	APIKey string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`

	// APIKeyURL points to an encrypted secret holding the API key
	APIKeyURL string `json:"apiKeyURL,omitempty" yaml:"apiKeyURL,omitempty"`

	// Key is the scy encryption key, e.g. blowfish://default
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	MaxTokens   int     `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// Service proposes execution plans with a chat completion model.
type Service struct {
	config  *Config
	secrets *scy.Service

	initOnce sync.Once
	initErr  error
	client   client
}

// client captures the completion surface used by the service so that tests
// can supply a stub.
type client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ planner.Oracle = (*Service)(nil)

// Option customises the oracle service.
type Option func(*Service)

// WithClient overrides the completion client.
func WithClient(aClient client) Option {
	return func(s *Service) {
		s.client = aClient
	}
}

// WithSecrets overrides the secret service.
func WithSecrets(secrets *scy.Service) Option {
	return func(s *Service) {
		s.secrets = secrets
	}
}

// New creates a planning oracle for the supplied configuration.
func New(config *Config, options ...Option) *Service {
	if config == nil {
		config = &Config{}
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	ret := &Service{config: config, secrets: scy.New()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Propose asks the model for a wave partition of the task set.
func (s *Service) Propose(ctx context.Context, taskSet *model.TaskSet, input map[string]interface{}) (*planner.Plan, error) {
	if taskSet == nil {
		return nil, fmt.Errorf("taskSet was nil")
	}
	if err := s.ensureClient(ctx); err != nil {
		return nil, err
	}
	prompt, err := renderPrompt(taskSet, input)
	if err != nil {
		return nil, err
	}
	request := openai.ChatCompletionRequest{
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	response, err := s.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices")
	}
	return decodePlan(response.Choices[0].Message.Content)
}

func (s *Service) ensureClient(ctx context.Context) error {
	s.initOnce.Do(func() {
		if s.client != nil {
			return
		}
		apiKey := s.config.APIKey
		if apiKey == "" && s.config.APIKeyURL != "" {
			resource := scy.NewResource(nil, s.config.APIKeyURL, s.config.Key)
			secret, err := s.secrets.Load(ctx, resource)
			if err != nil {
				s.initErr = fmt.Errorf("failed to load api key from %s: %w", s.config.APIKeyURL, err)
				return
			}
			apiKey = strings.TrimSpace(secret.String())
		}
		if apiKey == "" {
			s.initErr = fmt.Errorf("api key was empty")
			return
		}
		clientConfig := openai.DefaultConfig(apiKey)
		if s.config.URL != "" {
			clientConfig.BaseURL = s.config.URL
		}
		s.client = openai.NewClientWithConfig(clientConfig)
	})
	return s.initErr
}

const systemPrompt = `You partition tasks of a decision pipeline into execution waves.
Tasks in one wave run concurrently against the same context snapshot; outputs
become visible only to later waves. Reply with JSON of the exact form
{"waves": [["taskId", ...], ...]} covering every task exactly once. A task
consuming a key produced by another task must be placed in a later wave.`

// renderPrompt describes the task set and the initial context keys.
func renderPrompt(taskSet *model.TaskSet, input map[string]interface{}) (string, error) {
	type taskInfo struct {
		ID        string   `json:"id"`
		Inputs    []string `json:"inputs,omitempty"`
		Outputs   []string `json:"outputs,omitempty"`
		Condition string   `json:"condition,omitempty"`
	}
	infos := make([]taskInfo, 0, len(taskSet.Tasks))
	for _, task := range taskSet.Tasks {
		infos = append(infos, taskInfo{
			ID:        task.ID,
			Inputs:    task.Inputs,
			Outputs:   task.Outputs,
			Condition: task.Condition,
		})
	}
	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}
	payload := map[string]interface{}{
		"taskSet":     taskSet.Name,
		"tasks":       infos,
		"contextKeys": keys,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodePlan parses a strict {"waves": [[...]]} document.
func decodePlan(content string) (*planner.Plan, error) {
	content = strings.TrimSpace(content)
	if start := strings.Index(content, "{"); start > 0 {
		content = content[start:]
	}
	if end := strings.LastIndex(content, "}"); end >= 0 {
		content = content[:end+1]
	}
	decoder := json.NewDecoder(bytes.NewReader([]byte(content)))
	decoder.DisallowUnknownFields()
	plan := &planner.Plan{}
	if err := decoder.Decode(plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	if len(plan.Waves) == 0 {
		return nil, fmt.Errorf("proposed plan had no waves")
	}
	return plan, nil
}
