package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/viant/cascade/model"
)

type stubClient struct {
	content string
	err     error
	request *openai.ChatCompletionRequest
}

func (c *stubClient) CreateChatCompletion(_ context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.request = &request
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: c.content}},
		},
	}, nil
}

func triageSet() *model.TaskSet {
	return model.NewTaskSet("triage",
		model.NewTask("intake").WithOutputs("severity"),
		model.NewTask("classify").WithInputs("severity").WithOutputs("ward"),
	).WithPlan([]string{"intake"}, []string{"classify"})
}

func TestService_Propose(t *testing.T) {
	testCases := []struct {
		description string
		content     string
		clientErr   error
		expect      [][]string
		expectErr   bool
	}{
		{
			description: "valid proposal",
			content:     `{"waves": [["intake"], ["classify"]]}`,
			expect:      [][]string{{"intake"}, {"classify"}},
		},
		{
			description: "proposal wrapped in prose",
			content:     "Here is the plan: {\"waves\": [[\"intake\", \"classify\"]]} ",
			expect:      [][]string{{"intake", "classify"}},
		},
		{
			description: "unknown fields rejected",
			content:     `{"waves": [["intake"]], "rationale": "because"}`,
			expectErr:   true,
		},
		{
			description: "empty waves rejected",
			content:     `{"waves": []}`,
			expectErr:   true,
		},
		{
			description: "client error",
			clientErr:   fmt.Errorf("rate limited"),
			expectErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			stub := &stubClient{content: tc.content, err: tc.clientErr}
			service := New(&Config{Model: "test-model"}, WithClient(stub))

			plan, err := service.Propose(context.Background(), triageSet(), map[string]interface{}{"status": "active"})
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, plan.Waves)
		})
	}
}

func TestService_Propose_Request(t *testing.T) {
	stub := &stubClient{content: `{"waves": [["intake"], ["classify"]]}`}
	service := New(&Config{Model: "test-model", MaxTokens: 128}, WithClient(stub))

	_, err := service.Propose(context.Background(), triageSet(), map[string]interface{}{"status": "active"})
	assert.NoError(t, err)
	if !assert.NotNil(t, stub.request) {
		return
	}
	assert.Equal(t, "test-model", stub.request.Model)
	assert.Equal(t, 128, stub.request.MaxTokens)
	if assert.Len(t, stub.request.Messages, 2) {
		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal([]byte(stub.request.Messages[1].Content), &payload))
		assert.Equal(t, "triage", payload["taskSet"])
	}
}

func TestService_Propose_NoAPIKey(t *testing.T) {
	service := New(&Config{})
	_, err := service.Propose(context.Background(), triageSet(), nil)
	assert.Error(t, err)
}
