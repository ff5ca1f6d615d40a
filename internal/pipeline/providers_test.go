package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/brand-cli/pkg/anthropic"
	"github.com/sells-group/brand-cli/pkg/ollama"
	"github.com/sells-group/brand-cli/pkg/openai"
)

func TestOpenAIModel_Complete(t *testing.T) {
	client := new(mockOpenAI)
	client.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == "gpt-4o-mini" &&
			len(req.Messages) == 1 && req.Messages[0].Role == "user" && req.Messages[0].Content == "prompt" &&
			req.Temperature != nil && *req.Temperature == 0.2 &&
			req.MaxTokens != nil && *req.MaxTokens == 700
	})).Return(&openai.ChatCompletionResponse{
		Choices: []openai.Choice{{Message: openai.Message{Role: "assistant", Content: `{"company_name":"Acme"}`}}},
	}, nil)

	m := NewOpenAIModel(client, "gpt-4o-mini", DefaultTemperature, 0)
	text, err := m.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"company_name":"Acme"}`, text)
	assert.Equal(t, "openai", m.Name())
	client.AssertExpectations(t)
}

func TestOpenAIModel_Error(t *testing.T) {
	client := new(mockOpenAI)
	client.On("ChatCompletion", mock.Anything, mock.Anything).Return(nil, &openai.APIError{StatusCode: 500})

	_, err := NewOpenAIModel(client, "", DefaultTemperature, DefaultMaxTokens).Complete(context.Background(), "p")
	require.Error(t, err)
	var apiErr *openai.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestOllamaModel_Complete(t *testing.T) {
	client := new(mockOllama)
	client.On("Generate", mock.Anything, ollama.GenerateRequest{Model: "llama3.1", Prompt: "prompt"}).
		Return(&ollama.GenerateResponse{Response: "hello", Done: true}, nil)

	m := NewOllamaModel(client, "llama3.1")
	text, err := m.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "ollama", m.Name())
}

func TestAnthropicModel_Complete(t *testing.T) {
	client := new(mockAnthropic)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == anthropic.DefaultModel && req.MaxTokens == 700 &&
			len(req.Messages) == 1 && req.Messages[0].Content == "prompt"
	})).Return(&anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: "{}"}},
	}, nil)

	m := NewAnthropicModel(client, "", DefaultTemperature, 0)
	text, err := m.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "{}", text)
	assert.Equal(t, "anthropic", m.Name())
}

func TestAnthropicModel_Error(t *testing.T) {
	client := new(mockAnthropic)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded"))

	_, err := NewAnthropicModel(client, "claude-x", 0, 100).Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic: complete")
}
