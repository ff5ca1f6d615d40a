package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-cli/pkg/anthropic"
	"github.com/sells-group/brand-cli/pkg/ollama"
	"github.com/sells-group/brand-cli/pkg/openai"
)

// LanguageModel turns a prompt into raw text. Providers differ only in
// transport; prompt building and parsing live in Synthesizer.
type LanguageModel interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generation settings shared by the providers.
const (
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 700
)

// OpenAIModel sends the prompt as a single user message to a hosted
// chat-completions API.
type OpenAIModel struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIModel creates an OpenAIModel. An empty model uses the client default.
func NewOpenAIModel(client openai.Client, model string, temperature float64, maxTokens int) *OpenAIModel {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &OpenAIModel{client: client, model: model, temperature: temperature, maxTokens: maxTokens}
}

// Name implements LanguageModel.
func (m *OpenAIModel) Name() string { return "openai" }

// Complete implements LanguageModel.
func (m *OpenAIModel) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := m.temperature
	maxTokens := m.maxTokens
	resp, err := m.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    []openai.Message{{Role: "user", Content: prompt}},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", eris.Wrap(err, "openai: complete")
	}
	return resp.Text(), nil
}

// OllamaModel calls a self-hosted generate endpoint without streaming.
type OllamaModel struct {
	client ollama.Client
	model  string
}

// NewOllamaModel creates an OllamaModel.
func NewOllamaModel(client ollama.Client, model string) *OllamaModel {
	return &OllamaModel{client: client, model: model}
}

// Name implements LanguageModel.
func (m *OllamaModel) Name() string { return "ollama" }

// Complete implements LanguageModel.
func (m *OllamaModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Generate(ctx, ollama.GenerateRequest{Model: m.model, Prompt: prompt})
	if err != nil {
		return "", eris.Wrap(err, "ollama: complete")
	}
	if resp == nil {
		return "", nil
	}
	return resp.Response, nil
}

// AnthropicModel calls the Messages API.
type AnthropicModel struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewAnthropicModel creates an AnthropicModel. An empty model uses
// anthropic.DefaultModel.
func NewAnthropicModel(client anthropic.Client, model string, temperature float64, maxTokens int) *AnthropicModel {
	if model == "" {
		model = anthropic.DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &AnthropicModel{client: client, model: model, temperature: temperature, maxTokens: int64(maxTokens)}
}

// Name implements LanguageModel.
func (m *AnthropicModel) Name() string { return "anthropic" }

// Complete implements LanguageModel.
func (m *AnthropicModel) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := m.temperature
	resp, err := m.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       m.model,
		MaxTokens:   m.maxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temperature,
	})
	if err != nil {
		return "", eris.Wrap(err, "anthropic: complete")
	}
	if resp == nil {
		return "", nil
	}
	resp.Usage.LogCost(m.model, "synthesize")
	return resp.Text(), nil
}
