package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/brand-cli/internal/model"
	"github.com/sells-group/brand-cli/pkg/anthropic"
	"github.com/sells-group/brand-cli/pkg/imagga"
	"github.com/sells-group/brand-cli/pkg/ollama"
	"github.com/sells-group/brand-cli/pkg/openai"
)

// --- Scraper Mock ---

type mockScraper struct {
	mock.Mock
}

func (m *mockScraper) Scrape(ctx context.Context, targetURL string) (*model.RawMetadata, error) {
	args := m.Called(ctx, targetURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RawMetadata), args.Error(1)
}

func (m *mockScraper) Name() string { return "mock" }

// --- Imagga Mock ---

type mockImagga struct {
	mock.Mock
}

func (m *mockImagga) Colors(ctx context.Context, imageURL string) (*imagga.ColorsResponse, error) {
	args := m.Called(ctx, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imagga.ColorsResponse), args.Error(1)
}

// --- Language Model Mock ---

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Name() string { return "mock-llm" }

func (m *mockModel) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// --- Provider Client Mocks ---

type mockOpenAI struct {
	mock.Mock
}

func (m *mockOpenAI) ChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ChatCompletionResponse), args.Error(1)
}

type mockOllama struct {
	mock.Mock
}

func (m *mockOllama) Generate(ctx context.Context, req ollama.GenerateRequest) (*ollama.GenerateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ollama.GenerateResponse), args.Error(1)
}

type mockAnthropic struct {
	mock.Mock
}

func (m *mockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// colorsResponse builds an Imagga response from html_code/percentage pairs.
func colorsResponse(pairs ...any) *imagga.ColorsResponse {
	resp := &imagga.ColorsResponse{}
	for i := 0; i+1 < len(pairs); i += 2 {
		resp.Result.Colors.ImageColors = append(resp.Result.Colors.ImageColors, imagga.Color{
			HTMLCode:   pairs[i].(string),
			Percentage: pairs[i+1].(float64),
		})
	}
	return resp
}
