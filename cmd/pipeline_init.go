package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/brand-cli/internal/config"
	"github.com/sells-group/brand-cli/internal/pipeline"
	"github.com/sells-group/brand-cli/internal/resilience"
	"github.com/sells-group/brand-cli/internal/scrape"
	"github.com/sells-group/brand-cli/internal/store"
	anthropicpkg "github.com/sells-group/brand-cli/pkg/anthropic"
	"github.com/sells-group/brand-cli/pkg/apify"
	"github.com/sells-group/brand-cli/pkg/imagga"
	"github.com/sells-group/brand-cli/pkg/ollama"
	"github.com/sells-group/brand-cli/pkg/openai"
)

// pipelineEnv holds the pipeline and the optional store needed by the
// generate/batch/serve commands.
type pipelineEnv struct {
	Store    store.Store // may be nil
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline validates config for mode, opens the store when one is
// configured and builds the Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}

// initStore opens and migrates the configured store. It returns nil, nil
// when no store is configured.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if st == nil {
		return nil, nil
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// buildPipeline wires the scraper, color extractor and synthesizer from c.
func buildPipeline(c *config.Config) (*pipeline.Pipeline, error) {
	scraper, err := buildScraper(c)
	if err != nil {
		return nil, err
	}

	breakerCfg := resilience.FromConfig(c.Resilience.FailureThreshold, c.Resilience.ResetTimeoutSecs)

	var colors *pipeline.ColorExtractor
	if c.Imagga.Configured() {
		client := imagga.NewClient(c.Imagga.Key, c.Imagga.Secret, imagga.WithBaseURL(c.Imagga.BaseURL))
		colors = pipeline.NewColorExtractor(client, resilience.NewBreaker("imagga", breakerCfg), seconds(c.Imagga.TimeoutSecs))
	} else {
		zap.L().Info("color service not configured, using default palette")
	}

	lm, err := buildModel(c)
	if err != nil {
		return nil, err
	}

	var synth *pipeline.Synthesizer
	if lm != nil {
		opts := []pipeline.SynthOption{
			pipeline.WithNameRecovery(c.LLM.RecoverCompanyName),
			pipeline.WithBreaker(resilience.NewBreaker(lm.Name(), breakerCfg)),
		}
		if c.LLM.TimeoutSecs > 0 {
			opts = append(opts, pipeline.WithModelTimeout(seconds(c.LLM.TimeoutSecs)))
		}
		synth = pipeline.NewSynthesizer(lm, opts...)
	}

	zap.L().Debug("pipeline configured",
		zap.String("scraper", scraper.Name()),
		zap.Bool("colors", colors != nil),
		zap.String("llm", synth.ModelName()),
	)

	return pipeline.New(scraper, colors, synth), nil
}

func buildScraper(c *config.Config) (scrape.MetadataScraper, error) {
	timeout := time.Duration(c.Scrape.TimeoutMS) * time.Millisecond
	switch c.Scrape.Provider {
	case "apify", "":
		opts := []apify.Option{apify.WithBaseURL(c.Apify.BaseURL)}
		if c.Apify.Actor != "" {
			opts = append(opts, apify.WithActor(c.Apify.Actor))
		}
		return scrape.NewApifyScraper(apify.NewClient(c.Apify.Token, opts...), timeout), nil
	case "local":
		return scrape.NewLocalScraper(nil, timeout), nil
	default:
		return nil, eris.Errorf("unsupported scrape provider: %s", c.Scrape.Provider)
	}
}

// buildModel returns the configured language model, or nil when none is
// configured.
func buildModel(c *config.Config) (pipeline.LanguageModel, error) {
	switch provider := c.ResolveLLMProvider(); provider {
	case "openai":
		client := openai.NewClient(c.OpenAI.Key, openai.WithBaseURL(c.OpenAI.BaseURL), openai.WithModel(c.OpenAI.Model))
		return pipeline.NewOpenAIModel(client, c.OpenAI.Model, c.LLM.Temperature, c.LLM.MaxTokens), nil
	case "ollama":
		client := ollama.NewClient(c.Ollama.BaseURL, ollama.WithModel(c.Ollama.Model))
		return pipeline.NewOllamaModel(client, c.Ollama.Model), nil
	case "anthropic":
		client := anthropicpkg.NewClient(c.Anthropic.Key)
		return pipeline.NewAnthropicModel(client, c.Anthropic.Model, c.LLM.Temperature, c.LLM.MaxTokens), nil
	case "none":
		zap.L().Info("no language model configured, using heuristic copy")
		return nil, nil
	default:
		return nil, eris.Errorf("unsupported llm provider: %s", provider)
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
