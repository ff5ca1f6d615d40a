package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Scrape     ScrapeConfig     `yaml:"scrape" mapstructure:"scrape"`
	Apify      ApifyConfig      `yaml:"apify" mapstructure:"apify"`
	Imagga     ImaggaConfig     `yaml:"imagga" mapstructure:"imagga"`
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Ollama     OllamaConfig     `yaml:"ollama" mapstructure:"ollama"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Resilience ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ScrapeConfig selects the metadata scraper.
type ScrapeConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // apify | local
	TimeoutMS int    `yaml:"timeout_ms" mapstructure:"timeout_ms"`
}

// ApifyConfig holds the scraping service credential and actor.
type ApifyConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Actor   string `yaml:"actor" mapstructure:"actor"`
}

// ImaggaConfig holds the color-analysis credentials.
type ImaggaConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Secret      string `yaml:"secret" mapstructure:"secret"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Configured reports whether both halves of the credential are set.
func (c ImaggaConfig) Configured() bool {
	return c.Key != "" && c.Secret != ""
}

// LLMConfig controls copy synthesis regardless of provider.
type LLMConfig struct {
	Provider           string  `yaml:"provider" mapstructure:"provider"` // auto | openai | ollama | anthropic | none
	Temperature        float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens          int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RecoverCompanyName bool    `yaml:"recover_company_name" mapstructure:"recover_company_name"`
}

// OpenAIConfig configures the hosted chat-completions provider.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// OllamaConfig configures the self-hosted provider.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ResilienceConfig configures the circuit breakers.
type ResilienceConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// StoreConfig configures the profile store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres | none
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RatePerSec  float64  `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int      `yaml:"burst" mapstructure:"burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// BatchConfig configures batch generation.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ResolveLLMProvider returns the provider to use. "auto" picks the first
// one with credentials: openai, then ollama, then anthropic, else "none".
func (c *Config) ResolveLLMProvider() string {
	provider := strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if provider != "" && provider != "auto" {
		return provider
	}
	switch {
	case c.OpenAI.Key != "":
		return "openai"
	case c.Ollama.BaseURL != "":
		return "ollama"
	case c.Anthropic.Key != "":
		return "anthropic"
	default:
		return "none"
	}
}

// Validate checks the settings a command needs. Missing credentials are not
// reported here: a missing scraping token fails the run itself, and missing
// color or model credentials only degrade it.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Scrape.Provider {
	case "apify", "local":
	default:
		problems = append(problems, "scrape.provider must be apify or local")
	}
	switch c.ResolveLLMProvider() {
	case "openai", "ollama", "anthropic", "none":
	default:
		problems = append(problems, "llm.provider must be auto, openai, ollama, anthropic or none")
	}
	switch c.Store.Driver {
	case "", "none":
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for store.driver "+c.Store.Driver)
		}
	default:
		problems = append(problems, "store.driver must be sqlite, postgres or none")
	}

	switch mode {
	case "generate":
	case "batch":
		if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 64 {
			problems = append(problems, "batch.max_concurrent must be between 1 and 64")
		}
	case "serve":
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
	case "store":
		if c.Store.Driver == "" || c.Store.Driver == "none" {
			problems = append(problems, "store.driver is not configured")
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from config.yaml (optional) and BRAND_ env vars.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BRAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key is registered so env vars reach Unmarshal.
	v.SetDefault("scrape.provider", "apify")
	v.SetDefault("scrape.timeout_ms", 90000)
	v.SetDefault("apify.token", "")
	v.SetDefault("apify.base_url", "https://api.apify.com/v2")
	v.SetDefault("apify.actor", "apify~website-metadata-extractor")
	v.SetDefault("imagga.key", "")
	v.SetDefault("imagga.secret", "")
	v.SetDefault("imagga.base_url", "https://api.imagga.com/v2")
	v.SetDefault("imagga.timeout_secs", 20)
	v.SetDefault("llm.provider", "auto")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 700)
	v.SetDefault("llm.timeout_secs", 60)
	v.SetDefault("llm.recover_company_name", true)
	v.SetDefault("openai.key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("ollama.base_url", "")
	v.SetDefault("ollama.model", "llama3.1")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("resilience.failure_threshold", 5)
	v.SetDefault("resilience.reset_timeout_secs", 30)
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_sec", 1.0)
	v.SetDefault("server.burst", 5)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("batch.max_concurrent", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
