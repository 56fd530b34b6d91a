package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGitHubModels = "github-models"
	ProviderOpenAI       = "openai"
	ProviderDisabled     = "disabled"
)

type Config struct {
	Port     int
	LogLevel string

	GitHubToken  string
	GitHubAPIURL string

	GitHubModelsToken string
	GitHubModelsURL   string

	OpenAIAPIKey string
	LLMBaseURL   string
	LLMModel     string

	PromptTokenBudget int
	TokenizerEncoding string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// OtelExporter selects where trace spans go: "stdout" or empty for none.
	OtelExporter string
}

// Load reads configuration from .env, the environment and any flags already
// bound to v. A nil v uses a fresh viper instance.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()

	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:     v.GetInt("port"),
		LogLevel: v.GetString("log_level"),

		GitHubToken:  v.GetString("github_token"),
		GitHubAPIURL: v.GetString("github_api_url"),

		GitHubModelsToken: v.GetString("github_openai_api_key"),
		GitHubModelsURL:   v.GetString("github_models_url"),

		OpenAIAPIKey: v.GetString("openai_api_key"),
		LLMBaseURL:   v.GetString("llm_base_url"),
		LLMModel:     v.GetString("llm_model"),

		PromptTokenBudget: v.GetInt("prompt_token_budget"),
		TokenizerEncoding: v.GetString("tokenizer_encoding"),

		RequestTimeout:  v.GetDuration("request_timeout"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),

		OtelExporter: strings.ToLower(strings.TrimSpace(v.GetString("otel_exporter"))),
	}

	cfg.LLMBaseURL = strings.TrimSuffix(cfg.LLMBaseURL, "/")
	cfg.GitHubModelsURL = strings.TrimSuffix(cfg.GitHubModelsURL, "/")

	if cfg.LLMModel == "" {
		switch cfg.Provider() {
		case ProviderGitHubModels:
			cfg.LLMModel = "openai/gpt-4o"
		default:
			cfg.LLMModel = "gpt-4o"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Provider reports which completion backend the tokens select. GitHub Models
// wins when both tokens are present.
func (c *Config) Provider() string {
	switch {
	case c.GitHubModelsToken != "":
		return ProviderGitHubModels
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	default:
		return ProviderDisabled
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8000)
	v.SetDefault("log_level", "info")
	v.SetDefault("github_models_url", "https://models.github.ai/inference")
	v.SetDefault("llm_base_url", "https://api.openai.com/v1")
	v.SetDefault("prompt_token_budget", 16000)
	v.SetDefault("tokenizer_encoding", "cl100k_base")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("shutdown_timeout", 5*time.Second)
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.PromptTokenBudget <= 0 {
		return fmt.Errorf("PROMPT_TOKEN_BUDGET must be positive, got %d", c.PromptTokenBudget)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
