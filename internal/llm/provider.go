package llm

import "github.com/kevinmichaelchen/gh-sms/internal/config"

// New picks the completion backend once, from which token is configured.
func New(cfg *config.Config) Completer {
	switch cfg.Provider() {
	case config.ProviderGitHubModels:
		return NewClient(config.ProviderGitHubModels, cfg.GitHubModelsURL, cfg.GitHubModelsToken, cfg.LLMModel)
	case config.ProviderOpenAI:
		return NewClient(config.ProviderOpenAI, cfg.LLMBaseURL, cfg.OpenAIAPIKey, cfg.LLMModel)
	default:
		return Disabled{}
	}
}
