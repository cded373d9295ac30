package llm

import (
	"fmt"
	"strings"

	"github.com/dminalm/filtro-candidatos/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory creates LLM clients with consistent logic
type Factory struct {
	OpenaiAPIKey        string
	OpenaiBaseURL       string
	OpenaiModel         string
	OpenaiFallbackModel string
	OpenRouterReferrer  string
	OpenRouterTitle     string
	YandexOAuthToken    string
	YandexFolderID      string
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		OpenaiAPIKey:        cfg.OpenAIAPIKey,
		OpenaiBaseURL:       cfg.OpenAIBaseURL,
		OpenaiModel:         cfg.OpenAIModel,
		OpenaiFallbackModel: cfg.OpenAIFallbackModel,
		OpenRouterReferrer:  cfg.OpenRouterReferrer,
		OpenRouterTitle:     cfg.OpenRouterTitle,
		YandexOAuthToken:    cfg.YandexOAuthToken,
		YandexFolderID:      cfg.YandexFolderID,
	}
}

func (f *Factory) CreateClient(provider, model string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, model, f.OpenRouterReferrer, f.OpenRouterTitle), nil
	case ProviderYandex:
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}

// CreatePrimary builds the main interview collaborator.
func (f *Factory) CreatePrimary(provider config.LLMProvider) (Client, error) {
	return f.CreateClient(string(provider), f.OpenaiModel)
}

// CreateFallback builds the lower-cost collaborator used when the
// primary fails.
func (f *Factory) CreateFallback(provider config.LLMProvider) (Client, error) {
	return f.CreateClient(string(provider), f.OpenaiFallbackModel)
}
