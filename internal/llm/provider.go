package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// New elige el cliente segun el proveedor configurado.
func New(provider, baseURL, apiKey, model string, logger *zap.Logger) (LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderOllama:
		return NewOllamaClient(baseURL, model, logger), nil
	case ProviderOpenAI:
		return NewHTTPClient(baseURL, apiKey, model, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
