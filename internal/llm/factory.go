package llm

import (
	"fmt"
	"strings"

	"github.com/rcastell/legajo/internal/model"
)

const ollamaDefaultURL = "http://localhost:11434/v1"

// NewProvider creates an LLM provider based on configuration.
// An empty provider name disables note generation and returns nil.
func NewProvider(config model.LLMConfig) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config, "openai")

	case "ollama":
		if config.BaseURL == "" {
			config.BaseURL = ollamaDefaultURL
		}
		return NewOpenAIProvider(config, "ollama")

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}
