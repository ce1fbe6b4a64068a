package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/rcastell/legajo/internal/model"
	"github.com/rcastell/legajo/internal/util"
)

// OpenAIProvider implements Provider against any OpenAI-compatible API,
// including a local Ollama endpoint.
type OpenAIProvider struct {
	client  *openai.Client
	config  model.LLMConfig
	name    string
	limiter *rate.Limiter
}

// NewOpenAIProvider creates a provider. name distinguishes "openai" from
// "ollama"; the wire protocol is the same.
func NewOpenAIProvider(config model.LLMConfig, name string) (*OpenAIProvider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		if name != "ollama" {
			return nil, fmt.Errorf("%s API key is required", name)
		}
		// Ollama ignores the key but the client requires one
		apiKey = "ollama"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	rpm := config.RequestsPerMinute
	if rpm <= 0 {
		rpm = 20
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		name:    name,
		limiter: rate.NewLimiter(rate.Limit(rpm/60.0), 1),
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// ReviewNotes generates notes using the Chat Completions API
func (p *OpenAIProvider) ReviewNotes(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Record, req.Pages)
	}

	modelName := req.Model
	if modelName == "" {
		modelName = p.config.Model
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 500
	}

	timeout := time.Duration(p.config.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write short, factual review notes for archivists checking automatically split patient records.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	return &ReviewResponse{
		Notes:      strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      modelName,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
