package adapter

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lazycommit/lazycommit/internal/config"
)

// openaiAdapter implements LLMAdapter for OpenAI and API-compatible
// endpoints.
type openaiAdapter struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI adapter. If apiKey is empty, OPENAI_API_KEY
// is used. A non-empty baseURL is normalized and overrides the default
// endpoint, which also covers OpenAI-compatible gateways.
func NewOpenAI(apiKey, baseURL, model string) LLMAdapter {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if model == "" {
		model = config.DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = normalizeOpenAIBaseURL(baseURL)
	}
	return &openaiAdapter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// normalizeOpenAIBaseURL fixes the common mistake of pointing at
// api.openai.com without the /v1 suffix.
func normalizeOpenAIBaseURL(baseURL string) string {
	normalized := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(normalized)
	if err != nil {
		return normalized
	}
	if strings.EqualFold(parsed.Host, "api.openai.com") && (parsed.Path == "" || parsed.Path == "/") {
		return normalized + "/v1"
	}
	return normalized
}

func (o *openaiAdapter) Info() ModelInfo {
	return ModelInfo{
		Name:             o.model,
		Provider:         config.ProviderOpenAI,
		MaxContextWindow: 128000,
	}
}

func (o *openaiAdapter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai complete: response has no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai complete: response has no content")
	}
	return content, nil
}
