package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lazycommit/lazycommit/internal/config"
)

const defaultOllamaHost = "http://localhost:11434"

// ollamaAdapter implements LLMAdapter against a local Ollama server.
type ollamaAdapter struct {
	host   string
	model  string
	client *http.Client
}

// NewOllama creates an adapter for a local Ollama server. An empty host
// defaults to http://localhost:11434.
func NewOllama(host, model string) LLMAdapter {
	if host == "" {
		host = defaultOllamaHost
	}
	return &ollamaAdapter{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: &http.Client{},
	}
}

func (o *ollamaAdapter) Info() ModelInfo {
	return ModelInfo{
		Name:             o.model,
		Provider:         config.ProviderOllama,
		MaxContextWindow: 8192,
	}
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  map[string]any      `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Error   string            `json:"error,omitempty"`
}

func (o *ollamaAdapter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model: model,
		Messages: []ollamaChatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream:  false,
		Options: map[string]any{"temperature": req.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("ollama marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama complete: is the server running at %s? %w", o.host, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama complete: HTTP %d: %s", resp.StatusCode, compactText(string(raw), 500))
	}

	var result ollamaChatResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("ollama decode: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama complete: %s", result.Error)
	}
	content := strings.TrimSpace(result.Message.Content)
	if content == "" {
		return "", fmt.Errorf("ollama complete: response has no content")
	}
	return content, nil
}
