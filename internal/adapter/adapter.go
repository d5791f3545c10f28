// Package adapter provides a unified interface for LLM providers.
package adapter

import (
	"context"
	"fmt"

	"github.com/lazycommit/lazycommit/internal/config"
)

// CompletionRequest holds the parameters for one completion call.
type CompletionRequest struct {
	System      string
	User        string
	Model       string
	Temperature float32
	MaxTokens   int
}

// ModelInfo describes the adapter's target model.
type ModelInfo struct {
	Name             string
	Provider         string
	MaxContextWindow int
}

// LLMAdapter is the common interface all provider adapters implement.
type LLMAdapter interface {
	// Complete sends the prompt and returns the raw response text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Info returns metadata about the adapter/model.
	Info() ModelInfo
}

// New constructs the LLMAdapter for the resolved settings.
func New(s config.Settings) (LLMAdapter, error) {
	switch s.Provider {
	case config.ProviderClaude:
		return NewClaude(s.APIKey, s.BaseURL, s.ModelName), nil
	case config.ProviderOpenAI:
		return NewOpenAI(s.APIKey, s.BaseURL, s.ModelName), nil
	case config.ProviderGemini:
		return NewGemini(s.APIKey, s.BaseURL, s.ModelName), nil
	case config.ProviderOllama:
		return NewOllama(s.OllamaHost, s.ModelName), nil
	default:
		return nil, fmt.Errorf("adapter: unknown provider %q; valid providers: claude, openai, gemini, ollama", s.Provider)
	}
}
