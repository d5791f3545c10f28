package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrMissingAPIKey is returned when the resolved provider requires a key
// and none was found in flags, environment, or the config file.
var ErrMissingAPIKey = errors.New("config: missing API key; set LAZYCOMMIT_API_KEY (or the provider key) or pass --api-key")

// Settings are the effective per-run values after merging defaults, the
// config file, environment variables, and CLI overrides.
type Settings struct {
	Provider         string
	ModelName        string
	APIKey           string
	BaseURL          string
	OllamaHost       string
	MaxContextChars  int
	MaxContextTokens *int
}

// Overrides carries CLI flag values. Nil/empty fields mean "not set".
type Overrides struct {
	APIKey           string
	BaseURL          string
	Model            string
	MaxContextChars  *int
	MaxContextTokens *int
}

func parsePositiveInt(value, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer", name)
	}
	return n, nil
}

// DetectProvider infers the provider from the model name and base URL, so
// a single model flag is enough to route the request.
func DetectProvider(model, baseURL string) string {
	if strings.Contains(baseURL, "generativelanguage.googleapis.com") {
		return ProviderGemini
	}
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(m, "gemini"):
		return ProviderGemini
	case strings.HasPrefix(m, "claude"):
		return ProviderClaude
	case strings.HasPrefix(m, "ollama/"):
		return ProviderOllama
	}
	return ProviderOpenAI
}

func defaultModelFor(provider string) string {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderClaude:
		return DefaultClaudeModel
	default:
		return DefaultOpenAIModel
	}
}

func keyFor(cfg GlobalConfig, provider string) string {
	switch provider {
	case ProviderClaude:
		return cfg.Keys.Anthropic
	case ProviderGemini:
		return cfg.Keys.Gemini
	case ProviderOllama:
		return "" // local, no key
	default:
		return cfg.Keys.OpenAI
	}
}

// ResolveSettings merges the global config with CLI overrides into the
// effective settings for one run. Flag values win over environment values,
// which win over the config file.
func ResolveSettings(cfg GlobalConfig, o Overrides) (Settings, error) {
	baseURL := strings.TrimSpace(o.BaseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(cfg.BaseURL)
	}

	model := strings.TrimSpace(o.Model)
	if model == "" {
		model = strings.TrimSpace(cfg.DefaultModel)
	}
	if model == "" {
		model = defaultModelFor(DetectProvider("", baseURL))
	}

	provider := DetectProvider(model, baseURL)
	model = strings.TrimPrefix(model, "ollama/")

	apiKey := strings.TrimSpace(o.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("LAZYCOMMIT_API_KEY"))
	}
	if apiKey == "" {
		apiKey = strings.TrimSpace(keyFor(cfg, provider))
	}
	if apiKey == "" && provider != ProviderOllama {
		return Settings{}, ErrMissingAPIKey
	}

	maxChars := cfg.MaxContextChars
	if o.MaxContextChars != nil {
		maxChars = *o.MaxContextChars
	}
	if maxChars <= 0 {
		return Settings{}, fmt.Errorf("config: max context chars must be a positive integer")
	}

	var maxTokens *int
	if cfg.MaxContextTokens > 0 {
		n := cfg.MaxContextTokens
		maxTokens = &n
	}
	if o.MaxContextTokens != nil {
		maxTokens = o.MaxContextTokens
	}
	if maxTokens != nil && *maxTokens <= 0 {
		return Settings{}, fmt.Errorf("config: max context tokens must be a positive integer")
	}

	return Settings{
		Provider:         provider,
		ModelName:        model,
		APIKey:           apiKey,
		BaseURL:          baseURL,
		OllamaHost:       cfg.Ollama.Host,
		MaxContextChars:  maxChars,
		MaxContextTokens: maxTokens,
	}, nil
}
