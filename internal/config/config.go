// Package config manages the global config file
// (~/.config/lazycommit/config.toml), environment overrides, and the
// effective per-run settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Provider name constants.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
	ProviderOllama = "ollama"
)

// Default model per provider, used when the config names none.
const (
	DefaultOpenAIModel = "gpt-4.1-mini"
	DefaultGeminiModel = "gemini-3-pro-preview"
	DefaultClaudeModel = "claude-sonnet-4-6"
)

// DefaultMaxContextChars bounds the rendered git context when the user
// sets no explicit character budget.
const DefaultMaxContextChars = 12000

// GlobalConfig holds user-wide settings.
type GlobalConfig struct {
	DefaultModel     string        `toml:"default_model"`
	BaseURL          string        `toml:"base_url"`
	MaxContextChars  int           `toml:"max_context_chars"`
	MaxContextTokens int           `toml:"max_context_tokens"` // 0 = no token budget
	TokenModel       string        `toml:"token_model"`
	TokenEncoding    string        `toml:"token_encoding"`
	Language         string        `toml:"language"`
	Keys             KeysConfig    `toml:"keys"`
	Ollama           OllamaConfig  `toml:"ollama"`
	Output           OutputConfig  `toml:"output"`
	History          HistoryConfig `toml:"history"`
}

type KeysConfig struct {
	Anthropic string `toml:"anthropic"`
	OpenAI    string `toml:"openai"`
	Gemini    string `toml:"gemini"`
}

type OllamaConfig struct {
	Host string `toml:"host"`
}

type OutputConfig struct {
	Color bool `toml:"color"`
	Copy  bool `toml:"copy"`
}

// HistoryConfig controls the local SQLite log of generated messages.
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultGlobal returns sensible defaults.
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		MaxContextChars: DefaultMaxContextChars,
		Ollama: OllamaConfig{
			Host: "http://localhost:11434",
		},
		Output: OutputConfig{
			Color: true,
			Copy:  true,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// ConfigDir returns the lazycommit configuration directory.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "lazycommit"), nil
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryDBPath returns the path to the generation history database.
func HistoryDBPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LoadGlobal loads the global config, applying defaults for any missing
// values and letting environment variables override file contents.
func LoadGlobal() (GlobalConfig, error) {
	cfg := DefaultGlobal()

	path, err := GlobalConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, decErr := toml.DecodeFile(path, &cfg); decErr != nil {
				return cfg, fmt.Errorf("config: load global: %w", decErr)
			}
		}
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Keys.Anthropic = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Keys.Gemini = v
	}
	if v := os.Getenv("LAZYCOMMIT_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LAZYCOMMIT_MODEL"); v != "" {
		cfg.DefaultModel = v
	}
	if v := os.Getenv("LAZYCOMMIT_LANG"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("LAZYCOMMIT_MAX_CONTEXT_CHARS"); v != "" {
		n, err := parsePositiveInt(v, "LAZYCOMMIT_MAX_CONTEXT_CHARS")
		if err != nil {
			return cfg, err
		}
		cfg.MaxContextChars = n
	}
	if v := os.Getenv("LAZYCOMMIT_MAX_CONTEXT_TOKENS"); v != "" {
		n, err := parsePositiveInt(v, "LAZYCOMMIT_MAX_CONTEXT_TOKENS")
		if err != nil {
			return cfg, err
		}
		cfg.MaxContextTokens = n
	}

	return cfg, nil
}

// SaveGlobal writes the global config to disk.
func SaveGlobal(cfg GlobalConfig) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create global config: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
