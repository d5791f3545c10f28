package prompt

import (
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// DefaultTokenModel is used for token accounting when the caller does not
// name a model.
const DefaultTokenModel = "gpt-4.1-mini"

// DefaultFallbackEncodings is the ordered chain tried when a model has no
// known canonical encoding. The order is part of the observable contract:
// unknown models count against o200k_base first.
func DefaultFallbackEncodings() []string {
	return []string{"o200k_base", "cl100k_base"}
}

// ResolverConfig carries the resolution defaults explicitly so two
// resolutions with different defaults can coexist in one process.
type ResolverConfig struct {
	DefaultModel      string
	FallbackEncodings []string
}

// DefaultResolverConfig returns the stock resolver configuration.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		DefaultModel:      DefaultTokenModel,
		FallbackEncodings: DefaultFallbackEncodings(),
	}
}

func (c ResolverConfig) withDefaults() ResolverConfig {
	if c.DefaultModel == "" {
		c.DefaultModel = DefaultTokenModel
	}
	if len(c.FallbackEncodings) == 0 {
		c.FallbackEncodings = DefaultFallbackEncodings()
	}
	return c
}

// knownEncodings lists the encodings tiktoken-go ships rank data for. A
// requested name outside this set is an unknown encoding; a failure to load
// a name inside it means the backend itself is unavailable.
var knownEncodings = map[string]bool{
	"o200k_base":  true,
	"cl100k_base": true,
	"p50k_base":   true,
	"p50k_edit":   true,
	"r50k_base":   true,
}

// TokenCounter is a reusable counter bound to one resolved model/encoding
// pair. Count and Truncate are pure functions of their arguments.
type TokenCounter struct {
	modelName    string
	encodingName string
	enc          *tiktoken.Tiktoken
}

// ModelName returns the model the counter was resolved for.
func (c *TokenCounter) ModelName() string { return c.modelName }

// EncodingName returns the resolved encoding name.
func (c *TokenCounter) EncodingName() string { return c.encodingName }

// Count returns the number of tokens in s under the bound encoding.
func (c *TokenCounter) Count(s string) int {
	return len(c.enc.Encode(s, nil, nil))
}

// Truncate returns s cut to at most maxTokens tokens. Re-counting the
// result never exceeds maxTokens; text already within budget is returned
// unchanged. A non-positive budget yields the empty string.
func (c *TokenCounter) Truncate(s string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokens := c.enc.Encode(s, nil, nil)
	if len(tokens) <= maxTokens {
		return s
	}
	return c.enc.Decode(tokens[:maxTokens])
}

// NewTokenCounter resolves an encoding for modelName (or cfg.DefaultModel
// when empty) and returns a counter bound to it. An explicit encodingName
// is resolved directly and never substituted.
func NewTokenCounter(cfg ResolverConfig, modelName, encodingName string) (*TokenCounter, error) {
	cfg = cfg.withDefaults()
	model := modelName
	if model == "" {
		model = cfg.DefaultModel
	}
	name, enc, err := resolveEncoding(cfg, model, encodingName)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{modelName: model, encodingName: name, enc: enc}, nil
}

func resolveEncoding(cfg ResolverConfig, model, encodingName string) (string, *tiktoken.Tiktoken, error) {
	if encodingName != "" {
		if !knownEncodings[encodingName] {
			return "", nil, &UnknownEncodingError{Name: encodingName}
		}
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			return "", nil, &BackendUnavailableError{Err: err}
		}
		return encodingName, enc, nil
	}

	if name, ok := encodingNameForModel(model); ok {
		enc, err := tiktoken.GetEncoding(name)
		if err != nil {
			return "", nil, &BackendUnavailableError{Err: err}
		}
		return name, enc, nil
	}

	for _, name := range cfg.FallbackEncodings {
		if !knownEncodings[name] {
			continue
		}
		enc, err := tiktoken.GetEncoding(name)
		if err != nil {
			return "", nil, &BackendUnavailableError{Err: err}
		}
		return name, enc, nil
	}

	return "", nil, &ResolutionError{Model: model}
}

// encodingNameForModel mirrors tiktoken's model lookup: exact model names
// first, then registered prefixes.
func encodingNameForModel(model string) (string, bool) {
	if name, ok := tiktoken.MODEL_TO_ENCODING[model]; ok {
		return name, true
	}
	for prefix, name := range tiktoken.MODEL_PREFIX_TO_ENCODING {
		if strings.HasPrefix(model, prefix) {
			return name, true
		}
	}
	return "", false
}

// TokenCountResult is the outcome of a standalone count request.
type TokenCountResult struct {
	Tokens       int
	Characters   int
	ModelName    string
	EncodingName string
}

// CountText counts text with model-aware encoding resolution. It backs the
// count-tokens CLI utility and the MCP tool.
func CountText(cfg ResolverConfig, text, modelName, encodingName string) (TokenCountResult, error) {
	counter, err := NewTokenCounter(cfg, modelName, encodingName)
	if err != nil {
		return TokenCountResult{}, err
	}
	return TokenCountResult{
		Tokens:       counter.Count(text),
		Characters:   len([]rune(text)),
		ModelName:    counter.ModelName(),
		EncodingName: counter.EncodingName(),
	}, nil
}
