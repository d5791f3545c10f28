package prompt

import (
	"errors"
	"strings"
	"testing"
)

// newTestCounter resolves the default counter, skipping the test when the
// tiktoken rank data cannot be loaded in this environment.
func newTestCounter(t *testing.T) *TokenCounter {
	t.Helper()
	counter, err := NewTokenCounter(DefaultResolverConfig(), "", "")
	if err != nil {
		var unavailable *BackendUnavailableError
		if errors.As(err, &unavailable) {
			t.Skipf("tokenizer backend unavailable: %v", err)
		}
		t.Fatalf("NewTokenCounter: %v", err)
	}
	return counter
}

func TestTokenCounter_Count(t *testing.T) {
	counter := newTestCounter(t)
	if n := counter.Count("Hello, world!"); n <= 0 {
		t.Errorf("expected positive token count, got %d", n)
	}
	if n := counter.Count(""); n != 0 {
		t.Errorf("expected 0 tokens for empty string, got %d", n)
	}
}

func TestTokenCounter_TruncateBound(t *testing.T) {
	counter := newTestCounter(t)
	long := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50)
	for _, n := range []int{0, 1, 5, 17, 100, 10000} {
		truncated := counter.Truncate(long, n)
		if got := counter.Count(truncated); got > n {
			t.Errorf("Truncate(_, %d) re-counts to %d tokens", n, got)
		}
	}
}

func TestTokenCounter_TruncateIdentityUnderBudget(t *testing.T) {
	counter := newTestCounter(t)
	short := "Hi there"
	if got := counter.Truncate(short, 100); got != short {
		t.Errorf("text under budget should be returned unchanged, got %q", got)
	}
}

func TestTokenCounter_TruncateNonPositive(t *testing.T) {
	counter := newTestCounter(t)
	if got := counter.Truncate("anything", 0); got != "" {
		t.Errorf("Truncate(_, 0) = %q, want empty", got)
	}
	if got := counter.Truncate("anything", -3); got != "" {
		t.Errorf("Truncate(_, -3) = %q, want empty", got)
	}
}

func TestNewTokenCounter_UnknownExplicitEncoding(t *testing.T) {
	// The explicit name wins over any model default; an unrecognized name
	// must fail rather than silently substitute, regardless of the model.
	for _, model := range []string{"", "gpt-4o", "totally-made-up-model"} {
		_, err := NewTokenCounter(DefaultResolverConfig(), model, "bogus_base")
		var unknown *UnknownEncodingError
		if !errors.As(err, &unknown) {
			t.Fatalf("model %q: expected UnknownEncodingError, got %v", model, err)
		}
		if unknown.Name != "bogus_base" {
			t.Errorf("error should carry the offending name, got %q", unknown.Name)
		}
	}
}

func TestNewTokenCounter_ExplicitEncoding(t *testing.T) {
	counter, err := NewTokenCounter(DefaultResolverConfig(), "any-model", "cl100k_base")
	if err != nil {
		var unavailable *BackendUnavailableError
		if errors.As(err, &unavailable) {
			t.Skipf("tokenizer backend unavailable: %v", err)
		}
		t.Fatalf("NewTokenCounter: %v", err)
	}
	if counter.EncodingName() != "cl100k_base" {
		t.Errorf("encoding name: got %q, want cl100k_base", counter.EncodingName())
	}
}

func TestNewTokenCounter_UnknownModelFallsBack(t *testing.T) {
	counter, err := NewTokenCounter(DefaultResolverConfig(), "some-future-model-v99", "")
	if err != nil {
		var unavailable *BackendUnavailableError
		if errors.As(err, &unavailable) {
			t.Skipf("tokenizer backend unavailable: %v", err)
		}
		t.Fatalf("NewTokenCounter: %v", err)
	}
	// First recognized fallback wins.
	if counter.EncodingName() != "o200k_base" {
		t.Errorf("encoding name: got %q, want o200k_base", counter.EncodingName())
	}
}

func TestNewTokenCounter_ExhaustedFallbacks(t *testing.T) {
	cfg := ResolverConfig{
		DefaultModel:      "some-future-model-v99",
		FallbackEncodings: []string{"not_a_real_encoding"},
	}
	_, err := NewTokenCounter(cfg, "", "")
	var resolution *ResolutionError
	if !errors.As(err, &resolution) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if resolution.Model != "some-future-model-v99" {
		t.Errorf("error should carry the model name, got %q", resolution.Model)
	}
}

func TestCountText(t *testing.T) {
	result, err := CountText(DefaultResolverConfig(), "Hello, world!", "", "")
	if err != nil {
		var unavailable *BackendUnavailableError
		if errors.As(err, &unavailable) {
			t.Skipf("tokenizer backend unavailable: %v", err)
		}
		t.Fatalf("CountText: %v", err)
	}
	if result.Tokens <= 0 {
		t.Errorf("expected positive token count, got %d", result.Tokens)
	}
	if result.Characters != len("Hello, world!") {
		t.Errorf("character count: got %d", result.Characters)
	}
	if result.ModelName != DefaultTokenModel {
		t.Errorf("model name: got %q", result.ModelName)
	}
	if result.EncodingName == "" {
		t.Error("encoding name should be reported")
	}
}
