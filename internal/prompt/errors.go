package prompt

import (
	"errors"
	"fmt"
)

// ErrInvalidTokenBudget rejects non-positive token budgets before any
// section is rendered.
var ErrInvalidTokenBudget = errors.New("prompt: max context tokens must be a positive integer")

// UnknownEncodingError reports an explicitly requested encoding name the
// counting backend does not recognize. Explicit requests are never
// substituted with a different encoding.
type UnknownEncodingError struct {
	Name string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("prompt: unknown token encoding: %s", e.Name)
}

// ResolutionError reports a model whose encoding could not be resolved even
// after the fallback chain was exhausted.
type ResolutionError struct {
	Model string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("prompt: unable to resolve tokenizer encoding for model %q; pass an explicit encoding", e.Model)
}

// BackendUnavailableError reports that the tokenizer backend itself could
// not be loaded (tiktoken rank data missing and not fetchable). Callers
// that did not request a token budget may degrade to character-only
// budgeting instead of failing.
type BackendUnavailableError struct {
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("prompt: token counting backend unavailable: %v", e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }
