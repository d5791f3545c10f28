// Package prompt renders a bounded git context and assembles the model
// prompt, compressing the context through a staged pipeline when a token
// budget is set.
package prompt

import (
	"errors"

	"github.com/lazycommit/lazycommit/internal/git"
)

// SystemPrompt is the fixed instruction sent with every request.
const SystemPrompt = `You are an expert software engineer writing high-quality Conventional Commit messages.
Analyze the git changes and return ONLY valid JSON with this schema:
{
  "type": "feat|fix|docs|style|refactor|perf|test|build|ci|chore|revert",
  "scope": "optional short scope or empty string",
  "subject": "imperative mood summary, no trailing period",
  "body": ["optional detail line 1", "optional detail line 2"],
  "breaking_change": false
}
Rules:
- Keep header intent specific and factual.
- Prefer "chore" if uncertain.
- subject should be concise and <= 72 chars when combined with type/scope.
- body lines should be short and meaningful.
- Return JSON only; no markdown fences, no commentary.
`

// BuildOptions bounds one prompt build. MaxTokens nil means no token
// budget; a non-positive value is a configuration error.
type BuildOptions struct {
	MaxChars      int
	MaxTokens     *int
	TokenModel    string
	TokenEncoding string
	Resolver      ResolverConfig
}

// TokenUsage reports before/after token accounting for one prompt build,
// including which compression stages fired.
type TokenUsage struct {
	ModelName           string
	EncodingName        string
	ContextTokensBefore int
	ContextTokensAfter  int
	TotalTokensBefore   int
	TotalTokensAfter    int
	TokenLimit          *int
	Stages              []Stage
}

// CompressionApplied reports whether any stage fired.
func (u *TokenUsage) CompressionApplied() bool { return len(u.Stages) > 0 }

// StageIDs returns the applied stage identifiers in order.
func (u *TokenUsage) StageIDs() []string { return StageIDs(u.Stages) }

// PromptPayload is the immutable outbound bundle: fixed instruction,
// user-facing instruction+context, the context alone, and optional usage
// telemetry. Usage is nil when no counting backend was available and no
// token budget was requested.
type PromptPayload struct {
	System  string
	User    string
	Context string
	Usage   *TokenUsage
}

func buildUserPrompt(context string) string {
	return "Generate one normalized conventional commit proposal from the git context.\n" +
		"Focus on user-impacting and structural changes, not file-by-file narration.\n\n" +
		context + "\n"
}

// BuildContext renders the snapshot's sections within a character budget,
// with no token accounting.
func BuildContext(snap git.Snapshot, maxChars int) string {
	return RenderSections(BuildSections(snap), maxChars)
}

// BuildPrompt assembles the outbound prompt from a snapshot. The context
// is first bounded by opts.MaxChars; when a token budget is set and the
// counting backend resolves, the compression pipeline shrinks the context
// until it fits. Backend unavailability is fatal only when a token budget
// was explicitly requested.
func BuildPrompt(snap git.Snapshot, opts BuildOptions) (*PromptPayload, error) {
	if opts.MaxTokens != nil && *opts.MaxTokens <= 0 {
		return nil, ErrInvalidTokenBudget
	}

	sections := BuildSections(snap)
	context := RenderSections(sections, opts.MaxChars)

	counter, err := NewTokenCounter(opts.Resolver, opts.TokenModel, opts.TokenEncoding)
	if err != nil {
		var unavailable *BackendUnavailableError
		if opts.MaxTokens == nil && errors.As(err, &unavailable) {
			return &PromptPayload{
				System:  SystemPrompt,
				User:    buildUserPrompt(context),
				Context: context,
			}, nil
		}
		return nil, err
	}

	contextBefore := counter.Count(context)
	totalBefore := counter.Count(SystemPrompt) + counter.Count(buildUserPrompt(context))

	var stages []Stage
	if opts.MaxTokens != nil && contextBefore > *opts.MaxTokens {
		context, stages = compressContext(sections, opts.MaxChars, *opts.MaxTokens, counter, context, contextBefore)
	}

	user := buildUserPrompt(context)
	usage := &TokenUsage{
		ModelName:           counter.ModelName(),
		EncodingName:        counter.EncodingName(),
		ContextTokensBefore: contextBefore,
		ContextTokensAfter:  counter.Count(context),
		TotalTokensBefore:   totalBefore,
		TotalTokensAfter:    counter.Count(SystemPrompt) + counter.Count(user),
		TokenLimit:          opts.MaxTokens,
		Stages:              stages,
	}
	return &PromptPayload{
		System:  SystemPrompt,
		User:    user,
		Context: context,
		Usage:   usage,
	}, nil
}
