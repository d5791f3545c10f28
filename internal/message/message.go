// Package message parses and normalizes model output into a Conventional
// Commit proposal.
package message

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var validTypes = map[string]bool{
	"feat": true, "fix": true, "docs": true, "style": true,
	"refactor": true, "perf": true, "test": true, "build": true,
	"ci": true, "chore": true, "revert": true,
}

const (
	maxHeaderLen = 72
	bodyWrapCol  = 100
)

var (
	scopePattern = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)
	jsonBlobRe   = regexp.MustCompile(`\{[\s\S]*\}`)
)

// Proposal is a structured, normalized commit proposal.
type Proposal struct {
	Type           string
	Scope          string
	Subject        string
	Body           []string
	BreakingChange bool
}

// Header renders the "type(scope): subject" line, trimming the subject to
// keep the line within the Conventional Commit width. Type and scope stay
// stable; only the subject is cut.
func (p Proposal) Header() string {
	prefix := p.Type
	if p.Scope != "" {
		prefix += "(" + p.Scope + ")"
	}
	header := prefix + ": " + p.Subject
	if len(header) <= maxHeaderLen {
		return header
	}
	keep := maxHeaderLen - len(prefix) - 2
	if keep < 10 {
		keep = 10
	}
	subject := []rune(p.Subject)
	if keep-1 < len(subject) {
		subject = subject[:keep-1]
	}
	trimmed := strings.TrimRight(string(subject), " ")
	return prefix + ": " + trimmed
}

// Render produces the full commit message: header, wrapped body, and a
// BREAKING CHANGE trailer when flagged and not already present.
func (p Proposal) Render() string {
	chunks := []string{p.Header()}
	if len(p.Body) > 0 {
		wrapped := make([]string, len(p.Body))
		for i, line := range p.Body {
			wrapped[i] = wrapLine(line, bodyWrapCol)
		}
		chunks = append(chunks, strings.Join(wrapped, "\n"))
	}
	if p.BreakingChange && !p.hasBreakingLine() {
		chunks = append(chunks, "BREAKING CHANGE: behavior is not backward compatible.")
	}
	var kept []string
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			kept = append(kept, c)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n\n")) + "\n"
}

func (p Proposal) hasBreakingLine() bool {
	for _, line := range p.Body {
		if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(line)), "BREAKING CHANGE:") {
			return true
		}
	}
	return false
}

// wrapLine greedily wraps text at width, never breaking words.
func wrapLine(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		if i == 0 {
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		if lineLen+1+len(word) > width {
			b.WriteByte('\n')
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(word)
		lineLen += 1 + len(word)
	}
	return b.String()
}

func snippet(raw string) string {
	if len(raw) > 200 {
		return raw[:200]
	}
	return raw
}

// extractJSONBlob pulls the JSON object out of the raw model output,
// tolerating markdown fences and surrounding commentary.
func extractJSONBlob(raw string) (string, error) {
	stripped := strings.TrimSpace(raw)
	if strings.HasPrefix(stripped, "```") {
		stripped = strings.Trim(stripped, "`")
		stripped = strings.TrimSpace(strings.Replace(stripped, "json\n", "", 1))
	}
	if strings.HasPrefix(stripped, "{") && strings.HasSuffix(stripped, "}") {
		return stripped, nil
	}
	if match := jsonBlobRe.FindString(stripped); match != "" {
		return match, nil
	}
	return "", fmt.Errorf("message: model output did not include a JSON object; raw snippet: %q", snippet(raw))
}

func normalizeType(value string) string {
	candidate := strings.ToLower(strings.TrimSpace(value))
	if validTypes[candidate] {
		return candidate
	}
	return "chore"
}

func normalizeScope(value string) string {
	scope := strings.TrimSpace(value)
	if scope == "" || !scopePattern.MatchString(scope) {
		return ""
	}
	return scope
}

func normalizeSubject(value string) (string, error) {
	subject := strings.Join(strings.Fields(value), " ")
	subject = strings.TrimRight(subject, ".")
	if subject == "" {
		return "", fmt.Errorf("message: model output subject is empty")
	}
	return subject, nil
}

// normalizeBody accepts a string, a list of strings, or a list of
// arbitrary values, flattening to trimmed non-empty lines.
func normalizeBody(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		var lines []string
		for _, line := range strings.Split(asString, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		return lines
	}
	var asList []any
	if err := json.Unmarshal(raw, &asList); err == nil {
		var lines []string
		for _, item := range asList {
			if trimmed := strings.TrimSpace(fmt.Sprint(item)); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		return lines
	}
	return nil
}

// Parse extracts and normalizes the model JSON into a Proposal.
func Parse(raw string) (*Proposal, error) {
	blob, err := extractJSONBlob(raw)
	if err != nil {
		return nil, err
	}

	var data struct {
		Type           string          `json:"type"`
		Scope          string          `json:"scope"`
		Subject        string          `json:"subject"`
		Body           json.RawMessage `json:"body"`
		BreakingChange bool            `json:"breaking_change"`
	}
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return nil, fmt.Errorf("message: model output could not be parsed as JSON; raw snippet: %q", snippet(raw))
	}

	subject, err := normalizeSubject(data.Subject)
	if err != nil {
		return nil, err
	}

	return &Proposal{
		Type:           normalizeType(data.Type),
		Scope:          normalizeScope(data.Scope),
		Subject:        subject,
		Body:           normalizeBody(data.Body),
		BreakingChange: data.BreakingChange,
	}, nil
}
