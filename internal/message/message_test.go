package message

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParse_PlainJSON(t *testing.T) {
	raw := `{"type": "feat", "scope": "auth", "subject": "add session refresh", "body": ["Refresh tokens rotate on use."], "breaking_change": false}`
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Type != "feat" || p.Scope != "auth" || p.Subject != "add session refresh" {
		t.Errorf("unexpected proposal: %+v", p)
	}
	if len(p.Body) != 1 || p.Body[0] != "Refresh tokens rotate on use." {
		t.Errorf("body: %v", p.Body)
	}
}

func TestParse_FencedJSON(t *testing.T) {
	raw := "```json\n{\"type\": \"fix\", \"scope\": \"\", \"subject\": \"handle nil pointer\"}\n```"
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Type != "fix" || p.Subject != "handle nil pointer" {
		t.Errorf("unexpected proposal: %+v", p)
	}
}

func TestParse_EmbeddedJSON(t *testing.T) {
	raw := "Here is the commit:\n{\"type\": \"docs\", \"subject\": \"update readme\"}\nHope that helps!"
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Type != "docs" || p.Subject != "update readme" {
		t.Errorf("unexpected proposal: %+v", p)
	}
}

func TestParse_NoJSON(t *testing.T) {
	if _, err := Parse("sorry, I cannot help with that"); err == nil {
		t.Fatal("expected error for output without JSON")
	}
}

func TestParse_EmptySubject(t *testing.T) {
	if _, err := Parse(`{"type": "feat", "subject": "   "}`); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestParse_Normalization(t *testing.T) {
	raw := `{"type": "FEATURE", "scope": "bad scope!", "subject": "  add   thing.  ", "body": "line one\n\nline two"}`
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Type != "chore" {
		t.Errorf("invalid type should normalize to chore, got %q", p.Type)
	}
	if p.Scope != "" {
		t.Errorf("invalid scope should be dropped, got %q", p.Scope)
	}
	if p.Subject != "add thing" {
		t.Errorf("subject should collapse whitespace and strip the period, got %q", p.Subject)
	}
	if len(p.Body) != 2 || p.Body[0] != "line one" || p.Body[1] != "line two" {
		t.Errorf("string body should split into lines, got %v", p.Body)
	}
}

func TestHeader_WithinLimit(t *testing.T) {
	p := Proposal{Type: "fix", Scope: "cli", Subject: "handle empty args"}
	if got := p.Header(); got != "fix(cli): handle empty args" {
		t.Errorf("header: %q", got)
	}
}

func TestHeader_TrimsLongSubjectKeepsPrefix(t *testing.T) {
	p := Proposal{
		Type:    "refactor",
		Scope:   "tokenizer",
		Subject: strings.Repeat("very long subject segment ", 10),
	}
	header := p.Header()
	if len(header) > 72 {
		t.Errorf("header length %d exceeds 72: %q", len(header), header)
	}
	if !strings.HasPrefix(header, "refactor(tokenizer): ") {
		t.Errorf("type/scope prefix must stay stable: %q", header)
	}
}

func TestHeader_LongScopeShortSubject(t *testing.T) {
	// The scope alone can push the header over the limit; the short
	// subject must survive untouched instead of being sliced past its end.
	p := Proposal{
		Type:    "chore",
		Scope:   strings.Repeat("a", 40) + "/" + strings.Repeat("b", 20),
		Subject: "tidy",
	}
	header := p.Header()
	if !strings.HasSuffix(header, ": tidy") {
		t.Errorf("short subject should be kept whole: %q", header)
	}
	if !strings.HasPrefix(header, "chore("+strings.Repeat("a", 40)) {
		t.Errorf("type/scope prefix must stay stable: %q", header)
	}
}

func TestHeader_TrimsMultibyteSubjectOnRuneBoundary(t *testing.T) {
	p := Proposal{
		Type:    "docs",
		Scope:   "readme",
		Subject: strings.Repeat("更新说明文档内容", 12),
	}
	header := p.Header()
	if !utf8.ValidString(header) {
		t.Errorf("header contains invalid UTF-8: %q", header)
	}
	if !strings.HasPrefix(header, "docs(readme): ") {
		t.Errorf("type/scope prefix must stay stable: %q", header)
	}
}

func TestRender_HeaderOnly(t *testing.T) {
	p := Proposal{Type: "chore", Subject: "tidy imports"}
	if got := p.Render(); got != "chore: tidy imports\n" {
		t.Errorf("Render: %q", got)
	}
}

func TestRender_BodyAndBreakingChange(t *testing.T) {
	p := Proposal{
		Type:           "feat",
		Subject:        "switch storage engine",
		Body:           []string{"Data files from older versions are not readable anymore."},
		BreakingChange: true,
	}
	out := p.Render()
	if !strings.Contains(out, "BREAKING CHANGE: behavior is not backward compatible.") {
		t.Errorf("missing breaking change trailer:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("message must end with a newline")
	}
}

func TestRender_DoesNotDuplicateBreakingLine(t *testing.T) {
	p := Proposal{
		Type:           "feat",
		Subject:        "switch storage engine",
		Body:           []string{"BREAKING CHANGE: old data files are unreadable."},
		BreakingChange: true,
	}
	out := p.Render()
	if strings.Count(out, "BREAKING CHANGE:") != 1 {
		t.Errorf("breaking change line duplicated:\n%s", out)
	}
}

func TestRender_WrapsLongBodyLines(t *testing.T) {
	long := strings.Repeat("word ", 50)
	p := Proposal{Type: "docs", Subject: "explain things", Body: []string{long}}
	out := p.Render()
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 100 {
			t.Errorf("body line longer than 100 columns: %q", line)
		}
	}
}

func TestWrapLine(t *testing.T) {
	if got := wrapLine("", 10); got != "" {
		t.Errorf("empty input: %q", got)
	}
	got := wrapLine("aaa bbb ccc ddd", 7)
	if got != "aaa bbb\nccc ddd" {
		t.Errorf("wrap: %q", got)
	}
}
