package history

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	first, err := store.Record(Entry{
		Branch:   "main",
		Provider: "claude",
		Model:    "claude-sonnet-4-6",
		Header:   "feat(cli): add history command",
		Message:  "feat(cli): add history command\n\nLists recent drafts.\n",
		Stages:   []string{"drop_untracked_files", "hard_token_truncate"},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	second, err := store.Record(Entry{
		Branch:        "fix/parser",
		Provider:      "openai",
		Model:         "gpt-4.1-mini",
		Header:        "fix: handle empty diff",
		Message:       "fix: handle empty diff\n",
		Applied:       true,
		ContextTokens: 321,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if second <= first {
		t.Errorf("IDs should be monotonically increasing: %d then %d", first, second)
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != second {
		t.Errorf("newest entry should come first, got ID %d", entries[0].ID)
	}
	if !entries[0].Applied || entries[0].ContextTokens != 321 {
		t.Errorf("applied entry round-trip: %+v", entries[0])
	}
	got := entries[1]
	if got.Branch != "main" || got.Provider != "claude" || got.Header != "feat(cli): add history command" {
		t.Errorf("entry round-trip: %+v", got)
	}
	if len(got.Stages) != 2 || got.Stages[0] != "drop_untracked_files" {
		t.Errorf("stages round-trip: %v", got.Stages)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should be set by the database")
	}
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if _, err := store.Record(Entry{Branch: "main", Provider: "ollama", Model: "m", Header: "h", Message: "m"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	entries, err := store.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("limit not applied: got %d entries", len(entries))
	}
}

func TestMarkApplied(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Record(Entry{Branch: "main", Provider: "gemini", Model: "m", Header: "h", Message: "m"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.MarkApplied(id); err != nil {
		t.Fatalf("MarkApplied: %v", err)
	}
	entries, err := store.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if !entries[0].Applied {
		t.Error("entry should be marked applied")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Record(Entry{Branch: "main", Provider: "p", Model: "m", Header: "h", Message: "m"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("data should survive reopen, got %d entries", len(entries))
	}
}
