package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/lazycommit/lazycommit/internal/git"
)

func sampleSnapshot() git.Snapshot {
	return git.Snapshot{
		Branch:       "feature/login",
		StatusShort:  " M auth/login.go\nA  auth/session.go",
		StagedDiff:   "diff --git a/auth/login.go b/auth/login.go\n+func Login() {}",
		ChangedFiles: []string{"auth/login.go", "auth/session.go"},
	}
}

func TestRenderSections_SkipsBlankSections(t *testing.T) {
	sections := []Section{
		{SectionBranch, "main"},
		{SectionStagedDiff, "   \n\t"},
		{SectionStatus, " M a.go"},
	}
	out := RenderSections(sections, 1000)
	if strings.Contains(out, SectionStagedDiff) {
		t.Errorf("blank section should be dropped entirely:\n%s", out)
	}
	if !strings.Contains(out, "## Branch\nmain") {
		t.Errorf("missing branch section:\n%s", out)
	}
	if !strings.Contains(out, "## Working Tree Status\n M a.go") {
		t.Errorf("missing status section:\n%s", out)
	}
}

func TestRenderSections_LengthBound(t *testing.T) {
	sections := BuildSections(git.Snapshot{
		Branch:         "main",
		StatusShort:    strings.Repeat(" M file.go\n", 40),
		StagedDiff:     strings.Repeat("+added line\n", 200),
		UnstagedDiff:   strings.Repeat("-removed line\n", 200),
		UntrackedFiles: strings.Repeat("new.txt\n", 50),
		ChangedFiles:   []string{"file.go"},
		RecentCommits:  "one\ntwo\nthree",
	})
	for _, budget := range []int{0, 1, 5, 14, 15, 50, 180, 500, 5000, 100000} {
		out := RenderSections(sections, budget)
		if got := utf8.RuneCountInString(out); got > budget+truncationReserve {
			t.Errorf("budget %d: rendered %d runes, want <= %d", budget, got, budget+truncationReserve)
		}
	}
}

func TestRenderSections_PriorityPreservation(t *testing.T) {
	snap := sampleSnapshot()
	snap.StagedDiff = strings.Repeat("+a very long diff line\n", 500)
	snap.UnstagedDiff = strings.Repeat("-another long diff line\n", 500)

	out := RenderSections(BuildSections(snap), 300)
	if !strings.Contains(out, "## Branch\nfeature/login") {
		t.Errorf("branch section must be rendered in full:\n%s", out)
	}
	if !strings.Contains(out, "## Changed Files\n- auth/login.go\n- auth/session.go") {
		t.Errorf("changed files section must be rendered in full:\n%s", out)
	}
}

func TestRenderSections_TruncatesFinalSection(t *testing.T) {
	snap := git.Snapshot{
		Branch:     "main",
		StagedDiff: strings.Repeat("x", 300),
	}
	out := RenderSections(BuildSections(snap), 180)
	if got := utf8.RuneCountInString(out); got > 210 {
		t.Errorf("output length %d exceeds 210", got)
	}
	if !strings.Contains(out, truncationMarker) {
		t.Errorf("expected truncation marker:\n%s", out)
	}
}

func TestRenderSections_GenerousBudgetNoMarker(t *testing.T) {
	snap := sampleSnapshot()
	out := RenderSections(BuildSections(snap), 100000)
	if strings.Contains(out, truncationMarker) {
		t.Errorf("no marker expected with generous budget:\n%s", out)
	}
	for _, want := range []string{"## Branch", "## Changed Files", "## Working Tree Status", "## Staged Diff"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "## Unstaged Diff") {
		t.Error("empty unstaged diff should not render")
	}
}

func TestRenderSections_ZeroBudget(t *testing.T) {
	if out := RenderSections(BuildSections(sampleSnapshot()), 0); out != "" {
		t.Errorf("zero budget should render nothing, got %q", out)
	}
}

func TestRenderSections_NoTrailingWhitespace(t *testing.T) {
	out := RenderSections(BuildSections(sampleSnapshot()), 100000)
	if out != strings.TrimSpace(out) {
		t.Errorf("output has surrounding whitespace: %q", out)
	}
}

func TestBuildSections_Order(t *testing.T) {
	sections := BuildSections(git.Snapshot{})
	want := []string{
		SectionBranch, SectionChangedFiles, SectionStatus,
		SectionStagedDiff, SectionUnstagedDiff, SectionUntracked, SectionRecentCommits,
	}
	if len(sections) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(sections))
	}
	for i, title := range want {
		if sections[i].Title != title {
			t.Errorf("section %d: got %q, want %q", i, sections[i].Title, title)
		}
	}
}
