package prompt

import (
	"strings"

	"github.com/lazycommit/lazycommit/internal/git"
)

// Section titles, in fixed priority order. Earlier sections are never
// sacrificed to preserve later ones.
const (
	SectionBranch        = "Branch"
	SectionChangedFiles  = "Changed Files"
	SectionStatus        = "Working Tree Status"
	SectionStagedDiff    = "Staged Diff"
	SectionUnstagedDiff  = "Unstaged Diff"
	SectionUntracked     = "Untracked Files"
	SectionRecentCommits = "Recent Commit Subjects"
)

// Section is a named, independently droppable block of context text.
type Section struct {
	Title   string
	Content string
}

const (
	truncationMarker = "...[truncated]"
	// truncationReserve is the character budget held back for the marker
	// when a section must be cut mid-body.
	truncationReserve = 20
)

// BuildSections derives the ordered section list from a snapshot. Sections
// with blank content are kept in the slice and skipped at render time.
func BuildSections(snap git.Snapshot) []Section {
	var changed strings.Builder
	for i, path := range snap.ChangedFiles {
		if i > 0 {
			changed.WriteByte('\n')
		}
		changed.WriteString("- ")
		changed.WriteString(path)
	}
	return []Section{
		{SectionBranch, snap.Branch},
		{SectionChangedFiles, changed.String()},
		{SectionStatus, snap.StatusShort},
		{SectionStagedDiff, snap.StagedDiff},
		{SectionUnstagedDiff, snap.UnstagedDiff},
		{SectionUntracked, snap.UntrackedFiles},
		{SectionRecentCommits, snap.RecentCommits},
	}
}

func renderSection(s Section) string {
	content := strings.TrimSpace(s.Content)
	if content == "" {
		return ""
	}
	return "## " + s.Title + "\n" + content + "\n"
}

// RenderSections serializes sections in order within a character budget.
// Higher-priority sections are rendered in full before lower-priority ones
// are touched; the first section that does not fit is cut at the remaining
// budget minus the marker reservation and ends the output with a
// truncation marker. Budgets are counted in runes. The result never
// exceeds maxChars plus the marker overhead.
func RenderSections(sections []Section, maxChars int) string {
	var parts []string
	used := 0
	for _, s := range sections {
		rendered := renderSection(s)
		if rendered == "" {
			continue
		}
		remaining := maxChars - used
		if remaining <= 0 {
			break
		}
		runes := []rune(rendered)
		if len(runes) <= remaining {
			parts = append(parts, rendered)
			used += len(runes)
			continue
		}
		keep := remaining - truncationReserve
		if keep < 0 {
			keep = 0
		}
		if head := strings.TrimRight(string(runes[:keep]), " \t\r\n"); head != "" {
			parts = append(parts, head+"\n"+truncationMarker+"\n")
		}
		break
	}
	for i, p := range parts {
		parts[i] = strings.TrimRight(p, " \t\r\n")
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
