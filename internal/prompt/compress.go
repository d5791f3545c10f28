package prompt

import (
	"fmt"
	"strings"
)

// StageKind discriminates the compression stage variants.
type StageKind int

const (
	// StageDropSection removes one low-value section's content.
	StageDropSection StageKind = iota
	// StageWindowDiffs replaces both diff bodies with a head/tail window.
	StageWindowDiffs
	// StageHardTruncate cuts the rendered context at the token level.
	StageHardTruncate
)

// Stage is one discrete compression action, addressable by identity in
// tests and joinable into a human-readable audit trail via ID.
type Stage struct {
	Kind    StageKind
	Section string // StageDropSection only
	Head    int    // StageWindowDiffs only
	Tail    int    // StageWindowDiffs only
}

// DropSection builds the stage that clears the named section.
func DropSection(title string) Stage {
	return Stage{Kind: StageDropSection, Section: title}
}

// WindowDiffs builds the stage that windows both diffs to head/tail lines.
func WindowDiffs(head, tail int) Stage {
	return Stage{Kind: StageWindowDiffs, Head: head, Tail: tail}
}

// HardTruncate builds the final token-level truncation stage.
func HardTruncate() Stage {
	return Stage{Kind: StageHardTruncate}
}

// ID returns the stable identifier for the stage.
func (s Stage) ID() string {
	switch s.Kind {
	case StageDropSection:
		return "drop_" + strings.ReplaceAll(strings.ToLower(s.Section), " ", "_")
	case StageWindowDiffs:
		return fmt.Sprintf("compress_diffs_head%d_tail%d", s.Head, s.Tail)
	default:
		return "hard_token_truncate"
	}
}

// StageIDs maps stages to their identifiers, preserving order.
func StageIDs(stages []Stage) []string {
	ids := make([]string, len(stages))
	for i, s := range stages {
		ids[i] = s.ID()
	}
	return ids
}

// diffWindowSchedule is the fixed generous-to-aggressive windowing
// schedule. The values are part of the observable contract; stage IDs
// embed them.
var diffWindowSchedule = []struct{ Head, Tail int }{
	{120, 40},
	{80, 24},
	{40, 12},
	{20, 6},
}

// windowDiff keeps the first head and last tail lines of text, replacing
// the omitted middle with a count-annotated marker line. Text short enough
// to gain nothing is returned unchanged.
func windowDiff(text string, head, tail int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= head+tail+1 {
		return text
	}
	omitted := len(lines) - head - tail
	var out []string
	out = append(out, lines[:head]...)
	out = append(out, fmt.Sprintf("...[diff compressed: %d lines omitted]...", omitted))
	if tail > 0 {
		out = append(out, lines[len(lines)-tail:]...)
	}
	return strings.Join(out, "\n")
}

// droppableSections are sacrificed first, in this order.
var droppableSections = []string{SectionUntracked, SectionRecentCommits}

// diffSections are windowed by the schedule, in this order.
var diffSections = []string{SectionStagedDiff, SectionUnstagedDiff}

func sectionIndex(sections []Section, title string) int {
	for i, s := range sections {
		if s.Title == title {
			return i
		}
	}
	return -1
}

// compressContext shrinks the rendered context stage by stage until it
// fits maxTokens or no stage makes further progress, ending with a hard
// token-level truncation. context/tokens are the already-rendered baseline.
// The input sections are not mutated. Token and character counts are
// non-increasing across the returned stage sequence, and re-running on the
// result applies no further stages.
func compressContext(sections []Section, maxChars, maxTokens int, counter *TokenCounter, context string, tokens int) (string, []Stage) {
	working := make([]Section, len(sections))
	copy(working, sections)

	var stages []Stage

	for _, title := range droppableSections {
		if tokens <= maxTokens {
			break
		}
		i := sectionIndex(working, title)
		if i < 0 || strings.TrimSpace(working[i].Content) == "" {
			continue
		}
		working[i].Content = ""
		stages = append(stages, DropSection(title))
		context = RenderSections(working, maxChars)
		tokens = counter.Count(context)
	}

	for _, step := range diffWindowSchedule {
		if tokens <= maxTokens {
			break
		}
		changed := false
		for _, title := range diffSections {
			i := sectionIndex(working, title)
			if i < 0 {
				continue
			}
			windowed := windowDiff(working[i].Content, step.Head, step.Tail)
			if windowed != working[i].Content {
				working[i].Content = windowed
				changed = true
			}
		}
		if !changed {
			continue
		}
		stages = append(stages, WindowDiffs(step.Head, step.Tail))
		context = RenderSections(working, maxChars)
		tokens = counter.Count(context)
	}

	if tokens > maxTokens {
		context = counter.Truncate(context, maxTokens)
		stages = append(stages, HardTruncate())
	}

	return context, stages
}
