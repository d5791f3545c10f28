package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color helpers.
var (
	cReset  = "\033[0m"
	cGreen  = "\033[32m"
	cYellow = "\033[33m"
	cRed    = "\033[31m"
	cBlue   = "\033[34m"
	cCyan   = "\033[36m"
	cBold   = "\033[1m"
	cDim    = "\033[2m"
)

func disableColors() {
	cReset, cGreen, cYellow, cRed, cBlue, cCyan, cBold, cDim = "", "", "", "", "", "", "", ""
}

// termWidth returns the terminal width clamped to a readable range.
func termWidth() int {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	if width < 60 {
		return 60
	}
	if width > 120 {
		return 120
	}
	return width
}

func rule(char string) string {
	return strings.Repeat(char, termWidth())
}

func section(title string) string {
	return cBold + cBlue + "[" + title + "]" + cReset
}

func info(text string) string {
	return cDim + text + cReset
}

func success(text string) string {
	return cGreen + text + cReset
}

func warn(text string) string {
	return cYellow + text + cReset
}

func errorText(text string) string {
	return cRed + text + cReset
}

func keyValue(label, value string) string {
	return fmt.Sprintf("%s%s:%s %s", cBold+cCyan, label, cReset, value)
}

func renderFiles(files []string) string {
	if len(files) == 0 {
		return "  (none)"
	}
	lines := make([]string, 0, len(files))
	for _, path := range files {
		lines = append(lines, "  - "+path)
	}
	return strings.Join(lines, "\n")
}

// renderMessageBox draws the commit message inside an ASCII box.
func renderMessageBox(message string) string {
	lines := strings.Split(strings.TrimRight(message, "\n"), "\n")
	contentWidth := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > contentWidth {
			contentWidth = n
		}
	}
	border := "+" + strings.Repeat("-", contentWidth+2) + "+"

	var sb strings.Builder
	sb.WriteString(border)
	sb.WriteString("\n")
	for _, line := range lines {
		pad := contentWidth - len([]rune(line))
		sb.WriteString("| " + line + strings.Repeat(" ", pad) + " |\n")
	}
	sb.WriteString(border)
	return sb.String()
}
