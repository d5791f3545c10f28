// Package clipboard copies text to the system clipboard, trying a native
// binding first and falling back to well-known platform commands.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// CopyResult reports how a clipboard copy attempt went.
type CopyResult struct {
	OK     bool
	Detail string
}

func isWSL(getenv func(string) string) bool {
	return getenv("WSL_DISTRO_NAME") != "" || getenv("WSL_INTEROP") != ""
}

// commands returns candidate clipboard commands ordered by preference,
// filtered to those present on PATH.
func commands(goos string, getenv func(string) string, lookPath func(string) (string, error)) [][]string {
	var candidates [][]string
	switch goos {
	case "windows":
		candidates = append(candidates, []string{"clip"})
	case "darwin":
		candidates = append(candidates, []string{"pbcopy"})
	default:
		if isWSL(getenv) {
			candidates = append(candidates, []string{"clip.exe"})
		}
		candidates = append(candidates,
			[]string{"wl-copy"},
			[]string{"xclip", "-selection", "clipboard"},
			[]string{"xsel", "--clipboard", "--input"},
		)
	}

	var available [][]string
	for _, cmd := range candidates {
		if _, err := lookPath(cmd[0]); err == nil {
			available = append(available, cmd)
		}
	}
	return available
}

func copyViaCommand(text string, cmds [][]string) CopyResult {
	if len(cmds) == 0 {
		return CopyResult{
			OK:     false,
			Detail: "clipboard command not found, install one of: pbcopy/clip/wl-copy/xclip/xsel",
		}
	}

	var failures []string
	for _, args := range cmds {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Stdin = strings.NewReader(text)
		var stderr strings.Builder
		cmd.Stderr = &stderr
		err := cmd.Run()
		if err == nil {
			return CopyResult{OK: true, Detail: strings.Join(args, " ")}
		}
		reason := strings.TrimSpace(stderr.String())
		if reason == "" {
			reason = err.Error()
		}
		failures = append(failures, fmt.Sprintf("%s (%s)", strings.Join(args, " "), reason))
	}
	return CopyResult{
		OK:     false,
		Detail: "clipboard copy failed for all commands: " + strings.Join(failures, ", "),
	}
}

// Copy places text on the system clipboard. On success Detail names the
// mechanism used; on failure it explains what went wrong.
func Copy(text string, getenv func(string) string) CopyResult {
	if err := clipboard.WriteAll(text); err == nil {
		return CopyResult{OK: true, Detail: "clipboard"}
	}
	return copyViaCommand(text, commands(runtime.GOOS, getenv, exec.LookPath))
}
