package clipboard

import (
	"errors"
	"strings"
	"testing"
)

func allPresent(string) (string, error)  { return "/usr/bin/fake", nil }
func nonePresent(string) (string, error) { return "", errors.New("not found") }

func emptyEnv(string) string { return "" }

func TestCommandsDarwin(t *testing.T) {
	cmds := commands("darwin", emptyEnv, allPresent)
	if len(cmds) != 1 || cmds[0][0] != "pbcopy" {
		t.Errorf("darwin commands = %v", cmds)
	}
}

func TestCommandsWindows(t *testing.T) {
	cmds := commands("windows", emptyEnv, allPresent)
	if len(cmds) != 1 || cmds[0][0] != "clip" {
		t.Errorf("windows commands = %v", cmds)
	}
}

func TestCommandsLinuxOrder(t *testing.T) {
	cmds := commands("linux", emptyEnv, allPresent)
	want := []string{"wl-copy", "xclip", "xsel"}
	if len(cmds) != len(want) {
		t.Fatalf("linux commands = %v", cmds)
	}
	for i, name := range want {
		if cmds[i][0] != name {
			t.Errorf("command %d = %q, want %q", i, cmds[i][0], name)
		}
	}
}

func TestCommandsWSLPrefersClipExe(t *testing.T) {
	wslEnv := func(key string) string {
		if key == "WSL_DISTRO_NAME" {
			return "Ubuntu"
		}
		return ""
	}
	cmds := commands("linux", wslEnv, allPresent)
	if len(cmds) == 0 || cmds[0][0] != "clip.exe" {
		t.Errorf("WSL should try clip.exe first, got %v", cmds)
	}
}

func TestCommandsFiltersMissingBinaries(t *testing.T) {
	onlyXclip := func(name string) (string, error) {
		if name == "xclip" {
			return "/usr/bin/xclip", nil
		}
		return "", errors.New("not found")
	}
	cmds := commands("linux", emptyEnv, onlyXclip)
	if len(cmds) != 1 || cmds[0][0] != "xclip" {
		t.Errorf("commands = %v", cmds)
	}
	if got := commands("linux", emptyEnv, nonePresent); len(got) != 0 {
		t.Errorf("expected no commands, got %v", got)
	}
}

func TestCopyViaCommandNoCandidates(t *testing.T) {
	result := copyViaCommand("text", nil)
	if result.OK {
		t.Fatal("copy should fail with no candidates")
	}
	if !strings.Contains(result.Detail, "pbcopy/clip/wl-copy/xclip/xsel") {
		t.Errorf("detail should list install options: %q", result.Detail)
	}
}

func TestCopyViaCommandReportsFailures(t *testing.T) {
	result := copyViaCommand("text", [][]string{{"definitely-not-a-real-clipboard-tool"}})
	if result.OK {
		t.Fatal("copy should fail for a missing binary")
	}
	if !strings.Contains(result.Detail, "definitely-not-a-real-clipboard-tool") {
		t.Errorf("detail should name the failed command: %q", result.Detail)
	}
}
