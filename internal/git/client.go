// Package git collects repository state for prompt rendering and applies
// the resulting commit.
package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Snapshot is the repository state captured once per run. It is immutable
// after capture; everything downstream renders from it.
type Snapshot struct {
	Branch         string
	StatusShort    string
	StagedDiff     string
	UnstagedDiff   string
	UntrackedFiles string
	ChangedFiles   []string
	RecentCommits  string
}

// HasChanges reports whether the working tree has anything to commit,
// staged or not.
func (s Snapshot) HasChanges() bool {
	return strings.TrimSpace(s.StatusShort) != ""
}

// HasStagedChanges reports whether anything is staged for commit.
func (s Snapshot) HasStagedChanges() bool {
	return strings.TrimSpace(s.StagedDiff) != ""
}

// Client runs git commands in a fixed working directory.
type Client struct {
	dir string
}

// NewClient creates a Client rooted at dir. An empty dir means the
// current directory.
func NewClient(dir string) *Client {
	if dir == "" {
		dir = "."
	}
	return &Client{dir: dir}
}

// run executes git with args and returns trimmed stdout. Non-zero exit
// becomes an error carrying stderr (or stdout when stderr is empty).
func (c *Client) run(args ...string) (string, error) {
	return c.runInput("", args...)
}

func (c *Client) runInput(input string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.dir
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), detail)
	}
	return strings.TrimRight(stdout.String(), "\r\n"), nil
}

// EnsureRepo fails when the working directory is not inside a git work tree.
func (c *Client) EnsureRepo() error {
	out, err := c.run("rev-parse", "--is-inside-work-tree")
	if err != nil {
		return err
	}
	if strings.ToLower(strings.TrimSpace(out)) != "true" {
		return fmt.Errorf("git: %s is not inside a git repository", c.dir)
	}
	return nil
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch() (string, error) {
	out, err := c.run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) statusShort() (string, error) {
	return c.run("status", "--short")
}

func (c *Client) stagedDiff() (string, error) {
	return c.run("diff", "--cached", "--no-color", "--unified=3")
}

func (c *Client) unstagedDiff() (string, error) {
	return c.run("diff", "--no-color", "--unified=3")
}

func (c *Client) untrackedFiles() (string, error) {
	return c.run("ls-files", "--others", "--exclude-standard")
}

func (c *Client) changedFiles() ([]string, error) {
	out, err := c.run("status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseChangedFiles(out), nil
}

// parseChangedFiles extracts paths from `git status --porcelain` output,
// keeping first-seen order and dropping duplicates. Renames report
// "old -> new"; the destination path is kept.
func parseChangedFiles(porcelain string) []string {
	seen := make(map[string]bool)
	var files []string
	for _, line := range strings.Split(porcelain, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 4 {
			continue
		}
		path := line[3:]
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+len(" -> "):]
		}
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		files = append(files, path)
	}
	return files
}

// recentCommitSubjects returns up to limit commit subject lines. Errors are
// swallowed: a repository without commits yet has no history to report.
func (c *Client) recentCommitSubjects(limit int) string {
	out, err := c.run("log", fmt.Sprintf("-%d", limit), "--pretty=format:%s")
	if err != nil {
		return ""
	}
	return out
}

// Snapshot captures the full repository state in one pass.
func (c *Client) Snapshot() (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Branch, err = c.CurrentBranch(); err != nil {
		return Snapshot{}, err
	}
	if snap.StatusShort, err = c.statusShort(); err != nil {
		return Snapshot{}, err
	}
	if snap.StagedDiff, err = c.stagedDiff(); err != nil {
		return Snapshot{}, err
	}
	if snap.UnstagedDiff, err = c.unstagedDiff(); err != nil {
		return Snapshot{}, err
	}
	if snap.UntrackedFiles, err = c.untrackedFiles(); err != nil {
		return Snapshot{}, err
	}
	if snap.ChangedFiles, err = c.changedFiles(); err != nil {
		return Snapshot{}, err
	}
	snap.RecentCommits = c.recentCommitSubjects(5)
	return snap, nil
}

// StageAll stages every change in the working tree.
func (c *Client) StageAll() error {
	_, err := c.run("add", "--all")
	return err
}

// Commit creates a commit with message supplied via stdin, so multi-line
// messages survive shells and platforms intact.
func (c *Client) Commit(message string) (string, error) {
	return c.runInput(message, "commit", "-F", "-")
}

// Push pushes branch to remote and returns the combined output.
func (c *Client) Push(remote, branch string) (string, error) {
	cmd := exec.Command("git", "push", remote, branch)
	cmd.Dir = c.dir
	out, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(out))
	if err != nil {
		if text == "" {
			text = err.Error()
		}
		return "", fmt.Errorf("git push %s %s: %s", remote, branch, text)
	}
	return text, nil
}
