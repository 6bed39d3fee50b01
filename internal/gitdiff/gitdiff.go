package gitdiff

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/mallardhq/mallard/internal/types"
)

func gitOutput(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// RepoRoot returns the root directory of the current git repository.
func RepoRoot() (string, error) {
	out, err := gitOutput("rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Staged returns the unified diff of staged changes (index vs HEAD).
func Staged() (string, error) {
	return gitOutput("diff", "--staged", "--unified=3")
}

// All returns the unified diff of all tracked changes against HEAD.
func All() (string, error) {
	return gitOutput("diff", "HEAD", "--unified=3")
}

// HasStagedChanges reports whether the index differs from HEAD.
func HasStagedChanges() bool {
	// git diff --staged --quiet exits non-zero when changes exist.
	err := exec.Command("git", "diff", "--staged", "--quiet").Run()
	return err != nil
}

// ParseByFile splits a raw unified diff into per-file records. The diff text
// for each file covers that path only; isNew and isDeleted are taken from
// the file mode lines in the header.
func ParseByFile(raw string) []types.FileDiff {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var diffs []types.FileDiff
	var current strings.Builder
	currentPath := ""

	flush := func() {
		if currentPath == "" {
			return
		}
		section := strings.TrimSpace(current.String())
		diffs = append(diffs, types.FileDiff{
			Path:      currentPath,
			Diff:      section,
			IsNew:     strings.Contains(section, "\nnew file mode"),
			IsDeleted: strings.Contains(section, "\ndeleted file mode"),
		})
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			flush()
			current.Reset()
			currentPath = pathFromHeader(line)
		}
		if currentPath != "" {
			current.WriteString(line)
			current.WriteString("\n")
		}
	}
	flush()

	return diffs
}

// pathFromHeader extracts the post-image path from a
// `diff --git a/old b/new` header line.
func pathFromHeader(line string) string {
	idx := strings.LastIndex(line, " b/")
	if idx == -1 {
		return ""
	}
	return strings.TrimSpace(line[idx+len(" b/"):])
}
