package review

import (
	"strings"
	"testing"

	"github.com/mallardhq/mallard/internal/types"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt([]types.Category{
		types.CategorySecurity,
		types.CategoryCodeQuality,
	})

	if !strings.Contains(prompt, "- Security") {
		t.Error("prompt missing Security check")
	}
	if !strings.Contains(prompt, "- Code Quality") {
		t.Error("prompt missing Code Quality check")
	}
	if strings.Contains(prompt, "Accessibility") {
		t.Error("prompt lists a disabled category")
	}
	if !strings.Contains(prompt, `"critical" | "warning" | "info"`) {
		t.Error("prompt missing severity contract")
	}
	if !strings.Contains(prompt, "empty JSON array: []") {
		t.Error("prompt missing empty-array fallback")
	}
	if !strings.Contains(prompt, "no markdown fences") {
		t.Error("prompt missing fence prohibition")
	}
}

func TestBuildUserPrompt(t *testing.T) {
	diffs := []types.FileDiff{
		{Path: "a.go", Diff: "+added line"},
		{Path: "b.go", Diff: "-removed line"},
	}

	prompt := BuildUserPrompt(diffs)

	if !strings.Contains(prompt, "=== a.go ===\n+added line") {
		t.Error("prompt missing first diff block")
	}
	if !strings.Contains(prompt, "=== b.go ===\n-removed line") {
		t.Error("prompt missing second diff block")
	}
	if !strings.Contains(prompt, "\n\n=== b.go") {
		t.Error("diff blocks should be separated by a blank line")
	}
}

func TestBuildUserPromptEmpty(t *testing.T) {
	if got := BuildUserPrompt(nil); got != "" {
		t.Errorf("BuildUserPrompt(nil) = %q, want empty", got)
	}
}
