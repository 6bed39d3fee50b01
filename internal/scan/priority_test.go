package scan

import (
	"testing"

	"github.com/mallardhq/mallard/internal/types"
)

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name string
		fd   types.FileDiff
		want int
	}{
		{"plain file", types.FileDiff{Path: "main.go"}, 0},
		{"new plain file", types.FileDiff{Path: "main.go", IsNew: true}, 5},
		{"auth path", types.FileDiff{Path: "internal/auth/login.go"}, 10},
		{"case insensitive", types.FileDiff{Path: "Auth/Login.go"}, 10},
		{"multiple segments compound", types.FileDiff{Path: "auth/token.go"}, 20},
		{"new high-risk file", types.FileDiff{Path: "secrets.py", IsNew: true}, 15},
		// "database" also contains "db", both count
		{"overlapping segments", types.FileDiff{Path: "database.go"}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RiskScore(tt.fd); got != tt.want {
				t.Errorf("RiskScore(%q) = %d, want %d", tt.fd.Path, got, tt.want)
			}
		})
	}
}

func TestPrioritize(t *testing.T) {
	diffs := []types.FileDiff{
		{Path: "readme.md"},
		{Path: "auth/session.go"},
		{Path: "util.go", IsNew: true},
	}

	ordered := Prioritize(diffs)

	want := []string{"auth/session.go", "util.go", "readme.md"}
	for i, fd := range ordered {
		if fd.Path != want[i] {
			t.Errorf("ordered[%d] = %q, want %q", i, fd.Path, want[i])
		}
	}

	// Input must not be mutated
	if diffs[0].Path != "readme.md" {
		t.Error("Prioritize mutated its input")
	}
}

func TestPrioritizeStable(t *testing.T) {
	diffs := []types.FileDiff{
		{Path: "a.go"}, {Path: "b.go"}, {Path: "c.go"},
	}
	ordered := Prioritize(diffs)
	want := []string{"a.go", "b.go", "c.go"}
	for i, fd := range ordered {
		if fd.Path != want[i] {
			t.Errorf("equal-score order changed: ordered[%d] = %q, want %q", i, fd.Path, want[i])
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"12345678", 2},
		{"123456789", 3},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
