package scan

import (
	"testing"

	"github.com/mallardhq/mallard/internal/types"
)

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"main.go", false},
		{"src/app.py", false},
		{"README.md", false},
		{"image.png", true},
		{"assets/logo.SVG", true},
		{"dist/bundle.min.js", true},
		{"styles/app.min.css", true},
		{"package-lock.json", true},
		{"frontend/package-lock.json", true},
		{"Cargo.lock", true},
		{"poetry.lock", true},
		{"uv.lock", true},
		{".DS_Store", true},
		{"docs/.DS_Store", true},
		{"fonts/inter.woff2", true},
		{"build/app.exe", true},
		{"vendor.tar.gz", true},
		{"src/source.map", true},
		// basename must match exactly, not as a substring
		{"my-package-lock.json.md", false},
		{"locker.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := shouldSkip(tt.path); got != tt.want {
				t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	diffs := []types.FileDiff{
		{Path: "auth/login.go", Diff: "+login"},
		{Path: "image.png", Diff: "+binary"},
		{Path: "README.md", Diff: "+docs"},
		{Path: "yarn.lock", Diff: "+lock"},
		{Path: "config/settings.py", Diff: "+settings"},
	}

	reviewable, skipped := Filter(diffs)

	wantReviewable := []string{"auth/login.go", "README.md", "config/settings.py"}
	wantSkipped := []string{"image.png", "yarn.lock"}

	if len(reviewable) != len(wantReviewable) {
		t.Fatalf("got %d reviewable, want %d", len(reviewable), len(wantReviewable))
	}
	for i, fd := range reviewable {
		if fd.Path != wantReviewable[i] {
			t.Errorf("reviewable[%d] = %q, want %q", i, fd.Path, wantReviewable[i])
		}
	}
	if len(skipped) != len(wantSkipped) {
		t.Fatalf("got %d skipped, want %d", len(skipped), len(wantSkipped))
	}
	for i, p := range skipped {
		if p != wantSkipped[i] {
			t.Errorf("skipped[%d] = %q, want %q", i, p, wantSkipped[i])
		}
	}
}

func TestFilterPartition(t *testing.T) {
	diffs := []types.FileDiff{
		{Path: "a.go"}, {Path: "b.png"}, {Path: "c.ts"}, {Path: "Gemfile.lock"},
	}
	reviewable, skipped := Filter(diffs)
	if len(reviewable)+len(skipped) != len(diffs) {
		t.Errorf("partition lost files: %d + %d != %d", len(reviewable), len(skipped), len(diffs))
	}
}

func TestFilterEmpty(t *testing.T) {
	reviewable, skipped := Filter(nil)
	if len(reviewable) != 0 || len(skipped) != 0 {
		t.Errorf("Filter(nil) = %v, %v, want empty", reviewable, skipped)
	}
}
