package scan

import (
	"path"
	"strings"

	"github.com/mallardhq/mallard/internal/types"
)

// skipExtensions are path suffixes that are never worth reviewing:
// binaries, images, fonts, archives, and build artifacts.
var skipExtensions = []string{
	".lock",
	".svg",
	".png",
	".jpg",
	".jpeg",
	".gif",
	".ico",
	".webp",
	".bmp",
	".woff",
	".woff2",
	".ttf",
	".eot",
	".otf",
	".map",
	".min.js",
	".min.css",
	".pyc",
	".pyo",
	".so",
	".dylib",
	".dll",
	".exe",
	".jar",
	".war",
	".zip",
	".tar",
	".gz",
	".br",
}

// skipBasenames are generated lockfiles and OS artifacts matched by exact
// basename, anchored to a path segment.
var skipBasenames = map[string]struct{}{
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
	"Pipfile.lock":      {},
	"poetry.lock":       {},
	"uv.lock":           {},
	"Cargo.lock":        {},
	"Gemfile.lock":      {},
	"composer.lock":     {},
	".DS_Store":         {},
	"Thumbs.db":         {},
}

func shouldSkip(filePath string) bool {
	lower := strings.ToLower(filePath)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	_, ok := skipBasenames[path.Base(filePath)]
	return ok
}

// Filter separates reviewable diffs from files that should never be sent
// for review. Both returned slices preserve the input order, and every
// input path lands in exactly one of them.
func Filter(diffs []types.FileDiff) (reviewable []types.FileDiff, skipped []string) {
	for _, fd := range diffs {
		if shouldSkip(fd.Path) {
			skipped = append(skipped, fd.Path)
		} else {
			reviewable = append(reviewable, fd)
		}
	}
	return reviewable, skipped
}
