// Package gitdiff extracts unified diffs from git and splits them into
// per-file records for the scan pipeline.
package gitdiff
