// Package cli implements the mallard command tree: scan, setup, hook,
// cache, report, and version.
package cli
