// Package review bridges the scan pipeline and the LLM backends.
//
// It assembles a system instruction from the enabled check categories, packs
// a batch of diffs into `=== path ===` blocks, and parses the JSON array the
// model is asked to return. Parsing is tolerant: individual malformed items
// are dropped and a completely unparsable response yields zero issues rather
// than an error, so one bad model reply never fails a scan.
package review
