// Package types defines the core value types shared across the scan
// pipeline: FileDiff, Issue, and the ScanResult accumulator with its
// commit-blocking policy.
package types
