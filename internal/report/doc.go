// Package report renders scan results to timestamped markdown or HTML
// report files.
package report
