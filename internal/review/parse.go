package review

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mallardhq/mallard/internal/types"
)

// rawIssue is the JSON shape expected from the LLM.
type rawIssue struct {
	File       string `json:"file"`
	Line       *int   `json:"line"`
	Severity   string `json:"severity"`
	Category   string `json:"category"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// ParseIssues parses an LLM response into issues. Malformed items are
// dropped while the rest of the array is kept; a response that is not a
// JSON array at all degrades to an empty list. Never returns an error.
func ParseIssues(raw string) []types.Issue {
	cleaned := stripCodeFences(raw)
	if cleaned == "" || cleaned == "[]" {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		slog.Warn("failed to parse review response", "raw", truncate(raw, 200))
		return nil
	}

	var issues []types.Issue
	for _, item := range items {
		var ri rawIssue
		if err := json.Unmarshal(item, &ri); err != nil {
			slog.Warn("skipping malformed issue", "item", truncate(string(item), 200))
			continue
		}
		severity := types.Severity(ri.Severity)
		category := types.Category(ri.Category)
		if !severity.Valid() || !category.Valid() {
			slog.Warn("skipping issue with unknown severity or category",
				"severity", ri.Severity, "category", ri.Category)
			continue
		}
		file := ri.File
		if file == "" {
			file = "unknown"
		}
		issues = append(issues, types.Issue{
			File:       file,
			Line:       ri.Line,
			Severity:   severity,
			Category:   category,
			Message:    ri.Message,
			Suggestion: ri.Suggestion,
		})
	}
	return issues
}

// stripCodeFences removes a surrounding markdown code fence if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
