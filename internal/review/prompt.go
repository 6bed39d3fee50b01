package review

import (
	"fmt"
	"strings"

	"github.com/mallardhq/mallard/internal/types"
)

// categoryLabels are the display names used when listing enabled checks in
// the system prompt.
var categoryLabels = map[types.Category]string{
	types.CategoryCodeQuality:   "Code Quality",
	types.CategorySecurity:      "Security",
	types.CategoryCodeSmell:     "Code Smell",
	types.CategoryLicense:       "License & Compliance",
	types.CategoryDocumentation: "Documentation",
	types.CategoryTestCoverage:  "Test Coverage",
	types.CategoryPerformance:   "Performance",
	types.CategoryAccessibility: "Accessibility",
	types.CategoryLLMSpecific:   "AI/LLM-Specific",
}

// BuildSystemPrompt builds the reviewer-role instruction for the enabled
// check categories, including the JSON response contract.
func BuildSystemPrompt(categories []types.Category) string {
	var checks strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&checks, "- %s\n", categoryLabels[c])
	}

	var b strings.Builder
	b.WriteString("You are a senior code reviewer performing an automated pre-commit review.\n")
	b.WriteString("Analyze the provided git diff and find issues in these categories:\n")
	b.WriteString(checks.String())
	b.WriteString("\nFor each issue found, respond with a JSON array of objects. Each object must have:\n")
	b.WriteString("  \"file\": string (file path),\n")
	b.WriteString("  \"line\": number or null (line number if identifiable),\n")
	b.WriteString("  \"severity\": \"critical\" | \"warning\" | \"info\",\n")
	b.WriteString("  \"category\": one of the check category identifiers,\n")
	b.WriteString("  \"message\": string (concise description of the issue),\n")
	b.WriteString("  \"suggestion\": string (how to fix it, or empty string)\n")
	b.WriteString("\nIf no issues are found, respond with an empty JSON array: []\n")
	b.WriteString("Respond ONLY with the JSON array - no markdown fences, no explanation.")
	return b.String()
}

// BuildUserPrompt concatenates the diffs to review as `=== path ===` blocks.
func BuildUserPrompt(diffs []types.FileDiff) string {
	parts := make([]string, 0, len(diffs))
	for _, fd := range diffs {
		parts = append(parts, fmt.Sprintf("=== %s ===\n%s", fd.Path, fd.Diff))
	}
	return strings.Join(parts, "\n\n")
}
