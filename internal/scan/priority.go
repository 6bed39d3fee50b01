package scan

import (
	"sort"
	"strings"

	"github.com/mallardhq/mallard/internal/types"
)

// charsPerToken is the approximate chars-per-token ratio used for all token
// estimates. No real tokenizer dependency; conservative for most models.
const charsPerToken = 4

// highRiskSegments are security-sensitive path fragments. Files touching
// these surfaces are reviewed first when token budgets are tight.
var highRiskSegments = []string{
	"auth",
	"secret",
	"crypto",
	"password",
	"credential",
	"token",
	"admin",
	"db",
	"database",
	"migrate",
	"env",
	"config",
	"permission",
	"rbac",
	"session",
	"oauth",
	"jwt",
	"key",
	"cert",
	"ssl",
	"tls",
}

// RiskScore returns the review-priority score for a diff. Each matched
// security-sensitive segment adds 10; overlapping hits all count. New files
// score an extra 5 over modifications.
func RiskScore(fd types.FileDiff) int {
	lower := strings.ToLower(fd.Path)
	score := 0
	for _, segment := range highRiskSegments {
		if strings.Contains(lower, segment) {
			score += 10
		}
	}
	if fd.IsNew {
		score += 5
	}
	return score
}

// Prioritize returns the diffs sorted by risk score, highest first. The sort
// is stable so equal-score files keep their relative input order.
func Prioritize(diffs []types.FileDiff) []types.FileDiff {
	ordered := make([]types.FileDiff, len(diffs))
	copy(ordered, diffs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return RiskScore(ordered[i]) > RiskScore(ordered[j])
	})
	return ordered
}

// EstimateTokens estimates the token cost of a text from its length,
// rounding up.
func EstimateTokens(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}
