package scan

import (
	"github.com/mallardhq/mallard/internal/types"
)

// Batch packs priority-ordered diffs into groups that fit within
// maxTokensPerBatch. A diff whose estimate alone exceeds the per-batch limit
// becomes its own singleton batch after flushing the batch in progress.
//
// tokenBudget caps the running total across the whole call; zero or negative
// means unlimited. A diff that would push the total past the budget is
// recorded in skipped and excluded entirely, never retried in a smaller
// batch. Over-limit singleton batches still debit the budget exactly once.
//
// Ordering is preserved within and across batches. Pure and deterministic.
func Batch(diffs []types.FileDiff, maxTokensPerBatch, tokenBudget int) (batches [][]types.FileDiff, skipped []string) {
	var current []types.FileDiff
	currentTokens := 0
	totalTokens := 0

	for _, fd := range diffs {
		diffTokens := EstimateTokens(fd.Diff)

		if tokenBudget > 0 && totalTokens+diffTokens > tokenBudget {
			skipped = append(skipped, fd.Path)
			continue
		}

		if diffTokens > maxTokensPerBatch {
			if len(current) > 0 {
				batches = append(batches, current)
				current = nil
				currentTokens = 0
			}
			batches = append(batches, []types.FileDiff{fd})
			totalTokens += diffTokens
			continue
		}

		if currentTokens+diffTokens > maxTokensPerBatch {
			batches = append(batches, current)
			current = nil
			currentTokens = 0
		}

		current = append(current, fd)
		currentTokens += diffTokens
		totalTokens += diffTokens
	}

	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches, skipped
}
