// Mallard reviews staged changes with an LLM before every commit.
//
// It filters and prioritizes the staged diff, deduplicates similar changes,
// reuses cached reviews for diffs it has already seen, and blocks the commit
// when findings cross the configured severity threshold.
//
// Usage:
//
//	mallard setup                 # write .mallardrc and install the hook
//	mallard scan                  # review staged changes
//	mallard scan --all            # review all uncommitted changes
//	mallard hook install          # (re)install the pre-commit hook
//	mallard cache stats           # inspect the review cache
//	mallard report                # print the latest report path
//
// See https://github.com/mallardhq/mallard for full documentation.
package main
