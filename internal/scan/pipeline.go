package scan

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mallardhq/mallard/internal/types"
)

// Cache is the persistent similarity-indexed store of past review results.
type Cache interface {
	// Query looks up issues for the nearest stored embedding. The second
	// return is false when nothing meets the threshold.
	Query(embedding []float32, threshold float64) ([]types.Issue, bool, error)
	// Store appends a new entry. Entries are never overwritten or merged.
	Store(embedding []float32, issues []types.Issue, filePath string) error
}

// Reviewer reviews a batch of file diffs and returns the issues found.
type Reviewer interface {
	Review(ctx context.Context, batch []types.FileDiff) ([]types.Issue, error)
}

// Options tunes a pipeline run.
type Options struct {
	// Threshold is the cosine-similarity cutoff shared by dedup and cache
	// lookup, typically 0.92-0.95.
	Threshold float64
	// MaxTokensPerBatch caps the estimated size of a single review call.
	MaxTokensPerBatch int
	// TokenBudget caps the total estimated tokens across the run.
	// Zero or negative means unlimited.
	TokenBudget int
	// MaxConcurrent bounds in-flight review calls.
	MaxConcurrent int
}

func (o Options) withDefaults() Options {
	if o.Threshold == 0 {
		o.Threshold = 0.92
	}
	if o.MaxTokensPerBatch <= 0 {
		o.MaxTokensPerBatch = 12000
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 3
	}
	return o
}

// Run executes the full scan pipeline on a set of file diffs:
// filter, prioritize, deduplicate, cache lookup, batch, concurrent review,
// cache store, and duplicate fan-out.
//
// Failures are contained at the individual-batch level inside the review
// stage; a failed batch contributes zero issues and never aborts siblings.
func Run(ctx context.Context, diffs []types.FileDiff, reviewer Reviewer, embedder Embedder, cache Cache, opts Options) (*types.ScanResult, error) {
	opts = opts.withDefaults()
	result := &types.ScanResult{}

	reviewable, skippedPaths := Filter(diffs)
	result.FilesSkipped = len(skippedPaths)
	result.SkippedFiles = skippedPaths
	slog.Info("filter complete", "reviewable", len(reviewable), "skipped", len(skippedPaths))

	if len(reviewable) == 0 {
		return result, nil
	}

	reviewable = Prioritize(reviewable)

	dedup, err := Deduplicate(ctx, reviewable, embedder, opts.Threshold)
	if err != nil {
		return nil, err
	}
	for _, dupes := range dedup.Groups {
		result.FilesDeduped += len(dupes)
	}
	slog.Info("dedup complete", "unique", len(dedup.Unique), "deduped", result.FilesDeduped)

	// Cache check splits representatives into hits and needs-review.
	var needsReview []types.FileDiff
	var needsReviewEmbeddings [][]float32
	var cachedIssues []types.Issue

	for i, fd := range dedup.Unique {
		embedding := dedup.Embeddings[i]
		cached, hit, err := cache.Query(embedding, opts.Threshold)
		if err != nil {
			slog.Warn("cache query failed", "file", fd.Path, "error", err)
			hit = false
		}
		if hit {
			cachedIssues = append(cachedIssues, cached...)
			result.CacheHits++
			result.FilesCached++
			slog.Debug("cache hit", "file", fd.Path)
		} else {
			needsReview = append(needsReview, fd)
			needsReviewEmbeddings = append(needsReviewEmbeddings, embedding)
		}
	}
	slog.Info("cache check complete", "hits", result.CacheHits, "misses", len(needsReview))

	batches, budgetSkipped := Batch(needsReview, opts.MaxTokensPerBatch, opts.TokenBudget)
	result.SkippedFiles = append(result.SkippedFiles, budgetSkipped...)
	result.FilesScanned = len(reviewable) - len(budgetSkipped)
	for _, batch := range batches {
		for _, fd := range batch {
			result.TokensUsed += EstimateTokens(fd.Diff)
		}
	}
	slog.Info("batching complete", "batches", len(batches), "budget_skipped", len(budgetSkipped))

	allIssues := append([]types.Issue{}, cachedIssues...)
	allIssues = append(allIssues, reviewBatches(ctx, batches, reviewer, opts.MaxConcurrent)...)

	// Persist new results per representative once all review calls are done.
	// No concurrent writers touch the cache by construction.
	for i, fd := range needsReview {
		fileIssues := issuesForFile(allIssues, fd.Path)
		if err := cache.Store(needsReviewEmbeddings[i], fileIssues, fd.Path); err != nil {
			slog.Warn("cache store failed", "file", fd.Path, "error", err)
		}
	}

	// Fan reviewed and cached issues back out to the duplicates each
	// representative absorbed.
	for repPath, dupePaths := range dedup.Groups {
		repIssues := issuesForFile(allIssues, repPath)
		for _, dupPath := range dupePaths {
			for _, issue := range repIssues {
				clone := issue
				clone.File = dupPath
				allIssues = append(allIssues, clone)
			}
		}
	}

	result.Issues = allIssues
	return result, nil
}

// reviewBatches dispatches batches concurrently under a counting-semaphore
// admission gate and merges their issues in batch order. A failed batch is
// logged and contributes nothing.
func reviewBatches(ctx context.Context, batches [][]types.FileDiff, reviewer Reviewer, maxConcurrent int) []types.Issue {
	results := make([][]types.Issue, len(batches))
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)

	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []types.FileDiff) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			slog.Debug("reviewing batch", "batch", i, "files", len(batch))
			issues, err := reviewer.Review(ctx, batch)
			if err != nil {
				slog.Error("batch review failed", "batch", i, "error", err)
				return
			}
			results[i] = issues
		}(i, batch)
	}
	wg.Wait()

	var merged []types.Issue
	for _, issues := range results {
		merged = append(merged, issues...)
	}
	return merged
}

func issuesForFile(issues []types.Issue, path string) []types.Issue {
	var matched []types.Issue
	for _, issue := range issues {
		if issue.File == path {
			matched = append(matched, issue)
		}
	}
	return matched
}
