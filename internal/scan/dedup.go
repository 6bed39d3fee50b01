package scan

import (
	"context"
	"log/slog"
	"math"

	"github.com/mallardhq/mallard/internal/types"
)

// Embedder turns texts into fixed-dimension vectors. Implementations must be
// deterministic for identical input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// DedupResult is the outcome of deduplicating one batch of diffs.
type DedupResult struct {
	// Unique holds the representative diffs that need individual review,
	// in the order they were first encountered.
	Unique []types.FileDiff
	// Groups maps a representative path to the duplicate paths it absorbed.
	Groups map[string][]string
	// Embeddings are the vectors for Unique, in the same order.
	Embeddings [][]float32
}

// Deduplicate groups near-identical diffs so only one representative per
// group is sent for review.
//
// Clustering is greedy and single-pass: each unclaimed diff becomes a
// representative, and every later unclaimed diff whose similarity to that
// representative meets the threshold is claimed as its duplicate. Duplicates
// are compared only against the representative, never against each other, so
// clusters form by proximity-to-first-seen rather than mutual similarity.
// This is intentional and load-bearing for which files end up grouped.
func Deduplicate(ctx context.Context, diffs []types.FileDiff, embedder Embedder, threshold float64) (DedupResult, error) {
	if len(diffs) == 0 {
		return DedupResult{Groups: map[string][]string{}}, nil
	}

	// Embed all diff texts in one batch call. A single diff still needs its
	// embedding for the cache lookup downstream.
	texts := make([]string, len(diffs))
	for i, fd := range diffs {
		texts[i] = fd.Diff
	}
	embeddings, err := embedder.Embed(ctx, texts)
	if err != nil {
		return DedupResult{}, err
	}

	if len(diffs) == 1 {
		return DedupResult{
			Unique:     []types.FileDiff{diffs[0]},
			Groups:     map[string][]string{},
			Embeddings: [][]float32{embeddings[0]},
		}, nil
	}

	assigned := make(map[int]bool, len(diffs))
	result := DedupResult{Groups: map[string][]string{}}

	for i := range diffs {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		result.Unique = append(result.Unique, diffs[i])
		result.Embeddings = append(result.Embeddings, embeddings[i])

		var duplicates []string
		for j := i + 1; j < len(diffs); j++ {
			if assigned[j] {
				continue
			}
			if CosineSimilarity(embeddings[i], embeddings[j]) >= threshold {
				assigned[j] = true
				duplicates = append(duplicates, diffs[j].Path)
			}
		}
		if len(duplicates) > 0 {
			result.Groups[diffs[i].Path] = duplicates
		}
	}

	slog.Debug("dedup complete",
		"total", len(diffs),
		"unique", len(result.Unique),
		"groups", len(result.Groups))

	return result, nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Zero-length or zero-norm vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
