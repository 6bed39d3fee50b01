// Package scan implements the review pipeline core: filtering unreviewable
// files, risk-based prioritization, similarity-based deduplication,
// embedding-cache lookup, token-aware batching, and bounded-concurrency
// dispatch with result fan-in and duplicate fan-out.
//
// The pipeline consumes its collaborators through narrow interfaces
// (Embedder, Cache, Reviewer) so the LLM backend, embedding model, and
// persistent store stay swappable and testable.
package scan
