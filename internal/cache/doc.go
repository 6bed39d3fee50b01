// Package cache provides the persistent embedding-indexed review cache.
//
// Each entry pairs a diff embedding with the serialized issues that review
// produced for it. Lookups are nearest-neighbor (k=1) over all stored
// vectors with a cosine-similarity threshold, so a near-identical diff seen
// in a later commit reuses the earlier result without an exact key match.
//
// Entries live in a single bbolt bucket under ~/.mallard/cache and are
// written through immediately, surviving process restarts. The store is
// append-only; `mallard cache clear` is the only way entries are removed.
package cache
