package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/mallardhq/mallard/internal/scan"
	"github.com/mallardhq/mallard/internal/types"
)

const dbFilename = "reviews.db"

var bucketName = []byte("reviews")

// entry is one persisted review result keyed by its diff embedding.
// Issues is kept as a serialized JSON payload so a corrupted value degrades
// to an empty issue list instead of poisoning the whole store.
type entry struct {
	ID        string    `json:"id"`
	FilePath  string    `json:"filePath"`
	Embedding []float32 `json:"embedding"`
	Issues    string    `json:"issues"`
	Timestamp int64     `json:"timestamp"`
}

// ReviewCache is a persistent cache of past review results indexed by diff
// embeddings. Lookups are nearest-neighbor with a similarity threshold, not
// exact-key. The store is append-only; callers control growth via Clear.
type ReviewCache struct {
	db   *bolt.DB
	path string
}

// Compile-time check that the cache satisfies the pipeline's contract.
var _ scan.Cache = (*ReviewCache)(nil)

// DefaultDir returns the default cache directory under the user's home.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".mallard", "cache"), nil
}

// Open opens (creating if needed) the review cache in dir. An empty dir
// selects the default location. Every mutation is persisted immediately;
// the store survives process restarts.
func Open(dir string) (*ReviewCache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	path := filepath.Join(dir, dbFilename)
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache bucket: %w", err)
	}
	return &ReviewCache{db: db, path: path}, nil
}

// Close releases the underlying store.
func (c *ReviewCache) Close() error {
	return c.db.Close()
}

// Query performs a k=1 nearest-neighbor lookup over all stored embeddings.
// It returns the stored issues only when similarity >= threshold, where
// similarity = 1 - cosine distance. An empty store always misses.
// Entries whose issue payload is unreadable yield an empty issue list
// rather than an error.
func (c *ReviewCache) Query(embedding []float32, threshold float64) ([]types.Issue, bool, error) {
	var best entry
	bestSim := -2.0
	found := false

	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(_, v []byte) error {
			var e entry
			if err := json.Unmarshal(v, &e); err != nil {
				// Unreadable entry: skip, never fail the query.
				return nil
			}
			sim := scan.CosineSimilarity(embedding, e.Embedding)
			if !found || sim > bestSim {
				best = e
				bestSim = sim
				found = true
			}
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}

	if !found || bestSim < threshold {
		return nil, false, nil
	}
	return deserializeIssues(best.Issues), true, nil
}

// Store appends a new entry pairing the embedding with its reviewed issues.
// Existing entries are never overwritten or merged.
func (c *ReviewCache) Store(embedding []float32, issues []types.Issue, filePath string) error {
	e := entry{
		ID:        fmt.Sprintf("%s_%s", filePath, uuid.NewString()),
		FilePath:  filePath,
		Embedding: embedding,
		Issues:    serializeIssues(issues),
		Timestamp: time.Now().Unix(),
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(e.ID), data)
	})
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}
	return nil
}

// Count returns the number of stored entries.
func (c *ReviewCache) Count() int {
	var n int
	_ = c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketName).Stats().KeyN
		return nil
	})
	return n
}

// Clear deletes all entries and returns how many were removed.
func (c *ReviewCache) Clear() (int, error) {
	count := c.Count()
	err := c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketName)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return count, nil
}

// Stats is a read-only diagnostic snapshot of the cache.
type Stats struct {
	Entries int    `json:"entries"`
	Path    string `json:"path"`
}

// GetStats returns cache statistics.
func (c *ReviewCache) GetStats() Stats {
	return Stats{Entries: c.Count(), Path: c.path}
}

func serializeIssues(issues []types.Issue) string {
	if issues == nil {
		issues = []types.Issue{}
	}
	data, err := json.Marshal(issues)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// deserializeIssues decodes a stored issue payload best-effort: a corrupt
// payload yields no issues, and individual items with unknown severity or
// category values are dropped.
func deserializeIssues(raw string) []types.Issue {
	var decoded []types.Issue
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil
	}
	issues := make([]types.Issue, 0, len(decoded))
	for _, i := range decoded {
		if !i.Severity.Valid() || !i.Category.Valid() {
			continue
		}
		issues = append(issues, i)
	}
	return issues
}
