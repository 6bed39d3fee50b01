package cache

import (
	"encoding/json"
	"testing"

	bolt "go.etcd.io/bbolt"

	"github.com/mallardhq/mallard/internal/types"
)

func openTestCache(t *testing.T) *ReviewCache {
	t.Helper()
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestQueryEmptyStore(t *testing.T) {
	c := openTestCache(t)

	issues, hit, err := c.Query([]float32{1, 0, 0}, 0.9)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if hit {
		t.Error("empty store should never hit")
	}
	if issues != nil {
		t.Errorf("issues = %v, want nil", issues)
	}
}

func TestStoreAndQuery(t *testing.T) {
	c := openTestCache(t)

	line := 42
	stored := []types.Issue{{
		File:       "auth.go",
		Line:       &line,
		Severity:   types.SeverityCritical,
		Category:   types.CategorySecurity,
		Message:    "hardcoded credential",
		Suggestion: "load from environment",
	}}

	if err := c.Store([]float32{1, 0, 0}, stored, "auth.go"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	issues, hit, err := c.Query([]float32{1, 0, 0}, 0.9)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !hit {
		t.Fatal("identical embedding should hit")
	}
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	got := issues[0]
	if got.File != "auth.go" || got.Severity != types.SeverityCritical || got.Message != "hardcoded credential" {
		t.Errorf("issue = %+v, want stored issue", got)
	}
	if got.Line == nil || *got.Line != 42 {
		t.Errorf("Line = %v, want 42", got.Line)
	}
}

func TestQueryBelowThresholdMisses(t *testing.T) {
	c := openTestCache(t)

	if err := c.Store([]float32{1, 0, 0}, nil, "a.go"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// Orthogonal vector: similarity 0
	_, hit, err := c.Query([]float32{0, 1, 0}, 0.9)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if hit {
		t.Error("orthogonal embedding should miss at threshold 0.9")
	}
}

func TestQueryNearestNeighbor(t *testing.T) {
	c := openTestCache(t)

	far := []types.Issue{{File: "far.go", Severity: types.SeverityInfo, Category: types.CategoryCodeSmell, Message: "far"}}
	near := []types.Issue{{File: "near.go", Severity: types.SeverityInfo, Category: types.CategoryCodeSmell, Message: "near"}}

	if err := c.Store([]float32{0, 1, 0}, far, "far.go"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := c.Store([]float32{1, 0, 0}, near, "near.go"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	issues, hit, err := c.Query([]float32{0.99, 0.1, 0}, 0.9)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !hit {
		t.Fatal("expected a hit")
	}
	if len(issues) != 1 || issues[0].Message != "near" {
		t.Errorf("got %v, want the nearest entry's issues", issues)
	}
}

func TestStoreAppendsNeverOverwrites(t *testing.T) {
	c := openTestCache(t)

	for i := 0; i < 3; i++ {
		if err := c.Store([]float32{1, 0, 0}, nil, "same.go"); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}
	if n := c.Count(); n != 3 {
		t.Errorf("Count() = %d, want 3 (append-only)", n)
	}
}

func TestClear(t *testing.T) {
	c := openTestCache(t)

	for i := 0; i < 2; i++ {
		if err := c.Store([]float32{1, 0, 0}, nil, "a.go"); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if c.Count() != 0 {
		t.Errorf("Count() after clear = %d, want 0", c.Count())
	}

	// Store must still work after a clear
	if err := c.Store([]float32{1, 0, 0}, nil, "b.go"); err != nil {
		t.Fatalf("Store after Clear: %v", err)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	stored := []types.Issue{{File: "a.go", Severity: types.SeverityWarning, Category: types.CategoryCodeQuality, Message: "persists"}}
	if err := c.Store([]float32{1, 0, 0}, stored, "a.go"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	c.Close()

	c2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()

	issues, hit, err := c2.Query([]float32{1, 0, 0}, 0.9)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !hit || len(issues) != 1 || issues[0].Message != "persists" {
		t.Errorf("got hit=%v issues=%v, want the persisted entry", hit, issues)
	}
}

func TestCorruptIssuePayloadDegradesToEmpty(t *testing.T) {
	c := openTestCache(t)

	e := entry{
		ID:        "bad_1",
		FilePath:  "bad.go",
		Embedding: []float32{1, 0, 0},
		Issues:    "{not json",
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(e.ID), data)
	})
	if err != nil {
		t.Fatalf("seeding entry: %v", err)
	}

	issues, hit, err := c.Query([]float32{1, 0, 0}, 0.9)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !hit {
		t.Fatal("entry itself is readable, should hit")
	}
	if len(issues) != 0 {
		t.Errorf("corrupt payload should yield no issues, got %v", issues)
	}
}

func TestDeserializeIssuesDropsInvalid(t *testing.T) {
	raw := `[
		{"file":"a.go","severity":"critical","category":"security","message":"keep"},
		{"file":"b.go","severity":"fatal","category":"security","message":"bad severity"},
		{"file":"c.go","severity":"info","category":"styleguide","message":"bad category"}
	]`
	issues := deserializeIssues(raw)
	if len(issues) != 1 || issues[0].Message != "keep" {
		t.Errorf("deserializeIssues = %v, want only the valid issue", issues)
	}
}

func TestGetStats(t *testing.T) {
	c := openTestCache(t)
	if err := c.Store([]float32{1}, nil, "a.go"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	stats := c.GetStats()
	if stats.Entries != 1 {
		t.Errorf("Entries = %d, want 1", stats.Entries)
	}
	if stats.Path == "" {
		t.Error("Path should be set")
	}
}
