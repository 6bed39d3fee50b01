package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaEmbed(t *testing.T) {
	var gotReq ollamaEmbedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("path = %q, want /api/embed", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embeddings: [][]float32{{1, 0}, {0, 1}},
		})
	}))
	defer srv.Close()

	t.Setenv("OLLAMA_HOST", srv.URL)
	o, err := NewOllama("")
	if err != nil {
		t.Fatalf("NewOllama: %v", err)
	}

	vecs, err := o.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vecs))
	}
	if vecs[0][0] != 1 || vecs[1][1] != 1 {
		t.Errorf("vectors = %v", vecs)
	}
	if gotReq.Model != defaultOllamaModel {
		t.Errorf("model = %q, want %q", gotReq.Model, defaultOllamaModel)
	}
	if len(gotReq.Input) != 2 || gotReq.Input[0] != "first" {
		t.Errorf("input = %v", gotReq.Input)
	}
}

func TestOllamaEmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{{1}}})
	}))
	defer srv.Close()

	t.Setenv("OLLAMA_HOST", srv.URL)
	o, err := NewOllama("")
	if err != nil {
		t.Fatalf("NewOllama: %v", err)
	}

	_, err = o.Embed(context.Background(), []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error on vector count mismatch")
	}
}

func TestOllamaEmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	t.Setenv("OLLAMA_HOST", srv.URL)
	o, err := NewOllama("missing-model")
	if err != nil {
		t.Fatalf("NewOllama: %v", err)
	}

	_, err = o.Embed(context.Background(), []string{"a"})
	if err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestOllamaEmbedEmptyInput(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://localhost:1") // must never be contacted
	o, err := NewOllama("")
	if err != nil {
		t.Fatalf("NewOllama: %v", err)
	}
	vecs, err := o.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if vecs != nil {
		t.Errorf("vecs = %v, want nil", vecs)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New("sentence-transformers", ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
