package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mallardhq/mallard/internal/providers"
	"github.com/mallardhq/mallard/internal/types"
)

// fakeClient records the request and returns a canned response.
type fakeClient struct {
	lastReq  providers.Request
	response string
	err      error
	calls    int
}

func (f *fakeClient) Complete(ctx context.Context, req providers.Request) (providers.Response, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return providers.Response{}, f.err
	}
	return providers.Response{Content: f.response}, nil
}

func (f *fakeClient) Label() string { return "fake" }

func TestAdapterReview(t *testing.T) {
	client := &fakeClient{
		response: `[{"file":"a.go","severity":"warning","category":"codeQuality","message":"m"}]`,
	}
	a := NewAdapter(client, []types.Category{types.CategoryCodeQuality}, false)

	issues, err := a.Review(context.Background(), []types.FileDiff{{Path: "a.go", Diff: "+x"}})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if len(issues) != 1 || issues[0].File != "a.go" {
		t.Errorf("issues = %v", issues)
	}
	if client.lastReq.MaxTokens != reviewMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", client.lastReq.MaxTokens, reviewMaxTokens)
	}
	if !strings.Contains(client.lastReq.UserPrompt, "=== a.go ===") {
		t.Error("user prompt missing diff block")
	}
}

func TestAdapterEmptyBatch(t *testing.T) {
	client := &fakeClient{}
	a := NewAdapter(client, nil, false)

	issues, err := a.Review(context.Background(), nil)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if issues != nil {
		t.Errorf("issues = %v, want nil", issues)
	}
	if client.calls != 0 {
		t.Errorf("backend called %d times for an empty batch", client.calls)
	}
}

func TestAdapterTransportError(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	a := NewAdapter(client, nil, false)

	_, err := a.Review(context.Background(), []types.FileDiff{{Path: "a.go", Diff: "+x"}})
	if err == nil {
		t.Fatal("expected transport error to surface")
	}
}

func TestAdapterMalformedResponseIsNotAnError(t *testing.T) {
	client := &fakeClient{response: "sorry, I can't help with that"}
	a := NewAdapter(client, nil, false)

	issues, err := a.Review(context.Background(), []types.FileDiff{{Path: "a.go", Diff: "+x"}})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}

func TestAdapterRedactsSecrets(t *testing.T) {
	client := &fakeClient{response: "[]"}
	a := NewAdapter(client, nil, true)

	diff := `+api_key = "sk1234567890abcdefghijklmnop"`
	_, err := a.Review(context.Background(), []types.FileDiff{{Path: "config.py", Diff: diff}})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if strings.Contains(client.lastReq.UserPrompt, "sk1234567890") {
		t.Error("secret leaked into the prompt")
	}
	if !strings.Contains(client.lastReq.UserPrompt, "[REDACTED]") {
		t.Error("prompt missing redaction placeholder")
	}
}

func TestAdapterRedactionDoesNotMutateInput(t *testing.T) {
	client := &fakeClient{response: "[]"}
	a := NewAdapter(client, nil, true)

	diff := `+password = "hunter2hunter2"`
	batch := []types.FileDiff{{Path: "a.go", Diff: diff}}
	if _, err := a.Review(context.Background(), batch); err != nil {
		t.Fatalf("Review: %v", err)
	}
	if batch[0].Diff != diff {
		t.Error("Review mutated the caller's batch")
	}
}
