package review

import (
	"context"
	"log/slog"

	"github.com/mallardhq/mallard/internal/providers"
	"github.com/mallardhq/mallard/internal/redact"
	"github.com/mallardhq/mallard/internal/types"
)

const (
	reviewMaxTokens   = 8192
	reviewTemperature = 0.1
)

// Adapter turns an LLM backend into the pipeline's review capability:
// it builds the prompts for a batch of diffs, calls the backend, and
// parses the free-form response into issues.
type Adapter struct {
	client        providers.Client
	categories    []types.Category
	redactSecrets bool
}

// NewAdapter wraps an LLM backend. Only the given check categories are
// requested in the system instruction. When redactSecrets is set, diff
// content is scrubbed before leaving the process.
func NewAdapter(client providers.Client, categories []types.Category, redactSecrets bool) *Adapter {
	return &Adapter{
		client:        client,
		categories:    categories,
		redactSecrets: redactSecrets,
	}
}

// Label reports the human-readable backend name for CLI output.
func (a *Adapter) Label() string {
	return a.client.Label()
}

// Review reviews a batch of file diffs and returns the issues found.
// A malformed response degrades to an empty issue list; only transport
// failures surface as errors.
func (a *Adapter) Review(ctx context.Context, batch []types.FileDiff) ([]types.Issue, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	diffs := batch
	if a.redactSecrets {
		diffs = make([]types.FileDiff, len(batch))
		for i, fd := range batch {
			fd.Diff = redact.Secrets(fd.Diff)
			diffs[i] = fd
		}
	}

	slog.Debug("calling llm", "backend", a.client.Label(), "files", len(diffs))
	resp, err := a.client.Complete(ctx, providers.Request{
		SystemPrompt: BuildSystemPrompt(a.categories),
		UserPrompt:   BuildUserPrompt(diffs),
		MaxTokens:    reviewMaxTokens,
		Temperature:  reviewTemperature,
	})
	if err != nil {
		return nil, err
	}

	return ParseIssues(resp.Content), nil
}
