package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	githubModelsURL     = "https://models.inference.ai.azure.com/chat/completions"
	defaultCopilotModel = "gpt-4o"
)

// Copilot calls the GitHub Models API (OpenAI-compatible) using a gh CLI
// token or GITHUB_TOKEN.
type Copilot struct {
	token   string
	model   string
	baseURL string
	client  *http.Client
}

// NewCopilot creates a Copilot backend. Fails when no GitHub token can be
// detected, so misconfiguration surfaces before any pipeline work.
func NewCopilot(model string) (*Copilot, error) {
	status := DetectCopilot()
	if !status.Available {
		return nil, fmt.Errorf("copilot not available: %s; run `gh auth login` or set GITHUB_TOKEN", status.Reason)
	}
	if model == "" {
		model = defaultCopilotModel
	}
	return &Copilot{
		token:   status.Token,
		model:   model,
		baseURL: githubModelsURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (c *Copilot) Label() string { return "Copilot (" + c.model + ")" }

func (c *Copilot) Complete(ctx context.Context, req Request) (Response, error) {
	return completeOpenAIStyle(ctx, c.client, c.baseURL, c.token, c.model, req)
}
