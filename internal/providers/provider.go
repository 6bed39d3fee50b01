package providers

import (
	"context"
	"fmt"
)

// Request contains the prompts sent to an LLM.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Response contains the raw response from an LLM.
type Response struct {
	Content    string
	TokensUsed int
}

// Client is the LLM backend abstraction: one completion call, raw text out.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Label() string
}

// defaultModels maps each manual-mode provider to its default model.
var defaultModels = map[string]string{
	"openai":    "gpt-4o",
	"anthropic": "claude-sonnet-4-20250514",
	"gemini":    "gemini-2.0-flash",
	"ollama":    "llama3",
}

// New constructs the concrete backend for the given agent mode. Mode
// "copilot" uses the GitHub Models API with a gh CLI token; mode "manual"
// selects a provider by name. Configuration problems (no provider in manual
// mode, missing credentials) fail here, before any pipeline work begins.
func New(agent, provider, model, apiKey string) (Client, error) {
	switch agent {
	case "copilot":
		return NewCopilot(model)
	case "manual":
		if provider == "" {
			return nil, fmt.Errorf("manual mode requires a provider; run `mallard setup`")
		}
		if model == "" {
			model = defaultModels[provider]
		}
		switch provider {
		case "openai":
			return NewOpenAI(model, apiKey)
		case "anthropic":
			return NewAnthropic(model, apiKey)
		case "gemini":
			return NewGemini(model, apiKey)
		case "ollama":
			return NewOllama(model)
		default:
			return nil, fmt.Errorf("unknown provider: %s", provider)
		}
	default:
		return nil, fmt.Errorf("unknown agent mode: %s", agent)
	}
}
