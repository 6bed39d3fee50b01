package embed

import (
	"fmt"

	"github.com/mallardhq/mallard/internal/scan"
)

// New creates an embedder by provider name. The instance is constructed once
// at startup and handed to the pipeline; there is no lazy process-global
// model state.
func New(provider, model string) (scan.Embedder, error) {
	switch provider {
	case "openai":
		return NewOpenAI(model)
	case "ollama":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}
