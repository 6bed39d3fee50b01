// Package providers implements the LLM backend transports.
//
// Every backend satisfies the Client interface: one completion call taking
// system and user prompts and returning raw text. The copilot agent mode
// uses the GitHub Models API with a token detected from GITHUB_TOKEN or the
// gh CLI; manual mode selects OpenAI, Anthropic, Gemini, or a local Ollama
// server by name. All transports share retry-with-backoff on rate limits
// and transient server errors, and typed auth errors that are never
// retried.
package providers
