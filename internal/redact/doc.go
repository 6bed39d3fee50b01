// Package redact scrubs secrets from diff content before it is sent to any
// LLM backend. Detection uses regex heuristics covering common secret
// shapes: API keys, JWTs, private key blocks, AWS credentials, bearer
// tokens, and provider-specific token formats.
package redact
