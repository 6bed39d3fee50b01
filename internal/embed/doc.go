// Package embed provides text-embedding implementations behind the
// pipeline's Embedder contract: the OpenAI embeddings API and a local
// Ollama server. Vectors have a fixed dimensionality per model and are
// deterministic for identical input text.
package embed
