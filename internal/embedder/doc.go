// Package embedder generates vector embeddings via remote providers and
// aggregates them into query vectors.
//
// The Embedder interface abstracts one concern: get a vector for a text.
// Providers are constructor-injected everywhere they are consumed, so tests
// substitute deterministic mocks; there is no process-wide client.
//
// # Providers
//
//   - Azure OpenAI: deployment-scoped endpoints, the production provider.
//   - OpenAI: plain api.openai.com endpoint.
//   - Local: deterministic hash-based vectors for offline use and tests.
//
// Remote providers retry transient failures with exponential backoff and
// cache results in an LRU keyed by content hash.
//
// # Error conditions
//
// The error taxonomy distinguishes operator mistakes from flaky networks:
// ErrModelNotConfigured (missing deployment/model id) and
// ErrProviderUnavailable (client could not be constructed) are
// configuration faults, ErrProviderFailed covers transient call failures
// after retries, and ErrEmptyEmbedding marks a provider that returned no
// vector for non-empty text.
//
// # Aggregation
//
// Aggregator turns arbitrary-length text into one fixed-dimension vector:
// short texts embed directly; long texts are chunked, embedded with a
// bounded concurrent fan-out, reassembled in chunk order, averaged
// element-wise, and L2-renormalized. Any chunk failure fails the whole
// aggregation; there is no partial-result fallback.
package embedder
