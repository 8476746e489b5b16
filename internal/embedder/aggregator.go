package embedder

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/talentsift/assessrec/internal/chunker"
	"github.com/talentsift/assessrec/internal/vectorops"
)

// DefaultChunkWorkers bounds concurrent per-chunk provider calls.
const DefaultChunkWorkers = 4

// Aggregator produces one fixed-dimension vector for arbitrary-length text.
// Short texts are embedded in a single provider call; longer texts are
// split into overlapping chunks, embedded concurrently, and merged into a
// single normalized vector.
type Aggregator struct {
	embedder  Embedder
	maxDirect int
	chunkSize int
	overlap   int
	workers   int
	logger    *slog.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithChunking overrides the direct-embed threshold, chunk size, and
// overlap. Values <= 0 keep the defaults.
func WithChunking(maxDirect, chunkSize, overlap int) AggregatorOption {
	return func(a *Aggregator) {
		if maxDirect > 0 {
			a.maxDirect = maxDirect
		}
		if chunkSize > 0 {
			a.chunkSize = chunkSize
		}
		if overlap > 0 {
			a.overlap = overlap
		}
	}
}

// WithChunkWorkers bounds the concurrent chunk embedding calls.
func WithChunkWorkers(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAggregator creates an Aggregator around the given embedder.
func NewAggregator(emb Embedder, opts ...AggregatorOption) (*Aggregator, error) {
	if emb == nil {
		return nil, fmt.Errorf("%w: no embedder provided", ErrProviderUnavailable)
	}

	a := &Aggregator{
		embedder:  emb,
		maxDirect: chunker.MaxDirectChars,
		chunkSize: chunker.DefaultChunkSize,
		overlap:   chunker.DefaultOverlap,
		workers:   DefaultChunkWorkers,
		logger:    slog.Default().With("component", "aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// QueryVector embeds text of any length into a single vector. Whitespace is
// collapsed first. Texts within the direct threshold produce exactly one
// provider call and the provider's vector is returned unmodified; longer
// texts are chunked, embedded with bounded concurrency, reassembled in
// chunk order, averaged element-wise, and L2-renormalized.
//
// A provider returning no vector for non-empty text is reported as
// ErrEmptyEmbedding. Any chunk call failure fails the whole aggregation.
func (a *Aggregator) QueryVector(ctx context.Context, text string) ([]float32, error) {
	text = chunker.NormalizeText(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInvalidInput)
	}

	if len([]rune(text)) <= a.maxDirect {
		return a.embedOne(ctx, text)
	}

	chunks := chunker.SplitSize(text, a.chunkSize, a.overlap)
	a.logger.Info("embedding long text in chunks",
		"chars", len(text), "chunks", len(chunks))

	vectors := make([][]float32, len(chunks))

	// Fan out one provider call per chunk, bounded by a worker semaphore.
	// Each goroutine writes only its own slot, keeping chunk order intact
	// for the merge.
	g, gctx := errgroup.WithContext(ctx)
	semaphore := make(chan struct{}, a.workers)

	for i, chunk := range chunks {
		g.Go(func() error {
			select {
			case semaphore <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-semaphore }()

			vector, err := a.embedOne(gctx, chunk)
			if err != nil {
				return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
			}
			vectors[i] = vector
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := vectorops.Average(vectors)
	if len(merged) == 0 {
		return nil, fmt.Errorf("%w: averaged vector is empty", ErrEmptyEmbedding)
	}
	return merged, nil
}

// Dimension reports the underlying provider's embedding dimension.
func (a *Aggregator) Dimension() int {
	return a.embedder.Dimension()
}

// Provider reports the underlying provider name.
func (a *Aggregator) Provider() string {
	return a.embedder.Provider()
}

// Model reports the underlying model or deployment name.
func (a *Aggregator) Model() string {
	return a.embedder.Model()
}

func (a *Aggregator) embedOne(ctx context.Context, text string) ([]float32, error) {
	emb, err := a.embedder.GenerateEmbedding(ctx, EmbeddingRequest{Text: text})
	if err != nil {
		return nil, err
	}
	if emb == nil || len(emb.Vector) == 0 {
		return nil, fmt.Errorf("%w: %d chars of input", ErrEmptyEmbedding, len(text))
	}
	return emb.Vector, nil
}
