package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/talentsift/assessrec/internal/storage"
	"github.com/talentsift/assessrec/pkg/types"
)

var (
	// ErrStoreRequired indicates no catalog store was supplied
	ErrStoreRequired = errors.New("catalog store is required")
	// ErrEmbedderRequired indicates no embedder was supplied
	ErrEmbedderRequired = errors.New("embedder is required")
)

// DefaultPoolSize is the worker count when none is configured
const DefaultPoolSize = 4

// DocEmbedder produces one vector per document
type DocEmbedder interface {
	QueryVector(ctx context.Context, text string) ([]float32, error)
}

// Stats summarizes one backfill run
type Stats struct {
	Processed int
	Failed    int
}

// Pipeline backfills embeddings for catalog items that lack one
type Pipeline struct {
	store    storage.Store
	embedder DocEmbedder
	poolSize int
	logger   *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithPoolSize sets the worker pool size
func WithPoolSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.poolSize = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a backfill pipeline
func New(store storage.Store, embedder DocEmbedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Pipeline{
		store:    store,
		embedder: embedder,
		poolSize: DefaultPoolSize,
		logger:   slog.Default().With("component", "ingest"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run embeds every item currently missing a vector. Individual item failures
// are logged and counted rather than aborting the run.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	items, err := p.store.ListItemsWithoutEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending items: %w", err)
	}
	if len(items) == 0 {
		return &Stats{}, nil
	}

	p.logger.Info("starting embedding backfill", "pending", len(items), "workers", p.poolSize)

	pool, err := ants.NewPool(p.poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var processed, failed atomic.Int64

	for i := range items {
		item := items[i]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := p.embedItem(ctx, &item); err != nil {
				p.logger.Warn("failed to embed item", "id", item.ID, "name", item.Name, "error", err)
				failed.Add(1)
				return
			}
			processed.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
		}
	}

	wg.Wait()

	stats := &Stats{
		Processed: int(processed.Load()),
		Failed:    int(failed.Load()),
	}
	p.logger.Info("embedding backfill complete", "processed", stats.Processed, "failed", stats.Failed)
	return stats, nil
}

// embedItem embeds one item's document and stores the vector
func (p *Pipeline) embedItem(ctx context.Context, item *types.CatalogItem) error {
	doc := BuildDocument(item)
	if doc == "" {
		return errors.New("item has no embeddable text")
	}

	vector, err := p.embedder.QueryVector(ctx, doc)
	if err != nil {
		return err
	}

	return p.store.SetEmbedding(ctx, item.ID, vector)
}

// BuildDocument assembles the text that represents an item for embedding
func BuildDocument(item *types.CatalogItem) string {
	var b strings.Builder

	if item.Name != "" {
		fmt.Fprintf(&b, "Product Name: %s\n", item.Name)
	}
	if item.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", item.Description)
	}
	if item.JobLevels != "" {
		fmt.Fprintf(&b, "Target Job Levels: %s\n", item.JobLevels)
	}
	if item.TestTypeCodes != "" {
		fmt.Fprintf(&b, "Test Types: %s\n", item.TestTypeCodes)
	}

	return strings.TrimSpace(b.String())
}
