package storage

import (
	"context"
	"errors"

	"github.com/talentsift/assessrec/pkg/types"
)

var (
	// ErrNotFound is returned when a requested item doesn't exist
	ErrNotFound = errors.New("not found")
)

// Store defines the catalog persistence interface. The ranking pipeline
// only reads from it; the ingest pipeline owns the write path.
type Store interface {
	// AllItemsWithEmbeddings returns every catalog item whose stored
	// embedding is present and parseable. Malformed embedding payloads
	// are silently excluded here, not surfaced as ranking errors. The
	// returned slice is a consistent snapshot for one ranking call.
	AllItemsWithEmbeddings(ctx context.Context) ([]types.CatalogItem, error)

	// ListItemsWithoutEmbeddings returns items awaiting embedding backfill.
	ListItemsWithoutEmbeddings(ctx context.Context) ([]types.CatalogItem, error)

	// UpsertItem inserts or updates a catalog item keyed by URL. The
	// item's ID is populated on return.
	UpsertItem(ctx context.Context, item *types.CatalogItem) error

	// SetEmbedding stores the embedding vector for an item.
	SetEmbedding(ctx context.Context, itemID int64, vector []float32) error

	// GetItem fetches one item by ID, including its embedding if parseable.
	GetItem(ctx context.Context, itemID int64) (*types.CatalogItem, error)

	// Status reports catalog statistics.
	Status(ctx context.Context) (*CatalogStatus, error)

	// Close releases the underlying database handle.
	Close() error
}

// CatalogStatus contains statistics about the stored catalog
type CatalogStatus struct {
	TotalItems    int
	EmbeddedItems int
}
