package ranker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talentsift/assessrec/internal/keyword"
	"github.com/talentsift/assessrec/internal/vectorops"
	"github.com/talentsift/assessrec/pkg/types"
)

var (
	// ErrEmptyQuery indicates the query is empty after trimming
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrQueryTooLong indicates the query exceeds the maximum length
	ErrQueryTooLong = errors.New("query exceeds maximum length")
	// ErrEmptyEmbedding indicates the provider returned no usable query vector
	ErrEmptyEmbedding = errors.New("query embedding is empty")
)

const (
	// MaxQueryChars bounds query length in characters
	MaxQueryChars = 50000

	// DefaultTopK is the result count when the request leaves it unset
	DefaultTopK = 10

	// DefaultSemanticWeight and DefaultKeywordWeight blend the two scores
	DefaultSemanticWeight = 0.6
	DefaultKeywordWeight  = 0.4

	// scanWorkers shards the catalog scan
	scanWorkers = 4
)

// Mode selects the scoring strategy
type Mode int

const (
	// ModeHybrid blends semantic and keyword scores
	ModeHybrid Mode = iota
	// ModeVector ranks by semantic similarity alone, with an optional
	// minimum-similarity cutoff
	ModeVector
)

// QueryEmbedder produces a single vector for a query string
type QueryEmbedder interface {
	QueryVector(ctx context.Context, text string) ([]float32, error)
}

// CatalogSource supplies the embedded catalog to rank against
type CatalogSource interface {
	AllItemsWithEmbeddings(ctx context.Context) ([]types.CatalogItem, error)
}

// Request describes one ranking invocation
type Request struct {
	Query          string
	TopK           int
	Mode           Mode
	SemanticWeight float64
	KeywordWeight  float64
	MinSimilarity  float64
}

// Response carries ranked results plus scan statistics
type Response struct {
	Results     []types.ScoredItem
	TotalScored int
	Skipped     int
	Duration    time.Duration
}

// Ranker runs the hybrid scoring pipeline
type Ranker struct {
	embedder QueryEmbedder
	source   CatalogSource
	logger   *slog.Logger
}

// Option configures a Ranker
type Option func(*Ranker)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Ranker over the given embedder and catalog source
func New(embedder QueryEmbedder, source CatalogSource, opts ...Option) (*Ranker, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if source == nil {
		return nil, errors.New("catalog source is required")
	}

	r := &Ranker{
		embedder: embedder,
		source:   source,
		logger:   slog.Default().With("component", "ranker"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Rank scores the catalog against the request query and returns the top
// results. The query is validated before any provider call is made.
func (r *Ranker) Rank(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if len([]rune(query)) > MaxQueryChars {
		return nil, fmt.Errorf("%w: %d characters", ErrQueryTooLong, len([]rune(query)))
	}

	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	semWeight := req.SemanticWeight
	keyWeight := req.KeywordWeight
	if semWeight == 0 && keyWeight == 0 {
		semWeight = DefaultSemanticWeight
		keyWeight = DefaultKeywordWeight
	}

	queryVector, err := r.embedder.QueryVector(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryVector) == 0 {
		return nil, ErrEmptyEmbedding
	}

	items, err := r.source.AllItemsWithEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	queryTokens := keyword.Tokenize(query)

	// The scan is embarrassingly parallel: each item's score is independent,
	// so shard it across workers writing per-index slots. Slot order follows
	// catalog order, which keeps the later stable sort deterministic.
	slots := make([]*types.ScoredItem, len(items))
	var skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	shard := (len(items) + scanWorkers - 1) / scanWorkers
	for lo := 0; lo < len(items); lo += shard {
		hi := min(lo+shard, len(items))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				item := &items[i]

				similarity, err := vectorops.CosineSimilarity(queryVector, item.Embedding)
				if err != nil {
					r.logger.Warn("skipping item with incompatible embedding",
						"id", item.ID, "name", item.Name, "error", err)
					skipped.Add(1)
					continue
				}

				semantic := (similarity + 1) / 2

				var combined, keyScore float64
				switch req.Mode {
				case ModeVector:
					if similarity < req.MinSimilarity {
						continue
					}
					combined = round6(semantic)
				default:
					keyScore = keyword.Score(queryTokens, item)
					combined = round6(semWeight*semantic + keyWeight*keyScore)
				}

				slots[i] = &types.ScoredItem{
					Item:          *item,
					SemanticScore: round6(similarity),
					KeywordScore:  round6(keyScore),
					CombinedScore: combined,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scored := make([]types.ScoredItem, 0, len(items))
	for _, slot := range slots {
		if slot != nil {
			scored = append(scored, *slot)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CombinedScore > scored[j].CombinedScore
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	resp := &Response{
		Results:     scored,
		TotalScored: len(items) - int(skipped.Load()),
		Skipped:     int(skipped.Load()),
		Duration:    time.Since(start),
	}

	r.logger.Debug("ranking complete",
		"results", len(resp.Results),
		"scored", resp.TotalScored,
		"skipped", resp.Skipped,
		"duration_ms", resp.Duration.Milliseconds())

	return resp, nil
}

// round6 rounds to six decimal places
func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
