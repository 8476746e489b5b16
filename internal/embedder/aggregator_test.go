package embedder_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/talentsift/assessrec/internal/embedder"
)

// recordingEmbedder is a test double that returns a fixed vector and records
// every text it was asked to embed.
type recordingEmbedder struct {
	mu     sync.Mutex
	texts  []string
	vector []float32
	err    error
	failOn string // substring; requests containing it fail
}

func (r *recordingEmbedder) GenerateEmbedding(ctx context.Context, req embedder.EmbeddingRequest) (*embedder.Embedding, error) {
	r.mu.Lock()
	r.texts = append(r.texts, req.Text)
	r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	if r.failOn != "" && strings.Contains(req.Text, r.failOn) {
		return nil, fmt.Errorf("%w: injected failure", embedder.ErrProviderFailed)
	}

	vector := make([]float32, len(r.vector))
	copy(vector, r.vector)
	return &embedder.Embedding{
		Vector:    vector,
		Dimension: len(vector),
		Provider:  "test",
		Model:     "test-model",
	}, nil
}

func (r *recordingEmbedder) GenerateBatch(ctx context.Context, req embedder.BatchEmbeddingRequest) (*embedder.BatchEmbeddingResponse, error) {
	embeddings := make([]*embedder.Embedding, 0, len(req.Texts))
	for _, text := range req.Texts {
		emb, err := r.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: text})
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, emb)
	}
	return &embedder.BatchEmbeddingResponse{Embeddings: embeddings, Provider: "test", Model: "test-model"}, nil
}

func (r *recordingEmbedder) Dimension() int   { return len(r.vector) }
func (r *recordingEmbedder) Provider() string { return "test" }
func (r *recordingEmbedder) Model() string    { return "test-model" }
func (r *recordingEmbedder) Close() error     { return nil }

func (r *recordingEmbedder) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.texts)
}

func TestNewAggregator_NilEmbedder(t *testing.T) {
	_, err := embedder.NewAggregator(nil)
	if !errors.Is(err, embedder.ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
}

func TestAggregator_EmptyText(t *testing.T) {
	mock := &recordingEmbedder{vector: []float32{1, 0}}
	agg, err := embedder.NewAggregator(mock)
	if err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := agg.QueryVector(context.Background(), text)
		if !errors.Is(err, embedder.ErrInvalidInput) {
			t.Errorf("QueryVector(%q) error = %v, want ErrInvalidInput", text, err)
		}
	}
	if mock.callCount() != 0 {
		t.Errorf("provider called %d times for empty input, want 0", mock.callCount())
	}
}

func TestAggregator_ShortTextSingleCall(t *testing.T) {
	mock := &recordingEmbedder{vector: []float32{3, 4}}
	agg, err := embedder.NewAggregator(mock)
	if err != nil {
		t.Fatal(err)
	}

	vector, err := agg.QueryVector(context.Background(), "short query text")
	if err != nil {
		t.Fatal(err)
	}

	if mock.callCount() != 1 {
		t.Errorf("provider called %d times, want 1", mock.callCount())
	}
	// Direct path returns the provider's vector unmodified, no renormalization
	if vector[0] != 3 || vector[1] != 4 {
		t.Errorf("vector = %v, want [3 4] verbatim", vector)
	}
}

func TestAggregator_NormalizesWhitespaceBeforeEmbedding(t *testing.T) {
	mock := &recordingEmbedder{vector: []float32{1, 0}}
	agg, err := embedder.NewAggregator(mock)
	if err != nil {
		t.Fatal(err)
	}

	_, err = agg.QueryVector(context.Background(), "  hello \n\n world  ")
	if err != nil {
		t.Fatal(err)
	}

	if mock.texts[0] != "hello world" {
		t.Errorf("provider saw %q, want normalized text", mock.texts[0])
	}
}

func TestAggregator_LongTextChunksAndMerges(t *testing.T) {
	mock := &recordingEmbedder{vector: []float32{3, 4}}
	agg, err := embedder.NewAggregator(mock,
		embedder.WithChunking(50, 40, 5),
		embedder.WithChunkWorkers(2),
	)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Repeat("alpha beta gamma. ", 20) // ~360 chars, over the 50 threshold
	vector, err := agg.QueryVector(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}

	if mock.callCount() < 2 {
		t.Errorf("provider called %d times, want one call per chunk", mock.callCount())
	}

	// All chunks embed to [3 4]; the mean is [3 4], renormalized to [0.6 0.8]
	if math.Abs(float64(vector[0])-0.6) > 1e-6 || math.Abs(float64(vector[1])-0.8) > 1e-6 {
		t.Errorf("merged vector = %v, want [0.6 0.8]", vector)
	}
}

func TestAggregator_ChunkFailureFailsWhole(t *testing.T) {
	mock := &recordingEmbedder{vector: []float32{1, 0}, failOn: "poison"}
	agg, err := embedder.NewAggregator(mock, embedder.WithChunking(50, 40, 5))
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Repeat("filler words here. ", 10) + "poison pill. " + strings.Repeat("more filler. ", 10)
	_, err = agg.QueryVector(context.Background(), text)
	if !errors.Is(err, embedder.ErrProviderFailed) {
		t.Errorf("error = %v, want wrapped ErrProviderFailed", err)
	}
}

func TestAggregator_EmptyProviderVector(t *testing.T) {
	mock := &recordingEmbedder{vector: []float32{}}
	agg, err := embedder.NewAggregator(mock)
	if err != nil {
		t.Fatal(err)
	}

	_, err = agg.QueryVector(context.Background(), "some text")
	if !errors.Is(err, embedder.ErrEmptyEmbedding) {
		t.Errorf("error = %v, want ErrEmptyEmbedding", err)
	}
}

func TestAggregator_Passthroughs(t *testing.T) {
	mock := &recordingEmbedder{vector: []float32{1, 2, 3}}
	agg, err := embedder.NewAggregator(mock)
	if err != nil {
		t.Fatal(err)
	}

	if agg.Dimension() != 3 {
		t.Errorf("Dimension() = %d, want 3", agg.Dimension())
	}
	if agg.Provider() != "test" || agg.Model() != "test-model" {
		t.Errorf("Provider/Model = %q/%q, want test/test-model", agg.Provider(), agg.Model())
	}
}
