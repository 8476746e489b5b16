package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/talentsift/assessrec/internal/embedder"
	"github.com/talentsift/assessrec/internal/ingest"
	"github.com/talentsift/assessrec/internal/storage"
	"github.com/talentsift/assessrec/pkg/types"
)

// catalogEntry is the JSON import shape for one assessment product
type catalogEntry struct {
	Name             string `json:"name"`
	URL              string `json:"url"`
	RemoteTesting    *bool  `json:"remote_testing"`
	AdaptiveIRT      *bool  `json:"adaptive_irt"`
	TestType         string `json:"test_type"`
	Description      string `json:"description"`
	JobLevels        string `json:"job_levels"`
	Languages        string `json:"languages"`
	AssessmentLength string `json:"assessment_length"`
}

func main() {
	dbPath := flag.String("db", os.Getenv("ASSESSREC_DB_PATH"), "path to the catalog database")
	catalogPath := flag.String("catalog", "", "optional JSON catalog file to import before embedding")
	workers := flag.Int("workers", ingest.DefaultPoolSize, "number of concurrent embedding workers")
	flag.Parse()

	log.SetOutput(os.Stderr)

	if *dbPath == "" {
		log.Fatal("database path required: set -db or ASSESSREC_DB_PATH")
	}

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open catalog store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, stopping...", sig)
		cancel()
	}()

	if *catalogPath != "" {
		imported, err := importCatalog(ctx, store, *catalogPath)
		if err != nil {
			log.Fatalf("Failed to import catalog: %v", err)
		}
		log.Printf("Imported %d catalog items from %s", imported, *catalogPath)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize embedder: %v", err)
	}
	defer func() { _ = emb.Close() }()
	log.Printf("Embedding provider: %s (%s)", emb.Provider(), emb.Model())

	agg, err := embedder.NewAggregator(emb)
	if err != nil {
		log.Fatalf("Failed to initialize aggregator: %v", err)
	}

	pipeline, err := ingest.New(store, agg, ingest.WithPoolSize(*workers))
	if err != nil {
		log.Fatalf("Failed to create pipeline: %v", err)
	}

	stats, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("Backfill failed: %v", err)
	}

	fmt.Printf("Embedded %d items (%d failed)\n", stats.Processed, stats.Failed)
	if stats.Failed > 0 {
		os.Exit(1)
	}
}

// importCatalog loads a JSON catalog file and upserts every entry
func importCatalog(ctx context.Context, store storage.Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	imported := 0
	for i := range entries {
		e := &entries[i]
		if e.Name == "" || e.URL == "" {
			log.Printf("Skipping entry %d: name and url are required", i)
			continue
		}

		item := types.CatalogItem{
			Name:            e.Name,
			URL:             e.URL,
			RemoteTesting:   e.RemoteTesting,
			AdaptiveSupport: e.AdaptiveIRT,
			TestTypeCodes:   e.TestType,
			Description:     e.Description,
			JobLevels:       e.JobLevels,
			Languages:       e.Languages,
			DurationText:    e.AssessmentLength,
		}
		if err := store.UpsertItem(ctx, &item); err != nil {
			return imported, fmt.Errorf("failed to upsert %q: %w", e.Name, err)
		}
		imported++
	}

	return imported, nil
}
