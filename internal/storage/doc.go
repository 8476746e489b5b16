// Package storage persists the assessment product catalog in SQLite and
// serves read-only snapshots of it to the ranking pipeline.
//
// The ranker consumes one method: AllItemsWithEmbeddings, which returns
// every product whose stored embedding parses. Embeddings are stored as
// JSON float arrays in the products table; malformed payloads are excluded
// at this boundary and never surface as ranking errors. The write path
// (UpsertItem, SetEmbedding) exists for the ingest pipeline only.
//
// # Build Modes
//
// Two SQLite drivers are supported via build tags:
//
//   - default: github.com/mattn/go-sqlite3 (CGO, fastest)
//   - purego:  modernc.org/sqlite (no C compiler required)
//
// Build with CGO_ENABLED=0 go build -tags purego ./... for the pure Go
// driver.
//
// Schema changes go through versioned migrations (see migrations.go); the
// runner applies pending migrations on open and records them in
// schema_version.
package storage
