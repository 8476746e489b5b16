package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/talentsift/assessrec/pkg/types"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a new SQLite catalog store, applying any pending
// migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: slog.Default().With("component", "storage"),
	}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const itemColumns = `id, name, url, remote_testing, adaptive_irt,
	test_type, description, job_levels, languages, assessment_length, embedding`

// AllItemsWithEmbeddings returns every product whose embedding column is
// non-empty and parses as a JSON float array. Rows with malformed payloads
// are logged and excluded, never surfaced as errors.
func (s *SQLiteStore) AllItemsWithEmbeddings(ctx context.Context) ([]types.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM products
		WHERE embedding IS NOT NULL AND embedding != ''
		ORDER BY id`, itemColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]types.CatalogItem, 0, 256)
	for rows.Next() {
		item, raw, err := scanItem(rows)
		if err != nil {
			return nil, err
		}

		vector, ok := parseEmbedding(raw)
		if !ok {
			s.logger.Warn("skipping product with malformed embedding", "id", item.ID, "name", item.Name)
			continue
		}
		item.Embedding = vector
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListItemsWithoutEmbeddings returns items awaiting embedding backfill.
func (s *SQLiteStore) ListItemsWithoutEmbeddings(ctx context.Context) ([]types.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM products
		WHERE embedding IS NULL OR embedding = ''
		ORDER BY id`, itemColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]types.CatalogItem, 0, 64)
	for rows.Next() {
		item, _, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpsertItem inserts or updates a catalog item keyed by URL
func (s *SQLiteStore) UpsertItem(ctx context.Context, item *types.CatalogItem) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, url, remote_testing, adaptive_irt,
			test_type, description, job_levels, languages, assessment_length)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			name = excluded.name,
			remote_testing = excluded.remote_testing,
			adaptive_irt = excluded.adaptive_irt,
			test_type = excluded.test_type,
			description = excluded.description,
			job_levels = excluded.job_levels,
			languages = excluded.languages,
			assessment_length = excluded.assessment_length,
			updated_at = CURRENT_TIMESTAMP`,
		item.Name, item.URL, boolToNull(item.RemoteTesting), boolToNull(item.AdaptiveSupport),
		item.TestTypeCodes, item.Description, item.JobLevels, item.Languages, item.DurationText)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil && id > 0 {
		item.ID = id
	}
	if item.ID == 0 {
		// Updated row; LastInsertId is unreliable, look it up by key
		err = s.db.QueryRowContext(ctx, "SELECT id FROM products WHERE url = ?", item.URL).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to resolve product id: %w", err)
		}
	}

	return nil
}

// SetEmbedding stores the JSON-encoded embedding vector for an item
func (s *SQLiteStore) SetEmbedding(ctx context.Context, itemID int64, vector []float32) error {
	payload, err := marshalEmbedding(vector)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}
	return s.SetRawEmbedding(ctx, itemID, payload)
}

// SetRawEmbedding stores a pre-encoded embedding payload verbatim, for
// catalog imports that already carry embedding JSON. The payload is not
// validated here; malformed payloads are skipped at read time.
func (s *SQLiteStore) SetRawEmbedding(ctx context.Context, itemID int64, payload string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE products SET embedding = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		payload, itemID)
	if err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("product %d: %w", itemID, ErrNotFound)
	}

	return nil
}

// GetItem fetches one item by ID
func (s *SQLiteStore) GetItem(ctx context.Context, itemID int64) (*types.CatalogItem, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = ?", itemColumns)
	row := s.db.QueryRowContext(ctx, query, itemID)

	item, raw, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if vector, ok := parseEmbedding(raw); ok {
		item.Embedding = vector
	}
	return &item, nil
}

// Status reports catalog statistics
func (s *SQLiteStore) Status(ctx context.Context) (*CatalogStatus, error) {
	status := &CatalogStatus{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&status.TotalItems)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE embedding IS NOT NULL AND embedding != ''").
		Scan(&status.EmbeddedItems)
	if err != nil {
		return nil, fmt.Errorf("failed to count embedded products: %w", err)
	}

	return status, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanItem reads one product row, returning the raw embedding payload for
// the caller to parse.
func scanItem(row scanner) (types.CatalogItem, string, error) {
	var item types.CatalogItem
	var url, testType, description, jobLevels, languages, duration, embedding sql.NullString
	var remote, adaptive sql.NullBool

	err := row.Scan(&item.ID, &item.Name, &url, &remote, &adaptive,
		&testType, &description, &jobLevels, &languages, &duration, &embedding)
	if err != nil {
		return item, "", err
	}

	item.URL = url.String
	item.TestTypeCodes = testType.String
	item.Description = description.String
	item.JobLevels = jobLevels.String
	item.Languages = languages.String
	item.DurationText = duration.String
	if remote.Valid {
		v := remote.Bool
		item.RemoteTesting = &v
	}
	if adaptive.Valid {
		v := adaptive.Bool
		item.AdaptiveSupport = &v
	}

	return item, embedding.String, nil
}

// parseEmbedding decodes a JSON float array. Reports ok=false for empty or
// malformed payloads.
func parseEmbedding(raw string) ([]float32, bool) {
	if raw == "" {
		return nil, false
	}

	var vector []float32
	if err := json.Unmarshal([]byte(raw), &vector); err != nil {
		return nil, false
	}
	if len(vector) == 0 {
		return nil, false
	}
	return vector, true
}

// marshalEmbedding encodes a vector as a JSON float array
func marshalEmbedding(vector []float32) (string, error) {
	payload, err := json.Marshal(vector)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func boolToNull(b *bool) interface{} {
	if b == nil {
		return nil
	}
	return *b
}
