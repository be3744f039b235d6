package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/lib/pq"              // registers the "postgres" driver
	_ "github.com/mattn/go-sqlite3"    // registers the "sqlite3" driver
)

// SQLStore is a database-backed document store
type SQLStore struct {
	db        *sql.DB
	tableName string
}

// SQLConfig holds database document store configuration
type SQLConfig struct {
	// Driver is the database/sql driver name: sqlite3, pgx or postgres
	Driver string

	// DSN is the driver specific data source name
	DSN string

	// TableName is the name of the documents table
	TableName string
}

// DefaultSQLConfig returns a configuration for an in-memory SQLite database
func DefaultSQLConfig() *SQLConfig {
	return &SQLConfig{
		Driver:    "sqlite3",
		DSN:       ":memory:",
		TableName: "documents",
	}
}

// OpenSQLStore opens the configured database and prepares the documents table
func OpenSQLStore(ctx context.Context, config *SQLConfig) (*SQLStore, error) {
	db, err := sql.Open(config.Driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", config.Driver, err)
	}
	if config.Driver == "sqlite3" {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	store, err := NewSQLStore(ctx, db, config.TableName)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStore creates a store on an open database
func NewSQLStore(ctx context.Context, db *sql.DB, tableName string) (*SQLStore, error) {
	store := &SQLStore{db: db, tableName: tableName}
	if err := store.createTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create %s table: %w", tableName, err)
	}
	return store, nil
}

func (s *SQLStore) createTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(512) PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	return err
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Get retrieves a document
func (s *SQLStore) Get(ctx context.Context, key string) (map[string]any, error) {
	return s.get(ctx, s.db, key)
}

func (s *SQLStore) get(ctx context.Context, q querier, key string) (map[string]any, error) {
	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, s.tableName)

	var data string
	err := q.QueryRowContext(ctx, query, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	return decode([]byte(data))
}

// Set replaces a document
func (s *SQLStore) Set(ctx context.Context, key string, doc map[string]any) error {
	return s.set(ctx, s.db, key, doc)
}

func (s *SQLStore) set(ctx context.Context, q querier, key string, doc map[string]any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`, s.tableName)

	if _, err := q.ExecContext(ctx, query, key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// Update merges changes into a document inside a transaction
func (s *SQLStore) Update(ctx context.Context, key string, changes map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	doc, err := s.get(ctx, tx, key)
	if err != nil && !IsNotFound(err) {
		return err
	}
	if err := s.set(ctx, tx, key, Merge(doc, changes)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a document
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("database delete error: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}
