package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kioku-dev/kioku/internal/models"
)

// SQLiteStore implements RecordStore using SQLite. Vectors are stored as
// little-endian float32 BLOBs; metadata as JSON text.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS vector_records (
		id TEXT PRIMARY KEY,
		document_id TEXT,
		text TEXT NOT NULL,
		vector BLOB NOT NULL,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_records_document_id ON vector_records(document_id);
	CREATE INDEX IF NOT EXISTS idx_records_created_at ON vector_records(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Insert appends one record.
func (s *SQLiteStore) Insert(ctx context.Context, record *models.VectorRecord) error {
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO vector_records (id, document_id, text, vector, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.DocumentID, record.Text, encodeVector(record.Vector),
		string(metadataJSON), record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert record %s: %v", ErrStoreUnavailable, record.ID, err)
	}
	return nil
}

// InsertBatch appends records in order inside a transaction.
func (s *SQLiteStore) InsertBatch(ctx context.Context, records []*models.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vector_records (id, document_id, text, vector, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %v", ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, record := range records {
		metadataJSON, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx, record.ID, record.DocumentID, record.Text,
			encodeVector(record.Vector), string(metadataJSON), record.CreatedAt); err != nil {
			return fmt.Errorf("%w: insert record %s: %v", ErrStoreUnavailable, record.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// ScanAll returns every stored record in insertion order.
func (s *SQLiteStore) ScanAll(ctx context.Context) ([]*models.VectorRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, text, vector, metadata, created_at
		 FROM vector_records ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: scan: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []*models.VectorRecord
	for rows.Next() {
		var rec models.VectorRecord
		var blob []byte
		var metadataJSON string
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.Text, &blob, &metadataJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		rec.Vector = vec
		if metadataJSON != "" && metadataJSON != "null" {
			if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
				return nil, fmt.Errorf("record %s: unmarshal metadata: %w", rec.ID, err)
			}
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vector_records`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrStoreUnavailable, err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
