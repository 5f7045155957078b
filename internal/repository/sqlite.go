package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/preop-assessment-server/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite report archive.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanReport scans a metadata row into a ReportMeta struct.
func scanReport(s scanner) (*domain.ReportMeta, error) {
	meta := &domain.ReportMeta{}
	var advisories string

	err := s.Scan(
		&meta.ID, &meta.PatientName, &meta.Score,
		&advisories, &meta.PageCount, &meta.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	meta.Advisories, err = decodeAdvisories(advisories)
	if err != nil {
		return nil, fmt.Errorf("failed to decode advisories: %w", err)
	}
	return meta, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		patient_name TEXT DEFAULT '',
		score INTEGER NOT NULL,
		advisories TEXT NOT NULL DEFAULT '[]',
		page_count INTEGER NOT NULL DEFAULT 0,
		document BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reports_patient_name ON reports(patient_name);
	CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Save archives a generated report and its document bytes.
func (s *SQLiteStore) Save(ctx context.Context, meta *domain.ReportMeta, document []byte) error {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	advisories, err := encodeAdvisories(meta.Advisories)
	if err != nil {
		return fmt.Errorf("failed to encode advisories: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (
			id, patient_name, score, advisories, page_count, document, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			patient_name = excluded.patient_name,
			score = excluded.score,
			advisories = excluded.advisories,
			page_count = excluded.page_count,
			document = excluded.document,
			created_at = excluded.created_at
	`,
		meta.ID,
		meta.PatientName,
		meta.Score,
		advisories,
		meta.PageCount,
		document,
		meta.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}
	return nil
}

// Get retrieves an archived report by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.ReportMeta, []byte, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, patient_name, score, advisories, page_count, created_at, document
		FROM reports
		WHERE id = ?
		LIMIT 1
	`, id)

	meta := &domain.ReportMeta{}
	var advisories string
	var document []byte

	err := row.Scan(
		&meta.ID, &meta.PatientName, &meta.Score,
		&advisories, &meta.PageCount, &meta.CreatedAt, &document,
	)
	if err == sql.ErrNoRows {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan: %w", err)
	}

	meta.Advisories, err = decodeAdvisories(advisories)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode advisories: %w", err)
	}
	return meta, document, nil
}

// List returns archived report metadata, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*domain.ReportMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, patient_name, score, advisories, page_count, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*domain.ReportMeta
	for rows.Next() {
		meta, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, meta)
	}
	return result, rows.Err()
}

// Count returns the total number of archived reports.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&count)
	return count, err
}

// Delete removes an archived report by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	return err
}

// maxExportLimit is the maximum number of entries to export at once.
const maxExportLimit = 1000000

// ExportJSON exports all report metadata to a JSON writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	export := &ReportExport{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Count:      len(all),
		Reports:    all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
