package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"

	"github.com/preop-assessment-server/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL report archive.
// It expects the database and schema to already exist (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL report archive from a
// connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Save archives a generated report and its document bytes. Re-saving the
// same ID replaces the archived copy.
func (s *PostgresStore) Save(ctx context.Context, meta *domain.ReportMeta, document []byte) error {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	advisories, err := encodeAdvisories(meta.Advisories)
	if err != nil {
		return fmt.Errorf("failed to encode advisories: %w", err)
	}

	query := `
		INSERT INTO reports (
			id, patient_name, score, advisories, page_count, document, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			patient_name = EXCLUDED.patient_name,
			score = EXCLUDED.score,
			advisories = EXCLUDED.advisories,
			page_count = EXCLUDED.page_count,
			document = EXCLUDED.document
	`

	_, err = s.db.ExecContext(ctx, query,
		meta.ID,
		meta.PatientName,
		meta.Score,
		advisories,
		meta.PageCount,
		document,
		meta.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Get retrieves an archived report by ID.
func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.ReportMeta, []byte, error) {
	query := `
		SELECT id, patient_name, score, advisories, page_count, created_at, document
		FROM reports
		WHERE id = $1
		LIMIT 1
	`

	meta := &domain.ReportMeta{}
	var advisories string
	var document []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&meta.ID, &meta.PatientName, &meta.Score,
		&advisories, &meta.PageCount, &meta.CreatedAt, &document,
	)
	if err == sql.ErrNoRows {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get report: %w", err)
	}

	meta.Advisories, err = decodeAdvisories(advisories)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode advisories: %w", err)
	}
	return meta, document, nil
}

// List returns archived report metadata, newest first.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*domain.ReportMeta, error) {
	query := `
		SELECT id, patient_name, score, advisories, page_count, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
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
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// Delete removes an archived report by ID.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// ExportJSON exports all report metadata to a JSON writer.
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
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
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
