// Package repository provides archival storage for generated assessment
// reports. Each archived report keeps its scoring outcome alongside the
// rendered document bytes so a report can be re-served without regenerating.
package repository

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/preop-assessment-server/internal/domain"
)

// Store defines the interface for report archive operations.
type Store interface {
	// Save archives a generated report and its document bytes.
	Save(ctx context.Context, meta *domain.ReportMeta, document []byte) error

	// Get retrieves an archived report by ID. Returns domain.ErrNotFound
	// when no report with that ID exists.
	Get(ctx context.Context, id string) (*domain.ReportMeta, []byte, error)

	// List returns archived report metadata, newest first, with pagination.
	List(ctx context.Context, limit, offset int) ([]*domain.ReportMeta, error)

	// Count returns the total number of archived reports.
	Count(ctx context.Context) (int64, error)

	// Delete removes an archived report by ID.
	Delete(ctx context.Context, id string) error

	// ExportJSON exports all report metadata to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// Close closes the store and releases resources.
	Close() error
}

// ReportExport represents the JSON export format for report metadata.
type ReportExport struct {
	Version    string               `json:"version"`
	ExportedAt time.Time            `json:"exported_at"`
	Count      int                  `json:"count"`
	Reports    []*domain.ReportMeta `json:"reports"`
}

// encodeAdvisories serializes the advisory list for a text column.
func encodeAdvisories(items []domain.AdvisoryItem) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeAdvisories deserializes an advisory-list text column.
func decodeAdvisories(raw string) ([]domain.AdvisoryItem, error) {
	if raw == "" {
		return nil, nil
	}
	var items []domain.AdvisoryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}
