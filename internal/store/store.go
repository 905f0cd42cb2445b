// Package store persists pipeline run snapshots for dashboard history.
//
// Only aggregates and diagnostics are stored — datasets themselves are
// rebuilt from the log tree on every render pass and never cached.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/leina-lyt/inference-dashboard/internal/metrics"
	"github.com/leina-lyt/inference-dashboard/internal/model"
)

// SnapshotRecord is one persisted pipeline run summary.
type SnapshotRecord struct {
	ID           string          `json:"id"`
	CollectedAt  time.Time       `json:"collected_at"`
	CountryCount int             `json:"country_count"`
	RowCount     int             `json:"row_count"`
	Metrics      json.RawMessage `json:"metrics"`
	Diagnostics  json.RawMessage `json:"diagnostics"`
}

// Store defines the persistence interface for snapshot history.
type Store interface {
	SaveSnapshot(ctx context.Context, snap *metrics.Snapshot, diags []model.Diagnostic) (*SnapshotRecord, error)
	GetSnapshot(ctx context.Context, id string) (*SnapshotRecord, error)
	ListSnapshots(ctx context.Context, limit int) ([]SnapshotRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// encodeSnapshot marshals the snapshot and diagnostics for storage.
func encodeSnapshot(snap *metrics.Snapshot, diags []model.Diagnostic) (metricsJSON, diagsJSON []byte, err error) {
	metricsJSON, err = json.Marshal(snap)
	if err != nil {
		return nil, nil, err
	}
	if diags == nil {
		diags = []model.Diagnostic{}
	}
	diagsJSON, err = json.Marshal(diags)
	if err != nil {
		return nil, nil, err
	}
	return metricsJSON, diagsJSON, nil
}
