package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/leina-lyt/inference-dashboard/internal/metrics"
	"github.com/leina-lyt/inference-dashboard/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id            TEXT PRIMARY KEY,
	collected_at  DATETIME NOT NULL,
	country_count INTEGER NOT NULL,
	row_count     INTEGER NOT NULL,
	metrics       TEXT NOT NULL,
	diagnostics   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_collected_at ON snapshots(collected_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *metrics.Snapshot, diags []model.Diagnostic) (*SnapshotRecord, error) {
	metricsJSON, diagsJSON, err := encodeSnapshot(snap, diags)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: encode snapshot")
	}

	rec := &SnapshotRecord{
		ID:           uuid.NewString(),
		CollectedAt:  snap.CollectedAt,
		CountryCount: len(snap.Countries),
		RowCount:     snap.TotalRows,
		Metrics:      metricsJSON,
		Diagnostics:  diagsJSON,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, collected_at, country_count, row_count, metrics, diagnostics) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CollectedAt.Format(time.RFC3339Nano), rec.CountryCount, rec.RowCount, string(metricsJSON), string(diagsJSON),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: save snapshot")
	}
	return rec, nil
}

func (s *SQLiteStore) GetSnapshot(ctx context.Context, id string) (*SnapshotRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, collected_at, country_count, row_count, metrics, diagnostics FROM snapshots WHERE id = ?`, id)

	rec, err := scanSnapshot(row.Scan)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get snapshot")
	}
	return rec, nil
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, limit int) ([]SnapshotRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, collected_at, country_count, row_count, metrics, diagnostics FROM snapshots ORDER BY collected_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		rec, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate snapshots")
}

func scanSnapshot(scan func(dest ...any) error) (*SnapshotRecord, error) {
	var rec SnapshotRecord
	var collectedAt string
	var metricsJSON, diagsJSON string

	if err := scan(&rec.ID, &collectedAt, &rec.CountryCount, &rec.RowCount, &metricsJSON, &diagsJSON); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, collectedAt)
	if err != nil {
		return nil, err
	}
	rec.CollectedAt = ts
	rec.Metrics = []byte(metricsJSON)
	rec.Diagnostics = []byte(diagsJSON)
	return &rec, nil
}
