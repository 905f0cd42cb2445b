package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/leina-lyt/inference-dashboard/internal/metrics"
	"github.com/leina-lyt/inference-dashboard/internal/model"
)

// Pool abstracts the pgxpool operations the store needs, so tests can swap in
// pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id            TEXT PRIMARY KEY,
	collected_at  TIMESTAMPTZ NOT NULL,
	country_count INTEGER NOT NULL,
	row_count     INTEGER NOT NULL,
	metrics       JSONB NOT NULL,
	diagnostics   JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_collected_at ON snapshots(collected_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap *metrics.Snapshot, diags []model.Diagnostic) (*SnapshotRecord, error) {
	metricsJSON, diagsJSON, err := encodeSnapshot(snap, diags)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: encode snapshot")
	}

	rec := &SnapshotRecord{
		ID:           uuid.NewString(),
		CollectedAt:  snap.CollectedAt,
		CountryCount: len(snap.Countries),
		RowCount:     snap.TotalRows,
		Metrics:      metricsJSON,
		Diagnostics:  diagsJSON,
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO snapshots (id, collected_at, country_count, row_count, metrics, diagnostics) VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.CollectedAt, rec.CountryCount, rec.RowCount, metricsJSON, diagsJSON,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: save snapshot")
	}
	return rec, nil
}

func (s *PostgresStore) GetSnapshot(ctx context.Context, id string) (*SnapshotRecord, error) {
	var rec SnapshotRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, collected_at, country_count, row_count, metrics, diagnostics FROM snapshots WHERE id = $1`, id).
		Scan(&rec.ID, &rec.CollectedAt, &rec.CountryCount, &rec.RowCount, &rec.Metrics, &rec.Diagnostics)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get snapshot")
	}
	return &rec, nil
}

func (s *PostgresStore) ListSnapshots(ctx context.Context, limit int) ([]SnapshotRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, collected_at, country_count, row_count, metrics, diagnostics FROM snapshots ORDER BY collected_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list snapshots")
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		if err := rows.Scan(&rec.ID, &rec.CollectedAt, &rec.CountryCount, &rec.RowCount, &rec.Metrics, &rec.Diagnostics); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot")
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate snapshots")
}
