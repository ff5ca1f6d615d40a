package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-cli/internal/db"
	"github.com/sells-group/brand-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS brand_profiles (
	company_id TEXT PRIMARY KEY,
	source_url TEXT NOT NULL,
	profile    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS brand_runs (
	id         TEXT PRIMARY KEY,
	company_id TEXT NOT NULL DEFAULT '',
	url        TEXT NOT NULL,
	success    BOOLEAN NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	stages     JSONB NOT NULL DEFAULT '[]',
	logs       JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_brand_runs_company ON brand_runs(company_id, created_at DESC);
`

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, companyID, sourceURL string, info model.CompanyInfo) error {
	if companyID == "" {
		return eris.New("postgres: upsert profile: empty company id")
	}
	profileJSON, err := json.Marshal(info)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal profile")
	}

	query, err := db.UpsertSQL(db.Postgres, profileUpsert)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, query, companyID, sourceURL, profileJSON, time.Now().UTC()); err != nil {
		return eris.Wrapf(err, "postgres: upsert profile %s", companyID)
	}
	return nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, companyID string) (*model.StoredProfile, error) {
	var p model.StoredProfile
	var profileJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT company_id, source_url, profile, updated_at FROM brand_profiles WHERE company_id = $1`,
		companyID,
	).Scan(&p.CompanyID, &p.SourceURL, &profileJSON, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: profile %s", companyID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get profile %s", companyID)
	}
	if err := json.Unmarshal(profileJSON, &p.Profile); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal profile")
	}
	return &p, nil
}

func (s *PostgresStore) RecordRun(ctx context.Context, rec model.RunRecord) error {
	stagesJSON, logsJSON, err := marshalRun(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal run")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query, err := db.UpsertSQL(db.Postgres, runInsert)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, query,
		rec.ID, rec.CompanyID, rec.URL, rec.Success, rec.Error, stagesJSON, logsJSON, rec.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: record run %s", rec.ID)
}

func (s *PostgresStore) ListRuns(ctx context.Context, companyID string, limit int) ([]model.RunRecord, error) {
	query := `SELECT id, company_id, url, success, error, stages, logs, created_at FROM brand_runs`
	var args []any
	if companyID != "" {
		args = append(args, companyID)
		query += ` WHERE company_id = ` + db.Placeholder(db.Postgres, len(args))
	}
	args = append(args, runLimit(limit))
	query += ` ORDER BY created_at DESC, id DESC LIMIT ` + db.Placeholder(db.Postgres, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var r model.RunRecord
		var stagesJSON, logsJSON []byte
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.URL, &r.Success, &r.Error, &stagesJSON, &logsJSON, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if err := unmarshalRun(&r, stagesJSON, logsJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}
