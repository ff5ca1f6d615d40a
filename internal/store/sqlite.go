package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/brand-cli/internal/db"
	"github.com/sells-group/brand-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: conn}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS brand_profiles (
	company_id TEXT PRIMARY KEY,
	source_url TEXT NOT NULL,
	profile    TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS brand_runs (
	id         TEXT PRIMARY KEY,
	company_id TEXT NOT NULL DEFAULT '',
	url        TEXT NOT NULL,
	success    BOOLEAN NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	stages     TEXT NOT NULL DEFAULT '[]',
	logs       TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_brand_runs_company ON brand_runs(company_id, created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertProfile(ctx context.Context, companyID, sourceURL string, info model.CompanyInfo) error {
	if companyID == "" {
		return eris.New("sqlite: upsert profile: empty company id")
	}
	profileJSON, err := json.Marshal(info)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal profile")
	}

	query, err := db.UpsertSQL(db.SQLite, profileUpsert)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, companyID, sourceURL, string(profileJSON), time.Now().UTC()); err != nil {
		return eris.Wrapf(err, "sqlite: upsert profile %s", companyID)
	}
	return nil
}

func (s *SQLiteStore) GetProfile(ctx context.Context, companyID string) (*model.StoredProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT company_id, source_url, profile, updated_at FROM brand_profiles WHERE company_id = ?`,
		companyID,
	)

	var p model.StoredProfile
	var profileJSON string
	err := row.Scan(&p.CompanyID, &p.SourceURL, &profileJSON, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: profile %s", companyID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get profile %s", companyID)
	}
	if err := json.Unmarshal([]byte(profileJSON), &p.Profile); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal profile")
	}
	return &p, nil
}

func (s *SQLiteStore) RecordRun(ctx context.Context, rec model.RunRecord) error {
	stagesJSON, logsJSON, err := marshalRun(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal run")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query, err := db.UpsertSQL(db.SQLite, runInsert)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.CompanyID, rec.URL, rec.Success, rec.Error, string(stagesJSON), string(logsJSON), rec.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: record run %s", rec.ID)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, companyID string, limit int) ([]model.RunRecord, error) {
	query := `SELECT id, company_id, url, success, error, stages, logs, created_at FROM brand_runs`
	var args []any
	if companyID != "" {
		query += ` WHERE company_id = ?`
		args = append(args, companyID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, runLimit(limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.RunRecord
	for rows.Next() {
		var r model.RunRecord
		var stagesJSON, logsJSON string
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.URL, &r.Success, &r.Error, &stagesJSON, &logsJSON, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		if err := unmarshalRun(&r, []byte(stagesJSON), []byte(logsJSON)); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func marshalRun(rec model.RunRecord) (stages, logs []byte, err error) {
	if rec.Stages == nil {
		rec.Stages = []model.StageReport{}
	}
	if rec.Logs == nil {
		rec.Logs = []model.LogEntry{}
	}
	if stages, err = json.Marshal(rec.Stages); err != nil {
		return nil, nil, err
	}
	if logs, err = json.Marshal(rec.Logs); err != nil {
		return nil, nil, err
	}
	return stages, logs, nil
}

func unmarshalRun(r *model.RunRecord, stages, logs []byte) error {
	if len(stages) > 0 {
		if err := json.Unmarshal(stages, &r.Stages); err != nil {
			return err
		}
	}
	if len(logs) > 0 {
		if err := json.Unmarshal(logs, &r.Logs); err != nil {
			return err
		}
	}
	return nil
}
