// Package store persists generated brand profiles and run records.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-cli/internal/db"
	"github.com/sells-group/brand-cli/internal/model"
)

// ErrNotFound is returned when a company has no stored profile.
var ErrNotFound = eris.New("store: not found")

// DefaultRunLimit caps ListRuns when no limit is given.
const DefaultRunLimit = 20

// Store is the caller-side sink for pipeline output.
type Store interface {
	// Profiles
	UpsertProfile(ctx context.Context, companyID, sourceURL string, info model.CompanyInfo) error
	GetProfile(ctx context.Context, companyID string) (*model.StoredProfile, error)

	// Runs
	RecordRun(ctx context.Context, rec model.RunRecord) error
	ListRuns(ctx context.Context, companyID string, limit int) ([]model.RunRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open connects to the store named by driver. It returns nil, nil for an
// empty or "none" driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "none":
		return nil, nil
	case "sqlite":
		st, err := NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return st, nil
	case "postgres":
		st, err := NewPostgres(ctx, dsn, nil)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

var profileUpsert = db.UpsertConfig{
	Table:        "brand_profiles",
	Columns:      []string{"company_id", "source_url", "profile", "updated_at"},
	ConflictKeys: []string{"company_id"},
}

var runInsert = db.UpsertConfig{
	Table:        "brand_runs",
	Columns:      []string{"id", "company_id", "url", "success", "error", "stages", "logs", "created_at"},
	ConflictKeys: []string{"id"},
	UpdateCols:   []string{},
}

func runLimit(limit int) int {
	if limit <= 0 {
		return DefaultRunLimit
	}
	return limit
}
