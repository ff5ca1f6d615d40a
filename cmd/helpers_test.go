package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/brand-cli/internal/model"
	"github.com/sells-group/brand-cli/internal/pipeline"
	"github.com/sells-group/brand-cli/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "brand.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func successResult(runID, name string) pipeline.Result {
	info := pipeline.DefaultProfile()
	info.CompanyName = name
	return pipeline.Result{
		RunID:   runID,
		Success: true,
		Data:    &info,
		Logs:    []model.LogEntry{{Step: "complete", Info: "profile complete"}},
		Stages:  []model.StageReport{{Name: pipeline.StageComplete, Status: model.StageStatusOK}},
	}
}

func failureResult(runID string) pipeline.Result {
	return pipeline.Result{
		RunID:   runID,
		Success: false,
		Error:   pipeline.MsgGeneric,
		Logs:    []model.LogEntry{{Step: "scrape", Info: "scrape failed"}},
	}
}

// fakeGenerate succeeds for every URL except those listed in fail.
func fakeGenerate(fail ...string) generateFunc {
	failing := make(map[string]bool, len(fail))
	for _, u := range fail {
		failing[u] = true
	}
	return func(_ context.Context, url string) pipeline.Result {
		if failing[url] {
			return failureResult("run-" + url)
		}
		return successResult("run-"+url, "Acme")
	}
}
