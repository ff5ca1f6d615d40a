package pipeline

import (
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/brand-cli/internal/model"
)

// Log is the append-only diagnostic trail of one pipeline run. It is safe
// for concurrent use and never fails.
type Log struct {
	runID   string
	mu      sync.Mutex
	entries []model.LogEntry
}

// NewLog creates an empty log for a run.
func NewLog(runID string) *Log {
	return &Log{runID: runID}
}

// RunID returns the run this log belongs to.
func (l *Log) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Add appends an entry and mirrors it to the debug logger. A nil Log
// discards the entry.
func (l *Log) Add(step, info string, meta map[string]any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.entries = append(l.entries, model.LogEntry{Step: step, Info: info, Meta: meta})
	l.mu.Unlock()

	fields := make([]zap.Field, 0, len(meta)+3)
	fields = append(fields, zap.String("run_id", l.runID), zap.String("step", step), zap.String("info", info))
	for k, v := range meta {
		fields = append(fields, zap.Any(k, v))
	}
	zap.L().Debug("pipeline: step", fields...)
}

// Entries returns a copy of the entries in insertion order.
func (l *Log) Entries() []model.LogEntry {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
