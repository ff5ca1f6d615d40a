package model

import "time"

// StageStatus reports how a pipeline stage finished.
type StageStatus string

const (
	StageStatusOK       StageStatus = "ok"
	StageStatusDegraded StageStatus = "degraded"
	StageStatusFatal    StageStatus = "fatal"
)

// LogEntry is one diagnostic record in a pipeline run's log.
type LogEntry struct {
	Step string         `json:"step"`
	Info string         `json:"info"`
	Meta map[string]any `json:"meta,omitempty"`
}

// StageReport records which path a stage took.
type StageReport struct {
	Name   string      `json:"name"`
	Status StageStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`
}

// RunRecord is the persisted summary of one pipeline run.
type RunRecord struct {
	ID        string        `json:"id"`
	CompanyID string        `json:"company_id,omitempty"`
	URL       string        `json:"url"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Stages    []StageReport `json:"stages,omitempty"`
	Logs      []LogEntry    `json:"logs,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// StoredProfile is a company's persisted brand profile.
type StoredProfile struct {
	CompanyID string      `json:"company_id"`
	SourceURL string      `json:"source_url"`
	Profile   CompanyInfo `json:"profile"`
	UpdatedAt time.Time   `json:"updated_at"`
}
