package engine

import (
	"time"

	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/store"
)

// SyncOptions configures one Sync call.
type SyncOptions struct {
	Source model.SystemID
	// Targets defaults to every registered system except Source.
	Targets []model.SystemID
	// ArtifactTypes limits the run. Empty means all types.
	ArtifactTypes []model.ArtifactType
	DryRun        bool
	// Force replaces destination directories the engine did not create and
	// rewrites artifacts that are already up to date.
	Force       bool
	UseSymlinks bool
	// Verbose logs every per-artifact decision at Info instead of Debug.
	Verbose       bool
	SyncDeletions bool
}

// SyncSummary is the result of a Sync call.
type SyncSummary struct {
	JobID       string             `json:"job_id"`
	Source      model.SystemID     `json:"source"`
	Targets     []model.SystemID   `json:"targets"`
	DryRun      bool               `json:"dry_run"`
	Status      model.JobStatus    `json:"status"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt time.Time          `json:"completed_at"`
	Results     model.ResultCounts `json:"results"`
	Details     []model.SyncResult `json:"details"`
}

// SystemStatus describes one system as seen by Status.
type SystemStatus struct {
	ID         model.SystemID `json:"id"`
	Name       string         `json:"name"`
	Configured bool           `json:"configured"`
	LastSeenAt time.Time      `json:"last_seen_at,omitzero"`
	// Tracked counts ledger entries with this system as target.
	Tracked int `json:"tracked"`
}

// StatusReport is the result of Status.
type StatusReport struct {
	Root     string         `json:"root"`
	Systems  []SystemStatus `json:"systems"`
	LastSync time.Time      `json:"last_sync,omitzero"`
	Stats    store.Stats    `json:"stats"`
}

// JobReport is a job together with its per-artifact results.
type JobReport struct {
	Job     model.SyncJob      `json:"job"`
	Results []model.SyncResult `json:"results"`
}
