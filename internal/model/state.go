package model

import "time"

// SyncMethod records how an artifact reached its target.
type SyncMethod string

const (
	MethodCopy      SyncMethod = "copy"
	MethodSymlink   SyncMethod = "symlink"
	MethodTransform SyncMethod = "transform"
)

// SyncStatus is the outcome of the last reconciliation of one artifact with one target.
type SyncStatus string

const (
	StatusPending SyncStatus = "pending"
	StatusSynced  SyncStatus = "synced"
	StatusFailed  SyncStatus = "failed"
	StatusSkipped SyncStatus = "skipped"
)

// SyncState is the ledger entry for (ArtifactID, TargetSystem).
//
// SyncedHash is the artifact checksum that last reached the target; empty
// means the artifact has never been synced successfully (NULL in the store).
type SyncState struct {
	ArtifactID   string     `json:"artifact_id"`
	TargetSystem SystemID   `json:"target_system"`
	TargetPath   string     `json:"target_path"`
	SyncMethod   SyncMethod `json:"sync_method"`
	SyncedHash   string     `json:"synced_hash,omitempty"`
	LastSyncedAt time.Time  `json:"last_synced_at"`
	Status       SyncStatus `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// TrackedArtifact joins a target's sync state with the identity of the
// artifact it belongs to. Used by the deletion pass.
type TrackedArtifact struct {
	State        SyncState    `json:"state"`
	Name         string       `json:"name"`
	Type         ArtifactType `json:"type"`
	SourceSystem SystemID     `json:"source_system"`
}

// MappingRule describes how one artifact type moves from a source to a target system.
// Among matching rules the highest Priority wins.
type MappingRule struct {
	ID            int64        `json:"id"`
	SourceSystem  SystemID     `json:"source_system"`
	TargetSystem  SystemID     `json:"target_system"`
	ArtifactType  ArtifactType `json:"artifact_type"`
	SourcePattern string       `json:"source_pattern"`
	TargetPattern string       `json:"target_pattern,omitempty"`
	TransformType ArtifactType `json:"transform_type,omitempty"`
	UseSymlink    bool         `json:"use_symlink"`
	Priority      int          `json:"priority"`
}

// JobStatus is the lifecycle state of a sync job.
type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// ResultCounts aggregates per-operation counters for a job.
type ResultCounts struct {
	Total     int `json:"total"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Symlinked int `json:"symlinked"`
	Deleted   int `json:"deleted"`
}

// SyncJob is the audit record of one sync invocation.
type SyncJob struct {
	ID            string         `json:"id"`
	SourceSystem  SystemID       `json:"source_system"`
	TargetSystems []SystemID     `json:"target_systems"`
	ArtifactTypes []ArtifactType `json:"artifact_types,omitempty"`
	DryRun        bool           `json:"dry_run"`
	Force         bool           `json:"force"`
	UseSymlinks   bool           `json:"use_symlinks"`
	SyncDeletions bool           `json:"sync_deletions"`
	Status        JobStatus      `json:"status"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   time.Time      `json:"completed_at,omitzero"`
	Summary       ResultCounts   `json:"summary"`
	ErrorMessage  string         `json:"error_message,omitempty"`
}

// Operation is the action taken (or, under dry-run, planned) for one artifact.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpSkip   Operation = "skip"
	OpDelete Operation = "delete"
	// OpAbort marks artifacts never attempted because their target failed as a whole.
	OpAbort Operation = "abort"
)

// SyncResult is the per-artifact outcome within a job.
type SyncResult struct {
	ID           int64        `json:"id,omitempty"`
	JobID        string       `json:"job_id"`
	ArtifactID   string       `json:"artifact_id"`
	ArtifactName string       `json:"artifact_name"`
	ArtifactType ArtifactType `json:"artifact_type"`
	TargetSystem SystemID     `json:"target_system"`
	Operation    Operation    `json:"operation"`
	Success      bool         `json:"success"`
	TargetPath   string       `json:"target_path,omitempty"`
	SyncMethod   SyncMethod   `json:"sync_method,omitempty"`
	Message      string       `json:"message,omitempty"`
	Error        string       `json:"error,omitempty"`
	ErrorCode    string       `json:"error_code,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// DiffStatus classifies one artifact in a diff.
type DiffStatus string

const (
	DiffMissing   DiffStatus = "missing"
	DiffModified  DiffStatus = "modified"
	DiffUnchanged DiffStatus = "unchanged"
	DiffAdded     DiffStatus = "added"
	DiffDeleted   DiffStatus = "deleted"
)

// ArtifactDiff is a computed comparison between the current source artifact
// and what was last synced to a target. It is never stored.
type ArtifactDiff struct {
	ArtifactID     string       `json:"artifact_id,omitempty"`
	Name           string       `json:"name"`
	Type           ArtifactType `json:"type"`
	SourceSystem   SystemID     `json:"source_system"`
	TargetSystem   SystemID     `json:"target_system"`
	Status         DiffStatus   `json:"status"`
	SourceChecksum string       `json:"source_checksum,omitempty"`
	SyncedHash     string       `json:"synced_hash,omitempty"`
	TargetPath     string       `json:"target_path,omitempty"`
	LastSyncedAt   time.Time    `json:"last_synced_at,omitzero"`
}

// SystemRecord is the persisted view of a known system.
type SystemRecord struct {
	ID         SystemID  `json:"id"`
	Name       string    `json:"name"`
	Configured bool      `json:"configured"`
	LastSeenAt time.Time `json:"last_seen_at,omitzero"`
}
