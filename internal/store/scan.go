package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/aisync/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row rowScanner) (model.Artifact, error) {
	var (
		a            model.Artifact
		artifactType string
		description  sql.NullString
		metadata     string
		source       string
		lastModified string
	)
	err := row.Scan(&a.ID, &a.Name, &artifactType, &description, &a.Content, &metadata,
		&source, &a.SourcePath, &a.Checksum, &lastModified)
	if err != nil {
		return model.Artifact{}, err
	}

	a.Type = model.ArtifactType(artifactType)
	a.Description = description.String
	a.SourceSystem = model.SystemID(source)
	if a.Metadata, err = unmarshalMetadata(metadata); err != nil {
		return model.Artifact{}, err
	}
	if a.LastModified, err = parseTime(lastModified); err != nil {
		return model.Artifact{}, err
	}
	return a, nil
}

func scanSyncState(row rowScanner) (model.SyncState, error) {
	var (
		st           model.SyncState
		target       string
		method       string
		status       string
		syncedHash   sql.NullString
		lastSyncedAt sql.NullString
		errMsg       sql.NullString
	)
	err := row.Scan(&st.ArtifactID, &target, &st.TargetPath, &method, &syncedHash,
		&lastSyncedAt, &status, &errMsg)
	if err != nil {
		return model.SyncState{}, err
	}

	st.TargetSystem = model.SystemID(target)
	st.SyncMethod = model.SyncMethod(method)
	st.Status = model.SyncStatus(status)
	st.SyncedHash = syncedHash.String
	st.ErrorMessage = errMsg.String
	if st.LastSyncedAt, err = parseNullTime(lastSyncedAt); err != nil {
		return model.SyncState{}, err
	}
	return st, nil
}

const jobColumns = `id, source_system, target_systems, artifact_types, dry_run, force, use_symlinks,
	sync_deletions, status, started_at, completed_at, summary, error_message`

func scanSyncJob(row rowScanner) (model.SyncJob, error) {
	var (
		job         model.SyncJob
		source      string
		targets     string
		types       string
		status      string
		startedAt   string
		completedAt sql.NullString
		summary     sql.NullString
		errMsg      sql.NullString
	)
	err := row.Scan(&job.ID, &source, &targets, &types, &job.DryRun, &job.Force, &job.UseSymlinks,
		&job.SyncDeletions, &status, &startedAt, &completedAt, &summary, &errMsg)
	if err != nil {
		return model.SyncJob{}, err
	}

	job.SourceSystem = model.SystemID(source)
	job.Status = model.JobStatus(status)
	job.ErrorMessage = errMsg.String

	if err := json.Unmarshal([]byte(targets), &job.TargetSystems); err != nil {
		return model.SyncJob{}, fmt.Errorf("unmarshal target systems: %w", err)
	}
	if err := json.Unmarshal([]byte(types), &job.ArtifactTypes); err != nil {
		return model.SyncJob{}, fmt.Errorf("unmarshal artifact types: %w", err)
	}
	if summary.Valid && summary.String != "" {
		if err := json.Unmarshal([]byte(summary.String), &job.Summary); err != nil {
			return model.SyncJob{}, fmt.Errorf("unmarshal summary: %w", err)
		}
	}
	if job.StartedAt, err = parseTime(startedAt); err != nil {
		return model.SyncJob{}, err
	}
	if job.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return model.SyncJob{}, err
	}
	return job, nil
}
