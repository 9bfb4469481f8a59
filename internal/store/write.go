package store

import (
	"context"
	"fmt"

	"github.com/roach88/aisync/internal/model"
)

// UpsertArtifact inserts or refreshes an artifact record.
// The ID is deterministic, so a rescan of the same artifact updates the
// existing row in place; its sync state rows are untouched.
func (s *Store) UpsertArtifact(ctx context.Context, a model.Artifact) error {
	metadata, err := marshalMetadata(a.Metadata)
	if err != nil {
		return fmt.Errorf("upsert artifact %s: %w", a.Name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO artifacts
		(id, name, type, description, content, metadata, source_system, source_path, checksum, last_modified, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			content = excluded.content,
			metadata = excluded.metadata,
			source_path = excluded.source_path,
			checksum = excluded.checksum,
			last_modified = excluded.last_modified,
			updated_at = excluded.updated_at
	`,
		a.ID,
		a.Name,
		string(a.Type),
		nullString(a.Description),
		a.Content,
		metadata,
		string(a.SourceSystem),
		a.SourcePath,
		a.Checksum,
		formatTime(a.LastModified),
		formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("upsert artifact %s: %w", a.Name, err)
	}
	return nil
}

// DeleteArtifact removes an artifact record. Its sync state rows cascade.
// Deleting a missing artifact is not an error.
func (s *Store) DeleteArtifact(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM artifacts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete artifact %s: %w", id, err)
	}
	return nil
}

// UpsertSyncState records the outcome of syncing one artifact to one target.
// An empty SyncedHash or ErrorMessage is stored as NULL.
func (s *Store) UpsertSyncState(ctx context.Context, st model.SyncState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifact_sync_state
		(artifact_id, target_system, target_path, sync_method, synced_hash, last_synced_at, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(artifact_id, target_system) DO UPDATE SET
			target_path = excluded.target_path,
			sync_method = excluded.sync_method,
			synced_hash = excluded.synced_hash,
			last_synced_at = excluded.last_synced_at,
			status = excluded.status,
			error_message = excluded.error_message
	`,
		st.ArtifactID,
		string(st.TargetSystem),
		st.TargetPath,
		string(st.SyncMethod),
		nullString(st.SyncedHash),
		nullTime(st.LastSyncedAt),
		string(st.Status),
		nullString(st.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("upsert sync state %s/%s: %w", st.ArtifactID, st.TargetSystem, err)
	}
	return nil
}

// DeleteSyncState removes the ledger entry for (artifactID, target).
func (s *Store) DeleteSyncState(ctx context.Context, artifactID string, target model.SystemID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM artifact_sync_state WHERE artifact_id = ? AND target_system = ?`,
		artifactID, string(target))
	if err != nil {
		return fmt.Errorf("delete sync state %s/%s: %w", artifactID, target, err)
	}
	return nil
}

// CreateSyncJob inserts a new job row. Jobs are created before any target
// writes, so an interrupted run leaves a "running" row behind.
func (s *Store) CreateSyncJob(ctx context.Context, job model.SyncJob) error {
	targets, err := marshalSystems(job.TargetSystems)
	if err != nil {
		return fmt.Errorf("create sync job: %w", err)
	}
	types, err := marshalTypes(job.ArtifactTypes)
	if err != nil {
		return fmt.Errorf("create sync job: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sync_jobs
		(id, source_system, target_systems, artifact_types, dry_run, force, use_symlinks, sync_deletions, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		job.ID,
		string(job.SourceSystem),
		targets,
		types,
		boolToInt(job.DryRun),
		boolToInt(job.Force),
		boolToInt(job.UseSymlinks),
		boolToInt(job.SyncDeletions),
		string(job.Status),
		formatTime(job.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("create sync job: %w", err)
	}
	return nil
}

// UpdateSyncJob finalizes a job with its status, summary and completion time.
// Returns ErrNotFound if the job does not exist.
func (s *Store) UpdateSyncJob(ctx context.Context, job model.SyncJob) error {
	summary, err := marshalCounts(job.Summary)
	if err != nil {
		return fmt.Errorf("update sync job %s: %w", job.ID, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE sync_jobs
		SET status = ?, completed_at = ?, summary = ?, error_message = ?
		WHERE id = ?
	`,
		string(job.Status),
		nullTime(job.CompletedAt),
		summary,
		nullString(job.ErrorMessage),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update sync job %s: %w", job.ID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sync job %s: rows affected: %w", job.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update sync job %s: %w", job.ID, ErrNotFound)
	}
	return nil
}

// AddSyncResult appends a per-artifact result to a job. Returns the row ID.
func (s *Store) AddSyncResult(ctx context.Context, r model.SyncResult) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_results
		(job_id, artifact_id, artifact_name, artifact_type, target_system, operation, success, target_path, sync_method, message, error, error_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.JobID,
		r.ArtifactID,
		r.ArtifactName,
		string(r.ArtifactType),
		string(r.TargetSystem),
		string(r.Operation),
		boolToInt(r.Success),
		nullString(r.TargetPath),
		nullString(string(r.SyncMethod)),
		nullString(r.Message),
		nullString(r.Error),
		nullString(r.ErrorCode),
		formatTime(r.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("add sync result: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add sync result: last insert id: %w", err)
	}
	return id, nil
}

// UpsertMappingRule inserts or replaces the rule identified by
// (source, target, type, source pattern). Returns the rule ID.
func (s *Store) UpsertMappingRule(ctx context.Context, r model.MappingRule) (int64, error) {
	pattern := r.SourcePattern
	if pattern == "" {
		pattern = "*"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("upsert mapping rule: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mapping_rules
		(source_system, target_system, artifact_type, source_pattern, target_pattern, transform_type, use_symlink, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_system, target_system, artifact_type, source_pattern) DO UPDATE SET
			target_pattern = excluded.target_pattern,
			transform_type = excluded.transform_type,
			use_symlink = excluded.use_symlink,
			priority = excluded.priority
	`,
		string(r.SourceSystem),
		string(r.TargetSystem),
		string(r.ArtifactType),
		pattern,
		nullString(r.TargetPattern),
		nullString(string(r.TransformType)),
		boolToInt(r.UseSymlink),
		r.Priority,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert mapping rule: %w", err)
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM mapping_rules
		WHERE source_system = ? AND target_system = ? AND artifact_type = ? AND source_pattern = ?
	`, string(r.SourceSystem), string(r.TargetSystem), string(r.ArtifactType), pattern).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert mapping rule: select id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("upsert mapping rule: commit: %w", err)
	}
	return id, nil
}

// DeleteMappingRule removes a rule by ID.
func (s *Store) DeleteMappingRule(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM mapping_rules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete mapping rule %d: %w", id, err)
	}
	return nil
}

// SetSetting stores a key/value setting, replacing any previous value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// UpsertSystem records whether a system is configured and when it was last seen.
func (s *Store) UpsertSystem(ctx context.Context, sys model.SystemRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO systems (id, name, configured, last_seen_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			configured = excluded.configured,
			last_seen_at = excluded.last_seen_at
	`,
		string(sys.ID),
		sys.Name,
		boolToInt(sys.Configured),
		nullTime(sys.LastSeenAt),
	)
	if err != nil {
		return fmt.Errorf("upsert system %s: %w", sys.ID, err)
	}
	return nil
}
