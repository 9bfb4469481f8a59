package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/aisync/internal/model"
)

// ArtifactFilter narrows GetArtifacts. Zero values match everything.
type ArtifactFilter struct {
	SourceSystem model.SystemID
	Types        []model.ArtifactType
}

// Stats summarizes the store contents for status reporting.
type Stats struct {
	Artifacts  int `json:"artifacts"`
	SyncStates int `json:"sync_states"`
	Synced     int `json:"synced"`
	Failed     int `json:"failed"`
	Jobs       int `json:"jobs"`
}

const artifactColumns = `id, name, type, description, content, metadata, source_system, source_path, checksum, last_modified`

// GetArtifact retrieves a single artifact by ID.
// Returns ErrNotFound if it does not exist.
func (s *Store) GetArtifact(ctx context.Context, id string) (model.Artifact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+artifactColumns+` FROM artifacts WHERE id = ?`, id)
	a, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Artifact{}, fmt.Errorf("get artifact %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Artifact{}, fmt.Errorf("get artifact %s: %w", id, err)
	}
	return a, nil
}

// GetArtifacts returns artifacts matching the filter ordered by type, then name.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) GetArtifacts(ctx context.Context, f ArtifactFilter) ([]model.Artifact, error) {
	var (
		where []string
		args  []any
	)
	if f.SourceSystem != "" {
		where = append(where, "source_system = ?")
		args = append(args, string(f.SourceSystem))
	}
	if len(f.Types) > 0 {
		clause, typeArgs := typeInClause("type", f.Types)
		where = append(where, clause)
		args = append(args, typeArgs...)
	}

	query := `SELECT ` + artifactColumns + ` FROM artifacts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY type ASC, name COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []model.Artifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return artifacts, nil
}

// GetSyncState returns the ledger entry for (artifactID, target).
// Returns ErrNotFound if the artifact was never attempted on that target.
func (s *Store) GetSyncState(ctx context.Context, artifactID string, target model.SystemID) (model.SyncState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT artifact_id, target_system, target_path, sync_method, synced_hash, last_synced_at, status, error_message
		FROM artifact_sync_state
		WHERE artifact_id = ? AND target_system = ?
	`, artifactID, string(target))

	st, err := scanSyncState(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SyncState{}, fmt.Errorf("get sync state %s/%s: %w", artifactID, target, ErrNotFound)
	}
	if err != nil {
		return model.SyncState{}, fmt.Errorf("get sync state %s/%s: %w", artifactID, target, err)
	}
	return st, nil
}

// GetSyncStatesForTarget returns every ledger entry for a target ordered by path.
func (s *Store) GetSyncStatesForTarget(ctx context.Context, target model.SystemID) ([]model.SyncState, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT artifact_id, target_system, target_path, sync_method, synced_hash, last_synced_at, status, error_message
		FROM artifact_sync_state
		WHERE target_system = ?
		ORDER BY target_path COLLATE BINARY ASC, artifact_id ASC
	`, string(target))
	if err != nil {
		return nil, fmt.Errorf("query sync states: %w", err)
	}
	defer rows.Close()

	states := []model.SyncState{}
	for rows.Next() {
		st, err := scanSyncState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync state: %w", err)
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync states: %w", err)
	}
	return states, nil
}

// GetTrackedArtifacts joins a target's sync state with artifact identity.
// Used by the deletion pass to find target outputs whose source is gone.
func (s *Store) GetTrackedArtifacts(ctx context.Context, target model.SystemID) ([]model.TrackedArtifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.artifact_id, s.target_system, s.target_path, s.sync_method, s.synced_hash,
		       s.last_synced_at, s.status, s.error_message,
		       a.name, a.type, a.source_system
		FROM artifact_sync_state s
		JOIN artifacts a ON a.id = s.artifact_id
		WHERE s.target_system = ?
		ORDER BY a.type ASC, a.name COLLATE BINARY ASC
	`, string(target))
	if err != nil {
		return nil, fmt.Errorf("query tracked artifacts: %w", err)
	}
	defer rows.Close()

	tracked := []model.TrackedArtifact{}
	for rows.Next() {
		var (
			t            model.TrackedArtifact
			method       string
			status       string
			syncedHash   sql.NullString
			lastSyncedAt sql.NullString
			errMsg       sql.NullString
			artifactType string
			source       string
			targetSystem string
		)
		err := rows.Scan(
			&t.State.ArtifactID, &targetSystem, &t.State.TargetPath, &method, &syncedHash,
			&lastSyncedAt, &status, &errMsg,
			&t.Name, &artifactType, &source,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tracked artifact: %w", err)
		}
		t.State.TargetSystem = model.SystemID(targetSystem)
		t.State.SyncMethod = model.SyncMethod(method)
		t.State.Status = model.SyncStatus(status)
		t.State.SyncedHash = syncedHash.String
		t.State.ErrorMessage = errMsg.String
		if t.State.LastSyncedAt, err = parseNullTime(lastSyncedAt); err != nil {
			return nil, err
		}
		t.Type = model.ArtifactType(artifactType)
		t.SourceSystem = model.SystemID(source)
		tracked = append(tracked, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracked artifacts: %w", err)
	}
	return tracked, nil
}

// IsTrackedPath reports whether a successful earlier run for target produced
// exactly this path. Failed attempts do not count.
func (s *Store) IsTrackedPath(ctx context.Context, target model.SystemID, path string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM artifact_sync_state
		WHERE target_system = ? AND target_path = ? AND status = ?
	`, string(target), path, string(model.StatusSynced)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check tracked path: %w", err)
	}
	return count > 0, nil
}

// CountSyncStates returns how many targets hold a ledger entry for the artifact.
func (s *Store) CountSyncStates(ctx context.Context, artifactID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM artifact_sync_state WHERE artifact_id = ?`, artifactID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sync states %s: %w", artifactID, err)
	}
	return count, nil
}

// CompareArtifacts joins a source system's artifacts against one target's
// sync state and classifies each as missing, modified or unchanged.
// Results are ordered by type, then name.
func (s *Store) CompareArtifacts(
	ctx context.Context,
	source, target model.SystemID,
	types []model.ArtifactType,
) ([]model.ArtifactDiff, error) {
	query := `
		SELECT a.id, a.name, a.type, a.checksum,
		       st.artifact_id IS NOT NULL, st.synced_hash, st.target_path, st.last_synced_at
		FROM artifacts a
		LEFT JOIN artifact_sync_state st ON st.artifact_id = a.id AND st.target_system = ?
		WHERE a.source_system = ?`
	args := []any{string(target), string(source)}
	if len(types) > 0 {
		clause, typeArgs := typeInClause("a.type", types)
		query += " AND " + clause
		args = append(args, typeArgs...)
	}
	query += " ORDER BY a.type ASC, a.name COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query artifact comparison: %w", err)
	}
	defer rows.Close()

	diffs := []model.ArtifactDiff{}
	for rows.Next() {
		var (
			d            model.ArtifactDiff
			artifactType string
			hasState     bool
			syncedHash   sql.NullString
			targetPath   sql.NullString
			lastSyncedAt sql.NullString
		)
		err := rows.Scan(&d.ArtifactID, &d.Name, &artifactType, &d.SourceChecksum,
			&hasState, &syncedHash, &targetPath, &lastSyncedAt)
		if err != nil {
			return nil, fmt.Errorf("scan artifact comparison: %w", err)
		}
		d.Type = model.ArtifactType(artifactType)
		d.SourceSystem = source
		d.TargetSystem = target
		d.SyncedHash = syncedHash.String
		d.TargetPath = targetPath.String
		if d.LastSyncedAt, err = parseNullTime(lastSyncedAt); err != nil {
			return nil, err
		}

		switch {
		case !hasState:
			d.Status = model.DiffMissing
		case !syncedHash.Valid || syncedHash.String != d.SourceChecksum:
			d.Status = model.DiffModified
		default:
			d.Status = model.DiffUnchanged
		}
		diffs = append(diffs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact comparison: %w", err)
	}
	return diffs, nil
}

// GetOutOfSyncArtifacts returns only the missing and modified entries of CompareArtifacts.
func (s *Store) GetOutOfSyncArtifacts(
	ctx context.Context,
	source, target model.SystemID,
	types []model.ArtifactType,
) ([]model.ArtifactDiff, error) {
	all, err := s.CompareArtifacts(ctx, source, target, types)
	if err != nil {
		return nil, err
	}
	out := []model.ArtifactDiff{}
	for _, d := range all {
		if d.Status != model.DiffUnchanged {
			out = append(out, d)
		}
	}
	return out, nil
}

// GetSyncJob retrieves a job by ID. Returns ErrNotFound if it does not exist.
func (s *Store) GetSyncJob(ctx context.Context, id string) (model.SyncJob, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM sync_jobs WHERE id = ?`, id)
	job, err := scanSyncJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SyncJob{}, fmt.Errorf("get sync job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.SyncJob{}, fmt.Errorf("get sync job %s: %w", id, err)
	}
	return job, nil
}

// ListSyncJobs returns the most recent jobs first. A limit <= 0 returns all jobs.
func (s *Store) ListSyncJobs(ctx context.Context, limit int) ([]model.SyncJob, error) {
	query := `SELECT ` + jobColumns + ` FROM sync_jobs ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync jobs: %w", err)
	}
	defer rows.Close()

	jobs := []model.SyncJob{}
	for rows.Next() {
		job, err := scanSyncJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync jobs: %w", err)
	}
	return jobs, nil
}

// GetSyncResults returns a job's per-artifact results in insertion order.
func (s *Store) GetSyncResults(ctx context.Context, jobID string) ([]model.SyncResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, artifact_id, artifact_name, artifact_type, target_system, operation,
		       success, target_path, sync_method, message, error, error_code, created_at
		FROM sync_results
		WHERE job_id = ?
		ORDER BY id ASC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("query sync results: %w", err)
	}
	defer rows.Close()

	results := []model.SyncResult{}
	for rows.Next() {
		var (
			r            model.SyncResult
			artifactType string
			target       string
			operation    string
			targetPath   sql.NullString
			method       sql.NullString
			message      sql.NullString
			errMsg       sql.NullString
			errCode      sql.NullString
			createdAt    string
		)
		err := rows.Scan(&r.ID, &r.JobID, &r.ArtifactID, &r.ArtifactName, &artifactType, &target,
			&operation, &r.Success, &targetPath, &method, &message, &errMsg, &errCode, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan sync result: %w", err)
		}
		r.ArtifactType = model.ArtifactType(artifactType)
		r.TargetSystem = model.SystemID(target)
		r.Operation = model.Operation(operation)
		r.TargetPath = targetPath.String
		r.SyncMethod = model.SyncMethod(method.String)
		r.Message = message.String
		r.Error = errMsg.String
		r.ErrorCode = errCode.String
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync results: %w", err)
	}
	return results, nil
}

// GetMappingRules returns the rules for a system pair, highest priority first.
// Ties are broken by ID so the order is deterministic.
func (s *Store) GetMappingRules(ctx context.Context, source, target model.SystemID) ([]model.MappingRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_system, target_system, artifact_type, source_pattern,
		       target_pattern, transform_type, use_symlink, priority
		FROM mapping_rules
		WHERE source_system = ? AND target_system = ?
		ORDER BY priority DESC, id ASC
	`, string(source), string(target))
	if err != nil {
		return nil, fmt.Errorf("query mapping rules: %w", err)
	}
	defer rows.Close()

	rules := []model.MappingRule{}
	for rows.Next() {
		var (
			r             model.MappingRule
			src, tgt, typ string
			targetPattern sql.NullString
			transformType sql.NullString
		)
		err := rows.Scan(&r.ID, &src, &tgt, &typ, &r.SourcePattern,
			&targetPattern, &transformType, &r.UseSymlink, &r.Priority)
		if err != nil {
			return nil, fmt.Errorf("scan mapping rule: %w", err)
		}
		r.SourceSystem = model.SystemID(src)
		r.TargetSystem = model.SystemID(tgt)
		r.ArtifactType = model.ArtifactType(typ)
		r.TargetPattern = targetPattern.String
		r.TransformType = model.ArtifactType(transformType.String)
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mapping rules: %w", err)
	}
	return rules, nil
}

// GetSetting returns a setting value. Returns ErrNotFound if unset.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get setting %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// ListSystems returns the system registry ordered by ID.
func (s *Store) ListSystems(ctx context.Context) ([]model.SystemRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, configured, last_seen_at FROM systems ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query systems: %w", err)
	}
	defer rows.Close()

	systems := []model.SystemRecord{}
	for rows.Next() {
		var (
			rec      model.SystemRecord
			id       string
			lastSeen sql.NullString
		)
		if err := rows.Scan(&id, &rec.Name, &rec.Configured, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan system: %w", err)
		}
		rec.ID = model.SystemID(id)
		if rec.LastSeenAt, err = parseNullTime(lastSeen); err != nil {
			return nil, err
		}
		systems = append(systems, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate systems: %w", err)
	}
	return systems, nil
}

// GetStats counts artifacts, ledger entries by status, and jobs.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM artifacts),
			(SELECT COUNT(*) FROM artifact_sync_state),
			(SELECT COUNT(*) FROM artifact_sync_state WHERE status = 'synced'),
			(SELECT COUNT(*) FROM artifact_sync_state WHERE status = 'failed'),
			(SELECT COUNT(*) FROM sync_jobs)
	`).Scan(&st.Artifacts, &st.SyncStates, &st.Synced, &st.Failed, &st.Jobs)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}

// typeInClause builds "column IN (?, ?, ...)" for a type filter.
func typeInClause(column string, types []model.ArtifactType) (string, []any) {
	placeholders := make([]string, len(types))
	args := make([]any, len(types))
	for i, t := range types {
		placeholders[i] = "?"
		args[i] = string(t)
	}
	return column + " IN (" + strings.Join(placeholders, ", ") + ")", args
}
