package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/aisync/internal/adapter"
	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/store"
)

// Sync runs one reconciliation job from opts.Source into each target.
//
// Only job-level failures are returned as errors: an unknown, unconfigured or
// unscannable source, or a store failure while creating or finalizing the job.
// Everything else is absorbed into the returned summary and the job's result rows.
func (e *Engine) Sync(ctx context.Context, opts SyncOptions) (*SyncSummary, error) {
	targets := e.resolveTargets(opts)

	job := model.SyncJob{
		ID:            e.jobIDs.Generate(),
		SourceSystem:  opts.Source,
		TargetSystems: targets,
		ArtifactTypes: opts.ArtifactTypes,
		DryRun:        opts.DryRun,
		Force:         opts.Force,
		UseSymlinks:   opts.UseSymlinks,
		SyncDeletions: opts.SyncDeletions,
		Status:        model.JobRunning,
		StartedAt:     e.now(),
	}
	if err := e.store.CreateSyncJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create sync job: %w", err)
	}

	log := e.logger.With("job", job.ID, "source", opts.Source)
	log.Info("sync started", "targets", targets, "dry_run", opts.DryRun, "force", opts.Force)

	artifacts, collisions, err := e.scanSource(ctx, opts.Source, opts.ArtifactTypes, !opts.DryRun)
	if err != nil {
		e.failJob(ctx, &job, err)
		log.Error("sync failed", "error", err)
		return nil, err
	}
	log.Debug("source scanned", "artifacts", len(artifacts), "collisions", len(collisions))

	run := &syncRun{engine: e, job: &job, opts: opts, log: log, collisions: collisions}
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			run.abortTarget(ctx, target, artifacts, err)
			continue
		}
		run.syncTarget(ctx, target, artifacts)
	}
	return run.finish(ctx)
}

// resolveTargets defaults to every registered system except the source and
// drops duplicates and the source itself from an explicit list.
func (e *Engine) resolveTargets(opts SyncOptions) []model.SystemID {
	candidates := opts.Targets
	if len(candidates) == 0 {
		candidates = e.registry.IDs()
	}

	seen := map[model.SystemID]bool{}
	targets := []model.SystemID{}
	for _, t := range candidates {
		if t == opts.Source {
			if len(opts.Targets) > 0 {
				e.logger.Warn("ignoring source system listed as target", "system", t)
			}
			continue
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		targets = append(targets, t)
	}
	return targets
}

// scanSource resolves and scans the source adapter, then refreshes the stored
// artifact records. The refresh is not gated by dry-run. Artifacts whose ID
// collides with an earlier one are returned separately and never stored.
func (e *Engine) scanSource(
	ctx context.Context,
	source model.SystemID,
	types []model.ArtifactType,
	recordSystem bool,
) ([]model.Artifact, []collision, error) {
	src, err := e.registry.Get(source)
	if err != nil {
		return nil, nil, &SyncError{Code: ErrCodeUnknownSystem, Message: "no adapter registered", System: source, Err: err}
	}
	if !src.IsConfigured(e.root) {
		return nil, nil, &SyncError{
			Code:    ErrCodeSourceNotConfigured,
			Message: fmt.Sprintf("%s not found under %s", src.Paths().ConfigDir, e.root),
			System:  source,
		}
	}

	scanned, err := src.ScanArtifacts(e.root, adapter.ScanOptions{Types: types})
	if err != nil {
		return nil, nil, &SyncError{Code: ErrCodeScanFailed, Message: "scan source artifacts", System: source, Err: err}
	}

	artifacts, collisions := splitCollisions(scanned)
	for _, c := range collisions {
		e.logger.Warn("artifact name collision",
			"source", source, "type", c.artifact.Type,
			"name", c.artifact.Name, "kept", c.kept.Name)
	}

	for _, a := range artifacts {
		if err := e.store.UpsertArtifact(ctx, a); err != nil {
			return nil, nil, err
		}
	}

	if recordSystem {
		if err := e.store.UpsertSystem(ctx, model.SystemRecord{
			ID: source, Name: src.Name(), Configured: true, LastSeenAt: e.now(),
		}); err != nil {
			return nil, nil, err
		}
	}
	return artifacts, collisions, nil
}

// collision is a scanned artifact whose ID was already taken by kept.
type collision struct {
	artifact model.Artifact
	kept     model.Artifact
}

// splitCollisions keeps the first artifact of each ID in scan order. Names
// that differ only in case or separators share an ID and would overwrite
// each other's ledger entry on every run, so only one of them is synced.
func splitCollisions(scanned []model.Artifact) ([]model.Artifact, []collision) {
	seen := make(map[string]int, len(scanned))
	kept := make([]model.Artifact, 0, len(scanned))
	var collisions []collision
	for _, a := range scanned {
		if i, ok := seen[a.ID]; ok {
			collisions = append(collisions, collision{artifact: a, kept: kept[i]})
			continue
		}
		seen[a.ID] = len(kept)
		kept = append(kept, a)
	}
	return kept, collisions
}

func (e *Engine) failJob(ctx context.Context, job *model.SyncJob, cause error) {
	job.Status = model.JobFailed
	job.CompletedAt = e.now()
	job.ErrorMessage = cause.Error()
	if err := e.store.UpdateSyncJob(ctx, *job); err != nil {
		e.logger.Error("failed to finalize job", "job", job.ID, "error", err)
	}
}

// syncRun carries the state of one Sync call across targets.
type syncRun struct {
	engine     *Engine
	job        *model.SyncJob
	opts       SyncOptions
	log        *slog.Logger
	collisions []collision
	details    []model.SyncResult
	aborted    []string
}

// syncTarget reconciles one target. A target-level failure, including a
// panicking adapter, records every artifact not yet handled as aborted.
func (r *syncRun) syncTarget(ctx context.Context, target model.SystemID, artifacts []model.Artifact) {
	next := 0
	defer func() {
		if p := recover(); p != nil {
			r.abortTarget(ctx, target, artifacts[next:], fmt.Errorf("adapter panic: %v", p))
		}
	}()

	if err := r.reconcileTarget(ctx, target, artifacts, &next); err != nil {
		r.abortTarget(ctx, target, artifacts[next:], err)
	}
}

func (r *syncRun) reconcileTarget(ctx context.Context, target model.SystemID, artifacts []model.Artifact, next *int) error {
	e := r.engine
	log := r.log.With("target", target)

	tgt, err := e.registry.Get(target)
	if err != nil {
		return &SyncError{Code: ErrCodeUnknownSystem, Message: "no adapter registered", System: target, Err: err}
	}

	if !tgt.IsConfigured(e.root) {
		if r.opts.DryRun {
			log.Info("target not configured; would initialize")
		} else {
			log.Info("initializing target")
			if err := tgt.Initialize(e.root); err != nil {
				return fmt.Errorf("initialize %s: %w", target, err)
			}
		}
	}

	rules, err := e.store.GetMappingRules(ctx, r.opts.Source, target)
	if err != nil {
		return err
	}
	rs := newRuleSet(rules, log)

	for i, a := range artifacts {
		*next = i
		res, err := r.syncArtifact(ctx, tgt, rs, a)
		if err != nil {
			return err
		}
		if err := r.record(ctx, res); err != nil {
			return err
		}
	}
	*next = len(artifacts)

	for _, c := range r.collisions {
		if err := r.record(ctx, r.collided(target, c)); err != nil {
			return err
		}
	}

	if r.opts.SyncDeletions {
		if err := r.syncDeletions(ctx, tgt, artifacts); err != nil {
			return err
		}
	}

	if !r.opts.DryRun {
		return e.store.UpsertSystem(ctx, model.SystemRecord{
			ID: target, Name: tgt.Name(), Configured: true, LastSeenAt: e.now(),
		})
	}
	return nil
}

// syncArtifact decides and, unless dry-run, performs the operation for one
// artifact on one target. Artifact-level failures are reported in the result;
// the error return is reserved for store failures that abort the target.
func (r *syncRun) syncArtifact(
	ctx context.Context,
	tgt adapter.Adapter,
	rs *ruleSet,
	a model.Artifact,
) (model.SyncResult, error) {
	e := r.engine
	target := tgt.SystemID()
	res := model.SyncResult{
		JobID:        r.job.ID,
		ArtifactID:   a.ID,
		ArtifactName: a.Name,
		ArtifactType: a.Type,
		TargetSystem: target,
	}

	caps := tgt.Capabilities()
	writeType, ok := caps.Resolve(a.Type)
	if ok && a.Type == model.TypeMCPServer {
		_, ok = adapter.AsMCPServerAdapter(tgt)
	}
	if !ok {
		return skipped(res, fmt.Sprintf("unsupported type: %s does not support %s", target, a.Type)), nil
	}

	rule := rs.match(a)
	if rule != nil && rule.TransformType != "" && caps.Supports(rule.TransformType) && a.Type != model.TypeMCPServer {
		writeType = rule.TransformType
	}
	transform := writeType != a.Type
	useSymlink := rule != nil && rule.UseSymlink && r.opts.UseSymlinks &&
		caps.SymlinksSupported && !transform && a.Type != model.TypeMCPServer && a.SourcePath != ""

	res.SyncMethod = model.MethodCopy
	switch {
	case transform:
		res.SyncMethod = model.MethodTransform
	case useSymlink:
		res.SyncMethod = model.MethodSymlink
	}

	prior, err := e.store.GetSyncState(ctx, a.ID, target)
	hasPrior := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return res, err
	}

	res.Operation = model.OpCreate
	if hasPrior && prior.SyncedHash != "" {
		res.Operation = model.OpUpdate
	}

	if hasPrior && prior.SyncedHash == a.Checksum && !r.opts.Force {
		res.TargetPath = prior.TargetPath
		res.SyncMethod = prior.SyncMethod
		return skipped(res, "already up to date"), nil
	}

	out := a
	if transform {
		out, err = tgt.TransformArtifact(a, adapter.TransformOptions{
			SourceFormat:     a.Type,
			TargetFormat:     writeType,
			PreserveMetadata: true,
		})
		if err != nil {
			return r.fail(ctx, res, fmt.Errorf("transform to %s: %w", writeType, err))
		}
	}

	if v := tgt.ValidateArtifact(out); !v.Valid {
		return r.fail(ctx, res, fmt.Errorf("invalid %s: %s", out.Type, strings.Join(v.Errors, "; ")))
	}

	rel := tgt.ArtifactPath(out)
	if rule != nil && rule.TargetPattern != "" {
		rel = expandTargetPattern(rule.TargetPattern, a, writeType)
	}
	if rel == "" {
		return r.fail(ctx, res, fmt.Errorf("%s has no location for %s", target, writeType))
	}
	dest := rel
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(e.root, rel)
	}
	res.TargetPath = dest

	origin, err := e.classifyDestination(ctx, target, a.Type, dest, a.SourcePath)
	if err != nil {
		return r.fail(ctx, res, err)
	}
	if !origin.Replaceable(r.opts.Force) {
		// Guarded: nothing is written, not even a failed ledger entry, so the
		// directory never becomes "tracked" by accident.
		res.Success = false
		res.ErrorCode = string(ErrCodeUnsafeDestination)
		res.Error = (&SyncError{
			Code:    ErrCodeUnsafeDestination,
			Message: fmt.Sprintf("%s is a directory aisync did not create; use --force to replace it", dest),
			System:  target,
		}).Error()
		return res, nil
	}

	if r.opts.DryRun {
		res.Success = true
		res.Message = fmt.Sprintf("dry run: would %s (%s)", res.Operation, origin)
		return res, nil
	}

	written, err := tgt.WriteArtifact(e.root, out, adapter.WriteOptions{
		Overwrite:         origin != OriginAbsent,
		CreateDirectories: true,
		UseSymlink:        useSymlink,
		SymlinkTarget:     a.SourcePath,
		TargetPath:        rel,
	})
	if err != nil {
		return r.fail(ctx, res, err)
	}
	res.TargetPath = written

	err = e.store.UpsertSyncState(ctx, model.SyncState{
		ArtifactID:   a.ID,
		TargetSystem: target,
		TargetPath:   written,
		SyncMethod:   res.SyncMethod,
		SyncedHash:   a.Checksum,
		LastSyncedAt: e.now(),
		Status:       model.StatusSynced,
	})
	if err != nil {
		return res, err
	}

	res.Success = true
	if origin == OriginNativeDir {
		res.Message = "replaced existing directory (forced)"
	}
	return res, nil
}

func skipped(res model.SyncResult, msg string) model.SyncResult {
	res.Operation = model.OpSkip
	res.Success = true
	res.Message = msg
	return res
}

// fail records an artifact-level failure. Outside dry-run the ledger entry is
// marked failed with no synced hash, so the next run retries it.
func (r *syncRun) fail(ctx context.Context, res model.SyncResult, cause error) (model.SyncResult, error) {
	res.Success = false
	res.Error = cause.Error()
	if r.opts.DryRun {
		return res, nil
	}

	err := r.engine.store.UpsertSyncState(ctx, model.SyncState{
		ArtifactID:   res.ArtifactID,
		TargetSystem: res.TargetSystem,
		TargetPath:   res.TargetPath,
		SyncMethod:   res.SyncMethod,
		LastSyncedAt: r.engine.now(),
		Status:       model.StatusFailed,
		ErrorMessage: res.Error,
	})
	return res, err
}

// record stamps, persists (outside dry-run) and collects a result.
func (r *syncRun) record(ctx context.Context, res model.SyncResult) error {
	res.CreatedAt = r.engine.now()
	if !r.opts.DryRun {
		id, err := r.engine.store.AddSyncResult(ctx, res)
		if err != nil {
			return err
		}
		res.ID = id
	}
	r.details = append(r.details, res)
	r.logResult(ctx, res)
	return nil
}

func (r *syncRun) logResult(ctx context.Context, res model.SyncResult) {
	level := slog.LevelDebug
	if r.opts.Verbose {
		level = slog.LevelInfo
	}
	attrs := []any{
		"artifact", res.ArtifactName,
		"type", res.ArtifactType,
		"target", res.TargetSystem,
		"operation", res.Operation,
		"path", res.TargetPath,
	}
	if !res.Success {
		level = slog.LevelWarn
		attrs = append(attrs, "error", res.Error)
	} else if res.Message != "" {
		attrs = append(attrs, "message", res.Message)
	}
	r.log.Log(ctx, level, "artifact processed", attrs...)
}

// abortTarget records every remaining artifact of a failed target as aborted.
func (r *syncRun) abortTarget(ctx context.Context, target model.SystemID, remaining []model.Artifact, cause error) {
	r.log.Error("target aborted", "target", target, "remaining", len(remaining), "error", cause)
	r.aborted = append(r.aborted, fmt.Sprintf("%s: %v", target, cause))

	for _, a := range remaining {
		res := model.SyncResult{
			JobID:        r.job.ID,
			ArtifactID:   a.ID,
			ArtifactName: a.Name,
			ArtifactType: a.Type,
			TargetSystem: target,
			Operation:    model.OpAbort,
			Error:        cause.Error(),
		}
		if err := r.record(ctx, res); err != nil {
			// Keep the in-memory summary complete even when the store is the problem.
			res.CreatedAt = r.engine.now()
			r.details = append(r.details, res)
			r.log.Error("failed to record aborted artifact", "artifact", a.Name, "error", err)
		}
	}
}

// collided reports a colliding artifact as failed on target. Its ID belongs
// to the kept artifact, so no ledger entry is written for it.
func (r *syncRun) collided(target model.SystemID, c collision) model.SyncResult {
	return model.SyncResult{
		JobID:        r.job.ID,
		ArtifactID:   c.artifact.ID,
		ArtifactName: c.artifact.Name,
		ArtifactType: c.artifact.Type,
		TargetSystem: target,
		Operation:    model.OpSkip,
		Error:        fmt.Sprintf("name collides with %q; rename one of them", c.kept.Name),
		ErrorCode:    string(ErrCodeNameCollision),
	}
}

// finish aggregates counters and finalizes the job. A job with any aborted
// target is marked failed; artifact-level failures alone do not fail it.
func (r *syncRun) finish(ctx context.Context) (*SyncSummary, error) {
	e := r.engine
	completed := e.now()

	r.job.Summary = tally(r.details)
	r.job.CompletedAt = completed
	r.job.Status = model.JobCompleted
	if len(r.aborted) > 0 {
		r.job.Status = model.JobFailed
		r.job.ErrorMessage = strings.Join(r.aborted, "; ")
	}

	if err := e.store.UpdateSyncJob(ctx, *r.job); err != nil {
		return nil, fmt.Errorf("finalize sync job: %w", err)
	}
	if !r.opts.DryRun {
		if err := e.store.SetSetting(ctx, SettingLastSync, completed.Format(time.RFC3339Nano)); err != nil {
			return nil, err
		}
	}

	c := r.job.Summary
	r.log.Info("sync finished",
		"status", r.job.Status,
		"total", c.Total, "created", c.Created, "updated", c.Updated,
		"skipped", c.Skipped, "failed", c.Failed, "deleted", c.Deleted)

	details := r.details
	if details == nil {
		details = []model.SyncResult{}
	}
	return &SyncSummary{
		JobID:       r.job.ID,
		Source:      r.job.SourceSystem,
		Targets:     r.job.TargetSystems,
		DryRun:      r.job.DryRun,
		Status:      r.job.Status,
		StartedAt:   r.job.StartedAt,
		CompletedAt: completed,
		Results:     r.job.Summary,
		Details:     details,
	}, nil
}

// tally counts results by operation. Failed results count only as failed;
// symlinked is counted on top of created/updated.
func tally(results []model.SyncResult) model.ResultCounts {
	var c model.ResultCounts
	for _, res := range results {
		c.Total++
		if !res.Success {
			c.Failed++
			continue
		}
		switch res.Operation {
		case model.OpCreate, model.OpUpdate:
			if res.Operation == model.OpCreate {
				c.Created++
			} else {
				c.Updated++
			}
			if res.SyncMethod == model.MethodSymlink {
				c.Symlinked++
			}
		case model.OpSkip:
			c.Skipped++
		case model.OpDelete:
			c.Deleted++
		}
	}
	return c
}
