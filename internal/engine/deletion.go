package engine

import (
	"context"
	"fmt"

	"github.com/roach88/aisync/internal/adapter"
	"github.com/roach88/aisync/internal/model"
)

// syncDeletions removes from tgt what earlier runs synced from this source
// that the current scan no longer contains. Only paths recorded in the
// ledger are ever touched.
func (r *syncRun) syncDeletions(ctx context.Context, tgt adapter.Adapter, scanned []model.Artifact) error {
	e := r.engine
	target := tgt.SystemID()

	present := make(map[string]bool, len(scanned))
	for _, a := range scanned {
		present[a.ID] = true
	}

	tracked, err := e.store.GetTrackedArtifacts(ctx, target)
	if err != nil {
		return err
	}

	for _, t := range tracked {
		if t.SourceSystem != r.opts.Source || present[t.State.ArtifactID] {
			continue
		}
		if !model.ContainsType(r.opts.ArtifactTypes, t.Type) {
			continue
		}

		res := model.SyncResult{
			JobID:        r.job.ID,
			ArtifactID:   t.State.ArtifactID,
			ArtifactName: t.Name,
			ArtifactType: t.Type,
			TargetSystem: target,
			Operation:    model.OpDelete,
			TargetPath:   t.State.TargetPath,
			SyncMethod:   t.State.SyncMethod,
		}

		if err := r.deleteTracked(ctx, tgt, t, &res); err != nil {
			return err
		}
		if err := r.record(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

// deleteTracked removes one stale artifact from the target and prunes its
// ledger entry. The stored artifact row goes once no target tracks it.
func (r *syncRun) deleteTracked(ctx context.Context, tgt adapter.Adapter, t model.TrackedArtifact, res *model.SyncResult) error {
	e := r.engine

	if r.opts.DryRun {
		res.Success = true
		res.Message = "dry run: would delete (source removed)"
		return nil
	}

	// A failed entry never produced its path, so only the ledger row goes.
	if t.State.Status == model.StatusSynced && t.State.TargetPath != "" {
		if err := tgt.DeleteArtifact(e.root, t.State.TargetPath); err != nil {
			res.Error = fmt.Sprintf("delete %s: %v", t.State.TargetPath, err)
			return nil
		}
	}

	if err := e.store.DeleteSyncState(ctx, t.State.ArtifactID, res.TargetSystem); err != nil {
		return err
	}
	remaining, err := e.store.CountSyncStates(ctx, t.State.ArtifactID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := e.store.DeleteArtifact(ctx, t.State.ArtifactID); err != nil {
			return err
		}
	}

	res.Success = true
	res.Message = "source removed"
	return nil
}
