package engine

import (
	"cmp"
	"context"
	"slices"

	"github.com/roach88/aisync/internal/adapter"
	"github.com/roach88/aisync/internal/model"
)

// Diff compares the source's current artifacts with what was last synced to
// target. It refreshes the stored source artifacts but never touches the
// filesystem of either system.
//
// Besides the missing, modified and unchanged entries computed from the
// ledger, Diff reports "deleted" for synced artifacts whose source is gone and
// "added" for target artifacts that did not come from this tool and have no
// counterpart in the source.
func (e *Engine) Diff(
	ctx context.Context,
	source, target model.SystemID,
	types []model.ArtifactType,
) ([]model.ArtifactDiff, error) {
	artifacts, _, err := e.scanSource(ctx, source, types, false)
	if err != nil {
		return nil, err
	}
	tgt, err := e.registry.Get(target)
	if err != nil {
		return nil, &SyncError{Code: ErrCodeUnknownSystem, Message: "no adapter registered", System: target, Err: err}
	}

	compared, err := e.store.CompareArtifacts(ctx, source, target, types)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(artifacts))
	for _, a := range artifacts {
		present[a.ID] = true
	}

	diffs := []model.ArtifactDiff{}
	for _, d := range compared {
		if !present[d.ArtifactID] {
			// Stored from an earlier scan but gone from the source now.
			if d.Status == model.DiffMissing {
				continue
			}
			d.Status = model.DiffDeleted
		}
		diffs = append(diffs, d)
	}

	added, err := e.untrackedTargetArtifacts(ctx, tgt, source, artifacts, types)
	if err != nil {
		return nil, err
	}
	diffs = append(diffs, added...)

	slices.SortStableFunc(diffs, func(a, b model.ArtifactDiff) int {
		return cmp.Or(cmp.Compare(a.Type, b.Type), cmp.Compare(a.Name, b.Name))
	})
	return diffs, nil
}

// untrackedTargetArtifacts lists target artifacts this tool never wrote that
// match nothing in the source by normalized name.
func (e *Engine) untrackedTargetArtifacts(
	ctx context.Context,
	tgt adapter.Adapter,
	source model.SystemID,
	artifacts []model.Artifact,
	types []model.ArtifactType,
) ([]model.ArtifactDiff, error) {
	if !tgt.IsConfigured(e.root) {
		return nil, nil
	}
	found, err := tgt.ScanArtifacts(e.root, adapter.ScanOptions{Types: types})
	if err != nil {
		return nil, &SyncError{Code: ErrCodeScanFailed, Message: "scan target artifacts", System: tgt.SystemID(), Err: err}
	}

	caps := tgt.Capabilities()
	known := map[model.ArtifactType]map[string]bool{}
	remember := func(t model.ArtifactType, name string) {
		if known[t] == nil {
			known[t] = map[string]bool{}
		}
		known[t][model.NormalizeName(name)] = true
	}
	for _, a := range artifacts {
		remember(a.Type, a.Name)
		if written, ok := caps.Resolve(a.Type); ok {
			remember(written, a.Name)
		}
	}

	var added []model.ArtifactDiff
	for _, ta := range found {
		path := ta.SourcePath
		if ta.Type == model.TypeMCPServer {
			path = adapter.MCPTargetPath(ta.SourcePath, ta.Name)
		}
		tracked, err := e.store.IsTrackedPath(ctx, tgt.SystemID(), path)
		if err != nil {
			return nil, err
		}
		if tracked || known[ta.Type][model.NormalizeName(ta.Name)] {
			continue
		}
		added = append(added, model.ArtifactDiff{
			Name:         ta.Name,
			Type:         ta.Type,
			SourceSystem: source,
			TargetSystem: tgt.SystemID(),
			Status:       model.DiffAdded,
			TargetPath:   path,
		})
	}
	return added, nil
}
