package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/store"
)

// Status reports every registered system as currently seen on disk, merged
// with what the store remembers about it, plus store-wide counters.
func (e *Engine) Status(ctx context.Context) (*StatusReport, error) {
	records, err := e.store.ListSystems(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[model.SystemID]model.SystemRecord, len(records))
	for _, r := range records {
		known[r.ID] = r
	}

	report := &StatusReport{Root: e.root, Systems: []SystemStatus{}}
	for _, id := range e.registry.IDs() {
		a, err := e.registry.Get(id)
		if err != nil {
			return nil, err
		}
		states, err := e.store.GetSyncStatesForTarget(ctx, id)
		if err != nil {
			return nil, err
		}
		report.Systems = append(report.Systems, SystemStatus{
			ID:         id,
			Name:       a.Name(),
			Configured: a.IsConfigured(e.root),
			LastSeenAt: known[id].LastSeenAt,
			Tracked:    len(states),
		})
	}

	last, err := e.store.GetSetting(ctx, SettingLastSync)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		if report.LastSync, err = time.Parse(time.RFC3339Nano, last); err != nil {
			return nil, fmt.Errorf("parse %s setting: %w", SettingLastSync, err)
		}
	}

	if report.Stats, err = e.store.GetStats(ctx); err != nil {
		return nil, err
	}
	return report, nil
}

// Detect records which registered systems are configured under the root.
// Used by `aisync init`.
// A system that is no longer configured keeps its last-seen time.
func (e *Engine) Detect(ctx context.Context) ([]SystemStatus, error) {
	records, err := e.store.ListSystems(ctx)
	if err != nil {
		return nil, err
	}
	lastSeen := make(map[model.SystemID]time.Time, len(records))
	for _, r := range records {
		lastSeen[r.ID] = r.LastSeenAt
	}

	out := []SystemStatus{}
	for _, id := range e.registry.IDs() {
		a, err := e.registry.Get(id)
		if err != nil {
			return nil, err
		}
		st := SystemStatus{ID: id, Name: a.Name(), Configured: a.IsConfigured(e.root), LastSeenAt: lastSeen[id]}
		if st.Configured {
			st.LastSeenAt = e.now()
		}
		rec := model.SystemRecord{ID: id, Name: st.Name, Configured: st.Configured, LastSeenAt: st.LastSeenAt}
		if err := e.store.UpsertSystem(ctx, rec); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// History returns the most recent jobs, newest first. A limit of zero or less
// returns every job.
func (e *Engine) History(ctx context.Context, limit int) ([]model.SyncJob, error) {
	return e.store.ListSyncJobs(ctx, limit)
}

// JobResults returns a job and its per-artifact results in recorded order.
// Returns store.ErrNotFound (wrapped) for an unknown job.
func (e *Engine) JobResults(ctx context.Context, jobID string) (*JobReport, error) {
	job, err := e.store.GetSyncJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	results, err := e.store.GetSyncResults(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &JobReport{Job: job, Results: results}, nil
}
