package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/store"
)

func TestStatus(t *testing.T) {
	root := claudeProject(t)
	e := newTestEngine(t, root)
	ctx := context.Background()

	before, err := e.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, root, before.Root)
	assert.True(t, before.LastSync.IsZero())
	assert.Zero(t, before.Stats.Jobs)

	summary, err := e.Sync(ctx, toCodex())
	require.NoError(t, err)

	report, err := e.Status(ctx)
	require.NoError(t, err)
	require.Len(t, report.Systems, 5)

	byID := map[model.SystemID]SystemStatus{}
	for _, s := range report.Systems {
		byID[s.ID] = s
	}
	assert.True(t, byID[model.SystemClaude].Configured)
	assert.Equal(t, "Claude Code", byID[model.SystemClaude].Name)
	assert.True(t, byID[model.SystemCodex].Configured)
	assert.Equal(t, 3, byID[model.SystemCodex].Tracked)
	assert.False(t, byID[model.SystemCodex].LastSeenAt.IsZero())
	assert.False(t, byID[model.SystemCopilot].Configured)
	assert.Zero(t, byID[model.SystemCopilot].Tracked)

	assert.True(t, report.LastSync.Equal(summary.CompletedAt))
	assert.Equal(t, store.Stats{Artifacts: 4, SyncStates: 3, Synced: 3, Jobs: 1}, report.Stats)
}

func TestDetect(t *testing.T) {
	e := newTestEngine(t, claudeProject(t))
	ctx := context.Background()

	systems, err := e.Detect(ctx)
	require.NoError(t, err)
	require.Len(t, systems, 5)

	records, err := e.store.ListSystems(ctx)
	require.NoError(t, err)
	for _, r := range records {
		assert.Equal(t, r.ID == model.SystemClaude, r.Configured, r.ID)
	}
}

func TestHistoryAndJobResults(t *testing.T) {
	e := newTestEngine(t, claudeProject(t))
	ctx := context.Background()

	first, err := e.Sync(ctx, toCodex())
	require.NoError(t, err)
	_, err = e.Sync(ctx, toCodex(func(o *SyncOptions) { o.DryRun = true }))
	require.NoError(t, err)

	jobs, err := e.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-2", jobs[0].ID)
	assert.True(t, jobs[0].DryRun)

	all, err := e.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.Results, all[1].Summary)
	assert.Equal(t, []model.SystemID{model.SystemCodex}, all[1].TargetSystems)

	report, err := e.JobResults(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobCompleted, report.Job.Status)
	require.Len(t, report.Results, len(first.Details))
	for i, r := range report.Results {
		assert.Equal(t, first.Details[i].ArtifactName, r.ArtifactName)
		assert.Equal(t, first.Details[i].Operation, r.Operation)
	}

	dry, err := e.JobResults(ctx, "job-2")
	require.NoError(t, err)
	assert.Empty(t, dry.Results, "dry runs persist no results")

	_, err = e.JobResults(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
