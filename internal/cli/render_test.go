package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aisync/internal/engine"
	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/store"
)

// assertGolden compares output with testdata/golden/<name>.golden.
// Run `go test ./internal/cli -update` to rewrite the files.
func assertGolden(t *testing.T, name string, actual []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, actual)
}

func dryRunSummary() *engine.SyncSummary {
	return &engine.SyncSummary{
		JobID:   "job-7",
		Source:  model.SystemClaude,
		Targets: []model.SystemID{model.SystemCursor, model.SystemCodex},
		DryRun:  true,
		Status:  model.JobCompleted,
		Results: model.ResultCounts{Total: 4, Created: 1, Updated: 1, Skipped: 1, Failed: 1, Symlinked: 1},
		Details: []model.SyncResult{
			{
				ArtifactName: "review", ArtifactType: model.TypeRule, TargetSystem: model.SystemCursor,
				Operation: model.OpCreate, Success: true, SyncMethod: model.MethodTransform,
				TargetPath: "/p/.cursor/rules/review.mdc", Message: "dry run: would create (transform)",
			},
			{
				ArtifactName: "planner", ArtifactType: model.TypeAgent, TargetSystem: model.SystemCursor,
				Operation: model.OpSkip, Success: true,
				Message: "unsupported type: cursor does not support agent",
			},
			{
				ArtifactName: "review", ArtifactType: model.TypeSkill, TargetSystem: model.SystemCodex,
				Operation: model.OpUpdate, Success: true, SyncMethod: model.MethodSymlink,
				TargetPath: "/p/.codex/skills/review", Message: "dry run: would update (symlink)",
			},
			{
				ArtifactName: "ship", ArtifactType: model.TypeCommand, TargetSystem: model.SystemCodex,
				Operation: model.OpCreate, SyncMethod: model.MethodCopy, TargetPath: "/p/.codex/prompts/ship.md",
				Error: "UNSAFE_DESTINATION: /p/.codex/prompts/ship.md is a directory aisync did not create; use --force to replace it",
			},
		},
	}
}

func TestRenderSyncSummary_Verbose(t *testing.T) {
	var buf bytes.Buffer
	renderSyncSummary(&buf, dryRunSummary(), true)
	assertGolden(t, "sync_dry_run_verbose", buf.Bytes())
}

func TestRenderSyncSummary_HidesSkipsUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	renderSyncSummary(&buf, dryRunSummary(), false)

	out := buf.String()
	assert.NotContains(t, out, "planner")
	assert.NotContains(t, out, "/p/.codex/skills/review")
	assert.Contains(t, out, "  create  rule         review [transform]\n")
	assert.Contains(t, out, "  failed  command      ship: UNSAFE_DESTINATION")
	assert.Contains(t, out, "(1 symlinked)\n")
}

func TestRenderSyncSummary_NothingToDo(t *testing.T) {
	var buf bytes.Buffer
	renderSyncSummary(&buf, &engine.SyncSummary{
		JobID:   "job-1",
		Source:  model.SystemClaude,
		Targets: []model.SystemID{model.SystemOpenCode},
		Details: []model.SyncResult{},
	}, false)

	assert.Equal(t, "Sync claude -> opencode (job job-1)\n\nopencode\n  up to date\n\n"+
		"0 artifacts: 0 created, 0 updated, 0 skipped, 0 deleted, 0 failed\n", buf.String())
}

func TestRenderDiff(t *testing.T) {
	diffs := []model.ArtifactDiff{
		{Name: "planner", Type: model.TypeAgent, Status: model.DiffMissing},
		{Name: "ship", Type: model.TypeCommand, Status: model.DiffDeleted},
		{Name: "fs", Type: model.TypeMCPServer, Status: model.DiffModified},
		{Name: "local", Type: model.TypeRule, Status: model.DiffAdded},
		{Name: "review", Type: model.TypeSkill, Status: model.DiffUnchanged},
	}

	var buf bytes.Buffer
	renderDiff(&buf, model.SystemClaude, model.SystemCursor, diffs, false)
	assertGolden(t, "diff_cursor", buf.Bytes())

	buf.Reset()
	renderDiff(&buf, model.SystemClaude, model.SystemCursor, diffs, true)
	assert.Contains(t, buf.String(), "  unchanged skill        review\n")
}

func TestRenderDiff_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderDiff(&buf, model.SystemClaude, model.SystemCodex, nil, false)
	assert.Equal(t, "Diff claude -> codex\n  no artifacts\n\n"+
		"0 missing, 0 modified, 0 unchanged, 0 added, 0 deleted\n", buf.String())
}

func TestRenderStatus(t *testing.T) {
	seen := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	report := &engine.StatusReport{
		Root: "/p",
		Systems: []engine.SystemStatus{
			{ID: model.SystemClaude, Name: "Claude Code", Configured: true, LastSeenAt: seen},
			{ID: model.SystemCodex, Name: "OpenAI Codex", Configured: true, LastSeenAt: seen, Tracked: 3},
			{ID: model.SystemCursor, Name: "Cursor"},
		},
		Stats: store.Stats{Artifacts: 4, SyncStates: 3, Synced: 3, Jobs: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, renderStatus(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "Project: /p\n")
	assert.Contains(t, out, "Last sync: never\n")
	assert.Contains(t, out, "OpenAI Codex")
	assert.Contains(t, out, seen.Local().Format(timeLayout))
	assert.Contains(t, out, "4 artifacts, 3 ledger entries (3 synced, 0 failed), 1 jobs\n")
}

func TestRenderJobReport(t *testing.T) {
	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	report := &engine.JobReport{
		Job: model.SyncJob{
			ID:            "job-3",
			SourceSystem:  model.SystemClaude,
			TargetSystems: []model.SystemID{model.SystemCodex},
			Status:        model.JobFailed,
			StartedAt:     started,
			ErrorMessage:  "codex: adapter panic: boom",
		},
		Results: []model.SyncResult{
			{ArtifactName: "review", ArtifactType: model.TypeSkill, TargetSystem: model.SystemCodex, Operation: model.OpAbort, Error: "adapter panic: boom"},
		},
	}

	var buf bytes.Buffer
	renderJobReport(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "Job job-3: claude -> codex, failed\n")
	assert.Contains(t, out, "completed never\n")
	assert.Contains(t, out, "Error: codex: adapter panic: boom\n")
	assert.Contains(t, out, "\ncodex\n  failed  skill        review: adapter panic: boom\n")
}

func TestJoinSystems(t *testing.T) {
	assert.Equal(t, "(none)", joinSystems(nil))
	assert.Equal(t, "cursor, codex", joinSystems([]model.SystemID{model.SystemCursor, model.SystemCodex}))
}
