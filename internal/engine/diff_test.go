package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/testutil"
)

func diffStatuses(diffs []model.ArtifactDiff) map[string]model.DiffStatus {
	out := map[string]model.DiffStatus{}
	for _, d := range diffs {
		out[string(d.Type)+":"+d.Name] = d.Status
	}
	return out
}

func TestDiff_BeforeAnySync(t *testing.T) {
	e := newTestEngine(t, claudeProject(t))

	diffs, err := e.Diff(context.Background(), model.SystemClaude, model.SystemCodex, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]model.DiffStatus{
		"skill:review":  model.DiffMissing,
		"agent:planner": model.DiffMissing,
		"command:ship":  model.DiffMissing,
		"mcp_server:fs": model.DiffMissing,
	}, diffStatuses(diffs))
	assert.Equal(t, model.TypeAgent, diffs[0].Type, "ordered by type, then name")
}

func TestDiff_AddedAndDeleted(t *testing.T) {
	root := claudeProject(t)
	e := newTestEngine(t, root)
	ctx := context.Background()

	_, err := e.Sync(ctx, toCodex())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, ".claude/commands/ship.md")))
	testutil.WriteTree(t, root, map[string]string{
		".codex/skills/local/SKILL.md": "---\nname: local\n---\nCodex only.\n",
	})

	diffs, err := e.Diff(ctx, model.SystemClaude, model.SystemCodex, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]model.DiffStatus{
		"skill:review":  model.DiffUnchanged,
		"skill:local":   model.DiffAdded,
		"agent:planner": model.DiffMissing,
		"command:ship":  model.DiffDeleted,
		"mcp_server:fs": model.DiffUnchanged,
	}, diffStatuses(diffs))

	for _, d := range diffs {
		if d.Status == model.DiffAdded {
			assert.Equal(t, filepath.Join(root, ".codex/skills/local"), d.TargetPath)
			assert.Empty(t, d.ArtifactID)
		}
	}
}

func TestDiff_TypeFilterAndUnknownTarget(t *testing.T) {
	e := newTestEngine(t, claudeProject(t))
	ctx := context.Background()

	diffs, err := e.Diff(ctx, model.SystemClaude, model.SystemCursor, []model.ArtifactType{model.TypeCommand})
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, "ship", diffs[0].Name)

	_, err = e.Diff(ctx, model.SystemClaude, "windsurf", nil)
	assert.True(t, IsUnknownSystem(err))

	_, err = newTestEngine(t, t.TempDir()).Diff(ctx, model.SystemClaude, model.SystemCodex, nil)
	assert.True(t, IsSourceNotConfigured(err))
}
