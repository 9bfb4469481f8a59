package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aisync/internal/adapter"
	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/testutil"
)

func TestPathOrigin_Replaceable(t *testing.T) {
	for _, o := range []PathOrigin{OriginAbsent, OriginSynced, OriginForeignLink, OriginNativeFile} {
		assert.True(t, o.Replaceable(false), o.String())
	}
	assert.False(t, OriginNativeDir.Replaceable(false))
	assert.True(t, OriginNativeDir.Replaceable(true))
	assert.Equal(t, "PathOrigin(42)", PathOrigin(42).String())
}

func TestClassifyDestination(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need developer mode on windows")
	}
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"src/review/SKILL.md":  "x",
		"other/SKILL.md":       "y",
		"dst/native/SKILL.md":  "z",
		"dst/tracked/SKILL.md": "z",
		"dst/file.md":          "f",
		"dst/c#-tips.md":       "h",
		"dst/c#-dir/notes.md":  "d",
	})
	source := filepath.Join(root, "src/review")
	require.NoError(t, os.Symlink(source, filepath.Join(root, "dst/ours")))
	require.NoError(t, os.Symlink(filepath.Join(root, "other"), filepath.Join(root, "dst/foreign")))
	require.NoError(t, os.Symlink("../src/review", filepath.Join(root, "dst/relative")))

	e := newTestEngine(t, root)
	ctx := context.Background()

	a := model.NewArtifact(model.SystemClaude, model.TypeSkill, "review", "x")
	require.NoError(t, e.store.UpsertArtifact(ctx, a))
	require.NoError(t, e.store.UpsertSyncState(ctx, model.SyncState{
		ArtifactID: a.ID, TargetSystem: model.SystemCodex, TargetPath: filepath.Join(root, "dst/tracked"),
		SyncMethod: model.MethodCopy, SyncedHash: a.Checksum, Status: model.StatusSynced,
	}))

	tests := []struct {
		path string
		want PathOrigin
	}{
		{"dst/missing", OriginAbsent},
		{"dst/ours", OriginSynced},
		{"dst/relative", OriginSynced},
		{"dst/foreign", OriginForeignLink},
		{"dst/native", OriginNativeDir},
		{"dst/tracked", OriginSynced},
		{"dst/file.md", OriginNativeFile},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := e.classifyDestination(ctx, model.SystemCodex, model.TypeSkill, filepath.Join(root, tt.path), source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// Tracking is per target.
	got, err := e.classifyDestination(ctx, model.SystemCursor, model.TypeSkill, filepath.Join(root, "dst/tracked"), source)
	require.NoError(t, err)
	assert.Equal(t, OriginNativeDir, got)

	// A fragment separator in the name does not make a file an MCP entry.
	got, err = e.classifyDestination(ctx, model.SystemCodex, model.TypeCommand, filepath.Join(root, "dst/c#-tips.md"), "")
	require.NoError(t, err)
	assert.Equal(t, OriginNativeFile, got)
	got, err = e.classifyDestination(ctx, model.SystemCodex, model.TypeSkill, filepath.Join(root, "dst/c#-dir"), "")
	require.NoError(t, err)
	assert.Equal(t, OriginNativeDir, got)
}

func TestClassifyDestination_MCPEntry(t *testing.T) {
	root := t.TempDir()
	e := newTestEngine(t, root)
	ctx := context.Background()

	dest := adapter.MCPTargetPath(filepath.Join(root, ".codex/config.toml"), "fs")
	got, err := e.classifyDestination(ctx, model.SystemCodex, model.TypeMCPServer, dest, "")
	require.NoError(t, err)
	assert.Equal(t, OriginAbsent, got)

	a := model.NewArtifact(model.SystemClaude, model.TypeMCPServer, "fs", "{}")
	require.NoError(t, e.store.UpsertArtifact(ctx, a))
	require.NoError(t, e.store.UpsertSyncState(ctx, model.SyncState{
		ArtifactID: a.ID, TargetSystem: model.SystemCodex, TargetPath: dest,
		SyncMethod: model.MethodCopy, SyncedHash: a.Checksum, Status: model.StatusSynced,
	}))

	got, err = e.classifyDestination(ctx, model.SystemCodex, model.TypeMCPServer, dest, "")
	require.NoError(t, err)
	assert.Equal(t, OriginSynced, got)
}
