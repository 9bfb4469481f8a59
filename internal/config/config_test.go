package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/testutil"
)

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, ".aisync", "state.db"), cfg.Database)
	assert.Equal(t, model.SystemClaude, cfg.SourceSystem())
	assert.Empty(t, cfg.TargetSystems())
	assert.False(t, cfg.UseSymlinks)
	assert.Equal(t, LogConfig{Level: "info", Format: "text"}, cfg.Log)

	types, err := cfg.ArtifactTypes()
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestLoad_FileThenEnv(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		".aisync/config.yaml": `
source: cursor
targets: [codex, opencode]
types: [skills, commands]
use_symlinks: true
database: data/aisync.db
log:
  level: debug
`,
	})

	cfg, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, model.SystemCursor, cfg.SourceSystem())
	assert.Equal(t, []model.SystemID{model.SystemCodex, model.SystemOpenCode}, cfg.TargetSystems())
	assert.True(t, cfg.UseSymlinks)
	assert.Equal(t, filepath.Join(root, "data/aisync.db"), cfg.Database)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their defaults")

	types, err := cfg.ArtifactTypes()
	require.NoError(t, err)
	assert.Equal(t, []model.ArtifactType{model.TypeSkill, model.TypeCommand}, types)

	t.Setenv("AISYNC_SOURCE", "copilot")
	t.Setenv("AISYNC_LOG_FORMAT", "json")
	t.Setenv("AISYNC_SYNC_DELETIONS", "true")

	cfg, err = Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, model.SystemCopilot, cfg.SourceSystem())
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.SyncDeletions)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	root := t.TempDir()
	_, err := Load(root, filepath.Join(root, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"log level":     "log:\n  level: loud\n",
		"log format":    "log:\n  format: xml\n",
		"type":          "types: [widgets]\n",
		"source target": "source: codex\ntargets: [codex]\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			testutil.WriteTree(t, root, map[string]string{".aisync/config.yaml": content})
			_, err := Load(root, "")
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := Default(root)
	cfg.Source = string(model.SystemClaude)
	cfg.Targets = []string{"codex"}
	cfg.UseSymlinks = true

	path := FilePath(root)
	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "database: .aisync/state.db")
	assert.NotContains(t, string(data), "root:")

	loaded, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, cfg.Database, loaded.Database)
	assert.Equal(t, cfg.Source, loaded.Source)
	assert.Equal(t, cfg.Targets, loaded.Targets)
	assert.Empty(t, loaded.Types)
	assert.Equal(t, cfg.UseSymlinks, loaded.UseSymlinks)
	assert.Equal(t, cfg.Log, loaded.Log)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
