package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/platform"
	"github.com/roach88/aisync/internal/testutil"
)

func TestSync_DryRunBranchesWriteNothing(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		// synced runs a real sync first and then applies files.
		synced bool
		force  bool
		check  func(t *testing.T, e *Engine, summary *SyncSummary)
	}{
		{
			name:  "forced native directory",
			files: map[string]string{".codex/skills/review/notes.md": "hand written"},
			force: true,
			check: func(t *testing.T, e *Engine, summary *SyncSummary) {
				review := resultFor(t, summary, model.SystemCodex, "review")
				assert.True(t, review.Success)
				assert.Equal(t, "dry run: would create (native-dir)", review.Message)
			},
		},
		{
			name:   "modified artifact",
			files:  map[string]string{".claude/commands/ship.md": "Ship it twice.\n"},
			synced: true,
			check: func(t *testing.T, e *Engine, summary *SyncSummary) {
				ship := resultFor(t, summary, model.SystemCodex, "ship")
				assert.True(t, ship.Success)
				assert.Equal(t, model.OpUpdate, ship.Operation)
				assert.Equal(t, "dry run: would update (synced)", ship.Message)

				ctx := context.Background()
				a, err := e.store.GetArtifact(ctx, artifactID(model.TypeCommand, "ship"))
				require.NoError(t, err)
				st, err := e.store.GetSyncState(ctx, a.ID, model.SystemCodex)
				require.NoError(t, err)
				assert.NotEqual(t, a.Checksum, st.SyncedHash, "the ledger still holds the last real sync")
			},
		},
		{
			name:  "invalid artifact",
			files: map[string]string{".claude/commands/empty.md": ""},
			check: func(t *testing.T, e *Engine, summary *SyncSummary) {
				empty := resultFor(t, summary, model.SystemCodex, "empty")
				assert.False(t, empty.Success)
				assert.Contains(t, empty.Error, "content is empty")
			},
		},
		{
			name:  "guarded directory",
			files: map[string]string{".codex/skills/review/notes.md": "hand written"},
			check: func(t *testing.T, e *Engine, summary *SyncSummary) {
				review := resultFor(t, summary, model.SystemCodex, "review")
				assert.False(t, review.Success)
				assert.Equal(t, string(ErrCodeUnsafeDestination), review.ErrorCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := claudeProject(t)
			e := newTestEngine(t, root)
			ctx := context.Background()

			if tt.synced {
				_, err := e.Sync(ctx, toCodex())
				require.NoError(t, err)
			}
			testutil.WriteTree(t, root, tt.files)

			before, err := e.store.GetStats(ctx)
			require.NoError(t, err)
			tree, err := platform.ReadTree(root)
			require.NoError(t, err)

			summary, err := e.Sync(ctx, toCodex(func(o *SyncOptions) {
				o.DryRun = true
				o.Force = tt.force
			}))
			require.NoError(t, err)
			require.True(t, summary.DryRun)
			tt.check(t, e, summary)

			results, err := e.store.GetSyncResults(ctx, summary.JobID)
			require.NoError(t, err)
			assert.Empty(t, results, "dry run stores no results")

			after, err := e.store.GetStats(ctx)
			require.NoError(t, err)
			assert.Equal(t, before.SyncStates, after.SyncStates)
			assert.Equal(t, before.Synced, after.Synced)
			assert.Equal(t, before.Failed, after.Failed)
			if !tt.synced {
				assert.Zero(t, after.SyncStates)
			}

			got, err := platform.ReadTree(root)
			require.NoError(t, err)
			assert.Equal(t, tree, got, "dry run leaves the project untouched")
		})
	}
}
