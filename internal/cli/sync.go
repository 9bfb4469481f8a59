package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/aisync/internal/engine"
	"github.com/roach88/aisync/internal/model"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	Source        string
	Targets       []string
	Types         []string
	DryRun        bool
	Force         bool
	UseSymlinks   bool
	SyncDeletions bool
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync artifacts from the source system to the targets",
		Long: `Scan the source system's skills, agents, commands, rules and MCP servers
and write them into each target system's layout.

Artifacts already up to date are skipped. Directories aisync did not create
are never replaced without --force. Use --dry-run to see the plan without
touching the filesystem.

Exit codes:
  0  every artifact synced or skipped
  1  at least one artifact failed
  2  the command could not run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "source system (default from config)")
	cmd.Flags().StringSliceVarP(&opts.Targets, "target", "t", nil, "target systems (default all but the source)")
	cmd.Flags().StringSliceVar(&opts.Types, "type", nil, "artifact types to sync (skill, agent, command, rule, mcp_server)")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "show what would change without writing")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "replace unmanaged directories and rewrite up-to-date artifacts")
	cmd.Flags().BoolVar(&opts.UseSymlinks, "symlinks", false, "symlink artifacts where mapping rules allow it")
	cmd.Flags().BoolVar(&opts.SyncDeletions, "delete", false, "remove target artifacts whose source was deleted")

	return cmd
}

func runSync(opts *SyncOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	syncOpts, err := opts.resolve(cmd, sess)
	if err != nil {
		return err
	}

	unlock, err := sess.lock()
	if err != nil {
		return err
	}
	defer unlock()

	sess.out.VerboseLog("Syncing %s in %s", syncOpts.Source, sess.cfg.Root)
	summary, err := sess.engine.Sync(commandContext(cmd), syncOpts)
	if err != nil {
		return engineFailure("sync", err)
	}

	if sess.out.JSON() {
		if err := sess.out.Success(summary); err != nil {
			return err
		}
	} else {
		renderSyncSummary(sess.out.Writer, summary, opts.Verbose)
	}

	if summary.Results.Failed > 0 {
		return &ExitError{
			Code:    ExitFailure,
			Message: fmt.Sprintf("%d artifact(s) failed to sync", summary.Results.Failed),
			Quiet:   true,
		}
	}
	return nil
}

// resolve layers explicitly set flags over the loaded config.
func (o *SyncOptions) resolve(cmd *cobra.Command, sess *session) (engine.SyncOptions, error) {
	cfg := sess.cfg
	flags := cmd.Flags()

	if flags.Changed("source") {
		cfg.Source = o.Source
	}
	if flags.Changed("target") {
		cfg.Targets = o.Targets
	}
	if flags.Changed("type") {
		cfg.Types = o.Types
	}
	if flags.Changed("symlinks") {
		cfg.UseSymlinks = o.UseSymlinks
	}
	if flags.Changed("delete") {
		cfg.SyncDeletions = o.SyncDeletions
	}

	types, err := model.ParseArtifactTypes(cfg.Types)
	if err != nil {
		return engine.SyncOptions{}, WrapExitError(ExitCommandError, "invalid --type", err)
	}

	return engine.SyncOptions{
		Source:        cfg.SourceSystem(),
		Targets:       cfg.TargetSystems(),
		ArtifactTypes: types,
		DryRun:        o.DryRun,
		Force:         o.Force,
		UseSymlinks:   cfg.UseSymlinks,
		Verbose:       o.Verbose,
		SyncDeletions: cfg.SyncDeletions,
	}, nil
}
