package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/aisync/internal/model"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	Source string
	Target string
	Types  []string
}

// DiffResult is the JSON payload of the diff command.
type DiffResult struct {
	Source model.SystemID       `json:"source"`
	Target model.SystemID       `json:"target"`
	Diffs  []model.ArtifactDiff `json:"diffs"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare source artifacts with what a target last received",
		Long: `Rescan the source and classify each artifact against the ledger for one
target: missing, modified, unchanged, added (present only in the target) or
deleted (removed from the source but still tracked). Nothing is written.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "source system (default from config)")
	cmd.Flags().StringVarP(&opts.Target, "target", "t", "", "target system")
	cmd.Flags().StringSliceVar(&opts.Types, "type", nil, "artifact types to compare")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runDiff(opts *DiffOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	source := sess.cfg.SourceSystem()
	if cmd.Flags().Changed("source") {
		source = model.SystemID(opts.Source)
	}
	typeNames := sess.cfg.Types
	if cmd.Flags().Changed("type") {
		typeNames = opts.Types
	}
	types, err := model.ParseArtifactTypes(typeNames)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --type", err)
	}
	target := model.SystemID(opts.Target)

	diffs, err := sess.engine.Diff(commandContext(cmd), source, target, types)
	if err != nil {
		return engineFailure("diff", err)
	}

	if sess.out.JSON() {
		return sess.out.Success(DiffResult{Source: source, Target: target, Diffs: diffs})
	}
	renderDiff(sess.out.Writer, source, target, diffs, opts.Verbose)
	return nil
}
