package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/aisync/internal/store"
)

// NewResultsCommand creates the results command.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "results <job-id>",
		Short:         "Show the per-artifact results of one sync job",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(rootOpts, args[0], cmd)
		},
	}
}

func runResults(opts *RootOptions, jobID string, cmd *cobra.Command) error {
	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	report, err := sess.engine.JobResults(commandContext(cmd), jobID)
	if errors.Is(err, store.ErrNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("no sync job %q", jobID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read job", err)
	}

	if sess.out.JSON() {
		return sess.out.Success(report)
	}
	renderJobReport(sess.out.Writer, report)
	return nil
}
