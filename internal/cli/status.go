package cli

import (
	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show configured systems, tracked artifacts and the last sync",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	report, err := sess.engine.Status(commandContext(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read status", err)
	}

	if sess.out.JSON() {
		return sess.out.Success(report)
	}
	return renderStatus(sess.out.Writer, report)
}
