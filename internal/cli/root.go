package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/aisync/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Root       string
	ConfigFile string
	LogFormat  string // overrides log.format from config when set

	// EngineOptions are appended when a command builds its engine (for testing).
	EngineOptions []engine.Option
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the aisync CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aisync",
		Short: "aisync - keep AI assistant configuration in sync",
		Long: `Sync skills, agents, commands, rules and MCP servers from one AI coding
assistant's project configuration into the others (Claude Code, Cursor,
GitHub Copilot, Codex, OpenCode).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.LogFormat != "" && opts.LogFormat != "text" && opts.LogFormat != "json" {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid log format %q: must be text or json", opts.LogFormat))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Root, "root", "C", ".", "project root")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default <root>/.aisync/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewResultsCommand(opts))

	return cmd
}

// Execute runs the CLI with args and reports any error in the requested
// format. It returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	return execute(&RootOptions{}, args, stdout, stderr)
}

func execute(opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// Flag parsing and argument errors from cobra itself.
		code = ExitCommandError
	} else if exitErr.Quiet {
		return code
	}

	f := &OutputFormatter{Format: opts.Format, Writer: stdout, ErrWriter: stderr, Verbose: opts.Verbose}
	if !isValidFormat(f.Format) {
		f.Format = "text"
	}
	_ = f.Error(errorCode(err, code), err.Error(), nil)
	return code
}

// errorCode picks the machine-readable code for the JSON error envelope.
func errorCode(err error, exitCode int) string {
	var se *engine.SyncError
	if errors.As(err, &se) {
		return string(se.Code)
	}
	if exitCode == ExitFailure {
		return "SYNC_FAILED"
	}
	return "COMMAND_ERROR"
}

// engineFailure wraps a job-level engine error, adding a hint for the
// failures a user can fix from the command line.
func engineFailure(action string, err error) *ExitError {
	msg := action + " failed"
	switch {
	case engine.IsSourceNotConfigured(err):
		msg += " (use the assistant in this project first, or pick another --source)"
	case engine.IsUnknownSystem(err):
		msg += " (run 'aisync status' to list known systems)"
	}
	return WrapExitError(ExitCommandError, msg, err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Main is the process entrypoint used by cmd/aisync.
func Main() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}
