package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/roach88/aisync/internal/config"
	"github.com/roach88/aisync/internal/engine"
	"github.com/roach88/aisync/internal/model"
	"github.com/roach88/aisync/internal/platform"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Source  string
	Targets []string
	Force   bool
}

// InitResult is the JSON payload of the init command.
type InitResult struct {
	Root              string                `json:"root"`
	ConfigFile        string                `json:"config_file"`
	Database          string                `json:"database"`
	Created           bool                  `json:"created"`
	SymlinksSupported bool                  `json:"symlinks_supported"`
	Systems           []engine.SystemStatus `json:"systems"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the aisync config and state database",
		Long: `Create <root>/.aisync/config.yaml and the state database, then detect
which AI assistants are configured in the project.

An existing config file is left alone unless --force is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "source system (default claude)")
	cmd.Flags().StringSliceVarP(&opts.Targets, "target", "t", nil, "target systems (default all but the source)")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "overwrite an existing config file")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	path := opts.ConfigFile
	if path == "" {
		path = config.FilePath(opts.Root)
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return WrapExitError(ExitCommandError, "failed to inspect config file", statErr)
	}

	// A --config file that does not exist yet is the one init creates.
	cfgFile := opts.ConfigFile
	if !exists {
		cfgFile = ""
	}
	cfg, err := config.Load(opts.Root, cfgFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.ConfigFile == "" {
		path = config.FilePath(cfg.Root)
	}
	if cmd.Flags().Changed("source") {
		cfg.Source = opts.Source
	}
	if cmd.Flags().Changed("target") {
		cfg.Targets = opts.Targets
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid settings", err)
	}

	sess, err := newSession(opts.RootOptions, cmd, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	registry := sess.engine.Registry()
	for _, id := range append([]model.SystemID{cfg.SourceSystem()}, cfg.TargetSystems()...) {
		if !registry.Has(id) {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown system %q", id))
		}
	}

	created := !exists || opts.Force
	if created {
		sess.logger.Debug("writing config", "path", path)
		if err := config.Save(cfg, path); err != nil {
			return WrapExitError(ExitCommandError, "failed to write config", err)
		}
	}
	systems, err := sess.engine.Detect(commandContext(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to detect systems", err)
	}

	root := sess.engine.Root()
	symlinks := platform.IsSymlinkSupported()

	if sess.out.JSON() {
		return sess.out.Success(InitResult{
			Root:              root,
			ConfigFile:        path,
			Database:          cfg.Database,
			Created:           created,
			SymlinksSupported: symlinks,
			Systems:           systems,
		})
	}

	w := sess.out.Writer
	if created {
		fmt.Fprintf(w, "Initialized aisync in %s\n", root)
	} else {
		fmt.Fprintf(w, "aisync already initialized in %s (use --force to rewrite the config)\n", root)
	}
	fmt.Fprintf(w, "Config:   %s\n", path)
	fmt.Fprintf(w, "Database: %s\n", cfg.Database)
	if symlinks {
		fmt.Fprintf(w, "Symlinks: supported\n\n")
	} else {
		fmt.Fprintf(w, "Symlinks: unsupported (--symlinks falls back to copies)\n\n")
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"System", "Name", "Configured"})
	for _, s := range systems {
		if err := table.Append([]string{string(s.ID), s.Name, yesNo(s.Configured)}); err != nil {
			return err
		}
	}
	return table.Render()
}
