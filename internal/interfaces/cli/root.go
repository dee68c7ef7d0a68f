// Package cli defines the crosswalk command tree: global flag registration,
// configuration loading, and the build and geographies subcommands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civicgrid/crosswalk/internal/config"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "crosswalk",
		Short:   "crosswalk — boundary crosswalk tables for overlapping NYC geographies",
		Long:    "crosswalk intersects the city's administrative boundary layers and reports,\nfor every district of one geography, which units of every other geography\noverlap it and by how much.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: environment variables only)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(newBuildCommand(opts))
	cmd.AddCommand(newGeographiesCommand())

	return cmd
}

// loadConfig resolves the run configuration from file or environment, then
// applies global flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
