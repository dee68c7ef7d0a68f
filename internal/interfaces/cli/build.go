package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/civicgrid/crosswalk/internal/application/builder"
	"github.com/civicgrid/crosswalk/internal/config"
	"github.com/civicgrid/crosswalk/internal/domain/run"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/metrics"
)

func newBuildCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build crosswalk tables for the configured geographies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			applyOverrides(cmd, cfg)

			logger, err := logging.NewLogger(cfg.Log)
			if err != nil {
				return err
			}

			svc := builder.New(cfg, logger, metrics.New(), run.Build{
				Version: Version,
				Commit:  GitCommit,
			})
			summary, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("input-dir", "", "directory holding <id>.geojson layers")
	f.String("output-dir", "", "directory receiving tables and metadata")
	f.Float64("buffer", config.DefaultNegativeBufferDistance, "negative buffer distance in projection units")
	f.Float64("min-area", config.DefaultMinIntersectionArea, "absolute intersection-area noise floor")
	f.Float64("epsilon", config.DefaultAreaEpsilonFraction, "relative noise floor as a fraction of primary area")
	f.Int("precision", config.DefaultPercentDecimals, "decimal places for reported percentages")
	f.Int("workers", config.DefaultWorkers, "concurrent primary units (0 = one per CPU)")
	f.StringSlice("primary", nil, "primary geography IDs")
	f.StringSlice("others", nil, "other geography IDs, in wide-table column order")
	f.StringSlice("exclude", nil, "geography IDs to drop from the others list")

	return cmd
}

// printSummary reports the run in the primaries' run order, so repeated
// invocations with the same configuration print identical output.
func printSummary(w io.Writer, summary *builder.Summary) {
	fmt.Fprintf(w, "run %s: %d tables written to %s\n",
		summary.RunID, len(summary.Tables), summary.OutputDir)
	for _, id := range summary.Primaries {
		fmt.Fprintf(w, "  %s: %d overlap records\n", id, summary.RecordCounts[id])
	}
}

// applyOverrides copies changed flags onto the loaded configuration, so the
// config file, environment, and flags layer in that order.  Flags the user
// did not set leave the loaded values alone.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("input-dir") {
		cfg.IO.InputDir, _ = f.GetString("input-dir")
	}
	if f.Changed("output-dir") {
		cfg.IO.OutputDir, _ = f.GetString("output-dir")
	}
	if f.Changed("buffer") {
		cfg.Engine.NegativeBufferDistance, _ = f.GetFloat64("buffer")
	}
	if f.Changed("min-area") {
		cfg.Engine.MinIntersectionArea, _ = f.GetFloat64("min-area")
	}
	if f.Changed("epsilon") {
		cfg.Engine.AreaEpsilonFraction, _ = f.GetFloat64("epsilon")
	}
	if f.Changed("precision") {
		cfg.Engine.PercentDecimals, _ = f.GetInt("precision")
	}
	if f.Changed("workers") {
		cfg.Engine.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("primary") {
		cfg.Geographies.Primary, _ = f.GetStringSlice("primary")
	}
	if f.Changed("others") {
		cfg.Geographies.Others, _ = f.GetStringSlice("others")
	}
	if f.Changed("exclude") {
		cfg.Geographies.Exclude, _ = f.GetStringSlice("exclude")
	}
}
