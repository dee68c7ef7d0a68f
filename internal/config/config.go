// Package config defines all configuration structures for the crosswalk
// builder.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"github.com/civicgrid/crosswalk/internal/domain/geography"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
	"github.com/civicgrid/crosswalk/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// EngineConfig holds the overlay tuning knobs.  All distances and areas are
// in the planar projection units of the input data.
type EngineConfig struct {
	// NegativeBufferDistance shrinks both geometries before intersecting so
	// hairline border slivers do not register as overlaps.  Zero disables
	// denoising; positive values are rejected.
	NegativeBufferDistance float64 `mapstructure:"negative_buffer_distance"`

	// MinIntersectionArea is the absolute noise floor in squared units.
	MinIntersectionArea float64 `mapstructure:"min_intersection_area"`

	// AreaEpsilonFraction is the relative noise floor, as a fraction of the
	// primary unit's area.
	AreaEpsilonFraction float64 `mapstructure:"area_epsilon_fraction"`

	// PercentDecimals is the decimal precision of reported percentages.
	PercentDecimals int `mapstructure:"percentage_decimal_precision"`

	// Workers bounds concurrent primary-unit processing; 0 means one per CPU.
	Workers int `mapstructure:"workers"`
}

// GeographiesConfig selects which layers participate in a run.
type GeographiesConfig struct {
	// Primary lists the geography IDs that get a crosswalk built against all
	// the others.
	Primary []string `mapstructure:"primary"`

	// Others lists the geography IDs intersected against each primary, in
	// the order their columns appear in the wide table.
	Others []string `mapstructure:"others"`

	// Exclude removes IDs from Others without restating the whole list.
	Exclude []string `mapstructure:"exclude"`
}

// IOConfig holds the input and output locations.
type IOConfig struct {
	// InputDir holds one GeoJSON FeatureCollection per geography, named
	// <id>.geojson.
	InputDir string `mapstructure:"input_dir"`

	// OutputDir receives the CSV tables and the run metadata files.
	OutputDir string `mapstructure:"output_dir"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for a crosswalk run.
type Config struct {
	Engine      EngineConfig      `mapstructure:"engine"`
	Geographies GeographiesConfig `mapstructure:"geographies"`
	IO          IOConfig          `mapstructure:"io"`
	Log         logging.Config    `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; any error is fatal and must be
// raised before geometry work begins.
func (c *Config) Validate() error {
	// Engine thresholds
	if c.Engine.NegativeBufferDistance > 0 {
		return errors.Newf(errors.CodeThresholdMisconfiguration,
			"engine.negative_buffer_distance must be <= 0, got %g", c.Engine.NegativeBufferDistance)
	}
	if c.Engine.MinIntersectionArea < 0 {
		return errors.Newf(errors.CodeThresholdMisconfiguration,
			"engine.min_intersection_area must be >= 0, got %g", c.Engine.MinIntersectionArea)
	}
	if c.Engine.AreaEpsilonFraction < 0 || c.Engine.AreaEpsilonFraction >= 1 {
		return errors.Newf(errors.CodeThresholdMisconfiguration,
			"engine.area_epsilon_fraction must be in [0, 1), got %g", c.Engine.AreaEpsilonFraction)
	}
	if c.Engine.PercentDecimals < 0 || c.Engine.PercentDecimals > 12 {
		return errors.Newf(errors.CodeThresholdMisconfiguration,
			"engine.percentage_decimal_precision must be in [0, 12], got %d", c.Engine.PercentDecimals)
	}
	if c.Engine.Workers < 0 {
		return errors.Newf(errors.CodeThresholdMisconfiguration,
			"engine.workers must be >= 0, got %d", c.Engine.Workers)
	}

	// Geographies
	if _, _, err := c.ResolveGeographies(); err != nil {
		return err
	}

	// IO
	if c.IO.InputDir == "" {
		return errors.New(errors.CodeInvalidConfig, "io.input_dir is required")
	}
	if c.IO.OutputDir == "" {
		return errors.New(errors.CodeInvalidConfig, "io.output_dir is required")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf(errors.CodeInvalidConfig,
			"log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.Newf(errors.CodeInvalidConfig,
			"log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

// ResolveGeographies parses the configured geography selections into typed
// IDs, applying the exclusion list to Others.  Every value is checked against
// the fixed vocabulary; an unknown ID fails the whole run before any geometry
// work starts.
func (c *Config) ResolveGeographies() (primary, others []geography.ID, err error) {
	primary, err = geography.ParseIDs(c.Geographies.Primary)
	if err != nil {
		return nil, nil, err
	}
	if len(primary) == 0 {
		return nil, nil, errors.New(errors.CodeInvalidConfig, "geographies.primary must list at least one geography")
	}

	all, err := geography.ParseIDs(c.Geographies.Others)
	if err != nil {
		return nil, nil, err
	}
	excluded, err := geography.ParseIDs(c.Geographies.Exclude)
	if err != nil {
		return nil, nil, err
	}

	skip := make(map[geography.ID]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	others = make([]geography.ID, 0, len(all))
	for _, id := range all {
		if !skip[id] {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		return nil, nil, errors.New(errors.CodeInvalidConfig, "geographies.others is empty after exclusions")
	}
	return primary, others, nil
}
