// Package config defines all configuration structures for the crosswalk
// builder.
package config

import (
	"github.com/civicgrid/crosswalk/internal/domain/geography"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultNegativeBufferDistance is fifty projection units inward, which
	// on the State Plane feet grids used for the published boundary files
	// swallows the border slivers left by digitizing the same street from
	// two sides.
	DefaultNegativeBufferDistance = -50.0

	DefaultMinIntersectionArea = 100.0
	DefaultAreaEpsilonFraction = 1e-9
	DefaultPercentDecimals     = 2
	DefaultWorkers             = 0 // one per CPU

	DefaultInputDir  = "data/bounds"
	DefaultOutputDir = "data/crosswalks"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultConfig returns a Config populated with every default, running all
// fifteen geographies as both primaries and others.  Loading unmarshals user
// settings on top of this, so an explicit zero (for example a zero buffer
// distance) is honored rather than mistaken for "unset".
func DefaultConfig() *Config {
	ids := make([]string, 0, 15)
	for _, id := range geography.AllIDs() {
		ids = append(ids, id.String())
	}

	return &Config{
		Engine: EngineConfig{
			NegativeBufferDistance: DefaultNegativeBufferDistance,
			MinIntersectionArea:    DefaultMinIntersectionArea,
			AreaEpsilonFraction:    DefaultAreaEpsilonFraction,
			PercentDecimals:        DefaultPercentDecimals,
			Workers:                DefaultWorkers,
		},
		Geographies: GeographiesConfig{
			Primary: ids,
			Others:  append([]string(nil), ids...),
		},
		IO: IOConfig{
			InputDir:  DefaultInputDir,
			OutputDir: DefaultOutputDir,
		},
		Log: logging.Config{
			Level:       DefaultLogLevel,
			Format:      DefaultLogFormat,
			OutputPaths: []string{"stderr"},
		},
	}
}
