// Package crosswalk implements the overlay core: pairwise intersection of
// dissolved boundary units, denoising thresholds, percentage-of-primary
// computation, and assembly of the long and wide output tables.
package crosswalk

import (
	"github.com/civicgrid/crosswalk/internal/domain/geography"
)

// OverlapRecord states that one dissolved other-geography unit materially
// overlaps one dissolved primary unit.  There is at most one record per
// (primary unit, other unit) pair in a run.
type OverlapRecord struct {
	// PrimaryKey is the raw dissolve key of the primary unit.
	PrimaryKey string

	// PrimaryName is the primary unit's display name.
	PrimaryName string

	// OtherGeography identifies the layer the overlapping unit came from.
	OtherGeography geography.ID

	// OtherKey is the raw dissolve key of the overlapping unit.
	OtherKey string

	// OtherName is the overlapping unit's display name.
	OtherName string

	// IntersectionArea is the area of the intersection of the two denoised
	// geometries, in squared projection units.
	IntersectionArea float64

	// Percentage is 100 * IntersectionArea / primary unbuffered area, rounded
	// to the configured decimal precision.  It is always in (0, 100]: a share
	// too small for the precision is floored to the last printed digit, never
	// reported as 0.
	Percentage float64
}

// DegeneratePrimary names a primary unit whose unbuffered area was zero or
// non-finite.  Such units produce no overlap records; the run continues and
// the unit is enumerated in run provenance.
type DegeneratePrimary struct {
	Key  string  `json:"key"`
	Name string  `json:"name"`
	Area float64 `json:"area"`
}

// Result is the complete overlay output for one primary geography.
// Records are fully ordered: primary units in input order, other geographies
// in run order within each primary, and records within each (primary,
// geography) group by descending intersection area with the other unit key
// as tiebreak.  The ordering is a property of the result itself, so callers
// never re-sort.
type Result struct {
	PrimaryGeography geography.ID
	Records          []OverlapRecord
	Degenerate       []DegeneratePrimary
}
