package crosswalk

import (
	"math"
	"strconv"

	"github.com/civicgrid/crosswalk/pkg/errors"
)

// PercentOfPrimary computes the share of the primary unit covered by an
// intersection, as a percentage rounded half-away-from-zero to decimals
// places.  The denominator is always the primary's unbuffered area; a zero
// or non-finite denominator is a data defect reported as
// CodeDegeneratePrimaryArea rather than a NaN that would poison the table.
//
// A qualifying overlap never reports 0: a positive share that rounds below
// the last printed digit is floored to one unit in that digit, keeping
// reported percentages in (0, 100].
func PercentOfPrimary(intersectionArea, primaryArea float64, decimals int) (float64, error) {
	if math.IsNaN(primaryArea) || math.IsInf(primaryArea, 0) || primaryArea <= 0 {
		return 0, errors.Newf(errors.CodeDegeneratePrimaryArea,
			"primary area %g is not a positive finite number", primaryArea)
	}
	pct := roundTo(100*intersectionArea/primaryArea, decimals)
	if pct == 0 && intersectionArea > 0 {
		if decimals < 0 {
			decimals = 0
		}
		pct = 1 / math.Pow(10, float64(decimals))
	}
	return pct, nil
}

// roundTo rounds v half-away-from-zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

// FormatPercentage renders a rounded percentage with exactly decimals digits
// after the point, so 40 at one decimal prints as "40.0" in every row of a
// table rather than varying with the value.
func FormatPercentage(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
