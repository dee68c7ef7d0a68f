package geography

import (
	"math"

	"github.com/twpayne/go-geos"

	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
	"github.com/civicgrid/crosswalk/pkg/errors"
)

// bufferQuadSegs is the segment count per quarter circle used for all buffer
// operations.  Eight is the GEOS default.
const bufferQuadSegs = 8

// RepairFailure names a feature whose geometry stayed invalid after repair.
// The feature is excluded from all downstream layers; the run continues and
// the failure is enumerated in run provenance so the exclusion is never
// silent.
type RepairFailure struct {
	Geography ID     `json:"geography"`
	FeatureID string `json:"feature_id"`
	Reason    string `json:"reason"`
}

// NormalizeReport summarizes one layer's normalization pass.
type NormalizeReport struct {
	Geography ID
	Repaired  int
	Failures  []RepairFailure
}

// RepairGeometry returns a topologically valid equivalent of g, or an
// explicit CodeGeometryRepairFailed error.  It never mutates g: already-valid
// geometries are returned unchanged, invalid ones go through a zero-width
// buffer rebuild and, failing that, a full validity rebuild.  The zero-width
// buffer is area-preserving for valid input and best-effort for invalid input.
func RepairGeometry(g *geos.Geom) (*geos.Geom, error) {
	if g == nil {
		return nil, errors.New(errors.CodeGeometryRepairFailed, "nil geometry")
	}
	if g.IsValid() {
		return g, nil
	}

	reason := g.IsValidReason()

	if repaired := g.Buffer(0, bufferQuadSegs); repaired != nil && repaired.IsValid() && !repaired.IsEmpty() {
		return repaired, nil
	}

	if rebuilt := g.MakeValidWithParams(geos.MakeValidLinework, geos.MakeValidDiscardCollapsed); rebuilt != nil && rebuilt.IsValid() && !rebuilt.IsEmpty() {
		return rebuilt, nil
	}

	return nil, errors.New(errors.CodeGeometryRepairFailed, reason)
}

// NormalizeLayer returns an equivalent layer in which every feature geometry
// is valid with a finite, non-negative area.  Features that cannot be
// repaired are excluded and reported; the input layer is left untouched.
func NormalizeLayer(layer *Layer, logger logging.Logger) (*Layer, NormalizeReport) {
	report := NormalizeReport{Geography: layer.Geography}
	out := &Layer{
		Geography:  layer.Geography,
		NameColumn: layer.NameColumn,
		Features:   make([]Feature, 0, len(layer.Features)),
	}

	for _, f := range layer.Features {
		geom, err := RepairGeometry(f.Geom)
		if err != nil {
			report.Failures = append(report.Failures, RepairFailure{
				Geography: layer.Geography,
				FeatureID: f.ID,
				Reason:    err.Error(),
			})
			logger.Warn("feature excluded: geometry repair failed",
				logging.String("geography", layer.Geography.String()),
				logging.String("feature", f.ID),
				logging.Err(err),
			)
			continue
		}

		area := geom.Area()
		if math.IsNaN(area) || math.IsInf(area, 0) || area < 0 {
			report.Failures = append(report.Failures, RepairFailure{
				Geography: layer.Geography,
				FeatureID: f.ID,
				Reason:    "repaired geometry has non-finite or negative area",
			})
			logger.Warn("feature excluded: degenerate area after repair",
				logging.String("geography", layer.Geography.String()),
				logging.String("feature", f.ID),
				logging.Float64("area", area),
			)
			continue
		}

		if geom != f.Geom {
			report.Repaired++
		}
		out.Features = append(out.Features, Feature{
			ID:      f.ID,
			NameKey: f.NameKey,
			Name:    f.Name,
			Geom:    geom,
		})
	}

	logger.Info("layer normalized",
		logging.String("geography", layer.Geography.String()),
		logging.Int("features", len(out.Features)),
		logging.Int("repaired", report.Repaired),
		logging.Int("excluded", len(report.Failures)),
	)
	return out, report
}
