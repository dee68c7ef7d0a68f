package geography

import (
	"github.com/twpayne/go-geos"

	"github.com/civicgrid/crosswalk/pkg/errors"
)

// DissolvedUnit is one logical geography instance: the union of all features
// in a layer sharing the same raw name key.  MODZCTA-style ZIP layers are
// frequently multipart per logical unit; dissolving first prevents duplicate
// overlap rows and keeps percentage-of-primary-area computed against the
// whole unit rather than one part.
type DissolvedUnit struct {
	// Key is the raw name-column value the unit was grouped by.  Two distinct
	// keys that render to the same display string stay distinct units.
	Key string

	// Name is the display form of Key.
	Name string

	// Geom is the unioned geometry of every contributing feature.
	Geom *geos.Geom

	// Area is the unbuffered area of Geom.  Percentages are always computed
	// against this value, not against any denoised geometry.
	Area float64
}

// DissolveLayer merges all features sharing a name key into one unit per
// distinct key.  Units are returned in first-appearance order of their keys,
// so output ordering tracks ingestion order rather than map iteration.
//
// A key with a single contributing feature dissolves to that feature's
// geometry unchanged, and the union of all unit geometries equals the union
// of the input geometries: dissolution neither loses nor duplicates area.
func DissolveLayer(layer *Layer) ([]DissolvedUnit, error) {
	if layer.Empty() {
		return nil, nil
	}

	groups := make(map[string][]*geos.Geom, len(layer.Features))
	order := make([]string, 0, len(layer.Features))
	names := make(map[string]string, len(layer.Features))

	for _, f := range layer.Features {
		if _, seen := groups[f.NameKey]; !seen {
			order = append(order, f.NameKey)
			name := f.Name
			if name == "" {
				name = DisplayName(f.NameKey)
			}
			names[f.NameKey] = name
		}
		groups[f.NameKey] = append(groups[f.NameKey], f.Geom)
	}

	units := make([]DissolvedUnit, 0, len(order))
	for _, key := range order {
		geom, err := unionAll(groups[key])
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "dissolving layer "+layer.Geography.String())
		}
		units = append(units, DissolvedUnit{
			Key:  key,
			Name: names[key],
			Geom: geom,
			Area: geom.Area(),
		})
	}
	return units, nil
}

// unionAll folds a non-empty slice of geometries into their union.  A single
// geometry is returned as-is (dissolve idempotence).
func unionAll(geoms []*geos.Geom) (*geos.Geom, error) {
	if len(geoms) == 0 {
		return nil, errors.Internal("union of zero geometries")
	}
	acc := geoms[0]
	for _, g := range geoms[1:] {
		next := acc.Union(g)
		if next == nil {
			return nil, errors.Internal("geometry union returned nil")
		}
		acc = next
	}
	return acc, nil
}
