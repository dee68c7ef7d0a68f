// Package geojson reads boundary layers from GeoJSON FeatureCollection
// files into the domain model.  One file per geography, named <id>.geojson,
// all sharing one planar projection.
package geojson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-geos"

	"github.com/civicgrid/crosswalk/internal/domain/geography"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
	"github.com/civicgrid/crosswalk/pkg/errors"
)

// Loader reads GeoJSON layers from a directory.
type Loader struct {
	dir    string
	logger logging.Logger
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{dir: dir, logger: logger.Named("geojson")}
}

// LayerPath returns the file path a geography is loaded from.
func (l *Loader) LayerPath(id geography.ID) string {
	return filepath.Join(l.dir, id.String()+".geojson")
}

// LoadLayer reads one geography's FeatureCollection.  The name key of each
// feature comes from the catalog's name column, falling back to the alternate
// column for datasets published under more than one schema.  Features that
// are not polygonal or carry no name value are skipped with a warning; an
// input with no usable features at all is an error.
func (l *Loader) LoadLayer(id geography.ID) (*geography.Layer, error) {
	info, ok := geography.Dataset(id)
	if !ok {
		return nil, errors.Newf(errors.CodeUnknownGeographyID, "no dataset catalog entry for %q", id)
	}

	path := l.LayerPath(id)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "reading layer "+path)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCollectionParseFailed, "parsing layer "+path)
	}

	layer := &geography.Layer{
		Geography:  id,
		NameColumn: info.NameColumn,
		Features:   make([]geography.Feature, 0, len(fc.Features)),
	}

	for i, f := range fc.Features {
		nameKey, ok := nameValue(f, info)
		if !ok {
			l.logger.Warn("feature skipped: no name value",
				logging.String("geography", id.String()),
				logging.Int("index", i),
			)
			continue
		}

		geom, err := toGeos(f)
		if err != nil {
			if errors.IsCode(err, errors.CodeUnsupportedGeometryType) {
				l.logger.Warn("feature skipped: not polygonal",
					logging.String("geography", id.String()),
					logging.Int("index", i),
				)
				continue
			}
			return nil, errors.Wrap(err, errors.CodeGeometryParseFailed,
				fmt.Sprintf("layer %s feature %d", id, i))
		}

		layer.Features = append(layer.Features, geography.Feature{
			ID:      featureID(f, i),
			NameKey: nameKey,
			Name:    geography.DisplayName(nameKey),
			Geom:    geom,
		})
	}

	if layer.Empty() {
		return nil, errors.Newf(errors.CodeEmptyLayer, "layer %s has no usable features", id)
	}

	l.logger.Info("layer loaded",
		logging.String("geography", id.String()),
		logging.String("path", path),
		logging.Int("features", len(layer.Features)),
	)
	return layer, nil
}

// LoadCollection reads every listed geography, preserving list order.
func (l *Loader) LoadCollection(ids []geography.ID) (*geography.Collection, error) {
	collection := geography.NewCollection()
	for _, id := range ids {
		if _, ok := collection.Layer(id); ok {
			continue
		}
		layer, err := l.LoadLayer(id)
		if err != nil {
			return nil, err
		}
		collection.Add(layer)
	}
	return collection, nil
}

// nameValue extracts the dissolve key from a feature's properties, trying
// the primary name column, then the alternate.
func nameValue(f *geojson.Feature, info geography.DatasetInfo) (string, bool) {
	for _, col := range []string{info.NameColumn, info.AltColumn} {
		if col == "" {
			continue
		}
		v, ok := f.Properties[col]
		if !ok || v == nil {
			continue
		}
		if s := stringify(v); s != "" {
			return s, true
		}
	}
	return "", false
}

// stringify renders a property value the way it appears in the source table:
// integral numbers without a decimal point, so district 101 keys as "101".
func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// featureID derives a stable per-layer feature identifier.
func featureID(f *geojson.Feature, index int) string {
	if f.ID != nil {
		if s := stringify(f.ID); s != "" {
			return s
		}
	}
	return strconv.Itoa(index)
}

// toGeos converts an orb geometry into a GEOS geometry via its GeoJSON
// encoding.  Only polygonal features participate in overlays.
func toGeos(f *geojson.Feature) (*geos.Geom, error) {
	if f.Geometry == nil {
		return nil, errors.New(errors.CodeGeometryParseFailed, "feature has no geometry")
	}

	switch f.Geometry.GeoJSONType() {
	case "Polygon", "MultiPolygon":
	default:
		return nil, errors.Newf(errors.CodeUnsupportedGeometryType,
			"geometry type %s is not polygonal", f.Geometry.GeoJSONType())
	}

	raw, err := json.Marshal(geojson.NewGeometry(f.Geometry))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeGeometryParseFailed, "re-encoding geometry")
	}
	geom, err := geos.NewGeomFromGeoJSON(string(raw))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeGeometryParseFailed, "decoding geometry")
	}
	return geom, nil
}
