package geojson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgrid/crosswalk/internal/domain/geography"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
	"github.com/civicgrid/crosswalk/pkg/errors"
)

const cdLayer = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"BoroCD": 101},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}
    },
    {
      "type": "Feature",
      "properties": {"BoroCD": 102},
      "geometry": {"type": "MultiPolygon", "coordinates": [[[[20,0],[30,0],[30,10],[20,10],[20,0]]]]}
    },
    {
      "type": "Feature",
      "properties": {"BoroCD": 103},
      "geometry": {"type": "Point", "coordinates": [5, 5]}
    },
    {
      "type": "Feature",
      "properties": {"irrelevant": true},
      "geometry": {"type": "Polygon", "coordinates": [[[40,0],[50,0],[50,10],[40,10],[40,0]]]}
    }
  ]
}`

// writeLayer drops a GeoJSON file where the loader expects it.
func writeLayer(t *testing.T, dir string, id geography.ID, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id.String()+".geojson"), []byte(body), 0o644))
}

func TestLoadLayer_ParsesPolygonalFeatures(t *testing.T) {
	dir := t.TempDir()
	writeLayer(t, dir, geography.CommunityDistricts, cdLayer)

	loader := NewLoader(dir, logging.NewNopLogger())
	layer, err := loader.LoadLayer(geography.CommunityDistricts)
	require.NoError(t, err)

	// The point feature and the nameless feature are skipped.
	require.Len(t, layer.Features, 2)
	assert.Equal(t, geography.CommunityDistricts, layer.Geography)
	assert.Equal(t, "BoroCD", layer.NameColumn)

	assert.Equal(t, "101", layer.Features[0].NameKey, "numeric name keys render without a decimal point")
	assert.Equal(t, "102", layer.Features[1].NameKey)
	assert.InDelta(t, 100.0, layer.Features[0].Geom.Area(), 1e-9)
	assert.InDelta(t, 100.0, layer.Features[1].Geom.Area(), 1e-9)
}

func TestLoadLayer_AltColumnFallback(t *testing.T) {
	dir := t.TempDir()
	writeLayer(t, dir, geography.SanitationDistricts, `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"districtco": "BKS01"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}
    }
  ]
}`)

	loader := NewLoader(dir, logging.NewNopLogger())
	layer, err := loader.LoadLayer(geography.SanitationDistricts)
	require.NoError(t, err)
	require.Len(t, layer.Features, 1)
	assert.Equal(t, "BKS01", layer.Features[0].NameKey)
}

func TestLoadLayer_MissingFile(t *testing.T) {
	loader := NewLoader(t.TempDir(), logging.NewNopLogger())
	_, err := loader.LoadLayer(geography.ZipCodes)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeIO))
}

func TestLoadLayer_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeLayer(t, dir, geography.ZipCodes, `{"type": "FeatureCollection", "features": [`)

	loader := NewLoader(dir, logging.NewNopLogger())
	_, err := loader.LoadLayer(geography.ZipCodes)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCollectionParseFailed))
}

func TestLoadLayer_NoUsableFeatures(t *testing.T) {
	dir := t.TempDir()
	writeLayer(t, dir, geography.ZipCodes, `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"modzcta": "10001"},
      "geometry": {"type": "Point", "coordinates": [0, 0]}
    }
  ]
}`)

	loader := NewLoader(dir, logging.NewNopLogger())
	_, err := loader.LoadLayer(geography.ZipCodes)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeEmptyLayer))
}

func TestLoadCollection_PreservesOrderAndDeduplicates(t *testing.T) {
	dir := t.TempDir()
	writeLayer(t, dir, geography.CommunityDistricts, cdLayer)
	writeLayer(t, dir, geography.ZipCodes, `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"modzcta": "10001"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}
    }
  ]
}`)

	loader := NewLoader(dir, logging.NewNopLogger())
	collection, err := loader.LoadCollection([]geography.ID{
		geography.ZipCodes,
		geography.CommunityDistricts,
		geography.ZipCodes,
	})
	require.NoError(t, err)

	assert.Equal(t, []geography.ID{geography.ZipCodes, geography.CommunityDistricts}, collection.IDs())
	assert.Equal(t, 2, collection.Len())
}
