package geography

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
	"github.com/civicgrid/crosswalk/pkg/errors"
)

// bowtie is a self-intersecting ring: two unit triangles joined at a point.
const bowtieWKT = "POLYGON ((0 0, 2 2, 2 0, 0 2, 0 0))"

func TestRepairGeometry_ValidGeometryIsReturnedUnchanged(t *testing.T) {
	g := square(t, 0, 0, 10)

	repaired, err := RepairGeometry(g)
	require.NoError(t, err)
	assert.Same(t, g, repaired)
}

func TestRepairGeometry_SelfIntersectionIsRebuilt(t *testing.T) {
	g := mustWKT(t, bowtieWKT)
	require.False(t, g.IsValid())

	repaired, err := RepairGeometry(g)
	require.NoError(t, err)
	assert.True(t, repaired.IsValid())
	assert.InDelta(t, 2.0, repaired.Area(), 1e-9, "bowtie resolves to two unit triangles")
}

func TestRepairGeometry_NilGeometry(t *testing.T) {
	_, err := RepairGeometry(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeGeometryRepairFailed))
}

func TestNormalizeLayer_RepairsAndCounts(t *testing.T) {
	layer := &Layer{
		Geography:  CommunityDistricts,
		NameColumn: "boro_cd",
		Features: []Feature{
			{ID: "101", NameKey: "101", Geom: square(t, 0, 0, 10)},
			{ID: "102", NameKey: "102", Geom: mustWKT(t, bowtieWKT)},
		},
	}

	out, report := NormalizeLayer(layer, logging.NewNopLogger())

	require.Len(t, out.Features, 2)
	assert.Equal(t, 1, report.Repaired)
	assert.Empty(t, report.Failures)
	for _, f := range out.Features {
		assert.True(t, f.Geom.IsValid())
	}
	assert.Equal(t, layer.NameColumn, out.NameColumn)
}

func TestNormalizeLayer_UnreparableFeatureIsExcludedAndReported(t *testing.T) {
	layer := &Layer{
		Geography: HistoricDistricts,
		Features: []Feature{
			{ID: "keep", NameKey: "A", Geom: square(t, 0, 0, 5)},
			{ID: "drop", NameKey: "B", Geom: nil},
		},
	}

	out, report := NormalizeLayer(layer, logging.NewNopLogger())

	require.Len(t, out.Features, 1)
	assert.Equal(t, "keep", out.Features[0].ID)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, HistoricDistricts, report.Failures[0].Geography)
	assert.Equal(t, "drop", report.Failures[0].FeatureID)
	assert.NotEmpty(t, report.Failures[0].Reason)
}

func TestNormalizeLayer_InputLayerIsUntouched(t *testing.T) {
	bad := mustWKT(t, bowtieWKT)
	layer := &Layer{
		Geography: FireBattalions,
		Features:  []Feature{{ID: "1", NameKey: "1", Geom: bad}},
	}

	_, _ = NormalizeLayer(layer, logging.NewNopLogger())

	assert.Same(t, bad, layer.Features[0].Geom)
	assert.False(t, layer.Features[0].Geom.IsValid())
}
