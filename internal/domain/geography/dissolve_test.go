package geography

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDissolveLayer_SingleFeatureKeysAreIdempotent(t *testing.T) {
	layer := &Layer{
		Geography: CommunityDistricts,
		Features: []Feature{
			{ID: "101", NameKey: "101", Name: "101", Geom: square(t, 0, 0, 10)},
			{ID: "102", NameKey: "102", Name: "102", Geom: square(t, 20, 0, 10)},
		},
	}

	units, err := DissolveLayer(layer)
	require.NoError(t, err)
	require.Len(t, units, 2)

	assert.Equal(t, "101", units[0].Key)
	assert.Equal(t, "102", units[1].Key)
	assert.InDelta(t, 100.0, units[0].Area, 1e-9)
	assert.InDelta(t, 100.0, units[1].Area, 1e-9)
}

func TestDissolveLayer_MultipartUnitsAreMerged(t *testing.T) {
	// A MODZCTA-style layer where one logical unit arrives as two disjoint
	// parts plus an overlapping third part.  The union must count the
	// overlap once.
	layer := &Layer{
		Geography: ZipCodes,
		Features: []Feature{
			{ID: "a", NameKey: "10001", Geom: square(t, 0, 0, 10)},
			{ID: "b", NameKey: "10001", Geom: square(t, 30, 0, 10)},
			{ID: "c", NameKey: "10001", Geom: square(t, 5, 0, 10)}, // overlaps a by 50
			{ID: "d", NameKey: "10002", Geom: square(t, 100, 0, 10)},
		},
	}

	units, err := DissolveLayer(layer)
	require.NoError(t, err)
	require.Len(t, units, 2)

	assert.Equal(t, "10001", units[0].Key)
	assert.InDelta(t, 250.0, units[0].Area, 1e-6)
	assert.Equal(t, "10002", units[1].Key)
	assert.InDelta(t, 100.0, units[1].Area, 1e-9)
}

func TestDissolveLayer_DistinctKeysStayDistinct(t *testing.T) {
	// Raw keys that render to the same display string must not merge.
	layer := &Layer{
		Geography: PolicePrecincts,
		Features: []Feature{
			{ID: "a", NameKey: "7", Geom: square(t, 0, 0, 10)},
			{ID: "b", NameKey: " 7 ", Geom: square(t, 20, 0, 10)},
		},
	}

	units, err := DissolveLayer(layer)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "7", units[0].Key)
	assert.Equal(t, " 7 ", units[1].Key)
	assert.Equal(t, units[0].Name, units[1].Name, "display forms may collide; keys may not")
}

func TestDissolveLayer_PreservesFirstAppearanceOrder(t *testing.T) {
	layer := &Layer{
		Geography: SchoolDistricts,
		Features: []Feature{
			{ID: "a", NameKey: "9", Geom: square(t, 0, 0, 1)},
			{ID: "b", NameKey: "2", Geom: square(t, 2, 0, 1)},
			{ID: "c", NameKey: "9", Geom: square(t, 4, 0, 1)},
			{ID: "d", NameKey: "5", Geom: square(t, 6, 0, 1)},
		},
	}

	units, err := DissolveLayer(layer)
	require.NoError(t, err)

	keys := make([]string, len(units))
	for i, u := range units {
		keys[i] = u.Key
	}
	assert.Equal(t, []string{"9", "2", "5"}, keys)
}

func TestDissolveLayer_EmptyLayer(t *testing.T) {
	units, err := DissolveLayer(&Layer{Geography: FireBattalions})
	require.NoError(t, err)
	assert.Empty(t, units)
}
