package geography

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geos"
)

// mustWKT parses WKT into a geometry or fails the test.
func mustWKT(t *testing.T, wkt string) *geos.Geom {
	t.Helper()
	g, err := geos.NewGeomFromWKT(wkt)
	require.NoError(t, err, "parsing %q", wkt)
	return g
}

// square returns a w-by-w axis-aligned square with lower-left corner (x, y).
func square(t *testing.T, x, y, w float64) *geos.Geom {
	t.Helper()
	return mustWKT(t, fmt.Sprintf(
		"POLYGON ((%[1]g %[2]g, %[3]g %[2]g, %[3]g %[4]g, %[1]g %[4]g, %[1]g %[2]g))",
		x, y, x+w, y+w,
	))
}
