package geography

import (
	"strings"

	"github.com/twpayne/go-geos"
)

// Feature is one polygon or multipolygon boundary with its attribute record.
// After normalization every Feature geometry is topologically valid and its
// area is finite and non-negative.
type Feature struct {
	// ID is the feature's stable identifier within its layer.
	ID string

	// NameKey is the raw name-column value.  It is the dissolve key: two
	// features with the same NameKey belong to the same logical unit, and two
	// distinct NameKeys stay distinct even when they render to the same
	// display string.
	NameKey string

	// Name is the human-readable display form of NameKey.
	Name string

	// Geom is the feature geometry.  Never mutated after construction;
	// normalization produces new Features rather than repairing in place.
	Geom *geos.Geom
}

// DisplayName derives the display form of a raw name-column value.
func DisplayName(nameKey string) string {
	return strings.TrimSpace(nameKey)
}

// Layer is a named collection of Features sharing one geography type.
// The feature order is the ingestion order and is preserved through
// normalization so that output determinism does not depend on map iteration.
type Layer struct {
	Geography  ID
	NameColumn string
	Features   []Feature
}

// Empty reports whether the layer holds no features.
func (l *Layer) Empty() bool {
	return l == nil || len(l.Features) == 0
}

// Collection is the consolidated, immutable set of boundary layers handed to
// the engine by the ingestion collaborator.  All layers share one planar
// projection; the engine performs no CRS work.
type Collection struct {
	layers map[ID]*Layer
	order  []ID
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{layers: make(map[ID]*Layer)}
}

// Add inserts or replaces the layer for its geography ID, keeping first-seen
// insertion order.
func (c *Collection) Add(layer *Layer) {
	if layer == nil {
		return
	}
	if _, seen := c.layers[layer.Geography]; !seen {
		c.order = append(c.order, layer.Geography)
	}
	c.layers[layer.Geography] = layer
}

// Layer returns the layer for id, if present.
func (c *Collection) Layer(id ID) (*Layer, bool) {
	l, ok := c.layers[id]
	return l, ok
}

// IDs returns the geography IDs present, in insertion order.
func (c *Collection) IDs() []ID {
	out := make([]ID, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of layers present.
func (c *Collection) Len() int {
	return len(c.layers)
}
