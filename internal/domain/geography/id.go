// Package geography defines the boundary-layer domain model: the closed
// geography-identifier vocabulary, features and layers, geometry
// normalization, and dissolution of multipart features into logical units.
package geography

import (
	"github.com/civicgrid/crosswalk/pkg/errors"
)

// ID identifies one of the fifteen known boundary geography types.  The
// vocabulary is closed: any value outside the constants below is rejected at
// construction time via ParseID rather than silently ignored downstream.
type ID string

const (
	CommunityDistricts      ID = "cd"
	PolicePrecincts         ID = "pp"
	SanitationDistricts     ID = "dsny"
	FireBattalions          ID = "fb"
	SchoolDistricts         ID = "sd"
	HealthCenterDistricts   ID = "hc"
	CityCouncilDistricts    ID = "cc"
	CongressionalDistricts  ID = "nycongress"
	StateAssemblyDistricts  ID = "sa"
	StateSenateDistricts    ID = "ss"
	BusinessImprovement     ID = "bid"
	NeighborhoodTabAreas    ID = "nta"
	ZipCodes                ID = "zipcode"
	HistoricDistricts       ID = "hd"
	IndustrialBusinessZones ID = "ibz"
)

// AllIDs returns the full vocabulary in its canonical order.  The slice is
// freshly allocated on every call so callers can reorder or subset freely.
func AllIDs() []ID {
	return []ID{
		CommunityDistricts,
		PolicePrecincts,
		SanitationDistricts,
		FireBattalions,
		SchoolDistricts,
		HealthCenterDistricts,
		CityCouncilDistricts,
		CongressionalDistricts,
		StateAssemblyDistricts,
		StateSenateDistricts,
		BusinessImprovement,
		NeighborhoodTabAreas,
		ZipCodes,
		HistoricDistricts,
		IndustrialBusinessZones,
	}
}

// IsValid reports whether id is one of the fifteen known geography types.
func (id ID) IsValid() bool {
	switch id {
	case CommunityDistricts, PolicePrecincts, SanitationDistricts,
		FireBattalions, SchoolDistricts, HealthCenterDistricts,
		CityCouncilDistricts, CongressionalDistricts, StateAssemblyDistricts,
		StateSenateDistricts, BusinessImprovement, NeighborhoodTabAreas,
		ZipCodes, HistoricDistricts, IndustrialBusinessZones:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the ID.
func (id ID) String() string {
	return string(id)
}

// ParseID parses a string into an ID.  Unknown values fail with
// CodeUnknownGeographyID, which is a fatal configuration error.
func ParseID(s string) (ID, error) {
	id := ID(s)
	if id.IsValid() {
		return id, nil
	}
	return "", errors.Newf(errors.CodeUnknownGeographyID, "geography id %q is not in the fixed vocabulary", s)
}

// ParseIDs parses a list of strings into IDs, failing on the first unknown
// value.  An empty input yields an empty (non-nil) slice.
func ParseIDs(values []string) ([]ID, error) {
	ids := make([]ID, 0, len(values))
	for _, v := range values {
		id, err := ParseID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
