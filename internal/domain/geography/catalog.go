package geography

// DatasetInfo describes the upstream dataset behind a geography type: its
// display name and the attribute columns the ingestion collaborator maps into
// each feature's name key.  The catalog is informational — it labels
// provenance records and logs; it never drives geometry work.
type DatasetInfo struct {
	ID         ID
	Name       string
	NameColumn string
	AltColumn  string
}

var catalog = map[ID]DatasetInfo{
	CommunityDistricts:      {ID: CommunityDistricts, Name: "Community Districts", NameColumn: "BoroCD"},
	PolicePrecincts:         {ID: PolicePrecincts, Name: "Police Precincts", NameColumn: "Precinct"},
	SanitationDistricts:     {ID: SanitationDistricts, Name: "Sanitation Districts", NameColumn: "district", AltColumn: "districtco"},
	FireBattalions:          {ID: FireBattalions, Name: "Fire Battalions", NameColumn: "FireBN"},
	SchoolDistricts:         {ID: SchoolDistricts, Name: "School Districts", NameColumn: "SchoolDist"},
	HealthCenterDistricts:   {ID: HealthCenterDistricts, Name: "Health Center Districts", NameColumn: "HCentDist"},
	CityCouncilDistricts:    {ID: CityCouncilDistricts, Name: "City Council Districts", NameColumn: "CounDist"},
	CongressionalDistricts:  {ID: CongressionalDistricts, Name: "Congressional Districts", NameColumn: "CongDist"},
	StateAssemblyDistricts:  {ID: StateAssemblyDistricts, Name: "State Assembly Districts", NameColumn: "AssemDist"},
	StateSenateDistricts:    {ID: StateSenateDistricts, Name: "State Senate Districts", NameColumn: "StSenDist"},
	BusinessImprovement:     {ID: BusinessImprovement, Name: "Business Improvement District", NameColumn: "f_all_bids"},
	NeighborhoodTabAreas:    {ID: NeighborhoodTabAreas, Name: "Neighborhood Tabulation Areas", NameColumn: "NTAName", AltColumn: "NTA2020"},
	ZipCodes:                {ID: ZipCodes, Name: "Zip Codes", NameColumn: "modzcta"},
	HistoricDistricts:       {ID: HistoricDistricts, Name: "Historic Districts", NameColumn: "area_name"},
	IndustrialBusinessZones: {ID: IndustrialBusinessZones, Name: "Industrial Business Zones", NameColumn: "NAME"},
}

// Dataset returns the catalog entry for id.  The second return is false for
// IDs outside the vocabulary.
func Dataset(id ID) (DatasetInfo, bool) {
	info, ok := catalog[id]
	return info, ok
}

// DatasetName returns the display name for id, or the raw id string when the
// catalog has no entry.
func DatasetName(id ID) string {
	if info, ok := catalog[id]; ok {
		return info.Name
	}
	return string(id)
}
