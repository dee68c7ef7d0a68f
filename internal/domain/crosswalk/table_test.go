package crosswalk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgrid/crosswalk/internal/domain/geography"
)

func sampleResult() *Result {
	return &Result{
		PrimaryGeography: geography.CommunityDistricts,
		Records: []OverlapRecord{
			{PrimaryKey: "101", PrimaryName: "101", OtherGeography: geography.SchoolDistricts, OtherKey: "2", OtherName: "2", IntersectionArea: 50, Percentage: 50.0},
			{PrimaryKey: "101", PrimaryName: "101", OtherGeography: geography.SchoolDistricts, OtherKey: "1", OtherName: "1", IntersectionArea: 10, Percentage: 10.0},
			{PrimaryKey: "101", PrimaryName: "101", OtherGeography: geography.ZipCodes, OtherKey: "10001", OtherName: "10001", IntersectionArea: 30, Percentage: 30.0},
			{PrimaryKey: "102", PrimaryName: "102", OtherGeography: geography.ZipCodes, OtherKey: "10002", OtherName: "10002", IntersectionArea: 80, Percentage: 80.0},
		},
	}
}

func TestNewLongTable_PreservesRecordOrder(t *testing.T) {
	result := sampleResult()
	long := NewLongTable(result)

	assert.Equal(t, geography.CommunityDistricts, long.Primary)
	require.Len(t, long.Rows, 4)
	assert.Equal(t, result.Records, long.Rows)

	// The long table owns its rows; mutating it leaves the result intact.
	long.Rows[0].OtherName = "mutated"
	assert.Equal(t, "2", result.Records[0].OtherName)
}

func TestNewWideTable_IsAProjectionOfTheLongTable(t *testing.T) {
	long := NewLongTable(sampleResult())
	primaries := []geography.DissolvedUnit{
		{Key: "101", Name: "101"},
		{Key: "102", Name: "102"},
		{Key: "103", Name: "103"}, // no overlaps anywhere
	}
	geographies := []geography.ID{geography.SchoolDistricts, geography.ZipCodes}

	wide := NewWideTable(long, primaries, geographies)

	assert.Equal(t, geographies, wide.Geographies)
	require.Len(t, wide.Rows, 3)

	// Cell values join overlapping unit keys in long-table row order, so
	// the dominant school district leads the 101 cell.
	assert.Equal(t, "101", wide.Rows[0].PrimaryKey)
	assert.Equal(t, []string{"2;1", "10001"}, wide.Rows[0].Cells)

	assert.Equal(t, "102", wide.Rows[1].PrimaryKey)
	assert.Equal(t, []string{"", "10002"}, wide.Rows[1].Cells)

	// A primary with no qualifying overlaps still gets a row.
	assert.Equal(t, "103", wide.Rows[2].PrimaryKey)
	assert.Equal(t, []string{"", ""}, wide.Rows[2].Cells)
}

func TestNewWideTable_CellsCarryRawKeysNotDisplayNames(t *testing.T) {
	// Two distinct dissolve keys that render to the same display string
	// must stay distinguishable in the cell.
	long := &LongTable{
		Primary: geography.PolicePrecincts,
		Rows: []OverlapRecord{
			{PrimaryKey: "7", PrimaryName: "7", OtherGeography: geography.ZipCodes, OtherKey: "1 ", OtherName: "1", IntersectionArea: 50, Percentage: 50.0},
			{PrimaryKey: "7", PrimaryName: "7", OtherGeography: geography.ZipCodes, OtherKey: "1", OtherName: "1", IntersectionArea: 20, Percentage: 20.0},
		},
	}

	wide := NewWideTable(long, []geography.DissolvedUnit{{Key: "7", Name: "7"}}, []geography.ID{geography.ZipCodes})

	require.Len(t, wide.Rows, 1)
	assert.Equal(t, []string{"1 ;1"}, wide.Rows[0].Cells)
}

func TestNewWideTable_EveryLongRowLandsInExactlyOneCell(t *testing.T) {
	long := NewLongTable(sampleResult())
	primaries := []geography.DissolvedUnit{{Key: "101", Name: "101"}, {Key: "102", Name: "102"}}
	geographies := []geography.ID{geography.SchoolDistricts, geography.ZipCodes}

	wide := NewWideTable(long, primaries, geographies)

	mentions := 0
	for _, row := range wide.Rows {
		for _, cell := range row.Cells {
			if cell == "" {
				continue
			}
			mentions += 1 + strings.Count(cell, ";")
		}
	}
	assert.Equal(t, len(long.Rows), mentions)
}

func TestFormatPercentage_FixedWidthDecimals(t *testing.T) {
	assert.Equal(t, "40.0", FormatPercentage(40, 1))
	assert.Equal(t, "0.13", FormatPercentage(0.13, 2))
	assert.Equal(t, "100.00", FormatPercentage(100, 2))
	assert.Equal(t, "7", FormatPercentage(7.4, 0))
}
