package crosswalk

import (
	"strings"

	"github.com/civicgrid/crosswalk/internal/domain/geography"
)

// LongTable is the record-per-overlap view of one primary geography's
// crosswalk.  Row order is exactly the Result record order.
type LongTable struct {
	Primary geography.ID
	Rows    []OverlapRecord
}

// NewLongTable projects an overlay Result into its long table.
func NewLongTable(result *Result) *LongTable {
	rows := make([]OverlapRecord, len(result.Records))
	copy(rows, result.Records)
	return &LongTable{Primary: result.PrimaryGeography, Rows: rows}
}

// WideRow is one primary unit's row in the wide table.  Cells is aligned
// with the table's Geographies column order; a primary with no qualifying
// overlap in a geography has an empty cell.
type WideRow struct {
	PrimaryKey  string
	PrimaryName string
	Cells       []string
}

// WideTable is the unit-per-row view: one row per primary unit, one column
// per other geography.  Each cell joins the raw dissolve keys of the
// overlapping units with semicolons, in the order they appear in the long
// table, so the wide table is a pure reformatting of the long one and the
// two can never disagree.  Keys rather than display names keep two distinct
// units that render alike distinguishable in the cell.
type WideTable struct {
	Primary     geography.ID
	Geographies []geography.ID
	Rows        []WideRow
}

// NewWideTable builds the wide table from the long one.  primaries supplies
// the row set and row order: every dissolved primary unit gets a row, whether
// or not it has any overlap records.
func NewWideTable(long *LongTable, primaries []geography.DissolvedUnit, geographies []geography.ID) *WideTable {
	colIndex := make(map[geography.ID]int, len(geographies))
	for i, id := range geographies {
		colIndex[id] = i
	}

	rowIndex := make(map[string]int, len(primaries))
	cells := make([][][]string, len(primaries))
	rows := make([]WideRow, len(primaries))
	for i, p := range primaries {
		rowIndex[p.Key] = i
		cells[i] = make([][]string, len(geographies))
		rows[i] = WideRow{PrimaryKey: p.Key, PrimaryName: p.Name}
	}

	for _, rec := range long.Rows {
		ri, ok := rowIndex[rec.PrimaryKey]
		if !ok {
			continue
		}
		ci, ok := colIndex[rec.OtherGeography]
		if !ok {
			continue
		}
		cells[ri][ci] = append(cells[ri][ci], rec.OtherKey)
	}

	for i := range rows {
		joined := make([]string, len(geographies))
		for j, names := range cells[i] {
			joined[j] = strings.Join(names, ";")
		}
		rows[i].Cells = joined
	}

	return &WideTable{
		Primary:     long.Primary,
		Geographies: append([]geography.ID(nil), geographies...),
		Rows:        rows,
	}
}
