package run

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgrid/crosswalk/internal/domain/crosswalk"
	"github.com/civicgrid/crosswalk/internal/domain/geography"
)

func testParams() Params {
	return Params{
		NegativeBufferDistance: -50.0,
		MinIntersectionArea:    100.0,
		AreaEpsilonFraction:    1e-9,
		PercentDecimals:        2,
		PrimaryGeographies:     []geography.ID{geography.CommunityDistricts},
		OtherGeographies:       geography.AllIDs(),
	}
}

func TestNewRecorder_StampsIdentityAndParams(t *testing.T) {
	build := Build{Version: "1.4.0", Commit: "9c4f2ab"}
	rec := NewRecorder(testParams(), build)
	meta := rec.Finalize()

	_, err := uuid.Parse(meta.RunID)
	require.NoError(t, err)
	assert.Equal(t, build, meta.Build)
	assert.False(t, meta.StartedAt.IsZero())
	assert.False(t, meta.FinishedAt.Before(meta.StartedAt))
	assert.Equal(t, testParams(), meta.Params)
}

func TestRecorder_AccumulatesEvents(t *testing.T) {
	rec := NewRecorder(testParams(), Build{})

	rec.AddSource(SourceProvenance{Geography: geography.ZipCodes, Dataset: "Zip Codes", Features: 178})
	rec.AddRepairFailures([]geography.RepairFailure{
		{Geography: geography.ZipCodes, FeatureID: "10463", Reason: "Self-intersection"},
	})
	rec.AddRepairFailures(nil)
	rec.RecordResult(&crosswalk.Result{
		PrimaryGeography: geography.CommunityDistricts,
		Records:          make([]crosswalk.OverlapRecord, 3),
		Degenerate:       []crosswalk.DegeneratePrimary{{Key: "bad", Area: 0}},
	})

	meta := rec.Finalize()

	require.Len(t, meta.Sources, 1)
	assert.Equal(t, 178, meta.Sources[0].Features)
	require.Len(t, meta.RepairFailures, 1)
	assert.Equal(t, 3, meta.RecordCounts[geography.CommunityDistricts])
	require.Len(t, meta.DegeneratePrimaries[geography.CommunityDistricts], 1)
	assert.Equal(t, "bad", meta.DegeneratePrimaries[geography.CommunityDistricts][0].Key)
}

func TestFinalize_SnapshotIsIsolatedFromLaterEvents(t *testing.T) {
	rec := NewRecorder(testParams(), Build{})
	rec.AddSource(SourceProvenance{Geography: geography.ZipCodes})

	first := rec.Finalize()
	rec.AddSource(SourceProvenance{Geography: geography.SchoolDistricts})
	second := rec.Finalize()

	assert.Len(t, first.Sources, 1)
	assert.Len(t, second.Sources, 2)
}

func TestRecorder_ConcurrentUse(t *testing.T) {
	rec := NewRecorder(testParams(), Build{})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.AddSource(SourceProvenance{Geography: geography.ZipCodes})
			rec.AddRepairFailures([]geography.RepairFailure{{Geography: geography.ZipCodes}})
		}()
	}
	wg.Wait()

	meta := rec.Finalize()
	assert.Len(t, meta.Sources, 32)
	assert.Len(t, meta.RepairFailures, 32)
}
