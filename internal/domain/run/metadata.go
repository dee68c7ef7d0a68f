// Package run records what a crosswalk run did: which parameters it ran
// with, where each input layer came from, and every exclusion it made along
// the way.  Outputs are not reproducible from the tables alone, so the run
// record is the audit trail.
package run

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civicgrid/crosswalk/internal/domain/crosswalk"
	"github.com/civicgrid/crosswalk/internal/domain/geography"
)

// Params is the effective engine configuration of a run, echoed verbatim
// into the metadata so a table can always be traced back to the thresholds
// that produced it.
type Params struct {
	NegativeBufferDistance float64        `json:"negative_buffer_distance"`
	MinIntersectionArea    float64        `json:"min_intersection_area"`
	AreaEpsilonFraction    float64        `json:"area_epsilon_fraction"`
	PercentDecimals        int            `json:"percentage_decimal_precision"`
	PrimaryGeographies     []geography.ID `json:"primary_geographies"`
	OtherGeographies       []geography.ID `json:"other_geographies"`
}

// Build identifies the binary that produced a run.  The commit is the
// content fingerprint: two runs with the same inputs, parameters, and commit
// are byte-identical.
type Build struct {
	Version string `json:"version,omitempty"`
	Commit  string `json:"git_sha,omitempty"`
}

// SourceProvenance describes one input layer.
type SourceProvenance struct {
	Geography geography.ID `json:"geography"`
	Dataset   string       `json:"dataset"`
	URL       string       `json:"url,omitempty"`
	Version   string       `json:"version,omitempty"`
	FetchedAt time.Time    `json:"fetched_at,omitempty"`
	Features  int          `json:"features"`
}

// Metadata is the immutable record of one finished run.
type Metadata struct {
	RunID      string    `json:"run_id"`
	Build      Build     `json:"build"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Params     Params    `json:"params"`

	Sources []SourceProvenance `json:"sources"`

	// RepairFailures lists every feature excluded because its geometry could
	// not be made valid.
	RepairFailures []geography.RepairFailure `json:"repair_failures"`

	// DegeneratePrimaries lists, per primary geography, every dissolved unit
	// excluded for a zero or non-finite area.
	DegeneratePrimaries map[geography.ID][]crosswalk.DegeneratePrimary `json:"degenerate_primaries"`

	// RecordCounts is the number of overlap records emitted per primary
	// geography.
	RecordCounts map[geography.ID]int `json:"record_counts"`
}

// Recorder accumulates run metadata from concurrent collaborators.  All
// methods are safe for concurrent use; Finalize snapshots the accumulated
// state, so a Recorder can keep receiving events without racing readers of
// an earlier snapshot.
type Recorder struct {
	mu   sync.Mutex
	meta Metadata
	now  func() time.Time
}

// NewRecorder starts a run record with a fresh run ID.
func NewRecorder(params Params, build Build) *Recorder {
	r := &Recorder{now: time.Now}
	r.meta = Metadata{
		RunID:               uuid.NewString(),
		Build:               build,
		StartedAt:           r.now().UTC(),
		Params:              params,
		DegeneratePrimaries: make(map[geography.ID][]crosswalk.DegeneratePrimary),
		RecordCounts:        make(map[geography.ID]int),
	}
	return r
}

// AddSource appends one input layer's provenance.
func (r *Recorder) AddSource(src SourceProvenance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta.Sources = append(r.meta.Sources, src)
}

// AddRepairFailures appends geometry-repair exclusions.
func (r *Recorder) AddRepairFailures(failures []geography.RepairFailure) {
	if len(failures) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta.RepairFailures = append(r.meta.RepairFailures, failures...)
}

// RecordResult folds one primary geography's overlay result into the run
// record.
func (r *Recorder) RecordResult(result *crosswalk.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta.RecordCounts[result.PrimaryGeography] = len(result.Records)
	if len(result.Degenerate) > 0 {
		r.meta.DegeneratePrimaries[result.PrimaryGeography] = append(
			r.meta.DegeneratePrimaries[result.PrimaryGeography], result.Degenerate...)
	}
}

// Finalize stamps the finish time and returns a deep copy of the record.
func (r *Recorder) Finalize() Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.meta
	out.FinishedAt = r.now().UTC()

	out.Sources = append([]SourceProvenance(nil), r.meta.Sources...)
	out.RepairFailures = append([]geography.RepairFailure(nil), r.meta.RepairFailures...)

	out.DegeneratePrimaries = make(map[geography.ID][]crosswalk.DegeneratePrimary, len(r.meta.DegeneratePrimaries))
	for id, ds := range r.meta.DegeneratePrimaries {
		out.DegeneratePrimaries[id] = append([]crosswalk.DegeneratePrimary(nil), ds...)
	}
	out.RecordCounts = make(map[geography.ID]int, len(r.meta.RecordCounts))
	for id, n := range r.meta.RecordCounts {
		out.RecordCounts[id] = n
	}
	return out
}
