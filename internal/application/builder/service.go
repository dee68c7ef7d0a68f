// Package builder orchestrates a crosswalk run: load, normalize, dissolve,
// overlay, and write, in that order, with configuration failures raised
// before any geometry work starts.
package builder

import (
	"context"
	"time"

	"github.com/civicgrid/crosswalk/internal/config"
	"github.com/civicgrid/crosswalk/internal/domain/crosswalk"
	"github.com/civicgrid/crosswalk/internal/domain/geography"
	"github.com/civicgrid/crosswalk/internal/domain/run"
	"github.com/civicgrid/crosswalk/internal/infrastructure/geojson"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/metrics"
	"github.com/civicgrid/crosswalk/internal/infrastructure/tableio"
)

// Service runs crosswalk builds.
type Service struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Metrics
	build   run.Build
}

// New returns a Service.  A nil metrics set disables instrumentation; build
// identifies the binary in the run metadata.
func New(cfg *config.Config, logger logging.Logger, m *metrics.Metrics, build run.Build) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Service{cfg: cfg, logger: logger.Named("builder"), metrics: m, build: build}
}

// Summary reports what a finished run produced.  Primaries lists the
// primary geographies in run order so callers can report per-unit counts
// deterministically instead of ranging over the map.
type Summary struct {
	RunID        string
	OutputDir    string
	Tables       []string
	Primaries    []geography.ID
	RecordCounts map[geography.ID]int
}

// Run executes one complete build.  Output is deterministic for a given
// input and configuration regardless of worker count.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	primaries, others, err := s.cfg.ResolveGeographies()
	if err != nil {
		return nil, err
	}

	params := run.Params{
		NegativeBufferDistance: s.cfg.Engine.NegativeBufferDistance,
		MinIntersectionArea:    s.cfg.Engine.MinIntersectionArea,
		AreaEpsilonFraction:    s.cfg.Engine.AreaEpsilonFraction,
		PercentDecimals:        s.cfg.Engine.PercentDecimals,
		PrimaryGeographies:     primaries,
		OtherGeographies:       others,
	}
	recorder := run.NewRecorder(params, s.build)

	dissolved, err := s.prepareLayers(primaries, others, recorder)
	if err != nil {
		return nil, err
	}

	writer, err := tableio.NewWriter(s.cfg.IO.OutputDir, s.logger)
	if err != nil {
		return nil, err
	}

	engine := crosswalk.NewEngine(crosswalk.Params{
		BufferDistance:      s.cfg.Engine.NegativeBufferDistance,
		MinIntersectionArea: s.cfg.Engine.MinIntersectionArea,
		AreaEpsilonFraction: s.cfg.Engine.AreaEpsilonFraction,
		PercentDecimals:     s.cfg.Engine.PercentDecimals,
		Workers:             s.cfg.Engine.Workers,
	}, s.logger)

	summary := &Summary{
		OutputDir:    writer.Dir(),
		Primaries:    primaries,
		RecordCounts: make(map[geography.ID]int, len(primaries)),
	}

	for _, primary := range primaries {
		columns := withoutSelf(others, primary)
		layers := make([]crosswalk.OtherLayer, 0, len(columns))
		for _, id := range columns {
			layers = append(layers, crosswalk.OtherLayer{Geography: id, Units: dissolved[id]})
		}

		start := time.Now()
		result, err := engine.Overlay(ctx, primary, dissolved[primary], layers)
		if err != nil {
			return nil, err
		}
		s.metrics.OverlayDuration.WithLabelValues(primary.String()).Observe(time.Since(start).Seconds())
		s.metrics.OverlapRecords.WithLabelValues(primary.String()).Add(float64(len(result.Records)))
		s.metrics.DegeneratePrimaries.WithLabelValues(primary.String()).Add(float64(len(result.Degenerate)))
		recorder.RecordResult(result)

		long := crosswalk.NewLongTable(result)
		longPath, err := writer.WriteLong(long, s.cfg.Engine.PercentDecimals)
		if err != nil {
			return nil, err
		}
		s.metrics.TablesWritten.WithLabelValues("long").Inc()

		wide := crosswalk.NewWideTable(long, dissolved[primary], columns)
		widePath, err := writer.WriteWide(wide)
		if err != nil {
			return nil, err
		}
		s.metrics.TablesWritten.WithLabelValues("wide").Inc()

		summary.Tables = append(summary.Tables, longPath, widePath)
		summary.RecordCounts[primary] = len(result.Records)
	}

	if _, err := writer.WriteParams(params); err != nil {
		return nil, err
	}
	meta := recorder.Finalize()
	if _, err := writer.WriteRunMeta(meta); err != nil {
		return nil, err
	}
	summary.RunID = meta.RunID

	s.logger.Info("run complete",
		logging.String("run_id", meta.RunID),
		logging.String("output_dir", writer.Dir()),
		logging.Int("tables", len(summary.Tables)),
	)
	return summary, nil
}

// prepareLayers loads, normalizes, and dissolves every participating layer,
// folding provenance and exclusions into the run record as it goes.
func (s *Service) prepareLayers(primaries, others []geography.ID, recorder *run.Recorder) (map[geography.ID][]geography.DissolvedUnit, error) {
	loader := geojson.NewLoader(s.cfg.IO.InputDir, s.logger)
	collection, err := loader.LoadCollection(unionIDs(primaries, others))
	if err != nil {
		return nil, err
	}

	dissolved := make(map[geography.ID][]geography.DissolvedUnit, collection.Len())
	for _, id := range collection.IDs() {
		layer, _ := collection.Layer(id)
		s.metrics.FeaturesLoaded.WithLabelValues(id.String()).Add(float64(len(layer.Features)))

		recorder.AddSource(run.SourceProvenance{
			Geography: id,
			Dataset:   geography.DatasetName(id),
			URL:       loader.LayerPath(id),
			Features:  len(layer.Features),
		})

		normalized, report := geography.NormalizeLayer(layer, s.logger)
		s.metrics.FeaturesRepaired.WithLabelValues(id.String()).Add(float64(report.Repaired))
		s.metrics.FeaturesExcluded.WithLabelValues(id.String()).Add(float64(len(report.Failures)))
		recorder.AddRepairFailures(report.Failures)

		units, err := geography.DissolveLayer(normalized)
		if err != nil {
			return nil, err
		}
		s.metrics.UnitsDissolved.WithLabelValues(id.String()).Add(float64(len(units)))
		dissolved[id] = units
	}
	return dissolved, nil
}

// unionIDs concatenates two ID lists, keeping first appearances only.
func unionIDs(a, b []geography.ID) []geography.ID {
	seen := make(map[geography.ID]bool, len(a)+len(b))
	out := make([]geography.ID, 0, len(a)+len(b))
	for _, id := range append(append([]geography.ID(nil), a...), b...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// withoutSelf removes a primary from its own column list: a geography always
// covers 100% of itself, so the self row is pure noise.
func withoutSelf(ids []geography.ID, self geography.ID) []geography.ID {
	out := make([]geography.ID, 0, len(ids))
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}
