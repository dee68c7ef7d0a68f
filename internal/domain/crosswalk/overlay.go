package crosswalk

import (
	"context"
	"runtime"
	"sort"

	"github.com/twpayne/go-geos"
	"golang.org/x/sync/errgroup"

	"github.com/civicgrid/crosswalk/internal/domain/geography"
	"github.com/civicgrid/crosswalk/internal/infrastructure/monitoring/logging"
)

// bufferQuadSegs is the segment count per quarter circle for the denoising
// buffer, matching the GEOS default.
const bufferQuadSegs = 8

// Params are the overlay tuning knobs.  They are validated at configuration
// time; the engine trusts them.
type Params struct {
	// BufferDistance is the signed distance, in projection units, applied to
	// both geometries before intersecting.  Negative values shrink the
	// geometries so hairline border slivers do not register as overlaps.
	// The buffer affects only the intersection computation: candidate
	// selection and the percentage denominator use the unbuffered shapes.
	BufferDistance float64

	// MinIntersectionArea is the absolute floor, in squared projection
	// units.  An intersection must exceed it to count; one exactly at the
	// floor is discarded as noise.
	MinIntersectionArea float64

	// AreaEpsilonFraction scales a second, relative floor: intersections
	// at or below this fraction of the primary unit's area are discarded.
	// The effective threshold is the larger of the two floors.
	AreaEpsilonFraction float64

	// PercentDecimals is the rounding precision for reported percentages.
	PercentDecimals int

	// Workers bounds the number of primary units processed concurrently.
	// Zero or negative means one worker per CPU.
	Workers int
}

// OtherLayer is one dissolved non-primary geography handed to the engine.
type OtherLayer struct {
	Geography geography.ID
	Units     []geography.DissolvedUnit
}

// Engine computes boundary crosswalks.  It carries no per-run state, so one
// Engine serves any number of Overlay calls.
type Engine struct {
	params Params
	logger logging.Logger
}

// NewEngine returns an Engine with the given parameters.
func NewEngine(params Params, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{params: params, logger: logger}
}

// preparedUnit is a dissolved unit with its envelope and denoised geometry
// computed once, shared read-only across primary workers.
type preparedUnit struct {
	key      string
	name     string
	envelope *geos.Geom
	buffered *geos.Geom
}

// preparedLayer is one other geography after per-unit preparation.
type preparedLayer struct {
	geography geography.ID
	units     []preparedUnit
}

// Overlay intersects every primary unit with every candidate unit of every
// other layer and returns the fully ordered result.  Primary units are
// processed concurrently; results are merged back in input order so the
// output is byte-identical regardless of worker count.
func (e *Engine) Overlay(ctx context.Context, primaryID geography.ID, primaries []geography.DissolvedUnit, others []OtherLayer) (*Result, error) {
	prepared := e.prepareLayers(others)

	perPrimary := make([][]OverlapRecord, len(primaries))
	degenerate := make([]*DegeneratePrimary, len(primaries))

	workers := e.params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range primaries {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perPrimary[i], degenerate[i] = e.overlayPrimary(&primaries[i], prepared)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{PrimaryGeography: primaryID}
	for i := range primaries {
		result.Records = append(result.Records, perPrimary[i]...)
		if degenerate[i] != nil {
			result.Degenerate = append(result.Degenerate, *degenerate[i])
		}
	}

	e.logger.Info("overlay complete",
		logging.String("primary", primaryID.String()),
		logging.Int("primaries", len(primaries)),
		logging.Int("records", len(result.Records)),
		logging.Int("degenerate", len(result.Degenerate)),
	)
	return result, nil
}

// prepareLayers buffers every other unit once and caches its unbuffered
// envelope.  A unit whose denoised geometry is empty keeps a nil buffered
// geometry and can never contribute a record.
func (e *Engine) prepareLayers(others []OtherLayer) []preparedLayer {
	prepared := make([]preparedLayer, 0, len(others))
	for _, layer := range others {
		pl := preparedLayer{
			geography: layer.Geography,
			units:     make([]preparedUnit, 0, len(layer.Units)),
		}
		for _, u := range layer.Units {
			pu := preparedUnit{
				key:      u.Key,
				name:     u.Name,
				envelope: u.Geom.Envelope(),
			}
			if b := u.Geom.Buffer(e.params.BufferDistance, bufferQuadSegs); b != nil && !b.IsEmpty() {
				pu.buffered = b
			}
			pl.units = append(pl.units, pu)
		}
		prepared = append(prepared, pl)
	}
	return prepared
}

// overlayPrimary computes all records for one primary unit.  Within the
// returned slice, other geographies follow the run order and records inside
// one geography are sorted by descending intersection area, then unit key.
func (e *Engine) overlayPrimary(p *geography.DissolvedUnit, others []preparedLayer) ([]OverlapRecord, *DegeneratePrimary) {
	if _, err := PercentOfPrimary(0, p.Area, e.params.PercentDecimals); err != nil {
		e.logger.Warn("primary excluded: degenerate area",
			logging.String("primary", p.Key),
			logging.Float64("area", p.Area),
		)
		return nil, &DegeneratePrimary{Key: p.Key, Name: p.Name, Area: p.Area}
	}

	envelope := p.Geom.Envelope()
	buffered := p.Geom.Buffer(e.params.BufferDistance, bufferQuadSegs)
	if buffered == nil || buffered.IsEmpty() {
		// The unit is thinner than the denoising buffer everywhere; any
		// overlap it has is indistinguishable from border noise.
		e.logger.Debug("primary denoised to empty",
			logging.String("primary", p.Key),
			logging.Float64("buffer", e.params.BufferDistance),
		)
		return nil, nil
	}

	threshold := e.params.MinIntersectionArea
	if rel := e.params.AreaEpsilonFraction * p.Area; rel > threshold {
		threshold = rel
	}

	var records []OverlapRecord
	for _, layer := range others {
		var group []OverlapRecord
		for i := range layer.units {
			u := &layer.units[i]
			// Candidate selection is on the unbuffered shapes so a unit
			// whose true extent touches the primary is never skipped by an
			// artifact of the shrink.
			if u.buffered == nil || !envelope.Intersects(u.envelope) {
				continue
			}
			inter := buffered.Intersection(u.buffered)
			if inter == nil || inter.IsEmpty() {
				continue
			}
			area := inter.Area()
			// The floor is exclusive: an intersection must exceed it, not
			// merely reach it, to count as a real overlap.
			if area <= threshold {
				continue
			}
			pct, err := PercentOfPrimary(area, p.Area, e.params.PercentDecimals)
			if err != nil {
				// Unreachable: the degenerate check above guards p.Area.
				continue
			}
			group = append(group, OverlapRecord{
				PrimaryKey:       p.Key,
				PrimaryName:      p.Name,
				OtherGeography:   layer.geography,
				OtherKey:         u.key,
				OtherName:        u.name,
				IntersectionArea: area,
				Percentage:       pct,
			})
		}
		sort.SliceStable(group, func(a, b int) bool {
			if group[a].IntersectionArea != group[b].IntersectionArea {
				return group[a].IntersectionArea > group[b].IntersectionArea
			}
			return group[a].OtherKey < group[b].OtherKey
		})
		records = append(records, group...)
	}
	return records, nil
}
