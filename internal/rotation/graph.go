package rotation

import (
	"time"

	"SectorRRG/internal/calculator"
	"SectorRRG/internal/model"
)

// Trail returns the last n points in ascending date order; n <= 0 returns them all.
func Trail(points []model.RotationPoint, n int) []model.RotationPoint {
	if n <= 0 || n >= len(points) {
		return append([]model.RotationPoint(nil), points...)
	}
	return append([]model.RotationPoint(nil), points[len(points)-n:]...)
}

// Build turns calculator output into what the renderer draws.
// Trails run over the full table index, so an instrument with usable RS keeps its
// position even when no date has a price for every instrument.
func Build(res *calculator.Result, benchmark model.Instrument, instruments []model.Instrument, lookback model.Lookback) *model.RotationGraph {
	g := &model.RotationGraph{
		Benchmark:   benchmark,
		Lookback:    lookback,
		Trails:      make([]model.InstrumentTrail, 0, len(instruments)),
		GeneratedAt: time.Now(),
	}
	if n := len(res.Dates); n > 0 {
		g.AsOf = res.Dates[n-1]
	}

	for _, inst := range instruments {
		points := res.Points(inst.Symbol)
		it := model.InstrumentTrail{
			Instrument: inst,
			Trail:      Trail(points, lookback.Points()),
		}
		if len(points) > 0 {
			it.Head = points[len(points)-1]
		}
		it.Quadrant = Classify(it.Head.RS, it.Head.MOM)
		g.Trails = append(g.Trails, it)
	}
	return g
}

// ByQuadrant groups trails by the quadrant of their head.
func ByQuadrant(g *model.RotationGraph) map[model.Quadrant][]model.InstrumentTrail {
	out := make(map[model.Quadrant][]model.InstrumentTrail)
	for _, t := range g.Trails {
		out[t.Quadrant] = append(out[t.Quadrant], t)
	}
	return out
}
