package collector

import (
	"context"
	"errors"
	"math"
	"sort"

	"SectorRRG/internal/model"
)

// ErrNoData is returned when a source answers but has no prices for the symbol.
var ErrNoData = errors.New("no price data")

// Fetcher retrieves the entire available adjusted-close history for a symbol.
type Fetcher interface {
	FetchAdjustedCloses(ctx context.Context, symbol string) (model.PriceSeries, error)
	Name() string
}

// normalizePoints sorts by date, keeps the last value per day and drops non-positive or non-finite prices.
func normalizePoints(points []model.PricePoint) []model.PricePoint {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	out := points[:0]
	for _, p := range points {
		if p.Close <= 0 || math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			continue
		}
		p.Date = model.DateKey(p.Date)
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
