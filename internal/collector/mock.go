package collector

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"SectorRRG/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string][]float64 // symbol -> closes, one per trading day ending at End
	Errors map[string]error
	End    time.Time
}

// NewRandomWalkFetcher builds a MockFetcher with n daily closes per symbol following
// seeded geometric random walks, for dry runs without network access.
func NewRandomWalkFetcher(symbols []string, n int, seed int64) *MockFetcher {
	rng := rand.New(rand.NewSource(seed))
	series := make(map[string][]float64, len(symbols))
	for _, sym := range symbols {
		drift := (rng.Float64() - 0.5) * 0.001
		closes := make([]float64, n)
		price := 50 + rng.Float64()*400
		for i := range closes {
			price *= math.Exp(drift + rng.NormFloat64()*0.012)
			closes[i] = price
		}
		series[sym] = closes
	}
	return &MockFetcher{Series: series, End: model.DateKey(time.Now())}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchAdjustedCloses(ctx context.Context, symbol string) (model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.PriceSeries{}, err
	}
	if err, ok := m.Errors[symbol]; ok {
		return model.PriceSeries{}, err
	}
	closes, ok := m.Series[symbol]
	if !ok || len(closes) == 0 {
		return model.PriceSeries{}, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
	}
	end := m.End
	if end.IsZero() {
		end = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	dates := TradingDays(end, len(closes))
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{Date: dates[i], Close: c}
	}
	return model.PriceSeries{Symbol: symbol, Points: points, FetchedAt: time.Now()}, nil
}

// TradingDays returns n weekdays ending on or before end, ascending.
func TradingDays(end time.Time, n int) []time.Time {
	days := make([]time.Time, n)
	d := model.DateKey(end)
	for i := n - 1; i >= 0; {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days[i] = d
			i--
		}
		d = d.AddDate(0, 0, -1)
	}
	return days
}
