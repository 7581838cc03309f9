package calculator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"SectorRRG/internal/model"
)

const (
	// DefaultLongWindow approximates one quarter of trading days.
	DefaultLongWindow = 63
	// DefaultShortWindow approximates one month of trading days.
	DefaultShortWindow = 21
)

// Config holds the momentum window lengths.
type Config struct {
	LongWindow  int
	ShortWindow int
}

// DefaultConfig returns the 63/21 windows.
func DefaultConfig() Config {
	return Config{LongWindow: DefaultLongWindow, ShortWindow: DefaultShortWindow}
}

// Result carries the RS series on the table index and the MOM series on the row-complete index.
type Result struct {
	Dates        []time.Time
	MomentumRows []int
	RS           map[string][]float64
	RawMomentum  map[string][]float64
	Momentum     map[string][]float64
	Symbols      []string
}

// MomentumDates returns the dates on which momentum is defined.
func (r *Result) MomentumDates() []time.Time {
	dates := make([]time.Time, len(r.MomentumRows))
	for k, row := range r.MomentumRows {
		dates[k] = r.Dates[row]
	}
	return dates
}

// Points zips RS and MOM for symbol over the full table index, ascending.
// Dates outside the row-complete subset carry MOM 0.
func (r *Result) Points(symbol string) []model.RotationPoint {
	rs, ok := r.RS[symbol]
	if !ok {
		return nil
	}
	mom := make([]float64, len(r.Dates))
	for k, row := range r.MomentumRows {
		mom[row] = r.Momentum[symbol][k]
	}
	points := make([]model.RotationPoint, len(r.Dates))
	for i, d := range r.Dates {
		points[i] = model.RotationPoint{Date: d, RS: rs[i], MOM: mom[i]}
	}
	return points
}

// RawMomentum computes ln(1+pctLong) - ln(1+pctShort) over a gap-free ratio series.
// Entries without a long-window value come out as 0.
func RawMomentum(ratio []float64, long, short int) []float64 {
	pctLong := PctChange(ratio, long)
	pctShort := PctChange(ratio, short)
	out := make([]float64, len(ratio))
	for i := range ratio {
		out[i] = math.Log1p(pctLong[i]) - math.Log1p(pctShort[i])
	}
	return Sanitize(out)
}

// Compute derives standardized relative strength and momentum for each symbol against the table's benchmark.
// RS tolerates per-instrument gaps; momentum only uses dates where every symbol has a price.
func Compute(table *model.PriceTable, symbols []string, cfg Config) (*Result, error) {
	if cfg.LongWindow <= 0 || cfg.ShortWindow <= 0 {
		return nil, fmt.Errorf("windows must be positive (long=%d, short=%d)", cfg.LongWindow, cfg.ShortWindow)
	}
	if len(symbols) == 0 {
		return nil, errors.New("no instruments to compute")
	}
	if len(table.Dates) == 0 {
		return nil, errors.New("price table is empty")
	}
	bench, ok := table.Column(table.Benchmark)
	if !ok {
		return nil, fmt.Errorf("benchmark %s missing from price table", table.Benchmark)
	}

	res := &Result{
		Dates:        table.Dates,
		MomentumRows: table.CompleteRows(symbols),
		RS:           make(map[string][]float64, len(symbols)),
		RawMomentum:  make(map[string][]float64, len(symbols)),
		Momentum:     make(map[string][]float64, len(symbols)),
		Symbols:      append([]string(nil), symbols...),
	}

	for _, sym := range symbols {
		prices, ok := table.Column(sym)
		if !ok {
			return nil, fmt.Errorf("instrument %s missing from price table", sym)
		}
		ratio := Ratio(prices, bench)
		res.RS[sym] = Standardize(ratio)

		momRatio := make([]float64, len(res.MomentumRows))
		for k, row := range res.MomentumRows {
			momRatio[k] = ratio[row]
		}
		raw := RawMomentum(momRatio, cfg.LongWindow, cfg.ShortWindow)
		res.RawMomentum[sym] = raw
		res.Momentum[sym] = Standardize(raw)
	}
	return res, nil
}
