package model

import (
	"math"
	"time"
)

// PricePoint is one adjusted close on one trading day.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds the adjusted-close history of one instrument, ascending by date.
type PriceSeries struct {
	Symbol    string
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int { return len(s.Points) }

// PriceTable aligns several series on one date index.
// Columns hold NaN where a symbol has no price on that date.
type PriceTable struct {
	Benchmark string
	Dates     []time.Time
	Columns   map[string][]float64
}

// Column returns the aligned prices for symbol.
func (t *PriceTable) Column(symbol string) ([]float64, bool) {
	col, ok := t.Columns[symbol]
	return col, ok
}

// CompleteRows returns the row indexes where the benchmark and every listed symbol have a value.
func (t *PriceTable) CompleteRows(symbols []string) []int {
	rows := make([]int, 0, len(t.Dates))
	bench := t.Columns[t.Benchmark]
	for i := range t.Dates {
		if bench == nil || math.IsNaN(bench[i]) {
			continue
		}
		complete := true
		for _, s := range symbols {
			col := t.Columns[s]
			if col == nil || math.IsNaN(col[i]) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, i)
		}
	}
	return rows
}

// DateKey normalizes a timestamp to its calendar day in UTC.
func DateKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
