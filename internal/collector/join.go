package collector

import (
	"math"
	"time"

	"SectorRRG/internal/model"
)

// JoinTable folds independently fetched series into one table keyed on the benchmark's dates.
// Instrument dates without a benchmark price are dropped; instrument gaps stay NaN.
func JoinTable(benchmark model.PriceSeries, instruments []model.PriceSeries) *model.PriceTable {
	dates := make([]time.Time, len(benchmark.Points))
	row := make(map[time.Time]int, len(benchmark.Points))
	for i, p := range benchmark.Points {
		dates[i] = p.Date
		row[p.Date] = i
	}

	table := &model.PriceTable{
		Benchmark: benchmark.Symbol,
		Dates:     dates,
		Columns:   make(map[string][]float64, len(instruments)+1),
	}
	table.Columns[benchmark.Symbol] = column(benchmark, row, len(dates))
	for _, s := range instruments {
		table.Columns[s.Symbol] = column(s, row, len(dates))
	}
	return table
}

func column(s model.PriceSeries, row map[time.Time]int, n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = math.NaN()
	}
	for _, p := range s.Points {
		if i, ok := row[p.Date]; ok {
			col[i] = p.Close
		}
	}
	return col
}

// overlap counts the non-NaN entries of a column.
func overlap(col []float64) int {
	n := 0
	for _, v := range col {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
