package collector

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"SectorRRG/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func series(sym string, start time.Time, closes ...float64) model.PriceSeries {
	s := model.PriceSeries{Symbol: sym}
	for i, c := range closes {
		s.Points = append(s.Points, model.PricePoint{Date: start.AddDate(0, 0, i), Close: c})
	}
	return s
}

func TestJoinTable_AlignsOnBenchmarkDates(t *testing.T) {
	bench := series("SPY", day(2024, 1, 1), 100, 101, 102, 103)
	early := series("A", day(2023, 12, 30), 1, 2, 3, 4) // Dec 30 .. Jan 2
	late := series("B", day(2024, 1, 3), 5, 6, 7)       // Jan 3 .. Jan 5

	table := JoinTable(bench, []model.PriceSeries{early, late})

	assert.Equal(t, "SPY", table.Benchmark)
	require.Len(t, table.Dates, 4)
	assert.Equal(t, []float64{100, 101, 102, 103}, table.Columns["SPY"])

	a := table.Columns["A"]
	assert.Equal(t, 3.0, a[0])
	assert.Equal(t, 4.0, a[1])
	assert.True(t, math.IsNaN(a[2]))
	assert.True(t, math.IsNaN(a[3]))

	b := table.Columns["B"]
	assert.True(t, math.IsNaN(b[0]))
	assert.True(t, math.IsNaN(b[1]))
	assert.Equal(t, []float64{5, 6}, b[2:])

	assert.Empty(t, table.CompleteRows([]string{"A", "B"}))
	assert.Equal(t, 2, overlap(a))
}

func TestNormalizePoints(t *testing.T) {
	in := []model.PricePoint{
		{Date: day(2024, 1, 3), Close: 3},
		{Date: day(2024, 1, 1), Close: 1},
		{Date: day(2024, 1, 2).Add(14 * time.Hour), Close: 2},
		{Date: day(2024, 1, 2).Add(20 * time.Hour), Close: 2.5},
		{Date: day(2024, 1, 4), Close: 0},
		{Date: day(2024, 1, 5), Close: math.NaN()},
	}

	out := normalizePoints(in)

	require.Len(t, out, 3)
	assert.Equal(t, day(2024, 1, 1), out[0].Date)
	assert.Equal(t, day(2024, 1, 2), out[1].Date)
	assert.Equal(t, 2.5, out[1].Close)
	assert.Equal(t, day(2024, 1, 3), out[2].Date)
}

func TestCollector_Collect(t *testing.T) {
	fetcher := &MockFetcher{Series: map[string][]float64{
		"SPY": {100, 101, 102, 103, 104},
		"XLK": {10, 11, 12, 13, 14},
		"XLE": {20, 19, 18},
	}}
	col := NewCollector(fetcher,
		model.Instrument{Symbol: "SPY"},
		[]model.Instrument{{Symbol: "XLK"}, {Symbol: "XLE"}},
		arbor.NewLogger())

	table, err := col.Collect(context.Background())
	require.NoError(t, err)

	assert.Len(t, table.Dates, 5)
	assert.Equal(t, []float64{10, 11, 12, 13, 14}, table.Columns["XLK"])
	assert.True(t, math.IsNaN(table.Columns["XLE"][0]))
	assert.Equal(t, 18.0, table.Columns["XLE"][4])
	assert.Equal(t, []int{2, 3, 4}, table.CompleteRows(col.Symbols()))
}

func TestCollector_CollectPropagatesEveryFailure(t *testing.T) {
	boom := errors.New("connection reset")
	fetcher := &MockFetcher{
		Series: map[string][]float64{"SPY": {1, 2, 3}},
		Errors: map[string]error{"XLK": boom},
	}
	col := NewCollector(fetcher,
		model.Instrument{Symbol: "SPY"},
		[]model.Instrument{{Symbol: "XLK"}, {Symbol: "NOPE"}},
		arbor.NewLogger())
	col.Concurrency = 1

	table, err := col.Collect(context.Background())

	require.Error(t, err)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrNoData)
	assert.ErrorContains(t, err, "fetch XLK")
	assert.ErrorContains(t, err, "fetch NOPE")
}

func TestCollector_CollectHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetcher := &MockFetcher{Series: map[string][]float64{"SPY": {1}, "XLK": {1}}}
	col := NewCollector(fetcher, model.Instrument{Symbol: "SPY"}, []model.Instrument{{Symbol: "XLK"}}, arbor.NewLogger())

	_, err := col.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTradingDays(t *testing.T) {
	days := TradingDays(day(2024, 1, 8), 3) // Monday

	assert.Equal(t, []time.Time{day(2024, 1, 4), day(2024, 1, 5), day(2024, 1, 8)}, days)
}

func TestRandomWalkFetcher(t *testing.T) {
	a := NewRandomWalkFetcher([]string{"SPY", "XLK"}, 50, 7)
	b := NewRandomWalkFetcher([]string{"SPY", "XLK"}, 50, 7)
	assert.Equal(t, a.Series, b.Series)

	s, err := a.FetchAdjustedCloses(context.Background(), "XLK")
	require.NoError(t, err)
	require.Len(t, s.Points, 50)
	for _, p := range s.Points {
		assert.Greater(t, p.Close, 0.0)
	}
	assert.True(t, s.Points[0].Date.Before(s.Points[49].Date))
}

func TestCSVFetcher(t *testing.T) {
	dir := t.TempDir()
	content := "Date,Open,High,Low,Close,Adj Close,Volume\n" +
		"2024-01-03,10,11,9,10.5,10.2,100\n" +
		"2024-01-02,10,11,9,10.0,9.8,100\n" +
		"2024-01-04,null,null,null,null,null,null\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "XLK.csv"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BAD.csv"), []byte("Day,Price\n2024-01-02,1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "EMPTY.csv"), []byte("Date,Close\n"), 0o644))

	f := NewCSVFetcher(dir)

	s, err := f.FetchAdjustedCloses(context.Background(), "XLK")
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, day(2024, 1, 2), s.Points[0].Date)
	assert.Equal(t, 9.8, s.Points[0].Close)
	assert.Equal(t, 10.2, s.Points[1].Close)

	_, err = f.FetchAdjustedCloses(context.Background(), "BAD")
	assert.ErrorContains(t, err, "missing date or close column")

	_, err = f.FetchAdjustedCloses(context.Background(), "EMPTY")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = f.FetchAdjustedCloses(context.Background(), "MISSING")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
