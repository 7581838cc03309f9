package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"SectorRRG/internal/model"
)

// CSVFetcher reads <Dir>/<SYMBOL>.csv files exported from a market-data tool.
// The header must contain a Date column and one of "Adj Close", "adjusted_close" or "Close".
type CSVFetcher struct {
	Dir string
}

// NewCSVFetcher creates a fetcher over a directory of CSV files.
func NewCSVFetcher(dir string) *CSVFetcher {
	return &CSVFetcher{Dir: dir}
}

func (f *CSVFetcher) Name() string { return "csv" }

var csvCloseColumns = []string{"adj close", "adj_close", "adjusted_close", "adjclose", "close"}

// FetchAdjustedCloses parses the symbol's CSV file.
func (f *CSVFetcher) FetchAdjustedCloses(ctx context.Context, symbol string) (model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.PriceSeries{}, err
	}
	path := filepath.Join(f.Dir, symbol+".csv")
	file, err := os.Open(path)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("read header %s: %w", path, err)
	}
	dateCol, closeCol := csvColumns(header)
	if dateCol < 0 || closeCol < 0 {
		return model.PriceSeries{}, fmt.Errorf("%s: missing date or close column in header %v", path, header)
	}

	var points []model.PricePoint
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.PriceSeries{}, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		if len(rec) <= dateCol || len(rec) <= closeCol {
			continue
		}
		raw := strings.TrimSpace(rec[closeCol])
		if raw == "" || strings.EqualFold(raw, "null") {
			continue
		}
		d, err := parseCSVDate(rec[dateCol])
		if err != nil {
			return model.PriceSeries{}, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		c, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.PriceSeries{}, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		points = append(points, model.PricePoint{Date: d, Close: c})
	}

	points = normalizePoints(points)
	if len(points) == 0 {
		return model.PriceSeries{}, fmt.Errorf("csv %s: %w", symbol, ErrNoData)
	}
	return model.PriceSeries{Symbol: symbol, Points: points, FetchedAt: time.Now()}, nil
}

func csvColumns(header []string) (dateCol, closeCol int) {
	dateCol, closeCol = -1, -1
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		idx[key] = i
		if key == "date" || key == "timestamp" {
			dateCol = i
		}
	}
	for _, name := range csvCloseColumns {
		if i, ok := idx[name]; ok {
			closeCol = i
			break
		}
	}
	return dateCol, closeCol
}

func parseCSVDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
