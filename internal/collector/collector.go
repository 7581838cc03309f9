package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ternarybob/arbor"

	"SectorRRG/internal/model"
)

// DefaultConcurrency bounds parallel fetches per run.
const DefaultConcurrency = 4

// Collector fetches the benchmark and every instrument, then aligns them into one table.
type Collector struct {
	Fetcher     Fetcher
	Benchmark   model.Instrument
	Instruments []model.Instrument
	Concurrency int
	logger      arbor.ILogger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, benchmark model.Instrument, instruments []model.Instrument, logger arbor.ILogger) *Collector {
	return &Collector{
		Fetcher:     fetcher,
		Benchmark:   benchmark,
		Instruments: instruments,
		Concurrency: DefaultConcurrency,
		logger:      logger,
	}
}

// Symbols returns the instrument symbols in configured order.
func (c *Collector) Symbols() []string {
	out := make([]string, len(c.Instruments))
	for i, inst := range c.Instruments {
		out[i] = inst.Symbol
	}
	return out
}

// Collect fetches all series and joins them. Any fetch failure fails the whole run.
func (c *Collector) Collect(ctx context.Context) (*model.PriceTable, error) {
	symbols := append([]string{c.Benchmark.Symbol}, c.Symbols()...)
	series, err := c.fetchAll(ctx, symbols)
	if err != nil {
		return nil, err
	}

	table := JoinTable(series[0], series[1:])
	for _, sym := range c.Symbols() {
		if overlap(table.Columns[sym]) == 0 {
			c.logger.Warn().
				Str("symbol", sym).
				Str("benchmark", c.Benchmark.Symbol).
				Msg("instrument shares no dates with benchmark, it will plot at the origin and momentum is zero for every instrument")
		}
	}

	c.logger.Info().
		Int("rows", len(table.Dates)).
		Int("instruments", len(c.Instruments)).
		Msg("price table assembled")
	return table, nil
}

// fetchAll runs one independent fetch per symbol; each goroutine owns its result slot.
func (c *Collector) fetchAll(ctx context.Context, symbols []string) ([]model.PriceSeries, error) {
	workers := c.Concurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}

	results := make([]model.PriceSeries, len(symbols))
	errs := make([]error, len(symbols))
	sem := make(chan struct{}, workers)
	var done atomic.Int32
	var wg sync.WaitGroup

	c.logger.Info().
		Str("source", c.Fetcher.Name()).
		Int("symbols", len(symbols)).
		Msg("extracting price data")

	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = fmt.Errorf("fetch %s: %w", sym, ctx.Err())
				return
			}
			defer func() { <-sem }()

			s, err := c.Fetcher.FetchAdjustedCloses(ctx, sym)
			if err != nil {
				errs[i] = fmt.Errorf("fetch %s: %w", sym, err)
				return
			}
			s.Symbol = sym
			results[i] = s
			c.logger.Info().
				Str("symbol", sym).
				Int("points", s.Len()).
				Str("progress", fmt.Sprintf("%d/%d", done.Add(1), len(symbols))).
				Msg("fetched price history")
		}(i, sym)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
