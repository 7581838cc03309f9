package rotation

import "SectorRRG/internal/model"

// DefaultBenchmark is the S&P 500 tracker.
var DefaultBenchmark = model.Instrument{Symbol: "SPY", Label: "SP500", Name: "S&P 500", Color: "black"}

// DefaultSectors are the SPDR US sector ETFs.
var DefaultSectors = []model.Instrument{
	{Symbol: "XLC", Label: "CSRV", Name: "Communication Services", Color: "blue"},
	{Symbol: "XLY", Label: "CD", Name: "Consumer Discretionary", Color: "orange"},
	{Symbol: "XLP", Label: "CS", Name: "Consumer Staples", Color: "green"},
	{Symbol: "XLE", Label: "EN", Name: "Energy", Color: "red"},
	{Symbol: "XLF", Label: "FN", Name: "Financials", Color: "purple"},
	{Symbol: "XLV", Label: "HC", Name: "Health Care", Color: "brown"},
	{Symbol: "XLI", Label: "IN", Name: "Industrials", Color: "pink"},
	{Symbol: "XLB", Label: "MT", Name: "Materials", Color: "gray"},
	{Symbol: "XLRE", Label: "RE", Name: "Real Estate", Color: "olive"},
	{Symbol: "XLK", Label: "IT", Name: "Information Technology", Color: "cyan"},
	{Symbol: "XLU", Label: "UT", Name: "Utilities", Color: "magenta"},
}

// Palette is assigned in order to instruments configured without a color.
var Palette = []string{"blue", "orange", "green", "red", "purple", "brown", "pink", "gray", "olive", "cyan", "magenta"}

// WithDefaults fills missing labels and colors.
func WithDefaults(instruments []model.Instrument) []model.Instrument {
	out := make([]model.Instrument, len(instruments))
	for i, inst := range instruments {
		if inst.Label == "" {
			inst.Label = inst.Symbol
		}
		if inst.Color == "" {
			inst.Color = Palette[i%len(Palette)]
		}
		out[i] = inst
	}
	return out
}

// Disclaimer is printed under every report.
const Disclaimer = "This is not investment advice. The information provided is for educational purposes only " +
	"and should not be considered as financial or investment advice. Please conduct your own research " +
	"or consult a financial advisor before making any investment decisions."

// Description explains how to read the chart.
const Description = "The Relative Rotation Graph (RRG) visualizes the performance of each instrument relative to the benchmark. " +
	"Each point represents an instrument's relative strength and momentum, helping identify leading, lagging, " +
	"improving, and weakening instruments over time."
