package model

import "time"

// Instrument describes one plotted series.
type Instrument struct {
	Symbol string `yaml:"symbol" toml:"symbol"`
	Label  string `yaml:"label" toml:"label"`
	Name   string `yaml:"name" toml:"name"`
	Color  string `yaml:"color" toml:"color"`
}

// DisplayName is the legend text, e.g. "XLK: IT".
func (i Instrument) DisplayName() string {
	if i.Label == "" {
		return i.Symbol
	}
	return i.Symbol + ": " + i.Label
}

// Quadrant is a named region of the RS/MOM plane.
type Quadrant string

const (
	QuadrantLeading   Quadrant = "LEADING"
	QuadrantWeakening Quadrant = "WEAKENING"
	QuadrantLagging   Quadrant = "LAGGING"
	QuadrantImproving Quadrant = "IMPROVING"
	QuadrantNeutral   Quadrant = "NEUTRAL" // exactly at the origin
)

// RotationPoint is one (date, RS, MOM) coordinate.
type RotationPoint struct {
	Date time.Time
	RS   float64
	MOM  float64
}

// InstrumentTrail is what the renderer draws for one instrument.
type InstrumentTrail struct {
	Instrument Instrument
	Head       RotationPoint
	Trail      []RotationPoint
	Quadrant   Quadrant
}

// RotationGraph is one complete rendering pass.
type RotationGraph struct {
	Benchmark   Instrument
	Lookback    Lookback
	AsOf        time.Time
	Trails      []InstrumentTrail
	GeneratedAt time.Time
}
