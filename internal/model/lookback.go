package model

import (
	"fmt"
	"strings"
)

// Lookback selects how many trailing points are drawn per instrument.
type Lookback string

const (
	LookbackLTD Lookback = "LTD"
	Lookback3D  Lookback = "3D"
	Lookback7D  Lookback = "7D"
	Lookback14D Lookback = "14D"
	Lookback21D Lookback = "21D"
	Lookback50D Lookback = "50D"
	LookbackMax Lookback = "MAX"
)

// DefaultLookback matches the initial selector position.
const DefaultLookback = Lookback7D

// Lookbacks lists the selector values in display order.
var Lookbacks = []Lookback{LookbackLTD, Lookback3D, Lookback7D, Lookback14D, Lookback21D, Lookback50D, LookbackMax}

var lookbackPoints = map[Lookback]int{
	LookbackLTD: 1,
	Lookback3D:  3,
	Lookback7D:  7,
	Lookback14D: 14,
	Lookback21D: 21,
	Lookback50D: 50,
	LookbackMax: 0,
}

// Points returns the trail length; 0 means the whole history.
func (l Lookback) Points() int {
	return lookbackPoints[l]
}

// Description is the human readable meaning of the selector.
func (l Lookback) Description() string {
	switch l {
	case LookbackLTD:
		return "last trading day"
	case LookbackMax:
		return "entire history"
	default:
		return fmt.Sprintf("last %d trading days", l.Points())
	}
}

// ParseLookback accepts the selector labels case-insensitively, with or without footnote asterisks.
func ParseLookback(s string) (Lookback, error) {
	v := Lookback(strings.ToUpper(strings.TrimRight(strings.TrimSpace(s), "*")))
	if _, ok := lookbackPoints[v]; !ok {
		return "", fmt.Errorf("unknown lookback %q (want one of %v)", s, Lookbacks)
	}
	return v, nil
}
