package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLookback(t *testing.T) {
	tests := []struct {
		in     string
		want   Lookback
		points int
	}{
		{"LTD*", LookbackLTD, 1},
		{"ltd", LookbackLTD, 1},
		{"3D", Lookback3D, 3},
		{" 7d ", Lookback7D, 7},
		{"14D", Lookback14D, 14},
		{"21D", Lookback21D, 21},
		{"50D", Lookback50D, 50},
		{"MAX**", LookbackMax, 0},
		{"max", LookbackMax, 0},
	}
	for _, tt := range tests {
		got, err := ParseLookback(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.points, got.Points(), tt.in)
	}

	for _, bad := range []string{"", "5D", "1Y", "*"} {
		_, err := ParseLookback(bad)
		assert.Error(t, err, bad)
	}
}

func TestLookbackDescription(t *testing.T) {
	assert.Equal(t, "last trading day", LookbackLTD.Description())
	assert.Equal(t, "last 14 trading days", Lookback14D.Description())
	assert.Equal(t, "entire history", LookbackMax.Description())
}
