package render

import (
	"strconv"
	"strings"
)

// RGB is an 8-bit color.
type RGB struct{ R, G, B int }

var namedColors = map[string]RGB{
	"black":       {0, 0, 0},
	"white":       {255, 255, 255},
	"blue":        {0, 0, 255},
	"orange":      {255, 165, 0},
	"green":       {0, 128, 0},
	"red":         {255, 0, 0},
	"purple":      {128, 0, 128},
	"brown":       {165, 42, 42},
	"pink":        {255, 192, 203},
	"gray":        {128, 128, 128},
	"grey":        {128, 128, 128},
	"olive":       {128, 128, 0},
	"cyan":        {0, 255, 255},
	"magenta":     {255, 0, 255},
	"teal":        {0, 128, 128},
	"navy":        {0, 0, 128},
	"gold":        {255, 215, 0},
	"lightgreen":  {144, 238, 144},
	"lightyellow": {255, 255, 224},
	"lightblue":   {173, 216, 230},
	"lightgray":   {211, 211, 211},
}

// ParseColor accepts a CSS color name or a #RRGGBB value.
func ParseColor(s string) (RGB, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return RGB{}, false
		}
		return RGB{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, true
	}
	return RGB{}, false
}

func colorOr(s string, fallback RGB) RGB {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return fallback
}
