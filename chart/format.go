package chart

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatCurrency formats v as whole dollars with thousands separators,
// e.g. "$1,234,567" or "-$5".
func FormatCurrency(v float64) string {
	if !finite(v) {
		return ""
	}
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

// FormatNumber formats v with thousands separators and no trailing zeros.
func FormatNumber(v float64) string {
	if !finite(v) {
		return ""
	}
	return humanize.Commaf(v)
}

// FormatAxis formats v for an axis of format f.
func FormatAxis(f AxisFormat, v float64) string {
	if f == AxisCurrency {
		return FormatCurrency(v)
	}
	return FormatNumber(v)
}

// parseColor parses "#rrggbb". Anything else is the default color.
func parseColor(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		s = strings.TrimPrefix(ColorDefault, "#")
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		v, _ = strconv.ParseUint(strings.TrimPrefix(ColorDefault, "#"), 16, 32)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
