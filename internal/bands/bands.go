// Package bands maps resistances onto the standard three-band resistor
// color code: two significant digit bands followed by a decimal multiplier
// band.
package bands

import (
	"math"
	"strconv"
	"strings"
)

// digitColors indexes the standard color code by digit value.
var digitColors = [...]string{
	"black", "brown", "red", "orange", "yellow",
	"green", "blue", "purple", "gray", "white",
}

const (
	black  = "black"
	gold   = "gold"
	silver = "silver"
)

// ForValue returns the three band colors encoding a resistance: first
// digit, second digit, multiplier. Multipliers of 0.1 and 0.01 map onto
// gold and silver, so 4.7 Ω is yellow purple gold. Values that cannot be
// encoded, zero or negative or not finite, come back as all black.
func ForValue(ohms float64) []string {
	if ohms <= 0 || math.IsNaN(ohms) || math.IsInf(ohms, 0) {
		return []string{black, black, black}
	}

	// Normalized scientific notation exposes the two significant digits
	// and the power of ten directly: 4700 renders as "4.700000000E+03".
	sci := strconv.FormatFloat(ohms, 'E', 9, 64)
	mantissa, expPart, found := strings.Cut(sci, "E")
	if !found {
		return []string{black, black, black}
	}
	exponent, err := strconv.Atoi(expPart)
	if err != nil {
		return []string{black, black, black}
	}
	digits := strings.Replace(mantissa, ".", "", 1)

	return []string{
		colorForDigit(digits[0]),
		colorForDigit(digits[1]),
		colorForMultiplier(exponent - 1),
	}
}

func colorForDigit(d byte) string {
	if d < '0' || d > '9' {
		return black
	}
	return digitColors[d-'0']
}

// colorForMultiplier encodes the number of zeros after the two significant
// digits. Negative multipliers shift the decimal point left instead.
func colorForMultiplier(zeros int) string {
	switch {
	case zeros >= 0 && zeros < len(digitColors):
		return digitColors[zeros]
	case zeros == -1:
		return gold
	case zeros == -2:
		return silver
	default:
		return black
	}
}
