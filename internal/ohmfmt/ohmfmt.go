// Package ohmfmt converts resistances between ohms and the compact
// human notation used on schematics: "470", "4.7k", "1M".
package ohmfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	kilo = 1e3
	mega = 1e6
	giga = 1e9
)

// Parse converts a resistance string to ohms. The input is a decimal number
// with an optional metric suffix k, M, or G, case-insensitive: "330",
// "4.7k", "0.5M". The suffix scales the decimal exponent before conversion,
// so "8.2M" is exactly 8200000 and not a product of two roundings. The
// parsed value must be a positive finite number.
func Parse(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty resistance value")
	}

	exponent := ""
	switch trimmed[len(trimmed)-1] {
	case 'k', 'K':
		exponent = "e3"
		trimmed = trimmed[:len(trimmed)-1]
	case 'm', 'M':
		exponent = "e6"
		trimmed = trimmed[:len(trimmed)-1]
	case 'g', 'G':
		exponent = "e9"
		trimmed = trimmed[:len(trimmed)-1]
	}

	ohms, err := strconv.ParseFloat(strings.TrimSpace(trimmed)+exponent, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid resistance %q", s)
	}
	if math.IsNaN(ohms) || math.IsInf(ohms, 0) || ohms <= 0 {
		return 0, fmt.Errorf("resistance must be greater than zero, got %q", s)
	}
	return ohms, nil
}

// Format renders a resistance in ohms under the largest metric unit that
// keeps the number at or above one, with up to three decimals and trailing
// zeros trimmed: "820 Ω", "4.7 kΩ", "1.5 MΩ".
func Format(ohms float64) string {
	switch {
	case ohms >= giga:
		return trim(ohms/giga) + " GΩ"
	case ohms >= mega:
		return trim(ohms/mega) + " MΩ"
	case ohms >= kilo:
		return trim(ohms/kilo) + " kΩ"
	default:
		return trim(ohms) + " Ω"
	}
}

// trim renders v with three decimals, then strips trailing zeros and a
// dangling decimal point: 4.700 -> "4.7", 10.000 -> "10".
func trim(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
