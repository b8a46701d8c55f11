// Package eseries builds tables of standard resistor values from the IEC 60063
// preferred number series. A table spans a range of decades: the E12 series
// over decades 0..6 covers 1.0 Ω up to 8.2 MΩ. Tables are sorted ascending and
// contain exact decimal values, so 4.7 kΩ is represented as 4700 and not as a
// rounding artifact of 4.7 * 10^3.
package eseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownSeries is returned by Build for a series name it does not know.
var ErrUnknownSeries = errors.New("unknown series")

// Series identifies a preferred number series.
type Series string

const (
	E6  Series = "E6"
	E12 Series = "E12"
	E24 Series = "E24"
)

// Default decade range: 1.0 Ω through 8.2 MΩ for E12.
const (
	DefaultMinDecade = 0
	DefaultMaxDecade = 6
)

// Decade bounds accepted by Build. The lower end admits sub-ohm shunt tables,
// the upper end keeps every table entry exactly representable as an integer
// scaled by a power of ten.
const (
	minDecadeLimit = -2
	maxDecadeLimit = 12
)

// Base values per series, stored as integer tenths (10 = 1.0, 82 = 8.2) so
// decade scaling stays in exact integer arithmetic.
var baseTenths = map[Series][]int64{
	E6:  {10, 15, 22, 33, 47, 68},
	E12: {10, 12, 15, 18, 22, 27, 33, 39, 47, 56, 68, 82},
	E24: {10, 11, 12, 13, 15, 16, 18, 20, 22, 24, 27, 30, 33, 36, 39, 43, 47, 51, 56, 62, 68, 75, 82, 91},
}

var standard = mustBuild(E12, DefaultMinDecade, DefaultMaxDecade)

// Supported lists the series Build understands.
func Supported() []Series {
	return []Series{E6, E12, E24}
}

// Build returns the values of the given series across decades minDecade
// through maxDecade inclusive, sorted ascending. A decade d scales the base
// values by 10^d, so E12 with decades 0..6 yields 84 values from 1.0 to
// 8.2e6.
func Build(s Series, minDecade, maxDecade int) ([]float64, error) {
	tenths, ok := baseTenths[s]
	if !ok {
		return nil, fmt.Errorf("%w %q, supported: %v", ErrUnknownSeries, s, Supported())
	}
	if minDecade < minDecadeLimit || maxDecade > maxDecadeLimit {
		return nil, fmt.Errorf("decades must be between %d and %d, got %d..%d",
			minDecadeLimit, maxDecadeLimit, minDecade, maxDecade)
	}
	if minDecade > maxDecade {
		return nil, fmt.Errorf("minDecade (%d) must not exceed maxDecade (%d)", minDecade, maxDecade)
	}
	out := make([]float64, 0, len(tenths)*(maxDecade-minDecade+1))
	for d := minDecade; d <= maxDecade; d++ {
		for _, t := range tenths {
			out = append(out, decadeValue(t, d))
		}
	}
	// Largest base value (9.1) stays below the next decade's smallest (10),
	// so the decade-major order above is already globally ascending.
	return out, nil
}

// Standard returns a copy of the default table: E12 across decades 0..6.
func Standard() []float64 {
	out := make([]float64, len(standard))
	copy(out, standard)
	return out
}

// Normalize validates a custom value table: every value must be a positive
// finite number. The result is sorted ascending with exact duplicates
// removed, leaving the input untouched.
func Normalize(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("value table cannot be empty")
	}
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, fmt.Errorf("values must be positive finite numbers, got %v", v)
		}
	}
	deduped := out[:1]
	for _, v := range out[1:] {
		if v != deduped[len(deduped)-1] {
			deduped = append(deduped, v)
		}
	}
	return deduped, nil
}

// decadeValue scales base tenths into decade d. Positive decades multiply in
// integer space; decade 0 and below divide once, which rounds the same way as
// parsing the decimal literal would.
func decadeValue(tenths int64, decade int) float64 {
	if decade >= 1 {
		n := tenths
		for i := 1; i < decade; i++ {
			n *= 10
		}
		return float64(n)
	}
	return float64(tenths) / math.Pow10(1-decade)
}

func mustBuild(s Series, minDecade, maxDecade int) []float64 {
	t, err := Build(s, minDecade, maxDecade)
	if err != nil {
		panic(err)
	}
	return t
}
