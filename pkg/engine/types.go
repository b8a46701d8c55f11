package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxComponents bounds the number of resistors combined in one network.
const MaxComponents = 4

// Mode selects how the resistors of a combination are wired.
type Mode string

const (
	// ModeSeries wires resistors end to end; their values add.
	ModeSeries Mode = "series"
	// ModeParallel wires resistors side by side; their conductances add.
	ModeParallel Mode = "parallel"
)

// ParseMode maps a string onto a known Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSeries:
		return ModeSeries, nil
	case ModeParallel:
		return ModeParallel, nil
	default:
		return "", fmt.Errorf("unsupported mode: %q", s)
	}
}

// Combination is a multiset of resistor values held in non-decreasing order.
// The ordering is the canonical form: two combinations with equal content
// describe the same network regardless of assembly order.
type Combination []float64

// Key returns a canonical identity for the combination, suitable for
// duplicate detection across independently produced candidates.
func (c Combination) Key() string {
	var b strings.Builder
	for i, v := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

// Request describes one combination search.
type Request struct {
	// Target is the desired equivalent resistance in ohms. Must be a
	// positive finite number.
	Target float64
	// Tolerance is the maximum relative error accepted, as a fraction:
	// 0.05 accepts results within 5% of the target. The bound is
	// inclusive.
	Tolerance float64
	// Mode selects the wiring of candidate networks.
	Mode Mode
	// Components pins the exact network size. Zero searches every size
	// from 1 through MaxComponents.
	Components int
}

// Validate checks the request against the searchable domain.
func (r Request) Validate() error {
	if _, err := topologyFor(r.Mode); err != nil {
		return err
	}
	if math.IsNaN(r.Target) || math.IsInf(r.Target, 0) || r.Target <= 0 {
		return fmt.Errorf("target must be a positive finite number, got %v", r.Target)
	}
	if r.Tolerance < 0 {
		return fmt.Errorf("tolerance must be >= 0, got %v", r.Tolerance)
	}
	if r.Components < 0 || r.Components > MaxComponents {
		return fmt.Errorf("components must be between 0 and %d, got %d", MaxComponents, r.Components)
	}
	return nil
}

// sizes expands the component constraint into the network sizes to
// enumerate, ascending.
func (r Request) sizes() []int {
	if r.Components > 0 {
		return []int{r.Components}
	}
	out := make([]int, MaxComponents)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Result is one combination that satisfied a search, with its evaluation.
type Result struct {
	// Combination holds the contributing values in non-decreasing order.
	Combination Combination
	// Equivalent is the combined resistance of the network in ohms.
	Equivalent float64
	// PercentError is the relative deviation from the target, in percent.
	PercentError float64
}

// relativeError measures the deviation of value from target, relative to
// target. The same expression drives both the tolerance filter and the
// reported percent error, so accepted results never report an error past
// the tolerance.
func relativeError(value, target float64) float64 {
	return math.Abs(value-target) / target
}
