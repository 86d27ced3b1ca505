// Package indicators provides the technical indicators used by the backtest
// pipeline.
package indicators

import "math"

// Indicator computes a single streaming value from daily close prices.
// It is deterministic: the same sequence of updates always produces the same
// values.
type Indicator interface {
	// Name returns a stable identifier like "SMA(20)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next daily close and updates internal state.
	Update(close float64)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value. If !Ready(), it returns 0;
	// callers should always check Ready().
	Value() float64
}

// Evaluate runs ind over values and returns output aligned with the input:
// index i holds the indicator value after consuming values[0..i], or NaN while
// the indicator is still warming up. The indicator is Reset before use.
func Evaluate(ind Indicator, values []float64) []float64 {
	ind.Reset()

	out := make([]float64, len(values))
	for i, v := range values {
		ind.Update(v)
		if ind.Ready() {
			out[i] = ind.Value()
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
