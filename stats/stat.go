// Package stats provides the numeric transforms applied to series values
// before and after modelling.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Quantile returns the empirical quantile q of vals without modifying the
// input. Returns NaN for an empty input.
func Quantile(q float64, vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

// Winsorize clips values above the empirical quantile q to that quantile and
// returns the clipped copy, the cap value, and the fraction of points
// clipped. The input is never mutated so callers can hand in a training
// partition without exposing it to modification.
func Winsorize(vals []float64, q float64) ([]float64, float64, float64) {
	if len(vals) == 0 {
		return nil, math.NaN(), 0
	}

	capVal := Quantile(q, vals)
	clipped := make([]float64, len(vals))
	var numClipped int
	for i, v := range vals {
		if v > capVal {
			clipped[i] = capVal
			numClipped++
			continue
		}
		clipped[i] = v
	}
	return clipped, capVal, float64(numClipped) / float64(len(vals))
}

// Log1p returns a copy of vals transformed with log(1+x), the working scale
// of the forecast engines.
func Log1p(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Log1p(v)
	}
	return out
}

// Expm1 returns a copy of vals transformed with exp(x)-1, inverting Log1p
// back to the original scale.
func Expm1(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Expm1(v)
	}
	return out
}
