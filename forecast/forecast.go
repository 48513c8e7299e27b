// Package forecast defines the port to the external forecasting capability
// consumed by the tuner, plus adapters over concrete engines. Engines fit and
// predict in the caller's working scale; the tuner hands them log-domain
// values and inverse-transforms the output itself.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/salestune/salestune/event"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrConfigInfeasible marks a numerically degenerate configuration. The
	// combination is skipped by the grid search, not fatal.
	ErrConfigInfeasible = errors.New("config cannot be fit")
	ErrUntrainedEngine  = errors.New("engine has not been fit")
	ErrNoTrainingData   = errors.New("no training data")
)

// Growth policy variants.
const (
	GrowthLinear   = "linear"
	GrowthLogistic = "logistic"
)

// GrowthPolicy is the trend-extrapolation bound applied to long-horizon
// forecasts: unbounded linear or floor/cap-bounded logistic. Floor and Cap
// are in the engine's working scale.
type GrowthPolicy struct {
	Type  string  `json:"type"`
	Floor float64 `json:"floor,omitempty"`
	Cap   float64 `json:"cap,omitempty"`
}

func LinearGrowth() GrowthPolicy {
	return GrowthPolicy{Type: GrowthLinear}
}

func LogisticGrowth(floor, cap float64) GrowthPolicy {
	return GrowthPolicy{Type: GrowthLogistic, Floor: floor, Cap: cap}
}

// validate checks the policy against the observed training values in the
// working scale. Logistic growth with a floor above the observed minimum or a
// cap at or below the observed maximum cannot be fit.
func (g GrowthPolicy) validate(y []float64) error {
	if len(y) == 0 {
		return ErrNoTrainingData
	}
	if g.Type != GrowthLogistic {
		return nil
	}
	minY := floats.Min(y)
	maxY := floats.Max(y)
	if g.Floor > minY || g.Cap <= maxY || g.Cap <= g.Floor {
		return fmt.Errorf(
			"logistic growth floor %.4f cap %.4f outside observed range [%.4f, %.4f], %w",
			g.Floor, g.Cap, minY, maxY, ErrConfigInfeasible,
		)
	}
	return nil
}

// Seasonality is a single Fourier component configuration.
type Seasonality struct {
	Name   string        `json:"name"`
	Period time.Duration `json:"period"`
	Orders int           `json:"orders"`
}

// Spec is the configuration an Engine consumes at fit time: event regressors,
// seasonal components, smoothing prior scales, and the growth policy.
type Spec struct {
	Events                []event.Event
	Seasonalities         []Seasonality
	ChangepointPriorScale float64
	SeasonalityPriorScale float64
	Growth                GrowthPolicy
}

// Prediction holds per-day point estimates and interval bounds in the
// engine's working scale.
type Prediction struct {
	T     []time.Time `json:"time"`
	Point []float64   `json:"point"`
	Lower []float64   `json:"lower"`
	Upper []float64   `json:"upper"`
}

func (p *Prediction) clamp(floor, cap float64) {
	for _, vals := range [][]float64{p.Point, p.Lower, p.Upper} {
		for i, v := range vals {
			if v < floor {
				vals[i] = floor
			}
			if v > cap {
				vals[i] = cap
			}
		}
	}
}

// Engine is the forecasting capability consumed by the tuner. Fit fails with
// ErrConfigInfeasible when the spec is numerically degenerate. Model returns
// the serializable fitted state for artifact persistence.
type Engine interface {
	Fit(t []time.Time, y []float64, spec *Spec) error
	Predict(t []time.Time) (*Prediction, error)
	Model() (json.RawMessage, error)
}

// Factory builds a fresh engine for one evaluation task so tasks never share
// mutable state.
type Factory func() Engine
