package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/sartorproj/goarima/sarima"
	"github.com/sartorproj/goarima/timeseries"
)

var ErrNonContiguousHorizon = errors.New("prediction range must immediately follow the training range")

const (
	weeklySeasonalPeriod = 7
	arimaConfidence      = 0.80
)

// ArimaEngine fits a weekly SARIMA model as an alternative backend behind the
// same port. Event regressors and non-weekly seasonal components in the spec
// are not modelled; logistic growth bounds are enforced by clamping. The
// engine forecasts by continuation, so it refuses prediction ranges that do
// not immediately follow the training days.
type ArimaEngine struct {
	m       *sarima.Model
	growth  GrowthPolicy
	lastDay time.Time
}

func NewArimaEngine() *ArimaEngine {
	return &ArimaEngine{}
}

func (e *ArimaEngine) Fit(t []time.Time, y []float64, spec *Spec) error {
	if spec == nil {
		spec = &Spec{Growth: LinearGrowth()}
	}
	if err := spec.Growth.validate(y); err != nil {
		return err
	}

	series, err := timeseries.NewWithTimestamps(t, y)
	if err != nil {
		return fmt.Errorf("unable to build series, %w", err)
	}

	m := sarima.New(1, 1, 1, 1, 1, 1, weeklySeasonalPeriod)
	if err := m.Fit(series); err != nil {
		// a sarima fit failure means this combination cannot be modelled,
		// not that the series is bad
		return fmt.Errorf("unable to fit sarima model: %s, %w", err.Error(), ErrConfigInfeasible)
	}

	e.m = m
	e.growth = spec.Growth
	e.lastDay = t[len(t)-1]
	return nil
}

func (e *ArimaEngine) Predict(t []time.Time) (*Prediction, error) {
	if e.m == nil {
		return nil, ErrUntrainedEngine
	}
	if err := e.contiguous(t); err != nil {
		return nil, err
	}

	point, lower, upper, err := e.m.PredictWithInterval(len(t), arimaConfidence)
	if err != nil {
		return nil, fmt.Errorf("unable to predict with sarima model, %w", err)
	}

	p := &Prediction{T: t, Point: point, Lower: lower, Upper: upper}
	if e.growth.Type == GrowthLogistic {
		p.clamp(e.growth.Floor, e.growth.Cap)
	}
	return p, nil
}

func (e *ArimaEngine) Model() (json.RawMessage, error) {
	if e.m == nil {
		return nil, ErrUntrainedEngine
	}
	return json.Marshal(e.m)
}

func (e *ArimaEngine) contiguous(t []time.Time) error {
	expected := e.lastDay.AddDate(0, 0, 1)
	for i, d := range t {
		if !d.Equal(expected) {
			return fmt.Errorf("day %s at %d, expected %s, %w",
				d.Format(time.DateOnly), i, expected.Format(time.DateOnly), ErrNonContiguousHorizon)
		}
		expected = expected.AddDate(0, 0, 1)
	}
	return nil
}
