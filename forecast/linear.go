package forecast

import (
	"fmt"
	"time"

	forecaster "github.com/aouyang1/go-forecaster"
	forecastopt "github.com/aouyang1/go-forecaster/forecast/options"
	"github.com/goccy/go-json"
	"github.com/salestune/salestune/event"
)

const autoNumChangepoints = 25

// LinearEngine adapts the go-forecaster linear model to the Engine port. The
// underlying model is additive in its working scale; since the tuner always
// feeds log1p values, an additive fit here is multiplicative in the original
// scale. Logistic growth bounds are validated at fit and enforced by
// clamping at predict.
type LinearEngine struct {
	f      *forecaster.Forecaster
	growth GrowthPolicy
}

func NewLinearEngine() *LinearEngine {
	return &LinearEngine{}
}

// Fit maps the spec onto forecaster options and trains the underlying model
// on the working-scale series.
func (e *LinearEngine) Fit(t []time.Time, y []float64, spec *Spec) error {
	if spec == nil {
		spec = &Spec{Growth: LinearGrowth()}
	}
	if err := spec.Growth.validate(y); err != nil {
		return err
	}

	opt := forecaster.NewDefaultOptions()
	opt.SeriesOptions.ForecastOptions = &forecastopt.Options{
		Regularization: regularizationCandidates(spec),
		ChangepointOptions: forecastopt.ChangepointOptions{
			Auto:                true,
			AutoNumChangepoints: autoNumChangepoints,
			EnableGrowth:        spec.Growth.Type == GrowthLinear,
		},
		SeasonalityOptions: seasonalityOptions(spec.Seasonalities),
		EventOptions:       eventOptions(spec.Events),
	}

	f, err := forecaster.New(opt)
	if err != nil {
		return fmt.Errorf("unable to initialize forecaster, %w", err)
	}
	if err := f.Fit(t, y); err != nil {
		return fmt.Errorf("unable to fit series, %w", err)
	}

	e.f = f
	e.growth = spec.Growth
	return nil
}

// Predict forecasts the requested days in the working scale, clamping to the
// logistic floor/cap when that policy was fit.
func (e *LinearEngine) Predict(t []time.Time) (*Prediction, error) {
	if e.f == nil {
		return nil, ErrUntrainedEngine
	}
	res, err := e.f.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict series, %w", err)
	}

	p := &Prediction{
		T:     res.T,
		Point: res.Forecast,
		Lower: res.Lower,
		Upper: res.Upper,
	}
	if e.growth.Type == GrowthLogistic {
		p.clamp(e.growth.Floor, e.growth.Cap)
	}
	return p, nil
}

// Model returns the serializable fitted model state.
func (e *LinearEngine) Model() (json.RawMessage, error) {
	if e.f == nil {
		return nil, ErrUntrainedEngine
	}
	m, err := e.f.Model()
	if err != nil {
		return nil, fmt.Errorf("unable to fetch model, %w", err)
	}
	return json.Marshal(m)
}

// regularizationCandidates maps the prior scales to lasso regularization
// candidates. A small prior permits little flexibility, which corresponds to
// a large penalty, so lambda = 1/prior. The underlying model auto-selects
// among the candidates.
func regularizationCandidates(spec *Spec) []float64 {
	lambdas := make([]float64, 0, 2)
	for _, prior := range []float64{spec.ChangepointPriorScale, spec.SeasonalityPriorScale} {
		if prior <= 0 {
			continue
		}
		lambda := 1.0 / prior
		if len(lambdas) > 0 && lambdas[len(lambdas)-1] == lambda {
			continue
		}
		lambdas = append(lambdas, lambda)
	}
	if len(lambdas) == 0 {
		lambdas = []float64{0.0}
	}
	return lambdas
}

func seasonalityOptions(seasonalities []Seasonality) forecastopt.SeasonalityOptions {
	opt := forecastopt.SeasonalityOptions{
		SeasonalityConfigs: make([]forecastopt.SeasonalityConfig, 0, len(seasonalities)),
	}
	for _, seas := range seasonalities {
		opt.SeasonalityConfigs = append(
			opt.SeasonalityConfigs,
			forecastopt.NewSeasonalityConfig(seas.Name, seas.Period, seas.Orders),
		)
	}
	return opt
}

func eventOptions(events []event.Event) forecastopt.EventOptions {
	opt := forecastopt.EventOptions{
		Events: make([]forecastopt.Event, 0, len(events)),
	}
	for _, ev := range events {
		if err := ev.Valid(); err != nil {
			continue
		}
		start, end := ev.Window()
		opt.Events = append(opt.Events, forecastopt.NewEvent(ev.Name, start, end))
	}
	return opt
}
