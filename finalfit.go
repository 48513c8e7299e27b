package salestune

import (
	"fmt"
	"time"

	"github.com/salestune/salestune/event"
	"github.com/salestune/salestune/forecast"
	"github.com/salestune/salestune/stats"
	"github.com/salestune/salestune/timedataset"
)

// FinalFit refits the selected config on the full history and generates the
// horizon forecast in the original scale. This is the only path that fits
// past the holdout cutoff; tuning never sees full-history statistics.
func (t *Tuner) FinalFit(key SeriesKey, series *timedataset.TimeDataset, holidays []event.Holiday, cfg Config, horizonDays int) (*Artifact, *forecast.Prediction, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("series %s, %w", key, err)
	}

	dense, err := series.Densify()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to densify series %s, %w", key, err)
	}

	events := event.FromHolidays(holidays, t.opt.HolidayLowerWindow, t.opt.HolidayUpperWindow)
	if cfg.UseSemesterSeasonality {
		events = append(events, event.SemesterEvents(dense, cfg.SemesterWindowDays)...)
	}

	y := dense.Y
	var capVal, fracClipped float64
	if cfg.WinsorQuantile > 0 {
		y, capVal, fracClipped = stats.Winsorize(dense.Y, cfg.WinsorQuantile)
	}
	var histMax float64
	for _, v := range y {
		if v > histMax {
			histMax = v
		}
	}

	growth := GrowthPolicyFor(cfg.SeasonalityMode, histMax, t.opt.CapMultiple)
	spec := &forecast.Spec{
		Events:                events,
		Seasonalities:         cfg.Seasonalities(),
		ChangepointPriorScale: cfg.ChangepointPriorScale,
		SeasonalityPriorScale: cfg.SeasonalityPriorScale,
		Growth:                growth,
	}

	eng := t.opt.Engine()
	if err := eng.Fit(dense.T, stats.Log1p(y), spec); err != nil {
		return nil, nil, fmt.Errorf("unable to refit series %s, %w", key, err)
	}

	horizon := make([]time.Time, 0, horizonDays)
	next := dense.EndTime()
	for i := 0; i < horizonDays; i++ {
		next = next.AddDate(0, 0, 1)
		horizon = append(horizon, next)
	}

	pred, err := eng.Predict(horizon)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to forecast horizon for series %s, %w", key, err)
	}

	// every point estimate and interval bound leaves the log working scale
	pred.Point = stats.Expm1(pred.Point)
	pred.Lower = stats.Expm1(pred.Lower)
	pred.Upper = stats.Expm1(pred.Upper)
	clampNonNegative(pred.Point)
	clampNonNegative(pred.Lower)
	clampNonNegative(pred.Upper)

	state, err := eng.Model()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to fetch model state for series %s, %w", key, err)
	}

	art := &Artifact{
		Key:          key,
		Config:       cfg,
		Growth:       growth,
		WinsorCap:    capVal,
		FracClipped:  fracClipped,
		TrainEndTime: dense.EndTime(),
		ModelState:   state,
	}
	return art, pred, nil
}
