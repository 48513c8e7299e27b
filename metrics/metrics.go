// Package metrics computes holdout evaluation scores in the original scale
// at daily and weekly granularity.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/salestune/salestune/timedataset"
)

var ErrResLenMismatch = errors.New("predicted and actual have different lengths")

// Scores tracks the evaluation scores of a forecast against actuals. Weekly
// scores aggregate both series into week-ending-Sunday buckets by summation
// before applying the same formulas. A NaN WAPE means the actual-sum
// denominator was zero and the score is undefined.
type Scores struct {
	WAPEDaily  float64 `json:"wape_daily"`
	WAPEWeekly float64 `json:"wape_weekly"`
	MAEDaily   float64 `json:"mae_daily"`
	MAEWeekly  float64 `json:"mae_weekly"`
}

// NewScores calculates the daily and weekly scores given per-day predicted
// and actual values in the original scale.
func NewScores(t []time.Time, predicted, actual []float64) (*Scores, error) {
	wapeDaily, err := WAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute daily wape, %w", err)
	}
	maeDaily, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute daily mae, %w", err)
	}

	_, weeklyPredicted, err := WeeklySums(t, predicted)
	if err != nil {
		return nil, fmt.Errorf("unable to bucket predicted by week, %w", err)
	}
	_, weeklyActual, err := WeeklySums(t, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to bucket actual by week, %w", err)
	}

	wapeWeekly, err := WAPE(weeklyPredicted, weeklyActual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute weekly wape, %w", err)
	}
	maeWeekly, err := MAE(weeklyPredicted, weeklyActual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute weekly mae, %w", err)
	}

	return &Scores{
		WAPEDaily:  wapeDaily,
		WAPEWeekly: wapeWeekly,
		MAEDaily:   maeDaily,
		MAEWeekly:  maeWeekly,
	}, nil
}

// WAPE computes the weighted absolute percent error,
// sum(|actual-predicted|) / sum(|actual|). Returns NaN when the denominator
// is zero; NaN pairs are excluded.
func WAPE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	var absErr, absActual float64
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		absErr += math.Abs(actual[i] - predicted[i])
		absActual += math.Abs(actual[i])
	}
	if absActual == 0 {
		return math.NaN(), nil
	}
	return absErr / absActual, nil
}

// MAE computes the mean absolute error over the window. NaN pairs are
// excluded.
func MAE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	var absErr float64
	var n int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		absErr += math.Abs(actual[i] - predicted[i])
		n++
	}
	if n == 0 {
		return math.NaN(), nil
	}
	return absErr / float64(n), nil
}

// WeekEnd returns the week-ending Sunday bucket that d belongs to.
func WeekEnd(d time.Time) time.Time {
	day := timedataset.Day(d)
	offset := (7 - int(day.Weekday())) % 7
	return day.AddDate(0, 0, offset)
}

// WeeklySums aggregates vals into week-ending Sunday buckets by summation.
// The input days must be in increasing order. Re-bucketing the returned sums
// with the same boundary convention is a no-op.
func WeeklySums(t []time.Time, vals []float64) ([]time.Time, []float64, error) {
	if len(t) != len(vals) {
		return nil, nil, fmt.Errorf("expected %d, but got %d, %w", len(t), len(vals), ErrResLenMismatch)
	}

	var weeks []time.Time
	var sums []float64
	for i, tPnt := range t {
		week := WeekEnd(tPnt)
		if len(weeks) == 0 || !weeks[len(weeks)-1].Equal(week) {
			weeks = append(weeks, week)
			sums = append(sums, 0)
		}
		sums[len(sums)-1] += vals[i]
	}
	return weeks, sums, nil
}
