package metrics

import (
	"errors"
	"time"

	"github.com/salestune/salestune/timedataset"
)

var ErrNoBaselineWindow = errors.New("no test day has lookback history for the baseline")

// DefaultBaselineLag is the seasonal-naive lookback in days.
const DefaultBaselineLag = 7

// SeasonalNaive scores the fixed-lag naive reference over the test partition:
// the forecast for day t is the observed original-scale value at t-lag.
// observed must be the dense full series; cutoff separates train from test.
// Test days whose lookback falls before the series start are excluded, not
// imputed.
func SeasonalNaive(observed *timedataset.TimeDataset, cutoff time.Time, lag int) (*Scores, error) {
	if lag <= 0 {
		lag = DefaultBaselineLag
	}

	byDay := make(map[time.Time]float64, len(observed.T))
	for i, d := range observed.T {
		byDay[d] = observed.Y[i]
	}

	cutoffDay := timedataset.Day(cutoff)
	var t []time.Time
	var predicted, actual []float64
	for i, d := range observed.T {
		if d.Before(cutoffDay) {
			continue
		}
		lookback, exists := byDay[d.AddDate(0, 0, -lag)]
		if !exists {
			continue
		}
		t = append(t, d)
		predicted = append(predicted, lookback)
		actual = append(actual, observed.Y[i])
	}
	if len(t) == 0 {
		return nil, ErrNoBaselineWindow
	}
	return NewScores(t, predicted, actual)
}
