// Package timedataset stores daily univariate series used for tuning and
// final fits.
package timedataset

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoSeriesData       = errors.New("no series data")
	ErrDatasetLenMismatch = errors.New("day feature has a different length than observations")
	ErrNonMonotonic       = errors.New("day feature is not monotonic")
	ErrNegativeValue      = errors.New("series contains a negative value")
)

// TimeDataset represents a daily time series storing a slice of days and
// observed values. Both must be of the same length and values must be
// non-negative.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewDailyDataset returns an instance of a TimeDataset given a day and value
// slice. Timestamps are truncated to midnight and must be strictly
// increasing.
func NewDailyDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoSeriesData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"day feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := Day(t[i])
		if !currT.After(lastT) && i > 0 {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		if y[i] < 0 {
			return nil, fmt.Errorf("value %f at %d, %w", y[i], i, ErrNegativeValue)
		}
		tSeries[i] = currT
		ySeries[i] = y[i]
		lastT = currT
	}

	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
	return td, nil
}

// Day truncates a timestamp to its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (td *TimeDataset) Copy() *TimeDataset {
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// StartTime returns the first day of the series.
func (td *TimeDataset) StartTime() time.Time {
	if len(td.T) == 0 {
		return time.Time{}
	}
	return td.T[0]
}

// EndTime returns the last day of the series.
func (td *TimeDataset) EndTime() time.Time {
	if len(td.T) == 0 {
		return time.Time{}
	}
	return td.T[len(td.T)-1]
}

// MaxY returns the largest observed value.
func (td *TimeDataset) MaxY() float64 {
	var maxY float64
	for _, v := range td.Y {
		if v > maxY {
			maxY = v
		}
	}
	return maxY
}

// Densify produces one observation per calendar day covering the observed
// range. Days absent from the input are inserted with value 0; a missing day
// means zero activity, not an unknown. Returns ErrNoSeriesData when the range
// bounds cannot be established.
func (td *TimeDataset) Densify() (*TimeDataset, error) {
	if len(td.T) == 0 {
		return nil, ErrNoSeriesData
	}

	start := td.StartTime()
	end := td.EndTime()

	n := int(end.Sub(start).Hours()/24) + 1
	tSeries := make([]time.Time, 0, n)
	ySeries := make([]float64, 0, n)

	var j int
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		var val float64
		if j < len(td.T) && td.T[j].Equal(d) {
			val = td.Y[j]
			j++
		}
		tSeries = append(tSeries, d)
		ySeries = append(ySeries, val)
	}
	return &TimeDataset{T: tSeries, Y: ySeries}, nil
}

// Split partitions the series at the cutoff day. Train holds all days
// strictly before the cutoff and test holds days on or after it.
func (td *TimeDataset) Split(cutoff time.Time) (*TimeDataset, *TimeDataset) {
	cutoffDay := Day(cutoff)
	idx := len(td.T)
	for i, d := range td.T {
		if !d.Before(cutoffDay) {
			idx = i
			break
		}
	}
	train := &TimeDataset{T: td.T[:idx:idx], Y: td.Y[:idx:idx]}
	test := &TimeDataset{T: td.T[idx:], Y: td.Y[idx:]}
	return train.Copy(), test.Copy()
}
