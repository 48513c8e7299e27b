package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestNewDailyDataset(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		y        []float64
		expected *TimeDataset
		err      error
	}{
		"no series data": {
			err: ErrNoSeriesData,
		},
		"length mismatch": {
			y:   []float64{1},
			err: ErrDatasetLenMismatch,
		},
		"non increasing days": {
			t:   []time.Time{d(2024, 1, 2), d(2024, 1, 1)},
			y:   []float64{1, 2},
			err: ErrNonMonotonic,
		},
		"duplicate day after truncation": {
			t: []time.Time{
				time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			},
			y:   []float64{1, 2},
			err: ErrNonMonotonic,
		},
		"negative value": {
			t:   []time.Time{d(2024, 1, 1), d(2024, 1, 2)},
			y:   []float64{1, -2},
			err: ErrNegativeValue,
		},
		"valid with truncation": {
			t: []time.Time{
				time.Date(2024, 1, 1, 13, 30, 0, 0, time.UTC),
				d(2024, 1, 2),
			},
			y: []float64{1, 2},
			expected: &TimeDataset{
				T: []time.Time{d(2024, 1, 1), d(2024, 1, 2)},
				Y: []float64{1, 2},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := NewDailyDataset(td.t, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, ds)
		})
	}
}

func TestDensify(t *testing.T) {
	testData := map[string]struct {
		tdset    *TimeDataset
		expected *TimeDataset
		err      error
	}{
		"unknown range bounds": {
			tdset: &TimeDataset{},
			err:   ErrNoSeriesData,
		},
		"already dense": {
			tdset: &TimeDataset{
				T: []time.Time{d(2024, 1, 1), d(2024, 1, 2)},
				Y: []float64{1, 2},
			},
			expected: &TimeDataset{
				T: []time.Time{d(2024, 1, 1), d(2024, 1, 2)},
				Y: []float64{1, 2},
			},
		},
		"gaps fill with zero": {
			tdset: &TimeDataset{
				T: []time.Time{d(2024, 1, 1), d(2024, 1, 4)},
				Y: []float64{3, 4},
			},
			expected: &TimeDataset{
				T: []time.Time{d(2024, 1, 1), d(2024, 1, 2), d(2024, 1, 3), d(2024, 1, 4)},
				Y: []float64{3, 0, 0, 4},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			dense, err := td.tdset.Densify()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, dense)
		})
	}
}

func TestSplit(t *testing.T) {
	ds := &TimeDataset{
		T: []time.Time{d(2024, 1, 1), d(2024, 1, 2), d(2024, 1, 3), d(2024, 1, 4)},
		Y: []float64{1, 2, 3, 4},
	}

	testData := map[string]struct {
		cutoff   time.Time
		trainLen int
		testLen  int
	}{
		"cutoff is on a data day": {cutoff: d(2024, 1, 3), trainLen: 2, testLen: 2},
		"cutoff before range":     {cutoff: d(2023, 12, 1), trainLen: 0, testLen: 4},
		"cutoff after range":      {cutoff: d(2024, 2, 1), trainLen: 4, testLen: 0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			train, test := ds.Split(td.cutoff)
			assert.Len(t, train.T, td.trainLen)
			assert.Len(t, test.T, td.testLen)
			for _, day := range train.T {
				assert.True(t, day.Before(Day(td.cutoff)))
			}
			for _, day := range test.T {
				assert.False(t, day.Before(Day(td.cutoff)))
			}
		})
	}
}

func TestSplitDoesNotAliasSource(t *testing.T) {
	ds := &TimeDataset{
		T: []time.Time{d(2024, 1, 1), d(2024, 1, 2)},
		Y: []float64{1, 2},
	}
	train, _ := ds.Split(d(2024, 1, 2))
	train.Y[0] = 99
	assert.Equal(t, 1.0, ds.Y[0])
}

func TestMaxY(t *testing.T) {
	ds := &TimeDataset{
		T: []time.Time{d(2024, 1, 1), d(2024, 1, 2), d(2024, 1, 3)},
		Y: []float64{1, 7, 2},
	}
	assert.Equal(t, 7.0, ds.MaxY())
}
