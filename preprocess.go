package salestune

import (
	"github.com/salestune/salestune/stats"
	"github.com/salestune/salestune/timedataset"
)

// trainTestSet is the per-config view of one split series. The winsor cap is
// computed from the train partition only; the constructor never receives test
// values for any train-derived statistic, which keeps leakage structurally
// impossible. The test partition stays in the original scale for metric
// computation.
type trainTestSet struct {
	train *timedataset.TimeDataset // working (log) scale, winsorized
	test  *timedataset.TimeDataset // original scale, untouched

	trainMax    float64 // original scale, after clipping
	winsorCap   float64 // 0 when winsorization is disabled
	fracClipped float64
}

// newTrainTestSet applies the preprocessing order: winsorize the train values
// at winsorQuantile (0 disables), then move them to the log working scale.
// A disabled winsorization reports a zero cap so results stay comparable and
// serializable.
func newTrainTestSet(train, test *timedataset.TimeDataset, winsorQuantile float64) *trainTestSet {
	y := train.Y
	var capVal, fracClipped float64
	if winsorQuantile > 0 {
		y, capVal, fracClipped = stats.Winsorize(train.Y, winsorQuantile)
	}

	var trainMax float64
	for _, v := range y {
		if v > trainMax {
			trainMax = v
		}
	}

	return &trainTestSet{
		train:       &timedataset.TimeDataset{T: train.T, Y: stats.Log1p(y)},
		test:        test,
		trainMax:    trainMax,
		winsorCap:   capVal,
		fracClipped: fracClipped,
	}
}

// clampNonNegative floors vals at zero in place. Forecast output in the
// original scale never reports negative activity.
func clampNonNegative(vals []float64) {
	for i, v := range vals {
		if v < 0 {
			vals[i] = 0
		}
	}
}
