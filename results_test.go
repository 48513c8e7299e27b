package salestune

import (
	"bytes"
	"math"
	"testing"

	"github.com/salestune/salestune/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(idx int, wapeWeekly, wapeDaily float64, optional int) EvaluationResult {
	cfg := validConfig()
	if optional > 0 {
		cfg.YearlySeasonality = true
	}
	if optional > 1 {
		cfg.UseMonthlySeasonality = true
	}
	return EvaluationResult{
		Index:  idx,
		Config: cfg,
		Scores: &metrics.Scores{WAPEWeekly: wapeWeekly, WAPEDaily: wapeDaily},
	}
}

func TestSelectBest(t *testing.T) {
	testData := map[string]struct {
		results  []EvaluationResult
		expected int
		err      error
	}{
		"lowest weekly wape wins": {
			results: []EvaluationResult{
				scored(0, 0.30, 0.10, 0),
				scored(1, 0.20, 0.50, 0),
				scored(2, 0.25, 0.05, 0),
			},
			expected: 1,
		},
		"weekly tie falls to daily": {
			results: []EvaluationResult{
				scored(0, 0.20, 0.40, 0),
				scored(1, 0.20, 0.30, 0),
			},
			expected: 1,
		},
		"daily tie falls to fewer optional seasonalities": {
			results: []EvaluationResult{
				scored(0, 0.20, 0.30, 2),
				scored(1, 0.20, 0.30, 0),
			},
			expected: 1,
		},
		"full tie falls to enumeration order": {
			results: []EvaluationResult{
				scored(0, 0.20, 0.30, 1),
				scored(1, 0.20, 0.30, 1),
			},
			expected: 0,
		},
		"nan weekly wape is not viable": {
			results: []EvaluationResult{
				scored(0, math.NaN(), 0.01, 0),
				scored(1, 0.90, 0.90, 0),
			},
			expected: 1,
		},
		"skipped results do not participate": {
			results: []EvaluationResult{
				scored(0, 0.10, 0.10, 0).skip("degenerate"),
				scored(1, 0.90, 0.90, 0),
			},
			expected: 1,
		},
		"all skipped": {
			results: []EvaluationResult{
				scored(0, 0.10, 0.10, 0).skip("degenerate"),
			},
			err: ErrNoViableConfig,
		},
		"all undefined": {
			results: []EvaluationResult{
				scored(0, math.NaN(), 0.10, 0),
			},
			err: ErrNoViableConfig,
		},
		"empty": {
			err: ErrNoViableConfig,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			best, err := selectBest(td.results)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, best.Index)
		})
	}
}

func TestTablePrint(t *testing.T) {
	best := scored(3, 0.12, 0.34, 1)
	report := &SeriesReport{
		Key:      SeriesKey{Category: "books", Target: TargetQty},
		Best:     &best,
		Baseline: &metrics.Scores{WAPEWeekly: 0.40, WAPEDaily: 0.50},
		Results:  make([]EvaluationResult, 10),
		Skipped:  2,
	}

	var buf bytes.Buffer
	require.Nil(t, report.TablePrint(&buf))

	out := buf.String()
	assert.Contains(t, out, "books/qty")
	assert.Contains(t, out, "0.1200")
	assert.Contains(t, out, "Baseline WAPE weekly: 0.4000")
	assert.Contains(t, out, "Skipped: 2")
}

func TestTablePrintFailed(t *testing.T) {
	report := &SeriesReport{
		Key: SeriesKey{Category: "books", Target: TargetQty},
		Err: ErrNoViableConfig,
	}

	var buf bytes.Buffer
	require.Nil(t, report.TablePrint(&buf))
	assert.Contains(t, buf.String(), "Failed: "+ErrNoViableConfig.Error())
}
