package salestune

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/salestune/salestune/metrics"
)

// EvaluationResult is the immutable outcome of evaluating one Config for one
// series. Skipped combinations carry the reason and no scores. WinsorCap is 0
// when winsorization was disabled.
type EvaluationResult struct {
	Index       int
	Config      Config
	Scores      *metrics.Scores
	WinsorCap   float64
	FracClipped float64
	Skipped     bool
	SkipReason  string
}

// viable reports whether the result can participate in selection.
func (r *EvaluationResult) viable() bool {
	return !r.Skipped && r.Scores != nil && !math.IsNaN(r.Scores.WAPEWeekly)
}

// less orders viable results by the selection policy: minimum weekly WAPE,
// then daily WAPE, then fewer enabled optional seasonalities, then
// enumeration order.
func less(a, b *EvaluationResult) bool {
	if a.Scores.WAPEWeekly != b.Scores.WAPEWeekly {
		return a.Scores.WAPEWeekly < b.Scores.WAPEWeekly
	}
	if a.Scores.WAPEDaily != b.Scores.WAPEDaily {
		return a.Scores.WAPEDaily < b.Scores.WAPEDaily
	}
	if a.Config.OptionalSeasonalities() != b.Config.OptionalSeasonalities() {
		return a.Config.OptionalSeasonalities() < b.Config.OptionalSeasonalities()
	}
	return a.Index < b.Index
}

// selectBest scans the completed results for a series and picks the winner.
// A pure reduction over immutable results; returns ErrNoViableConfig when
// every combination was skipped or produced an undefined score.
func selectBest(results []EvaluationResult) (*EvaluationResult, error) {
	var best *EvaluationResult
	for i := range results {
		r := &results[i]
		if !r.viable() {
			continue
		}
		if best == nil || less(r, best) {
			best = r
		}
	}
	if best == nil {
		return nil, ErrNoViableConfig
	}
	return best, nil
}

// SeriesReport summarizes one series' grid search: the winning result, the
// seasonal-naive baseline for comparison, all evaluation results, and an
// explicit failure marker when the series produced no viable config.
type SeriesReport struct {
	Key      SeriesKey
	Best     *EvaluationResult
	Baseline *metrics.Scores
	Results  []EvaluationResult
	Skipped  int
	Err      error
}

// TablePrint writes a human readable selection report.
func (r *SeriesReport) TablePrint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Series: %s\n", r.Key); err != nil {
		return err
	}
	if r.Err != nil {
		_, err := fmt.Fprintf(w, "  Failed: %s\n", r.Err.Error())
		return err
	}
	if _, err := fmt.Fprintf(w, "  Evaluated: %d  Skipped: %d\n", len(r.Results), r.Skipped); err != nil {
		return err
	}

	if r.Best != nil {
		cfg := r.Best.Config
		tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
		fmt.Fprint(tbl, "  \tMode\tCPS\tSPS\tYearly\tWinsorQ\tMonthly\tSemester\tWindow\t\n")
		fmt.Fprintf(tbl, "  \t%s\t%.3f\t%.3f\t%t\t%.3f\t%t\t%t\t%d\t\n",
			cfg.SeasonalityMode, cfg.ChangepointPriorScale, cfg.SeasonalityPriorScale,
			cfg.YearlySeasonality, cfg.WinsorQuantile,
			cfg.UseMonthlySeasonality, cfg.UseSemesterSeasonality, cfg.SemesterWindowDays)
		if err := tbl.Flush(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  WAPE weekly: %.4f  WAPE daily: %.4f  MAE weekly: %.3f  MAE daily: %.3f\n",
			r.Best.Scores.WAPEWeekly, r.Best.Scores.WAPEDaily,
			r.Best.Scores.MAEWeekly, r.Best.Scores.MAEDaily); err != nil {
			return err
		}
	}
	if r.Baseline != nil {
		if _, err := fmt.Fprintf(w, "  Baseline WAPE weekly: %.4f  WAPE daily: %.4f\n",
			r.Baseline.WAPEWeekly, r.Baseline.WAPEDaily); err != nil {
			return err
		}
	}
	return nil
}
