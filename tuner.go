package salestune

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/salestune/salestune/event"
	"github.com/salestune/salestune/forecast"
	"github.com/salestune/salestune/metrics"
	"github.com/salestune/salestune/stats"
	"github.com/salestune/salestune/timedataset"
)

var (
	// ErrNoViableConfig is fatal for a series: every combination was skipped
	// or produced an undefined score. Other series continue.
	ErrNoViableConfig = errors.New("no config produced a defined score")
	ErrEmptySplit     = errors.New("train or test partition is empty")
)

const (
	DefaultCapMultiple = 1.5

	// Default holiday influence spans the day before through the day after.
	// Event windows are half-open, so the upper bound is exclusive.
	DefaultHolidayLowerWindow = -1
	DefaultHolidayUpperWindow = 2
)

// Options configures a Tuner. Missing fields fall back to defaults.
type Options struct {
	Grid        *Grid
	Engine      forecast.Factory
	Parallelism int
	BaselineLag int

	// CapMultiple scales the historical maximum into the logistic growth cap.
	CapMultiple float64

	HolidayLowerWindow int
	HolidayUpperWindow int
}

// NewDefaultOptions returns tuner options with the default grid, the linear
// engine, and parallelism bounded by available hardware concurrency.
func NewDefaultOptions() *Options {
	return &Options{
		Grid:               NewDefaultGrid(),
		Engine:             func() forecast.Engine { return forecast.NewLinearEngine() },
		Parallelism:        runtime.NumCPU(),
		BaselineLag:        metrics.DefaultBaselineLag,
		CapMultiple:        DefaultCapMultiple,
		HolidayLowerWindow: DefaultHolidayLowerWindow,
		HolidayUpperWindow: DefaultHolidayUpperWindow,
	}
}

// Tuner runs the holdout grid search and the final full-history fit for
// independent series.
type Tuner struct {
	opt *Options
}

// New creates a Tuner from the provided options. If none are provided a
// default is used.
func New(opt *Options) *Tuner {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	def := NewDefaultOptions()
	if opt.Grid == nil {
		opt.Grid = def.Grid
	}
	if opt.Engine == nil {
		opt.Engine = def.Engine
	}
	if opt.Parallelism < 1 {
		opt.Parallelism = def.Parallelism
	}
	if opt.BaselineLag <= 0 {
		opt.BaselineLag = def.BaselineLag
	}
	if opt.CapMultiple <= 0 {
		opt.CapMultiple = def.CapMultiple
	}
	return &Tuner{opt: opt}
}

// Tune evaluates every grid combination for one series against the holdout
// split at cutoff and selects the best result. Each combination is one task;
// tasks read shared immutable inputs and write only their own result slot.
// The reduction waits on all tasks before scanning.
func (t *Tuner) Tune(key SeriesKey, series *timedataset.TimeDataset, holidays []event.Holiday, cutoff time.Time) (*SeriesReport, error) {
	report := &SeriesReport{Key: key}

	dense, err := series.Densify()
	if err != nil {
		report.Err = err
		return report, fmt.Errorf("unable to densify series %s, %w", key, err)
	}
	train, test := dense.Split(cutoff)
	if len(train.T) == 0 || len(test.T) == 0 {
		report.Err = ErrEmptySplit
		return report, fmt.Errorf("cutoff %s for series %s, %w", cutoff.Format(time.DateOnly), key, ErrEmptySplit)
	}

	holidayEvents := event.FromHolidays(holidays, t.opt.HolidayLowerWindow, t.opt.HolidayUpperWindow)

	combos := t.opt.Grid.Enumerate()
	results := make([]EvaluationResult, len(combos))

	sem := make(chan struct{}, t.opt.Parallelism)
	var wg sync.WaitGroup
	for i, cfg := range combos {
		sem <- struct{}{}
		wg.Add(1)

		go func(i int, cfg Config) {
			defer func() {
				wg.Done()
				<-sem
			}()
			results[i] = t.evaluate(i, cfg, train, test, holidayEvents)
		}(i, cfg)
	}
	wg.Wait()

	report.Results = results
	for i := range results {
		if results[i].Skipped {
			report.Skipped++
		}
	}

	baseline, err := metrics.SeasonalNaive(dense, cutoff, t.opt.BaselineLag)
	if err != nil {
		slog.Warn("unable to score baseline", "series", key.String(), "error", err.Error())
	}
	report.Baseline = baseline

	best, err := selectBest(results)
	if err != nil {
		report.Err = err
		return report, fmt.Errorf("series %s, %w", key, err)
	}
	report.Best = best
	return report, nil
}

func (t *Tuner) evaluate(idx int, cfg Config, train, test *timedataset.TimeDataset, holidayEvents []event.Event) EvaluationResult {
	res := EvaluationResult{Index: idx, Config: cfg}
	if err := cfg.Validate(); err != nil {
		return res.skip(err.Error())
	}

	events := holidayEvents
	if cfg.UseSemesterSeasonality {
		events = append(slices.Clone(holidayEvents), event.SemesterEvents(train, cfg.SemesterWindowDays)...)
	}

	prep := newTrainTestSet(train, test, cfg.WinsorQuantile)
	res.WinsorCap = prep.winsorCap
	res.FracClipped = prep.fracClipped

	spec := &forecast.Spec{
		Events:                events,
		Seasonalities:         cfg.Seasonalities(),
		ChangepointPriorScale: cfg.ChangepointPriorScale,
		SeasonalityPriorScale: cfg.SeasonalityPriorScale,
		Growth:                GrowthPolicyFor(cfg.SeasonalityMode, prep.trainMax, t.opt.CapMultiple),
	}

	eng := t.opt.Engine()
	if err := eng.Fit(prep.train.T, prep.train.Y, spec); err != nil {
		if !errors.Is(err, forecast.ErrConfigInfeasible) {
			slog.Warn("unable to fit combination", "index", idx, "error", err.Error())
		}
		return res.skip(err.Error())
	}

	pred, err := eng.Predict(prep.test.T)
	if err != nil {
		slog.Warn("unable to predict combination", "index", idx, "error", err.Error())
		return res.skip(err.Error())
	}

	// metrics compare in the original scale
	yhat := stats.Expm1(pred.Point)
	clampNonNegative(yhat)
	scores, err := metrics.NewScores(prep.test.T, yhat, prep.test.Y)
	if err != nil {
		return res.skip(err.Error())
	}
	res.Scores = scores
	return res
}

func (r EvaluationResult) skip(reason string) EvaluationResult {
	r.Skipped = true
	r.SkipReason = reason
	return r
}

// TuneAll tunes each series independently in a deterministic key order. A
// series failing with ErrNoViableConfig or bad data is reported with an
// explicit failure marker and does not abort the others.
func (t *Tuner) TuneAll(series map[SeriesKey]*timedataset.TimeDataset, holidays []event.Holiday, cutoff time.Time) []*SeriesReport {
	keys := make([]SeriesKey, 0, len(series))
	for key := range series {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return keys[i].Category < keys[j].Category
		}
		return keys[i].Target < keys[j].Target
	})

	reports := make([]*SeriesReport, 0, len(keys))
	for _, key := range keys {
		report, err := t.Tune(key, series[key], holidays, cutoff)
		if err != nil {
			slog.Warn("series failed tuning", "series", key.String(), "error", err.Error())
		}
		reports = append(reports, report)
	}
	return reports
}
