package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/profile"
	"github.com/salestune/salestune"
	"github.com/salestune/salestune/event"
	"github.com/salestune/salestune/forecast"
	"github.com/salestune/salestune/timedataset"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tuneCmd = &cobra.Command{
	Use:   "tune [series-csv]",
	Short: "Run the holdout grid search and final fit for every series",
	Long: `Reads a long-form daily sales CSV (date, category, qty, revenue), tunes one
model per (category, target) pair against the holdout cutoff, and refits each
winner on the full history.

Holidays come from --holidays (CSV of date, name) or fall back to the US
federal calendar over the observed date range.

Examples:
  # Tune with a holdout starting 2024-01-01 and a one year horizon
  salestune tune sales.csv --cutoff 2024-01-01

  # Use a custom holiday calendar and write plots
  salestune tune sales.csv --cutoff 2024-01-01 --holidays holidays.csv --plot-dir plots`,
	Args: cobra.ExactArgs(1),
	RunE: runTune,
}

func init() {
	tuneCmd.Flags().String("cutoff", "", "holdout cutoff date YYYY-MM-DD (train is strictly before)")
	tuneCmd.Flags().String("holidays", "", "holiday calendar CSV (date, name)")
	tuneCmd.Flags().String("models-dir", "models", "directory for forecast artifacts")
	tuneCmd.Flags().String("plot-dir", "", "directory for forecast HTML plots (disabled when empty)")
	tuneCmd.Flags().Int("horizon-days", 365, "final forecast horizon in days")
	tuneCmd.Flags().Int("parallelism", 0, "max concurrent evaluations (0 = available CPUs)")
	tuneCmd.Flags().Float64("cap-multiple", salestune.DefaultCapMultiple, "logistic cap as a multiple of the historical maximum")
	tuneCmd.Flags().String("engine", "linear", "forecast engine: linear or arima")
	tuneCmd.Flags().String("profile", "", "write a cpu or mem profile")
	_ = viper.BindPFlags(tuneCmd.Flags())
	_ = tuneCmd.MarkFlagRequired("cutoff")
}

func runTune(_ *cobra.Command, args []string) error {
	switch viper.GetString("profile") {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	cutoff, err := time.Parse(time.DateOnly, viper.GetString("cutoff"))
	if err != nil {
		return fmt.Errorf("invalid cutoff date, %w", err)
	}

	series, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no series found in %s", args[0])
	}

	holidays, err := resolveHolidays(series)
	if err != nil {
		return err
	}

	opt := salestune.NewDefaultOptions()
	if p := viper.GetInt("parallelism"); p > 0 {
		opt.Parallelism = p
	}
	opt.CapMultiple = viper.GetFloat64("cap-multiple")
	switch engine := viper.GetString("engine"); engine {
	case "linear":
	case "arima":
		opt.Engine = func() forecast.Engine { return forecast.NewArimaEngine() }
	default:
		return fmt.Errorf("unknown engine %q", engine)
	}

	tuner := salestune.New(opt)
	reports := tuner.TuneAll(series, holidays, cutoff)
	if err := printReports(os.Stdout, reports); err != nil {
		return err
	}

	modelsDir := viper.GetString("models-dir")
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		return fmt.Errorf("unable to create models dir, %w", err)
	}

	horizonDays := viper.GetInt("horizon-days")
	plotDir := viper.GetString("plot-dir")
	for _, report := range reports {
		if report.Best == nil {
			continue
		}
		art, pred, err := tuner.FinalFit(report.Key, series[report.Key], holidays, report.Best.Config, horizonDays)
		if err != nil {
			fmt.Fprintf(os.Stderr, "final fit failed for %s: %v\n", report.Key, err)
			continue
		}
		path, err := art.Save(modelsDir)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)

		if plotDir != "" {
			if err := os.MkdirAll(plotDir, 0o755); err != nil {
				return fmt.Errorf("unable to create plot dir, %w", err)
			}
			history, err := series[report.Key].Densify()
			if err != nil {
				return err
			}
			plotPath := filepath.Join(plotDir, art.Filename()+".html")
			if err := salestune.PlotForecast(plotPath, report.Key, history, pred); err != nil {
				return fmt.Errorf("unable to plot %s, %w", report.Key, err)
			}
		}
	}
	return nil
}

// resolveHolidays loads the configured calendar or derives US holidays over
// the union of observed series ranges.
func resolveHolidays(series map[salestune.SeriesKey]*timedataset.TimeDataset) ([]event.Holiday, error) {
	if path := viper.GetString("holidays"); path != "" {
		return loadHolidays(path)
	}

	var start, end time.Time
	for _, td := range series {
		if start.IsZero() || td.StartTime().Before(start) {
			start = td.StartTime()
		}
		if td.EndTime().After(end) {
			end = td.EndTime()
		}
	}
	return event.USHolidays(start, end), nil
}
