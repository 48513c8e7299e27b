package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/salestune/salestune"
)

// printReports renders the per-series selection table: the winning config and
// its metrics next to the seasonal-naive baseline, or a failure marker.
func printReports(w io.Writer, reports []*salestune.SeriesReport) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	table := tablewriter.NewWriter(w)
	table.Header([]string{
		"Series", "Status", "Mode", "Yearly", "Monthly", "Semester", "Window",
		"Winsor q", "WAPE wk", "WAPE day", "Baseline wk",
	})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, report := range reports {
		if report.Best == nil {
			reason := "no viable config"
			if report.Err != nil {
				reason = report.Err.Error()
			}
			data = append(data, []string{
				report.Key.String(), red("failed: " + reason),
				"", "", "", "", "", "", "", "", "",
			})
			continue
		}

		cfg := report.Best.Config
		baseline := "n/a"
		if report.Baseline != nil && !math.IsNaN(report.Baseline.WAPEWeekly) {
			baseline = fmt.Sprintf("%.4f", report.Baseline.WAPEWeekly)
		}
		data = append(data, []string{
			report.Key.String(),
			green("ok"),
			string(cfg.SeasonalityMode),
			fmt.Sprintf("%t", cfg.YearlySeasonality),
			fmt.Sprintf("%t", cfg.UseMonthlySeasonality),
			fmt.Sprintf("%t", cfg.UseSemesterSeasonality),
			fmt.Sprintf("%d", cfg.SemesterWindowDays),
			fmt.Sprintf("%.3f", cfg.WinsorQuantile),
			fmt.Sprintf("%.4f", report.Best.Scores.WAPEWeekly),
			fmt.Sprintf("%.4f", report.Best.Scores.WAPEDaily),
			baseline,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, report := range reports {
		if report.Skipped > 0 {
			fmt.Fprintf(os.Stderr, "%s: skipped %d of %d combinations\n",
				report.Key, report.Skipped, len(report.Results))
		}
	}
	return nil
}
