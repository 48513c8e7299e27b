package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/salestune/salestune"
	"github.com/salestune/salestune/event"
	"github.com/salestune/salestune/timedataset"
)

// loadSeries reads a long-form daily sales CSV with the header
// date,category,qty,revenue and splits it into one series per
// (category, target) pair. Rows may arrive unsorted; duplicate days within a
// category are summed.
func loadSeries(path string) (map[salestune.SeriesKey]*timedataset.TimeDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open series csv, %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read series csv header, %w", err)
	}
	cols, err := columnIndex(header, "date", "category", "qty", "revenue")
	if err != nil {
		return nil, err
	}

	type daily map[time.Time]float64
	acc := make(map[salestune.SeriesKey]daily)

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read series csv, %w", err)
		}

		d, err := time.Parse(time.DateOnly, strings.TrimSpace(row[cols["date"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date, %w", line, err)
		}
		d = timedataset.Day(d)
		category := strings.TrimSpace(row[cols["category"]])

		for target, col := range map[salestune.Target]int{
			salestune.TargetQty:     cols["qty"],
			salestune.TargetRevenue: cols["revenue"],
		} {
			val, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s value, %w", line, target, err)
			}
			key := salestune.SeriesKey{Category: category, Target: target}
			if acc[key] == nil {
				acc[key] = make(daily)
			}
			acc[key][d] += val
		}
	}

	series := make(map[salestune.SeriesKey]*timedataset.TimeDataset, len(acc))
	for key, byDay := range acc {
		t := make([]time.Time, 0, len(byDay))
		for d := range byDay {
			t = append(t, d)
		}
		sort.Slice(t, func(i, j int) bool { return t[i].Before(t[j]) })

		y := make([]float64, 0, len(t))
		for _, d := range t {
			y = append(y, byDay[d])
		}

		td, err := timedataset.NewDailyDataset(t, y)
		if err != nil {
			return nil, fmt.Errorf("series %s, %w", key, err)
		}
		series[key] = td
	}
	return series, nil
}

// loadHolidays reads a holiday calendar CSV with the header date,name.
func loadHolidays(path string) ([]event.Holiday, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open holiday csv, %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read holiday csv header, %w", err)
	}
	cols, err := columnIndex(header, "date", "name")
	if err != nil {
		return nil, err
	}

	var holidays []event.Holiday
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read holiday csv, %w", err)
		}
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(row[cols["date"]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date, %w", line, err)
		}
		holidays = append(holidays, event.Holiday{
			Date: timedataset.Day(d),
			Name: strings.TrimSpace(row[cols["name"]]),
		})
	}
	return holidays, nil
}

func columnIndex(header []string, names ...string) (map[string]int, error) {
	cols := make(map[string]int, len(names))
	for i, col := range header {
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, name := range names {
		if _, exists := cols[name]; !exists {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
	}
	return cols, nil
}
