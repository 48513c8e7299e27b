package event

import (
	"fmt"
	"time"

	"github.com/salestune/salestune/timedataset"
)

// semesterMonths are the calendar months where a recurring demand surge is
// expected from new school terms.
var semesterMonths = map[time.Month]struct{}{
	time.January: {},
	time.August:  {},
}

// SemesterEvents synthesizes one event per (year, semester month) observed in
// the training series. Within each (year, month) the anchor is the
// (week-in-month, weekday) cell with the highest mean of the target; because
// a week-in-month block holds each weekday once, each cell maps to a single
// calendar day. Ties resolve to the earliest day. Months without training
// data emit no event. Pure function of its inputs.
func SemesterEvents(train *timedataset.TimeDataset, windowDays int) []Event {
	if train == nil {
		return nil
	}

	type anchor struct {
		date time.Time
		mean float64
		seen bool
	}
	anchors := make(map[int]*anchor)
	order := make([]int, 0)

	for i, d := range train.T {
		if _, exists := semesterMonths[d.Month()]; !exists {
			continue
		}
		key := d.Year()*100 + int(d.Month())
		a, exists := anchors[key]
		if !exists {
			a = &anchor{}
			anchors[key] = a
			order = append(order, key)
		}
		// strictly-greater keeps the earliest day among ties since days
		// arrive in calendar order
		if !a.seen || train.Y[i] > a.mean {
			a.date = d
			a.mean = train.Y[i]
			a.seen = true
		}
	}

	events := make([]Event, 0, len(order))
	for _, key := range order {
		a := anchors[key]
		name := fmt.Sprintf("semester_%d_%02d", key/100, key%100)
		events = append(events, New(name, a.date, 0, windowDays))
	}
	return events
}

// WeekInMonth returns the 1-indexed block of 7 days from the month start that
// d falls in.
func WeekInMonth(d time.Time) int {
	return (d.Day()-1)/7 + 1
}
