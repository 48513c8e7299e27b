// Package event builds the calendar features handed to the forecast engines:
// holiday events expanded from an external calendar and synthesized semester
// events inferred from observed peak timing.
package event

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/salestune/salestune/timedataset"
)

var (
	ErrNoEventName      = errors.New("no event name")
	ErrUnsetEventDate   = errors.New("unset event date")
	ErrInvalidEventSpan = errors.New("event lower window must be <= 0 and upper window >= 0")
)

// Holiday is a single row of an external holiday calendar.
type Holiday struct {
	Date time.Time
	Name string
}

// Event represents an influence interval around an anchor day. LowerWindow
// extends the interval backwards in days and UpperWindow forwards; the anchor
// day itself is always covered.
type Event struct {
	Name        string
	Date        time.Time
	LowerWindow int
	UpperWindow int
}

func New(name string, date time.Time, lowerWindow, upperWindow int) Event {
	return Event{
		Name:        name,
		Date:        timedataset.Day(date),
		LowerWindow: lowerWindow,
		UpperWindow: upperWindow,
	}
}

func (e *Event) Valid() error {
	if e.Name == "" {
		return ErrNoEventName
	}
	if e.Date.IsZero() {
		return ErrUnsetEventDate
	}
	if e.LowerWindow > 0 || e.UpperWindow < 0 {
		return ErrInvalidEventSpan
	}
	return nil
}

// Window returns the half-open [start, end) span of days the event
// influences. An upper window of n covers the anchor day through n-1 days
// after it; a zero upper window covers the anchor day only.
func (e Event) Window() (time.Time, time.Time) {
	anchor := timedataset.Day(e.Date)
	start := anchor.AddDate(0, 0, e.LowerWindow)
	end := anchor.AddDate(0, 0, e.UpperWindow)
	if !end.After(anchor) {
		end = anchor.AddDate(0, 0, 1)
	}
	return start, end
}

// Covers reports whether day d falls inside the event window.
func (e Event) Covers(d time.Time) bool {
	start, end := e.Window()
	d = timedataset.Day(d)
	return !d.Before(start) && d.Before(end)
}

// FromHolidays expands a holiday calendar into events sharing the given
// windows.
func FromHolidays(holidays []Holiday, lowerWindow, upperWindow int) []Event {
	events := make([]Event, 0, len(holidays))
	for _, hol := range holidays {
		if hol.Name == "" || hol.Date.IsZero() {
			continue
		}
		name := strings.ReplaceAll(hol.Name, " ", "_") + "_" + strconv.Itoa(hol.Date.Year())
		events = append(events, New(name, hol.Date, lowerWindow, upperWindow))
	}
	return events
}

// USHolidays lists observed US holiday days between start and end. Used when
// no external holiday calendar is supplied.
func USHolidays(start, end time.Time) []Holiday {
	startDay := timedataset.Day(start)
	endDay := timedataset.Day(end)

	var holidays []Holiday
	for _, hol := range us.Holidays {
		holidays = append(holidays, holidayDays(hol, startDay, endDay)...)
	}
	sort.Slice(holidays, func(i, j int) bool {
		if !holidays[i].Date.Equal(holidays[j].Date) {
			return holidays[i].Date.Before(holidays[j].Date)
		}
		return holidays[i].Name < holidays[j].Name
	})
	return holidays
}

func holidayDays(hol *cal.Holiday, start, end time.Time) []Holiday {
	var holidays []Holiday
	for year := start.Year(); year <= end.Year(); year++ {
		_, observed := hol.Calc(year)
		d := timedataset.Day(observed)
		if d.Before(start) || d.After(end) {
			continue
		}
		holidays = append(holidays, Holiday{Date: d, Name: hol.Name})
	}
	return holidays
}

// SpilloverFlags derives day-before and day-after holiday indicator columns
// for the given days. These feed exploratory spillover analysis; the tuner
// itself consumes only the event set.
func SpilloverFlags(t []time.Time, holidays []Holiday) (before, after []bool) {
	holidaySet := make(map[time.Time]struct{}, len(holidays))
	for _, hol := range holidays {
		holidaySet[timedataset.Day(hol.Date)] = struct{}{}
	}

	before = make([]bool, len(t))
	after = make([]bool, len(t))
	for i, tPnt := range t {
		d := timedataset.Day(tPnt)
		if _, exists := holidaySet[d.AddDate(0, 0, 1)]; exists {
			before[i] = true
		}
		if _, exists := holidaySet[d.AddDate(0, 0, -1)]; exists {
			after[i] = true
		}
	}
	return before, after
}
