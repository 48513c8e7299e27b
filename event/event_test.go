package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestEventValid(t *testing.T) {
	testData := map[string]struct {
		event Event
		err   error
	}{
		"missing name": {
			event: New("", d(2024, 1, 1), 0, 0),
			err:   ErrNoEventName,
		},
		"missing date": {
			event: Event{Name: "promo"},
			err:   ErrUnsetEventDate,
		},
		"positive lower window": {
			event: New("promo", d(2024, 1, 1), 1, 0),
			err:   ErrInvalidEventSpan,
		},
		"negative upper window": {
			event: New("promo", d(2024, 1, 1), 0, -1),
			err:   ErrInvalidEventSpan,
		},
		"valid": {
			event: New("promo", d(2024, 1, 1), -1, 1),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := td.event.Valid()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
		})
	}
}

func TestEventWindow(t *testing.T) {
	anchor := d(2024, 8, 12)

	testData := map[string]struct {
		event   Event
		covered []time.Time
		outside []time.Time
	}{
		"week after anchor": {
			event:   New("semester_2024_08", anchor, 0, 7),
			covered: []time.Time{anchor, d(2024, 8, 15), d(2024, 8, 18)},
			outside: []time.Time{d(2024, 8, 11), d(2024, 8, 19)},
		},
		"anchor day only": {
			event:   New("spike", anchor, 0, 0),
			covered: []time.Time{anchor},
			outside: []time.Time{d(2024, 8, 11), d(2024, 8, 13)},
		},
		"day before through day after": {
			event:   New("holiday", anchor, -1, 1),
			covered: []time.Time{d(2024, 8, 11), anchor},
			outside: []time.Time{d(2024, 8, 10), d(2024, 8, 13)},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			for _, day := range td.covered {
				assert.True(t, td.event.Covers(day), day.Format(time.DateOnly))
			}
			for _, day := range td.outside {
				assert.False(t, td.event.Covers(day), day.Format(time.DateOnly))
			}
		})
	}
}

func TestFromHolidays(t *testing.T) {
	holidays := []Holiday{
		{Date: d(2023, 12, 25), Name: "Christmas Day"},
		{Date: d(2024, 7, 4), Name: "Independence Day"},
		{Name: "missing date"},
	}
	events := FromHolidays(holidays, -1, 1)
	require.Len(t, events, 2)

	assert.Equal(t, "Christmas_Day_2023", events[0].Name)
	assert.Equal(t, "Independence_Day_2024", events[1].Name)
	for _, ev := range events {
		assert.Equal(t, -1, ev.LowerWindow)
		assert.Equal(t, 1, ev.UpperWindow)
		assert.Nil(t, ev.Valid())
	}
}

func TestUSHolidays(t *testing.T) {
	holidays := USHolidays(d(2024, 1, 1), d(2024, 12, 31))
	require.NotEmpty(t, holidays)

	for i, hol := range holidays {
		assert.False(t, hol.Date.Before(d(2024, 1, 1)))
		assert.False(t, hol.Date.After(d(2024, 12, 31)))
		if i > 0 {
			assert.False(t, hol.Date.Before(holidays[i-1].Date))
		}
	}

	names := make(map[string]bool, len(holidays))
	for _, hol := range holidays {
		names[hol.Name] = true
	}
	assert.True(t, names["Independence Day"])
}

func TestSpilloverFlags(t *testing.T) {
	days := []time.Time{
		d(2024, 7, 3),
		d(2024, 7, 4),
		d(2024, 7, 5),
		d(2024, 7, 6),
	}
	before, after := SpilloverFlags(days, []Holiday{{Date: d(2024, 7, 4), Name: "Independence Day"}})
	assert.Equal(t, []bool{true, false, false, false}, before)
	assert.Equal(t, []bool{false, false, true, false}, after)
}
