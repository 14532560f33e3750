package ics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/thekevindong/AreWeFree/internal/schedule"
)

// dateTime is the calendar-value view of a DTSTART/DTEND property: plain
// wall-clock fields with no timezone attached. Hours-of-day are all the
// week model needs, so TZID parameters are ignored entirely.
type dateTime struct {
	year, month, day int
	hour, minute     int
	dateOnly         bool
}

// parseDateTimeProp parses a raw DTSTART/DTEND property value
// ("20060102T150405", optionally with a trailing Z, or "20060102" for
// date-only values).
func parseDateTimeProp(prop *ical.Prop) (dateTime, error) {
	value := strings.TrimSpace(prop.Value)
	if value == "" {
		return dateTime{}, fmt.Errorf("empty date-time value")
	}
	value = strings.TrimSuffix(value, "Z")

	dateOnly := strings.EqualFold(prop.Params.Get(ical.ParamValue), "DATE")

	datePart := value
	timePart := ""
	if i := strings.IndexByte(value, 'T'); i >= 0 {
		datePart, timePart = value[:i], value[i+1:]
	} else {
		dateOnly = true
	}

	if len(datePart) != 8 {
		return dateTime{}, fmt.Errorf("malformed date %q", prop.Value)
	}
	year, err1 := strconv.Atoi(datePart[0:4])
	month, err2 := strconv.Atoi(datePart[4:6])
	day, err3 := strconv.Atoi(datePart[6:8])
	if err1 != nil || err2 != nil || err3 != nil {
		return dateTime{}, fmt.Errorf("malformed date %q", prop.Value)
	}

	dt := dateTime{year: year, month: month, day: day, dateOnly: dateOnly}
	if dateOnly || timePart == "" {
		dt.dateOnly = true
		return dt, nil
	}

	if len(timePart) < 4 {
		return dateTime{}, fmt.Errorf("malformed time %q", prop.Value)
	}
	hour, err1 := strconv.Atoi(timePart[0:2])
	minute, err2 := strconv.Atoi(timePart[2:4])
	if err1 != nil || err2 != nil {
		return dateTime{}, fmt.Errorf("malformed time %q", prop.Value)
	}
	dt.hour, dt.minute = hour, minute
	return dt, nil
}

// valid reports whether the calendar date is plausible: year within
// [1900, 2100], month within [1, 12], day within [1, 31].
func (dt dateTime) valid() bool {
	return dt.year >= 1900 && dt.year <= 2100 &&
		dt.month >= 1 && dt.month <= 12 &&
		dt.day >= 1 && dt.day <= 31
}

// hasTime reports whether the value carries a usable time-of-day
// component. Date-only values (all-day events) do not.
func (dt dateTime) hasTime() bool {
	return !dt.dateOnly &&
		dt.hour >= 0 && dt.hour <= 23 &&
		dt.minute >= 0 && dt.minute <= 59
}

// compare orders two values by their wall-clock fields.
func (dt dateTime) compare(other dateTime) int {
	a := [5]int{dt.year, dt.month, dt.day, dt.hour, dt.minute}
	b := [5]int{other.year, other.month, other.day, other.hour, other.minute}
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// weekday resolves the day-of-week name for the calendar date.
func (dt dateTime) weekday() schedule.Weekday {
	t := time.Date(dt.year, time.Month(dt.month), dt.day, 0, 0, 0, 0, time.UTC)
	return schedule.Weekday(t.Weekday().String())
}

// hourOfDay returns the fractional hour-of-day, e.g. 9:30 -> 9.5.
func (dt dateTime) hourOfDay() float64 {
	return float64(dt.hour) + float64(dt.minute)/60
}
