package ics

import (
	"github.com/teambition/rrule-go"

	"github.com/thekevindong/AreWeFree/internal/schedule"
)

// byDayNames is the fixed lookup from RRULE weekday positions (MO == 0 per
// RFC 5545 weekday codes SU/MO/TU/WE/TH/FR/SA) to week-model day names.
// Ordinal prefixes such as "2MO" resolve to the same plain weekday.
var byDayNames = map[int]schedule.Weekday{
	0: schedule.Monday,
	1: schedule.Tuesday,
	2: schedule.Wednesday,
	3: schedule.Thursday,
	4: schedule.Friday,
	5: schedule.Saturday,
	6: schedule.Sunday,
}

// recurrence is the parsed view of an RRULE property: just the frequency
// and the BYDAY list, which is all that weekly expansion consumes.
type recurrence struct {
	freq  rrule.Frequency
	byDay []rrule.Weekday
}

// parseRecurrence parses a raw RRULE value such as
// "FREQ=WEEKLY;BYDAY=MO,WE,FR". The rule is parsed as a whole: one
// malformed part, such as an unknown BYDAY code, rejects the entire rule
// and the caller falls back to the event's start weekday.
func parseRecurrence(raw string) (recurrence, error) {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return recurrence{}, err
	}
	return recurrence{freq: opt.Freq, byDay: opt.Byweekday}, nil
}

// weekdays returns the day names the rule expands to. Only weekly rules
// with a BYDAY list expand; anything else yields nothing and the caller
// falls back to the event's own start weekday.
func (r recurrence) weekdays() []schedule.Weekday {
	if r.freq != rrule.WEEKLY {
		return nil
	}
	var days []schedule.Weekday
	for _, wd := range r.byDay {
		if name, ok := byDayNames[wd.Day()]; ok {
			days = append(days, name)
		}
	}
	return days
}
