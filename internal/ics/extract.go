// Package ics extracts weekday-tagged class occurrences from iCalendar
// documents. One document belongs to one person; a malformed event is
// skipped and counted, never fatal for the rest of the document.
package ics

import (
	"bytes"
	"fmt"
	"io"

	ical "github.com/emersion/go-ical"

	"github.com/thekevindong/AreWeFree/internal/schedule"
)

// Progress receives coarse stage/percentage/message updates during
// extraction. It is purely informational; a nil Progress is fine.
type Progress func(stage string, percent int, message string)

// Extract parses one calendar document into the flat occurrence list for
// one person. It returns the occurrences, the number of skipped events, and
// an error only when the document cannot be decoded as a calendar at all.
// Each weekly event expands to one occurrence per resolved weekday.
func Extract(content []byte, person, color string, progress Progress) ([]schedule.Occurrence, int, error) {
	report(progress, "parsing", 30, "Parsing calendar data...")

	dec := ical.NewDecoder(bytes.NewReader(content))
	var events []*ical.Component
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decode calendar: %w", err)
		}
		for _, comp := range cal.Children {
			if comp.Name == ical.CompEvent {
				events = append(events, comp)
			}
		}
	}

	report(progress, "extracting", 50, "Extracting course information...")

	var occurrences []schedule.Occurrence
	skipped := 0
	total := len(events)
	for i, comp := range events {
		if total > 0 {
			pct := 50 + i*40/total
			report(progress, "extracting", pct, fmt.Sprintf("Processing event %d/%d...", i+1, total))
		}
		occs := extractEvent(comp, person, color)
		if len(occs) == 0 {
			skipped++
			continue
		}
		occurrences = append(occurrences, occs...)
	}

	report(progress, "complete", 100,
		fmt.Sprintf("Processing complete! Found %d classes, skipped %d invalid events.", len(occurrences), skipped))
	return occurrences, skipped, nil
}

// extractEvent converts one VEVENT into occurrences, or nothing when the
// event is unusable (missing or implausible dates, all-day, inverted or
// degenerate interval).
func extractEvent(comp *ical.Component, person, color string) []schedule.Occurrence {
	summary := propValue(comp, ical.PropSummary)
	if summary == "" {
		summary = "Unknown Course"
	}
	location := propValue(comp, ical.PropLocation)
	description := propValue(comp, ical.PropDescription)

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	endProp := comp.Props.Get(ical.PropDateTimeEnd)
	if startProp == nil || endProp == nil {
		return nil
	}
	start, err := parseDateTimeProp(startProp)
	if err != nil {
		return nil
	}
	end, err := parseDateTimeProp(endProp)
	if err != nil {
		return nil
	}
	if !start.valid() || !end.valid() {
		return nil
	}
	if !start.hasTime() || !end.hasTime() {
		return nil
	}
	if start.compare(end) >= 0 {
		return nil
	}

	startHour := start.hourOfDay()
	endHour := end.hourOfDay()
	if startHour == endHour || startHour < 0 || endHour < 0 || startHour > 24 || endHour > 24 {
		return nil
	}

	courseCode, courseName, classType := parseSummary(summary)
	building, room, fullLocation := parseLocation(location)
	professor := extractProfessor(description)
	days := eventDays(start, propValue(comp, ical.PropRecurrenceRule))

	occurrences := make([]schedule.Occurrence, 0, len(days))
	for _, day := range days {
		occurrences = append(occurrences, schedule.Occurrence{
			Person:       person,
			CourseCode:   courseCode,
			CourseName:   courseName,
			Building:     building,
			Room:         room,
			Day:          day,
			StartTime:    formatClock(start.hour, start.minute),
			EndTime:      formatClock(end.hour, end.minute),
			StartHour:    startHour,
			EndHour:      endHour,
			Type:         classType,
			Color:        color,
			Professor:    professor,
			FullLocation: fullLocation,
		})
	}
	return occurrences
}

// eventDays resolves the weekday set an event occupies: the BYDAY list for
// weekly recurrence rules, otherwise the start date's own weekday. An
// unparseable rule or an empty BYDAY expansion also falls back to the start
// weekday.
func eventDays(start dateTime, rawRule string) []schedule.Weekday {
	if rawRule == "" {
		return []schedule.Weekday{start.weekday()}
	}
	if rec, err := parseRecurrence(rawRule); err == nil {
		if days := rec.weekdays(); len(days) > 0 {
			return days
		}
	}
	return []schedule.Weekday{start.weekday()}
}

func propValue(comp *ical.Component, name string) string {
	if prop := comp.Props.Get(name); prop != nil {
		return prop.Value
	}
	return ""
}

// formatClock renders an hour/minute pair as a 12-hour clock string.
func formatClock(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour
	switch {
	case hour > 12:
		display = hour - 12
	case hour == 0:
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}

func report(progress Progress, stage string, percent int, message string) {
	if progress != nil {
		progress(stage, percent, message)
	}
}
