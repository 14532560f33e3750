package ics

import (
	"regexp"
	"strings"

	"github.com/thekevindong/AreWeFree/internal/schedule"
)

// Field parsing below is deliberately best-effort pattern matching over
// free-text summary/location/description fields. The exact patterns matter:
// downstream display and grouping depend on them, so they should not be
// "improved" in place.
var (
	courseCodeRe = regexp.MustCompile(`(?i)([A-Z]{2,8})\s*(\d{3,4}[A-Z]?)`)

	roomFirstRe    = regexp.MustCompile(`(?i)^(\d+[A-Z]?)\s+(.+)$`)
	buildingLastRe = regexp.MustCompile(`(?i)^(.+?)\s+(\d+[A-Z]?)$`)

	profLabelRe  = regexp.MustCompile(`(?i)(?:instructor|professor|prof|teacher):\s*([^,\n]+)`)
	profTaughtRe = regexp.MustCompile(`(?i)(?:taught by|with)\s+([^,\n]+)`)
	profNameRe   = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+(?:\s*,\s*(?:Ph\.?D\.?|Dr\.?))?`)
)

// parseSummary splits an event summary into course code, course name and
// class type. A code is 2–8 letters followed by 3–4 digits and an optional
// trailing letter; the name is the remainder, falling back to the whole
// summary when the remainder is under 3 characters.
func parseSummary(summary string) (courseCode, courseName, classType string) {
	courseCode = "UNKNOWN"
	courseName = summary

	if m := courseCodeRe.FindStringSubmatch(summary); m != nil {
		courseCode = strings.ToUpper(m[1]) + " " + m[2]
		courseName = strings.TrimSpace(strings.Replace(summary, m[0], "", 1))
	}
	if len(courseName) < 3 {
		courseName = summary
	}

	s := strings.ToLower(summary)
	switch {
	case strings.Contains(s, "lab"):
		classType = schedule.TypeLab
	case strings.Contains(s, "recitation"), strings.Contains(s, "rec"):
		classType = schedule.TypeRecitation
	case strings.Contains(s, "seminar"):
		classType = schedule.TypeSeminar
	default:
		classType = schedule.TypeLecture
	}
	return courseCode, courseName, classType
}

// parseLocation splits a location string into building and room. Tries
// room-first ("101 Main Hall"), then building-first ("Main Hall 101"),
// then treats the whole string as a building name.
func parseLocation(location string) (building, room, fullLocation string) {
	fullLocation = location
	if fullLocation == "" {
		fullLocation = "TBD"
	}

	upper := strings.ToUpper(location)
	if strings.TrimSpace(location) == "" || strings.Contains(upper, "TO BE ARRANGED") {
		return "TBD", "TBD", "TO BE ARRANGED"
	}
	if strings.Contains(upper, "WEB BASED") {
		return "Online", "Web", location
	}

	if m := roomFirstRe.FindStringSubmatch(location); m != nil {
		return strings.TrimSpace(m[2]), strings.TrimSpace(m[1]), fullLocation
	}
	if m := buildingLastRe.FindStringSubmatch(location); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), fullLocation
	}
	if strings.Contains(location, "Hall") || strings.Contains(location, "Building") || strings.Contains(location, "Center") {
		return strings.TrimSpace(location), "TBD", fullLocation
	}
	return strings.TrimSpace(location), "TBD", fullLocation
}

// extractProfessor pulls an instructor name out of an event description.
// Labelled forms ("Instructor: Jane Doe") are tried first, then "taught
// by"/"with" phrases, then a bare capitalized two-word name. The bare-name
// scan takes its second hit, not the first: the first capitalized pair in a
// description is typically the course title itself.
func extractProfessor(description string) string {
	candidates := make([]string, 0, 3)
	if m := profLabelRe.FindStringSubmatch(description); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := profTaughtRe.FindStringSubmatch(description); m != nil {
		candidates = append(candidates, m[1])
	}
	if names := profNameRe.FindAllString(description, -1); len(names) >= 2 {
		candidates = append(candidates, names[1])
	}

	for _, candidate := range candidates {
		prof := strings.TrimSpace(candidate)
		lower := strings.ToLower(prof)
		if len(prof) > 3 &&
			!strings.Contains(lower, "class") &&
			!strings.Contains(lower, "course") &&
			!strings.Contains(lower, "section") {
			return prof
		}
	}
	return ""
}
