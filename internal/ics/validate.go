package ics

import "bytes"

// Validate is a cheap structural pre-filter for uploaded content: it only
// checks that both a calendar-begin and an event-begin marker are present.
// Passing it does not guarantee extraction will produce occurrences.
func Validate(content []byte) bool {
	return bytes.Contains(content, []byte("BEGIN:VCALENDAR")) &&
		bytes.Contains(content, []byte("BEGIN:VEVENT"))
}
