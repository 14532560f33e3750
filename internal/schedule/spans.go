package schedule

import "sort"

// BuildSpans groups occurrences by (weekday, person), merges near-adjacent
// occurrences into contiguous busy spans, and returns the spans for each
// weekday sorted by (start, end). Two consecutive occurrences merge into one
// span when the gap between them is at most GapThreshold. Saturday and
// Sunday occurrences are dropped.
func BuildSpans(occurrences []Occurrence) map[Weekday][]BusySpan {
	byDayPerson := make(map[Weekday]map[string][]Occurrence)
	for _, occ := range occurrences {
		if !occ.Day.IsWeekday() {
			continue
		}
		if byDayPerson[occ.Day] == nil {
			byDayPerson[occ.Day] = make(map[string][]Occurrence)
		}
		byDayPerson[occ.Day][occ.Person] = append(byDayPerson[occ.Day][occ.Person], occ)
	}

	result := make(map[Weekday][]BusySpan, len(byDayPerson))
	for _, day := range Weekdays {
		perPerson, ok := byDayPerson[day]
		if !ok {
			continue
		}

		// Deterministic person order within a day.
		persons := make([]string, 0, len(perPerson))
		for person := range perPerson {
			persons = append(persons, person)
		}
		sort.Strings(persons)

		var spans []BusySpan
		for _, person := range persons {
			spans = append(spans, mergePerson(day, person, perPerson[person])...)
		}

		sort.Slice(spans, func(i, j int) bool {
			if spans[i].StartHour != spans[j].StartHour {
				return spans[i].StartHour < spans[j].StartHour
			}
			return spans[i].EndHour < spans[j].EndHour
		})
		result[day] = spans
	}
	return result
}

// mergePerson merges one person's occurrences on one weekday into spans.
func mergePerson(day Weekday, person string, list []Occurrence) []BusySpan {
	if len(list) == 0 {
		return nil
	}

	sorted := make([]Occurrence, len(list))
	copy(sorted, list)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartHour != sorted[j].StartHour {
			return sorted[i].StartHour < sorted[j].StartHour
		}
		return sorted[i].EndHour < sorted[j].EndHour
	})

	var spans []BusySpan
	cur := newSpan(day, person, sorted[0])
	for _, occ := range sorted[1:] {
		if occ.StartHour-cur.EndHour <= GapThreshold {
			if occ.EndHour > cur.EndHour {
				cur.EndHour = occ.EndHour
			}
			cur.Occurrences = append(cur.Occurrences, occ)
		} else {
			spans = append(spans, finishSpan(cur))
			cur = newSpan(day, person, occ)
		}
	}
	return append(spans, finishSpan(cur))
}

func newSpan(day Weekday, person string, occ Occurrence) BusySpan {
	return BusySpan{
		Day:         day,
		Person:      person,
		Color:       occ.Color,
		StartHour:   occ.StartHour,
		EndHour:     occ.EndHour,
		Occurrences: []Occurrence{occ},
	}
}

func finishSpan(span BusySpan) BusySpan {
	span.StartTime = FormatHour(span.StartHour)
	span.EndTime = FormatHour(span.EndHour)
	return span
}
