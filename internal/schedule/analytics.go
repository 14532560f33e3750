package schedule

import "sort"

// BuildSummary derives the dashboard aggregate from an extraction result and
// the week model computed from it. Classes counts every occurrence, including
// weekend ones that never reach the span builder.
func BuildSummary(occurrences []Occurrence, spansByDay map[Weekday][]BusySpan, overlapsByDay map[Weekday][]OverlapSegment) WeekSummary {
	seen := make(map[string]bool)
	for _, occ := range occurrences {
		seen[occ.Person] = true
	}

	var totalBusy float64
	hoursByPerson := make(map[string]float64)
	var personOrder []string
	for _, day := range Weekdays {
		for _, span := range spansByDay[day] {
			d := span.EndHour - span.StartHour
			totalBusy += d
			if _, ok := hoursByPerson[span.Person]; !ok {
				personOrder = append(personOrder, span.Person)
			}
			hoursByPerson[span.Person] += d
		}
	}

	overlapBlocks := 0
	for _, segs := range overlapsByDay {
		overlapBlocks += len(segs)
	}

	var busiest Busiest
	for _, person := range personOrder {
		if hoursByPerson[person] > busiest.Hours {
			busiest = Busiest{Person: person, Hours: hoursByPerson[person]}
		}
	}

	return WeekSummary{
		People:         len(seen),
		Classes:        len(occurrences),
		TotalBusyHours: totalBusy,
		OverlapBlocks:  overlapBlocks,
		Busiest:        busiest,
	}
}

// PersonView computes one person's quick-view stats from the raw
// occurrences. Busy hours come from merging the person's weekday
// occurrences ordered by start hour; the overlap count is the number of
// their occurrences that intersect another person's occurrence on the same
// day, which deliberately differs from the week-wide segment count.
func PersonView(person string, occurrences []Occurrence) PersonStats {
	var list []Occurrence
	for _, occ := range occurrences {
		if occ.Person == person && occ.Day.IsWeekday() {
			list = append(list, occ)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartHour != list[j].StartHour {
			return list[i].StartHour < list[j].StartHour
		}
		return list[i].EndHour < list[j].EndHour
	})

	type interval struct{ start, end float64 }
	var spans []interval
	for _, occ := range list {
		if len(spans) > 0 && occ.StartHour-spans[len(spans)-1].end <= GapThreshold {
			if occ.EndHour > spans[len(spans)-1].end {
				spans[len(spans)-1].end = occ.EndHour
			}
		} else {
			spans = append(spans, interval{occ.StartHour, occ.EndHour})
		}
	}
	var busy float64
	for _, s := range spans {
		busy += s.end - s.start
	}

	byDay := make(map[Weekday][]Occurrence)
	for _, occ := range occurrences {
		byDay[occ.Day] = append(byDay[occ.Day], occ)
	}
	overlaps := 0
	for _, dayOccs := range byDay {
		for _, own := range dayOccs {
			if own.Person != person {
				continue
			}
			for _, other := range dayOccs {
				if other.Person == person {
					continue
				}
				if own.StartHour < other.EndHour && other.StartHour < own.EndHour {
					overlaps++
					break
				}
			}
		}
	}

	return PersonStats{
		Person:    person,
		Classes:   len(list),
		BusyHours: busy,
		Overlaps:  overlaps,
	}
}

// PeopleStats returns PersonView results for every person present in the
// occurrence list, in first-encountered order.
func PeopleStats(occurrences []Occurrence) []PersonStats {
	var persons []string
	seen := make(map[string]bool)
	for _, occ := range occurrences {
		if !seen[occ.Person] {
			seen[occ.Person] = true
			persons = append(persons, occ.Person)
		}
	}

	stats := make([]PersonStats, 0, len(persons))
	for _, person := range persons {
		stats = append(stats, PersonView(person, occurrences))
	}
	return stats
}
