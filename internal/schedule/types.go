// Package schedule builds the single-week model: merged busy spans per
// person and weekday, overlap segments where two or more people are busy
// at once, and summary statistics over both.
package schedule

// Weekday is a day name as it appears in the week model ("Monday" .. "Sunday").
type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

// Weekdays is the display order of the week model. Saturday and Sunday
// occurrences are dropped before span building.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// IsWeekday reports whether d is part of the Monday–Friday week model.
func (d Weekday) IsWeekday() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return true
	}
	return false
}

// Class types recognized in event summaries.
const (
	TypeLecture    = "Lecture"
	TypeLab        = "Lab"
	TypeRecitation = "Recitation"
	TypeSeminar    = "Seminar"
)

// GapThreshold is the maximum gap, in hours, between two occurrences for
// them to be merged into one busy span (10 minutes).
const GapThreshold = 10.0 / 60.0

// Occurrence is one concrete weekday instance of a class event with a
// resolved start/end hour-of-day. Occurrences are produced by the extractor
// and are immutable once created.
type Occurrence struct {
	Person       string  `json:"person"`
	CourseCode   string  `json:"courseCode"`
	CourseName   string  `json:"courseName"`
	Building     string  `json:"building"`
	Room         string  `json:"room"`
	Day          Weekday `json:"day"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	StartHour    float64 `json:"startHour"`
	EndHour      float64 `json:"endHour"`
	Type         string  `json:"type"`
	Color        string  `json:"color"`
	Professor    string  `json:"professor,omitempty"`
	FullLocation string  `json:"fullLocation,omitempty"`
}

// BusySpan is a maximal merged interval of back-to-back-or-near occurrences
// for one person on one weekday. Spans for a given (person, weekday) are
// non-overlapping and sorted by start hour.
type BusySpan struct {
	Day         Weekday      `json:"day"`
	Person      string       `json:"person"`
	Color       string       `json:"color"`
	StartHour   float64      `json:"startHour"`
	EndHour     float64      `json:"endHour"`
	StartTime   string       `json:"startTime"`
	EndTime     string       `json:"endTime"`
	Occurrences []Occurrence `json:"occurrences"`
}

// OverlapSegment is a time interval on one weekday during which at least
// two people's busy spans are simultaneously active.
type OverlapSegment struct {
	Day          Weekday    `json:"day"`
	StartHour    float64    `json:"startHour"`
	EndHour      float64    `json:"endHour"`
	Participants []BusySpan `json:"participants"`
}

// WeekSummary is the dashboard aggregate, recomputed from the current
// spans and overlap segments and never persisted.
type WeekSummary struct {
	People         int     `json:"people"`
	Classes        int     `json:"classes"`
	TotalBusyHours float64 `json:"totalBusyHours"`
	OverlapBlocks  int     `json:"overlapBlocks"`
	Busiest        Busiest `json:"busiest"`
}

// Busiest names the person with the largest summed busy-span duration.
type Busiest struct {
	Person string  `json:"person"`
	Hours  float64 `json:"hours"`
}

// PersonStats is the per-person quick view. Overlaps counts this person's
// occurrences that intersect at least one other person's occurrence on the
// same day; it is intentionally a different measure than the week-wide
// merged segment count in WeekSummary.
type PersonStats struct {
	Person    string  `json:"person"`
	Classes   int     `json:"classes"`
	BusyHours float64 `json:"busyHours"`
	Overlaps  int     `json:"overlaps"`
}
