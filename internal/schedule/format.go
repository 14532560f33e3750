package schedule

import (
	"fmt"
	"math"
)

// FormatHour renders a fractional hour-of-day as a 12-hour clock string,
// e.g. 9.5 -> "9:30 AM", 13.25 -> "1:15 PM".
func FormatHour(h float64) string {
	totalMin := int(math.Round(h * 60))
	hour := totalMin / 60
	minute := totalMin % 60

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}
