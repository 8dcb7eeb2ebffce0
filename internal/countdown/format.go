package countdown

import (
	"fmt"
	"time"
)

const (
	msPerMinute = int64(time.Minute / time.Millisecond)
	msPerHour   = int64(time.Hour / time.Millisecond)
	msPerDay    = 24 * msPerHour
)

// DefaultOverdueLabel is shown once a due date has passed.
const DefaultOverdueLabel = "Overdue"

// Format renders d as "{days}d {hours}h {minutes}m". Each component is the
// integer quotient of the remaining milliseconds, so 25h is "1d 1h 0m".
func Format(d time.Duration) string {
	ms := d.Milliseconds()
	days := ms / msPerDay
	hours := (ms % msPerDay) / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// Text returns the display for a due date at now, and whether it is overdue.
func Text(due, now time.Time, overdueLabel string) (string, bool) {
	diff := due.Sub(now)
	if diff <= 0 {
		return overdueLabel, true
	}
	return Format(diff), false
}
