package todo

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of a due date typed as four space separated fields:
// year, month abbreviation, day and HH:MM:SS.
const DateLayout = "2006 Jan 2 15:04:05"

// ParseDue parses text with DateLayout in loc. Runs of whitespace are
// collapsed first, so stray spaces typed inside a field are tolerated.
func ParseDue(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	normalized := strings.Join(strings.Fields(text), " ")
	t, err := time.ParseInLocation(DateLayout, normalized, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want %q)", ErrDateParse, text, DateLayout)
	}
	return t, nil
}

// Countdown formats the time left until due as D:HH:MM. It returns "overdue"
// once due is not after now.
func Countdown(due, now time.Time) string {
	left := due.Sub(now)
	if left <= 0 {
		return "overdue"
	}
	minutes := int(left / time.Minute)
	days := minutes / (24 * 60)
	hours := (minutes / 60) % 24
	return fmt.Sprintf("%d:%02d:%02d", days, hours, minutes%60)
}
