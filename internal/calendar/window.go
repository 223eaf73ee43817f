package calendar

import (
	"fmt"
	"strings"
	"time"
)

// WeekOffsetDays is how far the target week lies ahead of the reference
// instant. The bot runs near the end of a week and announces the week
// after the current one, so the offset is a full week.
const WeekOffsetDays = 7

// ParseWeekStart maps a configured week-start name to a weekday.
// Supported values are "monday" (the default) and "sunday".
func ParseWeekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monday":
		return time.Monday, nil
	case "sunday":
		return time.Sunday, nil
	default:
		return time.Monday, fmt.Errorf("unsupported week start %q (want monday or sunday)", s)
	}
}

// UpcomingWeek computes the window for the week following the one that
// contains ref. The reference instant is interpreted in loc, advanced by
// WeekOffsetDays, and snapped back to the most recent weekStart. The
// window runs from that day at 00:00:00.000 to six days later at
// 23:59:59.999, both in loc.
//
// The function is pure: it never reads the clock.
func UpcomingWeek(ref time.Time, loc *time.Location, weekStart time.Weekday) Window {
	target := ref.In(loc).AddDate(0, 0, WeekOffsetDays)

	back := (int(target.Weekday()) - int(weekStart) + 7) % 7
	start := time.Date(target.Year(), target.Month(), target.Day()-back, 0, 0, 0, 0, loc)
	end := time.Date(start.Year(), start.Month(), start.Day()+6, 23, 59, 59, 999_000_000, loc)

	return Window{Start: start, End: end}
}
