package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Event is the normalized internal representation of a calendar event.
// An event is either timed (Start and End are instants) or all-day
// (Start and End are local midnights in the reference timezone and
// AllDay is set). Classification follows the API shape: a date-only
// start always means all-day, regardless of the end representation.
type Event struct {
	ID        string
	Summary   string
	Location  string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Cancelled bool
}

// Window is the half-open-by-construction range covering one target
// week: Start is the first weekday at 00:00:00.000 and End is the last
// weekday at 23:59:59.999 in the reference timezone.
type Window struct {
	Start time.Time
	End   time.Time
}

// CalendarInfo describes a calendar, as returned by the metadata probe.
type CalendarInfo struct {
	ID       string
	Summary  string
	TimeZone string
}

// toEvent converts a raw API event into the normalized form. Date-only
// values are interpreted in loc so that day bucketing downstream agrees
// with the reference timezone.
func toEvent(e *calendar.Event, loc *time.Location) Event {
	if e == nil {
		return Event{}
	}

	out := Event{
		ID:        e.Id,
		Summary:   e.Summary,
		Location:  e.Location,
		Cancelled: e.Status == "cancelled",
	}

	if e.Start != nil {
		if e.Start.Date != "" {
			out.AllDay = true
			if t, err := time.ParseInLocation("2006-01-02", e.Start.Date, loc); err == nil {
				out.Start = t
			}
		} else if e.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, e.Start.DateTime); err == nil {
				out.Start = t
			}
		}
	}

	if e.End != nil {
		if e.End.Date != "" {
			if t, err := time.ParseInLocation("2006-01-02", e.End.Date, loc); err == nil {
				out.End = t
			}
		} else if e.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, e.End.DateTime); err == nil {
				out.End = t
			}
		}
	}

	return out
}
