package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/schedulenudge/schedulenudge/internal/calendar"
)

// Formatter renders weekly digests in a fixed reference timezone.
type Formatter struct {
	loc *time.Location
}

// NewFormatter creates a Formatter rendering in loc.
func NewFormatter(loc *time.Location) *Formatter {
	return &Formatter{loc: loc}
}

// Format renders the digest body for one destination. label, when
// non-empty, is appended to the title line. Events are assumed to be
// pre-filtered for cancellation by the fetcher.
func (f *Formatter) Format(events []calendar.Event, window calendar.Window, label string) string {
	title := "📅 *Weekly Schedule Update*"
	if label != "" {
		title = fmt.Sprintf("📅 *Weekly Schedule Update - %s*", label)
	}
	dateRange := f.formatWeekDateRange(window)

	if len(events) == 0 {
		return fmt.Sprintf("%s\n%s\n\nYou have no events scheduled for the upcoming week. Enjoy your free time! 🎉", title, dateRange)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\nHere's what you have coming up this week:\n\n", title, dateRange)

	for _, day := range f.groupEventsByDay(events) {
		fmt.Fprintf(&b, "*%s*\n", day.name)
		for _, e := range day.events {
			fmt.Fprintf(&b, "• %s - %s\n", f.formatEventTime(e), e.Summary)
			if e.Location != "" {
				fmt.Fprintf(&b, "  📍 %s\n", e.Location)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Have a productive week ahead! 💪")
	return b.String()
}

type dayGroup struct {
	date   time.Time
	name   string
	events []calendar.Event
}

// groupEventsByDay buckets events by their calendar day in the reference
// timezone and sorts each bucket: all-day events first, keeping their
// relative order, then timed events ascending by start.
func (f *Formatter) groupEventsByDay(events []calendar.Event) []dayGroup {
	byDate := make(map[time.Time]*dayGroup)
	var order []time.Time

	for _, e := range events {
		local := e.Start.In(f.loc)
		date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, f.loc)
		g, ok := byDate[date]
		if !ok {
			g = &dayGroup{date: date, name: local.Weekday().String()}
			byDate[date] = g
			order = append(order, date)
		}
		g.events = append(g.events, e)
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	out := make([]dayGroup, 0, len(order))
	for _, date := range order {
		g := byDate[date]
		sort.SliceStable(g.events, func(i, j int) bool {
			a, b := g.events[i], g.events[j]
			if a.AllDay != b.AllDay {
				return a.AllDay
			}
			return a.Start.Before(b.Start)
		})
		out = append(out, *g)
	}
	return out
}

// formatEventTime renders the time column of an event line: "All day"
// for all-day events, otherwise a 12-hour-clock range in the reference
// timezone.
func (f *Formatter) formatEventTime(e calendar.Event) string {
	if e.AllDay {
		return "All day"
	}
	start := e.Start.In(f.loc).Format("3:04 PM")
	end := e.End.In(f.loc).Format("3:04 PM")
	return fmt.Sprintf("%s – %s", start, end)
}

// formatWeekDateRange renders the window's date range, collapsing the
// year when both ends share it.
func (f *Formatter) formatWeekDateRange(window calendar.Window) string {
	start := window.Start.In(f.loc)
	end := window.End.In(f.loc)

	if start.Year() == end.Year() {
		return fmt.Sprintf("*%s - %s, %d*", start.Format("Jan 2"), end.Format("Jan 2"), end.Year())
	}
	return fmt.Sprintf("*%s, %d - %s, %d*", start.Format("Jan 2"), start.Year(), end.Format("Jan 2"), end.Year())
}
