package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedulenudge/schedulenudge/internal/calendar"
)

func sgLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	return loc
}

func marchWindow(t *testing.T) calendar.Window {
	sg := sgLocation(t)
	return calendar.Window{
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, sg),
		End:   time.Date(2025, 3, 16, 23, 59, 59, 999_000_000, sg),
	}
}

func TestFormatEmptyWeek(t *testing.T) {
	f := NewFormatter(sgLocation(t))
	got := f.Format(nil, marchWindow(t), "")

	want := "📅 *Weekly Schedule Update*\n" +
		"*Mar 10 - Mar 16, 2025*\n\n" +
		"You have no events scheduled for the upcoming week. Enjoy your free time! 🎉"
	assert.Equal(t, want, got)
}

func TestFormatIncludesDestinationLabel(t *testing.T) {
	f := NewFormatter(sgLocation(t))
	got := f.Format(nil, marchWindow(t), "Platform Team")

	assert.True(t, strings.HasPrefix(got, "📅 *Weekly Schedule Update - Platform Team*\n"))
}

func TestFormatAllDayBeforeTimed(t *testing.T) {
	sg := sgLocation(t)
	f := NewFormatter(sg)

	events := []calendar.Event{
		{
			Summary: "Design review",
			Start:   time.Date(2025, 3, 10, 14, 0, 0, 0, sg),
			End:     time.Date(2025, 3, 10, 15, 0, 0, 0, sg),
		},
		{
			Summary: "Company holiday",
			Start:   time.Date(2025, 3, 10, 0, 0, 0, 0, sg),
			End:     time.Date(2025, 3, 11, 0, 0, 0, 0, sg),
			AllDay:  true,
		},
	}

	got := f.Format(events, marchWindow(t), "")

	allDayIdx := strings.Index(got, "• All day - Company holiday")
	timedIdx := strings.Index(got, "• 2:00 PM – 3:00 PM - Design review")
	require.NotEqual(t, -1, allDayIdx)
	require.NotEqual(t, -1, timedIdx)
	assert.Less(t, allDayIdx, timedIdx, "all-day events must render before timed events")

	assert.Contains(t, got, "*Monday*")
	assert.True(t, strings.HasSuffix(got, "Have a productive week ahead! 💪"))
}

func TestFormatTimedEventsSortedByStart(t *testing.T) {
	sg := sgLocation(t)
	f := NewFormatter(sg)

	events := []calendar.Event{
		{
			Summary: "Late sync",
			Start:   time.Date(2025, 3, 11, 16, 0, 0, 0, sg),
			End:     time.Date(2025, 3, 11, 17, 0, 0, 0, sg),
		},
		{
			Summary: "Early standup",
			Start:   time.Date(2025, 3, 11, 9, 0, 0, 0, sg),
			End:     time.Date(2025, 3, 11, 9, 15, 0, 0, sg),
		},
	}

	got := f.Format(events, marchWindow(t), "")
	assert.Less(t, strings.Index(got, "Early standup"), strings.Index(got, "Late sync"))
}

func TestFormatDayBucketingUsesReferenceTimezone(t *testing.T) {
	sg := sgLocation(t)
	f := NewFormatter(sg)

	// 20:00 Monday UTC is 04:00 Tuesday in Singapore; the event must
	// land under Tuesday.
	events := []calendar.Event{
		{
			Summary: "Overnight deploy",
			Start:   time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC),
			End:     time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC),
		},
	}

	got := f.Format(events, marchWindow(t), "")
	assert.Contains(t, got, "*Tuesday*")
	assert.NotContains(t, got, "*Monday*")
	assert.Contains(t, got, "• 4:00 AM – 5:00 AM - Overnight deploy")
}

func TestFormatLocationLine(t *testing.T) {
	sg := sgLocation(t)
	f := NewFormatter(sg)

	events := []calendar.Event{
		{
			Summary:  "Offsite",
			Location: "Marina Bay",
			Start:    time.Date(2025, 3, 12, 10, 0, 0, 0, sg),
			End:      time.Date(2025, 3, 12, 12, 0, 0, 0, sg),
		},
	}

	got := f.Format(events, marchWindow(t), "")
	assert.Contains(t, got, "• 10:00 AM – 12:00 PM - Offsite\n  📍 Marina Bay\n")
}

func TestFormatDaysInChronologicalOrder(t *testing.T) {
	sg := sgLocation(t)
	f := NewFormatter(sg)

	events := []calendar.Event{
		{
			Summary: "Friday retro",
			Start:   time.Date(2025, 3, 14, 16, 0, 0, 0, sg),
			End:     time.Date(2025, 3, 14, 17, 0, 0, 0, sg),
		},
		{
			Summary: "Monday kickoff",
			Start:   time.Date(2025, 3, 10, 9, 0, 0, 0, sg),
			End:     time.Date(2025, 3, 10, 10, 0, 0, 0, sg),
		},
	}

	got := f.Format(events, marchWindow(t), "")
	assert.Less(t, strings.Index(got, "*Monday*"), strings.Index(got, "*Friday*"))
}

func TestFormatWeekDateRangeAcrossYears(t *testing.T) {
	sg := sgLocation(t)
	f := NewFormatter(sg)

	window := calendar.Window{
		Start: time.Date(2025, 12, 29, 0, 0, 0, 0, sg),
		End:   time.Date(2026, 1, 4, 23, 59, 59, 999_000_000, sg),
	}

	got := f.Format(nil, window, "")
	assert.Contains(t, got, "*Dec 29, 2025 - Jan 4, 2026*")
}
