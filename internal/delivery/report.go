package delivery

import (
	"fmt"
	"strings"
	"time"

	"github.com/schedulenudge/schedulenudge/internal/calendar"
)

// buildDiagnosticReport renders the operator-facing run summary. Section
// order is fixed: fetch summary, calendar errors, delivery summary,
// successful deliveries, failed deliveries, completion timestamp.
func buildDiagnosticReport(outcomes []Outcome, fanout calendar.FanoutResult, completedAt time.Time) string {
	var b strings.Builder

	b.WriteString("🔧 *Admin Debug: Weekly Update Summary*\n\n")

	b.WriteString("📅 *Calendar Fetch Results:*\n")
	fmt.Fprintf(&b, "• %d calendars fetched successfully\n", fanout.SuccessCount)
	fmt.Fprintf(&b, "• %d calendars failed\n\n", fanout.ErrorCount)

	if len(fanout.Errors) > 0 {
		b.WriteString("❌ *Calendar Errors:*\n")
		for _, e := range fanout.Errors {
			fmt.Fprintf(&b, "• %s: %s\n", e.CalendarID, e.Message)
		}
		b.WriteString("\n")
	}

	var succeeded, failed []Outcome
	for _, o := range outcomes {
		if o.Success {
			succeeded = append(succeeded, o)
		} else {
			failed = append(failed, o)
		}
	}

	b.WriteString("📤 *Group Delivery Results:*\n")
	fmt.Fprintf(&b, "• %d groups received updates\n", len(succeeded))
	fmt.Fprintf(&b, "• %d groups failed\n\n", len(failed))

	if len(succeeded) > 0 {
		b.WriteString("✅ *Successful Deliveries:*\n")
		for _, o := range succeeded {
			fmt.Fprintf(&b, "• %s: %d events (%s)\n", o.Name, o.EventCount, o.CalendarID)
		}
		b.WriteString("\n")
	}

	if len(failed) > 0 {
		b.WriteString("❌ *Failed Deliveries:*\n")
		for _, o := range failed {
			if o.RemovalCandidate {
				fmt.Fprintf(&b, "• %s: %s (removal candidate)\n", o.Name, o.Error)
			} else {
				fmt.Fprintf(&b, "• %s: %s\n", o.Name, o.Error)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "⏰ *Summary completed at:* %s", completedAt.Format("2 Jan 2006, 3:04:05 PM"))

	return b.String()
}
