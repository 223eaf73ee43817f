package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedulenudge/schedulenudge/internal/calendar"
	"github.com/schedulenudge/schedulenudge/internal/digest"
	"github.com/schedulenudge/schedulenudge/internal/groups"
)

// fakeSender records sent messages and fails for chat ids in the fail set.
type fakeSender struct {
	sent map[int64]string
	fail map[int64]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(map[int64]string), fail: make(map[int64]error)}
}

func (s *fakeSender) SendMarkdown(chatID int64, body string) error {
	if err, ok := s.fail[chatID]; ok {
		return err
	}
	s.sent[chatID] = body
	return nil
}

const adminChat = int64(999)

func newTestOrchestrator(t *testing.T, sender Sender, admin int64) *Orchestrator {
	t.Helper()
	sg, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)

	o := NewOrchestrator(sender, digest.NewFormatter(sg), admin, sg, nil, nil)
	o.clock = func() time.Time {
		return time.Date(2025, 3, 9, 18, 30, 0, 0, sg)
	}
	return o
}

func weekFanout(t *testing.T) calendar.FanoutResult {
	t.Helper()
	sg, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	window := calendar.Window{
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, sg),
		End:   time.Date(2025, 3, 16, 23, 59, 59, 999_000_000, sg),
	}

	return calendar.FanoutResult{
		Results: []calendar.FetchResult{
			{
				CalendarID: "primary",
				Window:     window,
				Events: []calendar.Event{
					{
						Summary: "Standup",
						Start:   time.Date(2025, 3, 10, 9, 0, 0, 0, sg),
						End:     time.Date(2025, 3, 10, 9, 15, 0, 0, sg),
					},
				},
			},
			{CalendarID: "a@co.com", Window: window},
		},
		Errors: []calendar.FetchError{
			{CalendarID: "b@co.com", Message: "auth failed"},
		},
		SuccessCount: 2,
		ErrorCount:   1,
	}
}

func TestDeliverEmptyDestinationsIsNoOp(t *testing.T) {
	sender := newFakeSender()
	o := newTestOrchestrator(t, sender, adminChat)

	report := o.Deliver(context.Background(), nil, weekFanout(t))

	assert.Zero(t, report.SuccessCount)
	assert.Zero(t, report.ErrorCount)
	assert.Empty(t, report.Outcomes)
	assert.False(t, report.Report.Sent)
	assert.Empty(t, sender.sent, "nothing must be sent for an empty mapping")
}

func TestDeliverFanOut(t *testing.T) {
	sender := newFakeSender()
	o := newTestOrchestrator(t, sender, adminChat)

	destinations := []groups.Group{
		{ChatID: -100, CalendarID: "primary", Name: "Team A"},
		{ChatID: -200, CalendarID: "primary", Name: "Team B"},
		{ChatID: 300, CalendarID: "a@co.com", Name: "Direct"},
	}

	report := o.Deliver(context.Background(), destinations, weekFanout(t))

	assert.Equal(t, 3, report.SuccessCount)
	assert.Equal(t, 0, report.ErrorCount)
	require.Len(t, report.Outcomes, 3)

	// Each destination got a digest labeled with its own name.
	assert.Contains(t, sender.sent[-100], "Weekly Schedule Update - Team A")
	assert.Contains(t, sender.sent[-200], "Weekly Schedule Update - Team B")
	assert.Contains(t, sender.sent[300], "Weekly Schedule Update - Direct")

	// Destinations sharing a calendar see the same events.
	assert.Contains(t, sender.sent[-100], "Standup")
	assert.Contains(t, sender.sent[-200], "Standup")

	// The empty calendar renders the no-events template.
	assert.Contains(t, sender.sent[300], "Enjoy your free time!")

	assert.Equal(t, 1, report.Outcomes[0].EventCount)
	assert.Equal(t, 0, report.Outcomes[2].EventCount)

	// Diagnostic report reached the operator.
	assert.True(t, report.Report.Sent)
	assert.Contains(t, sender.sent[adminChat], "Admin Debug")
}

func TestDeliverMissingCalendarResultIsIsolated(t *testing.T) {
	sender := newFakeSender()
	o := newTestOrchestrator(t, sender, adminChat)

	destinations := []groups.Group{
		{ChatID: -100, CalendarID: "b@co.com", Name: "Broken"},
		{ChatID: -200, CalendarID: "primary", Name: "Healthy"},
	}

	report := o.Deliver(context.Background(), destinations, weekFanout(t))

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 1, report.ErrorCount)

	require.Len(t, report.Outcomes, 2)
	assert.False(t, report.Outcomes[0].Success)
	assert.Contains(t, report.Outcomes[0].Error, "no calendar data found for b@co.com")
	assert.True(t, report.Outcomes[1].Success, "failure for one destination must not block the next")

	_, sentToBroken := sender.sent[-100]
	assert.False(t, sentToBroken)
}

func TestDeliverSendFailureIsIsolated(t *testing.T) {
	sender := newFakeSender()
	sender.fail[-100] = fmt.Errorf("failed to send message: %w", &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"})
	o := newTestOrchestrator(t, sender, adminChat)

	destinations := []groups.Group{
		{ChatID: -100, CalendarID: "primary", Name: "Blocked"},
		{ChatID: -200, CalendarID: "primary", Name: "Fine"},
	}

	report := o.Deliver(context.Background(), destinations, weekFanout(t))

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, len(destinations), report.SuccessCount+report.ErrorCount)

	assert.False(t, report.Outcomes[0].Success)
	assert.True(t, report.Outcomes[0].RemovalCandidate)
	assert.True(t, report.Outcomes[1].Success)

	// The diagnostic report flags the blocked chat for cleanup.
	assert.Contains(t, sender.sent[adminChat], "removal candidate")
}

func TestDeliverReportFailureDoesNotEscalate(t *testing.T) {
	sender := newFakeSender()
	sender.fail[adminChat] = errors.New("admin unreachable")
	o := newTestOrchestrator(t, sender, adminChat)

	destinations := []groups.Group{
		{ChatID: -100, CalendarID: "primary", Name: "Team A"},
	}

	report := o.Deliver(context.Background(), destinations, weekFanout(t))

	assert.Equal(t, 1, report.SuccessCount)
	assert.False(t, report.Report.Sent)
	assert.Contains(t, report.Report.Error, "admin unreachable")
}

func TestDeliverNoAdminConfigured(t *testing.T) {
	sender := newFakeSender()
	o := newTestOrchestrator(t, sender, 0)

	destinations := []groups.Group{
		{ChatID: -100, CalendarID: "primary", Name: "Team A"},
	}

	report := o.Deliver(context.Background(), destinations, weekFanout(t))

	assert.Equal(t, 1, report.SuccessCount)
	assert.False(t, report.Report.Sent)
	assert.Contains(t, report.Report.Error, "no operator chat configured")
}

func TestDiagnosticReportSections(t *testing.T) {
	sg, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)

	outcomes := []Outcome{
		{ChatID: -100, Name: "Team A", CalendarID: "primary", Success: true, EventCount: 4},
		{ChatID: -200, Name: "Team B", CalendarID: "b@co.com", Success: false, Error: "no calendar data found for b@co.com"},
	}

	body := buildDiagnosticReport(outcomes, weekFanout(t), time.Date(2025, 3, 9, 18, 30, 0, 0, sg))

	// Fixed section order.
	sections := []string{
		"🔧 *Admin Debug: Weekly Update Summary*",
		"📅 *Calendar Fetch Results:*",
		"❌ *Calendar Errors:*",
		"📤 *Group Delivery Results:*",
		"✅ *Successful Deliveries:*",
		"❌ *Failed Deliveries:*",
		"⏰ *Summary completed at:*",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(body, s)
		require.NotEqual(t, -1, idx, "missing section %q", s)
		assert.Greater(t, idx, last, "section %q out of order", s)
		last = idx
	}

	assert.Contains(t, body, "• 2 calendars fetched successfully")
	assert.Contains(t, body, "• 1 calendars failed")
	assert.Contains(t, body, "• b@co.com: auth failed")
	assert.Contains(t, body, "• Team A: 4 events (primary)")
	assert.Contains(t, body, "• Team B: no calendar data found for b@co.com")
	assert.Contains(t, body, "9 Mar 2025, 6:30:00 PM")
}
