package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schedulenudge/schedulenudge/internal/calendar"
	"github.com/schedulenudge/schedulenudge/internal/delivery"
	"github.com/schedulenudge/schedulenudge/internal/groups"
	"github.com/schedulenudge/schedulenudge/internal/instrumentation"
	"github.com/schedulenudge/schedulenudge/internal/logging"
)

// pipeline wires one digest run: compute the week window, fan out the
// calendar fetches and hand the results to the delivery orchestrator.
type pipeline struct {
	store             *groups.Store
	fetcher           *calendar.Fetcher
	orchestrator      *delivery.Orchestrator
	adminChatID       int64
	defaultCalendarID string
	loc               *time.Location
	weekStart         time.Weekday
	logger            *slog.Logger
	metrics           *instrumentation.Metrics

	clock func() time.Time
}

func (p *pipeline) now() time.Time {
	if p.clock != nil {
		return p.clock()
	}
	return time.Now()
}

// run executes one digest cycle. It returns an error only when every
// calendar fetch failed; individual delivery failures are reported to
// the operator chat instead of failing the run.
func (p *pipeline) run(ctx context.Context) error {
	window := calendar.UpcomingWeek(p.now(), p.loc, p.weekStart)
	p.logger.Info("starting digest run",
		slog.String("window_start", window.Start.Format(time.RFC3339)),
		slog.String("window_end", window.End.Format(time.RFC3339)))

	destinations := p.store.List()
	calendarIDs := p.store.UniqueCalendarIDs()

	// With no chats mapped, fall back to notifying the operator chat from
	// the default calendar so a fresh deployment still produces output.
	if len(destinations) == 0 && p.adminChatID != 0 {
		p.logger.Info("no chats mapped, sending digest to operator chat",
			logging.Chat(p.adminChatID))
		destinations = []groups.Group{{
			ChatID:     p.adminChatID,
			CalendarID: p.defaultCalendarID,
			Name:       "Admin",
		}}
		calendarIDs = []string{p.defaultCalendarID}
	}

	fanout := p.fetcher.FetchMany(ctx, calendarIDs, window)
	if fanout.AllFailed() {
		p.metrics.RecordRun(ctx, instrumentation.ResultError)
		return fmt.Errorf("all %d calendar fetches failed", fanout.ErrorCount)
	}

	report := p.orchestrator.Deliver(ctx, destinations, fanout)
	p.logger.Info("digest run complete",
		slog.Int("delivered", report.SuccessCount),
		slog.Int("failed", report.ErrorCount),
		slog.Bool("report_sent", report.Report.Sent))

	p.metrics.RecordRun(ctx, instrumentation.ResultSuccess)
	return nil
}
