package calendar

import (
	"context"
	"log/slog"
	"time"

	"github.com/schedulenudge/schedulenudge/internal/instrumentation"
	"github.com/schedulenudge/schedulenudge/internal/logging"
)

// EventLister is the calendar capability the fetcher consumes. *Client
// implements it; tests substitute fakes.
type EventLister interface {
	ListEvents(ctx context.Context, calendarID string, window Window) ([]Event, error)
}

// FetchResult is the outcome of fetching one calendar for one window.
// Either Events/Window are populated, or Err is set.
type FetchResult struct {
	CalendarID string
	Events     []Event
	Window     Window
	Err        error
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// FetchError describes one failed calendar fetch inside a fan-out.
type FetchError struct {
	CalendarID string
	Message    string
}

// FanoutResult aggregates the per-calendar outcomes of one fetch pass.
type FanoutResult struct {
	Results      []FetchResult
	Errors       []FetchError
	SuccessCount int
	ErrorCount   int
}

// AllFailed reports whether every requested calendar failed. At least
// one calendar must have been requested.
func (f FanoutResult) AllFailed() bool {
	return f.ErrorCount > 0 && f.SuccessCount == 0
}

// ResultFor returns the successful fetch result for a calendar id.
func (f FanoutResult) ResultFor(calendarID string) (FetchResult, bool) {
	for _, r := range f.Results {
		if r.CalendarID == calendarID {
			return r, true
		}
	}
	return FetchResult{}, false
}

// Fetcher retrieves events for a set of calendars with per-calendar
// failure isolation.
type Fetcher struct {
	lister  EventLister
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewFetcher creates a Fetcher. metrics may be nil.
func NewFetcher(lister EventLister, logger *slog.Logger, metrics *instrumentation.Metrics) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		lister:  lister,
		logger:  logging.WithComponent(logger, "fetcher"),
		metrics: metrics,
	}
}

// FetchWindow fetches one calendar for the window. Errors from the
// calendar capability are captured in the result rather than returned,
// so one bad calendar cannot abort a multi-calendar pass. Cancelled
// events are filtered out here; downstream components never see them.
func (f *Fetcher) FetchWindow(ctx context.Context, calendarID string, window Window) FetchResult {
	started := time.Now()

	raw, err := f.lister.ListEvents(ctx, calendarID, window)
	if err != nil {
		f.metrics.RecordCalendarFetch(ctx, instrumentation.ResultError, time.Since(started))
		f.logger.Error("failed to fetch calendar events",
			logging.Calendar(calendarID), logging.Err(err))
		return FetchResult{CalendarID: calendarID, Err: err}
	}

	events := make([]Event, 0, len(raw))
	for _, e := range raw {
		if e.Cancelled {
			continue
		}
		events = append(events, e)
	}

	f.metrics.RecordCalendarFetch(ctx, instrumentation.ResultSuccess, time.Since(started))
	f.logger.Info("fetched calendar events",
		logging.Calendar(calendarID), "events", len(events))

	return FetchResult{CalendarID: calendarID, Events: events, Window: window}
}

// FetchMany fetches every calendar id for the window. Calendars are
// independent: a failure contributes an entry to Errors and never
// affects the other fetches. Partial success is a normal return; callers
// check AllFailed to decide whether to escalate.
func (f *Fetcher) FetchMany(ctx context.Context, calendarIDs []string, window Window) FanoutResult {
	var out FanoutResult

	for _, id := range calendarIDs {
		res := f.FetchWindow(ctx, id, window)
		if res.OK() {
			out.Results = append(out.Results, res)
			out.SuccessCount++
			continue
		}
		out.Errors = append(out.Errors, FetchError{
			CalendarID: id,
			Message:    res.Err.Error(),
		})
		out.ErrorCount++
	}

	f.logger.Info("calendar fetch pass completed",
		"requested", len(calendarIDs),
		"succeeded", out.SuccessCount,
		"failed", out.ErrorCount)

	return out
}
