package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/schedulenudge/schedulenudge/internal/google"
	"github.com/schedulenudge/schedulenudge/internal/logging"
)

// Client wraps the Google Calendar service with read-only access.
type Client struct {
	svc    *calendar.Service
	loc    *time.Location
	logger *slog.Logger
}

// NewClient creates a Calendar client authenticated with a
// service-account key. subject, when non-empty, is the calendar owner to
// impersonate via domain-wide delegation. All date-only values returned
// by the API are interpreted in loc.
func NewClient(ctx context.Context, serviceAccountKey []byte, subject string, loc *time.Location, logger *slog.Logger) (*Client, error) {
	ts, err := google.TokenSource(ctx, serviceAccountKey, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to build token source: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		svc:    svc,
		loc:    loc,
		logger: logging.WithComponent(logger, "calendar"),
	}, nil
}

// ListEvents lists events in a calendar overlapping the window, ordered
// by start time, with recurring events expanded to single occurrences.
// Cancelled events are still present in the result; filtering them is
// the fetcher's job.
func (c *Client) ListEvents(ctx context.Context, calendarID string, window Window) ([]Event, error) {
	call := c.svc.Events.List(calendarID).
		TimeMin(window.Start.Format(time.RFC3339)).
		TimeMax(window.End.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		TimeZone(c.loc.String()).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, toEvent(item, c.loc))
	}
	return events, nil
}

// GetCalendar retrieves metadata about a calendar. Used by the probe and
// as the cheapest authorization check against a calendar id.
func (c *Client) GetCalendar(ctx context.Context, calendarID string) (CalendarInfo, error) {
	cal, err := c.svc.Calendars.Get(calendarID).Context(ctx).Do()
	if err != nil {
		return CalendarInfo{}, fmt.Errorf("failed to get calendar: %w", err)
	}
	return CalendarInfo{ID: cal.Id, Summary: cal.Summary, TimeZone: cal.TimeZone}, nil
}

// Probe checks that the calendar is reachable and the service account is
// authorized to read it. Known error classes are logged with actionable
// hints; the caller decides whether to abort on false.
func (c *Client) Probe(ctx context.Context, calendarID string) bool {
	info, err := c.GetCalendar(ctx, calendarID)
	if err != nil {
		c.logger.Error("calendar connection failed",
			logging.Calendar(calendarID), logging.Err(err))

		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case 404:
				c.logger.Error("calendar not found; share the calendar with the service account or check the calendar id",
					logging.Calendar(calendarID))
			case 403:
				c.logger.Error("access denied; grant the service account read access to the calendar",
					logging.Calendar(calendarID))
			}
		}
		return false
	}

	c.logger.Info("calendar connection successful",
		logging.Calendar(calendarID), "summary", info.Summary)
	return true
}
