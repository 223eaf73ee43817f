package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrResult   = "result"
	attrCalendar = "calendar_domain"
)

// Metrics provides methods for recording pipeline metrics. The zero
// value is a no-op recorder, returned when instrumentation is disabled.
type Metrics struct {
	calendarFetchesTotal  metric.Int64Counter
	calendarFetchDuration metric.Float64Histogram
	deliveriesTotal       metric.Int64Counter
	reportSendsTotal      metric.Int64Counter
	runsTotal             metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all instruments registered
// on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.calendarFetchesTotal, err = meter.Int64Counter(
		"calendar_fetches_total",
		metric.WithDescription("Total number of calendar fetch attempts"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_fetches_total counter: %w", err)
	}

	m.calendarFetchDuration, err = meter.Float64Histogram(
		"calendar_fetch_duration_seconds",
		metric.WithDescription("Calendar fetch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_fetch_duration_seconds histogram: %w", err)
	}

	m.deliveriesTotal, err = meter.Int64Counter(
		"digest_deliveries_total",
		metric.WithDescription("Total number of per-destination digest delivery attempts"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest_deliveries_total counter: %w", err)
	}

	m.reportSendsTotal, err = meter.Int64Counter(
		"diagnostic_report_sends_total",
		metric.WithDescription("Total number of operator diagnostic report send attempts"),
		metric.WithUnit("{send}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create diagnostic_report_sends_total counter: %w", err)
	}

	m.runsTotal, err = meter.Int64Counter(
		"pipeline_runs_total",
		metric.WithDescription("Total number of digest pipeline runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline_runs_total counter: %w", err)
	}

	return m, nil
}

// RecordCalendarFetch records one calendar fetch attempt.
func (m *Metrics) RecordCalendarFetch(ctx context.Context, result string, duration time.Duration) {
	if m == nil || m.calendarFetchesTotal == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(attrResult, result))
	m.calendarFetchesTotal.Add(ctx, 1, attrs)
	m.calendarFetchDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDelivery records one per-destination delivery attempt.
func (m *Metrics) RecordDelivery(ctx context.Context, result string) {
	if m == nil || m.deliveriesTotal == nil {
		return
	}
	m.deliveriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordReportSend records one diagnostic report send attempt.
func (m *Metrics) RecordReportSend(ctx context.Context, result string) {
	if m == nil || m.reportSendsTotal == nil {
		return
	}
	m.reportSendsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordRun records the outcome of a full pipeline run.
func (m *Metrics) RecordRun(ctx context.Context, result string) {
	if m == nil || m.runsTotal == nil {
		return
	}
	m.runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}
