package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schedulenudge/schedulenudge/internal/calendar"
	"github.com/schedulenudge/schedulenudge/internal/digest"
	"github.com/schedulenudge/schedulenudge/internal/groups"
	"github.com/schedulenudge/schedulenudge/internal/instrumentation"
	"github.com/schedulenudge/schedulenudge/internal/logging"
	"github.com/schedulenudge/schedulenudge/internal/telegram"
)

// Orchestrator delivers the weekly digest to every configured
// destination and reports the aggregate outcome to the operator.
type Orchestrator struct {
	sender      Sender
	formatter   *digest.Formatter
	adminChatID int64
	loc         *time.Location
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	clock       func() time.Time
}

// NewOrchestrator creates an Orchestrator. adminChatID of zero disables
// the diagnostic report. metrics may be nil.
func NewOrchestrator(sender Sender, formatter *digest.Formatter, adminChatID int64, loc *time.Location, logger *slog.Logger, metrics *instrumentation.Metrics) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		sender:      sender,
		formatter:   formatter,
		adminChatID: adminChatID,
		loc:         loc,
		logger:      logging.WithComponent(logger, "delivery"),
		metrics:     metrics,
		clock:       time.Now,
	}
}

// Deliver sends each destination its digest, resolved from the fetch
// fan-out by calendar id. Destinations are independent: any failure is
// recorded in that destination's outcome and the loop continues. An
// empty destination list is a deliberate no-op, not an error.
func (o *Orchestrator) Deliver(ctx context.Context, destinations []groups.Group, fanout calendar.FanoutResult) RunReport {
	if len(destinations) == 0 {
		o.logger.Info("no destinations configured, skipping deliveries")
		return RunReport{
			Report: ReportOutcome{Sent: false, Error: "no destinations configured"},
		}
	}

	o.logger.Info("delivering weekly digests", "destinations", len(destinations))

	report := RunReport{}
	for _, dest := range destinations {
		outcome := o.deliverOne(ctx, dest, fanout)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Success {
			report.SuccessCount++
		} else {
			report.ErrorCount++
		}
	}

	report.Report = o.sendDiagnosticReport(ctx, report.Outcomes, fanout)

	o.logger.Info("delivery pass completed",
		"succeeded", report.SuccessCount,
		"failed", report.ErrorCount)

	return report
}

func (o *Orchestrator) deliverOne(ctx context.Context, dest groups.Group, fanout calendar.FanoutResult) Outcome {
	outcome := Outcome{
		ChatID:     dest.ChatID,
		Name:       dest.Name,
		CalendarID: dest.CalendarID,
	}

	res, ok := fanout.ResultFor(dest.CalendarID)
	if !ok {
		outcome.Error = fmt.Sprintf("no calendar data found for %s", dest.CalendarID)
		o.metrics.RecordDelivery(ctx, instrumentation.ResultError)
		o.logger.Error("no calendar data for destination",
			logging.Chat(dest.ChatID), logging.Calendar(dest.CalendarID))
		return outcome
	}

	body := o.formatter.Format(res.Events, res.Window, dest.Name)
	if err := o.sender.SendMarkdown(dest.ChatID, body); err != nil {
		outcome.Error = err.Error()
		outcome.RemovalCandidate = telegram.IsPermanentDeliveryError(err)
		o.metrics.RecordDelivery(ctx, instrumentation.ResultError)
		o.logger.Error("failed to deliver digest",
			logging.Chat(dest.ChatID), logging.Err(err),
			"removal_candidate", outcome.RemovalCandidate)
		return outcome
	}

	outcome.Success = true
	outcome.EventCount = len(res.Events)
	o.metrics.RecordDelivery(ctx, instrumentation.ResultSuccess)
	o.logger.Info("delivered digest",
		logging.Chat(dest.ChatID), "events", outcome.EventCount)

	return outcome
}

// sendDiagnosticReport builds the operator summary and attempts to send
// it. A send failure here is recorded and logged but never escalates.
func (o *Orchestrator) sendDiagnosticReport(ctx context.Context, outcomes []Outcome, fanout calendar.FanoutResult) ReportOutcome {
	if o.adminChatID == 0 {
		o.logger.Info("no operator chat configured, skipping diagnostic report")
		return ReportOutcome{Sent: false, Error: "no operator chat configured"}
	}

	body := buildDiagnosticReport(outcomes, fanout, o.clock().In(o.loc))
	if err := o.sender.SendMarkdown(o.adminChatID, body); err != nil {
		o.metrics.RecordReportSend(ctx, instrumentation.ResultError)
		o.logger.Error("failed to send diagnostic report",
			logging.Chat(o.adminChatID), logging.Err(err))
		return ReportOutcome{Sent: false, Error: err.Error()}
	}

	o.metrics.RecordReportSend(ctx, instrumentation.ResultSuccess)
	o.logger.Info("diagnostic report sent", logging.Chat(o.adminChatID))
	return ReportOutcome{Sent: true}
}
