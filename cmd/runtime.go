package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schedulenudge/schedulenudge/internal/calendar"
	"github.com/schedulenudge/schedulenudge/internal/config"
	"github.com/schedulenudge/schedulenudge/internal/delivery"
	"github.com/schedulenudge/schedulenudge/internal/digest"
	"github.com/schedulenudge/schedulenudge/internal/groups"
	"github.com/schedulenudge/schedulenudge/internal/instrumentation"
	"github.com/schedulenudge/schedulenudge/internal/logging"
	"github.com/schedulenudge/schedulenudge/internal/telegram"
)

// runtime holds the wired-up application components shared by the send
// and listen commands.
type runtime struct {
	conf      *config.Config
	logger    *slog.Logger
	provider  *instrumentation.Provider
	telegram  *telegram.Client
	calendar  *calendar.Client
	store     *groups.Store
	fetcher   *calendar.Fetcher
	formatter *digest.Formatter
	loc       *time.Location
	weekStart time.Weekday
	pipeline  *pipeline
}

// setupRuntime loads configuration, installs logging and metrics and
// constructs the Telegram and Google Calendar clients.
func setupRuntime(ctx context.Context, configPath string) (*runtime, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.Setup(conf.LogLevel)

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := conf.Location()
	if err != nil {
		return nil, err
	}
	weekStart, err := conf.WeekStartDay()
	if err != nil {
		return nil, err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize instrumentation: %w", err)
	}
	metrics := provider.Metrics()

	tg, err := telegram.NewClient(conf.TelegramBotToken, logger)
	if err != nil {
		return nil, err
	}

	cal, err := calendar.NewClient(ctx, []byte(conf.GoogleServiceAccountKey),
		conf.CalendarOwnerEmail, loc, logger)
	if err != nil {
		return nil, err
	}

	store := groups.NewStore(logger)
	store.Load(conf.GroupMappings)

	fetcher := calendar.NewFetcher(cal, logger, metrics)
	formatter := digest.NewFormatter(loc)
	orchestrator := delivery.NewOrchestrator(tg, formatter, conf.AdminChatID,
		loc, logger, metrics)

	rt := &runtime{
		conf:      conf,
		logger:    logger,
		provider:  provider,
		telegram:  tg,
		calendar:  cal,
		store:     store,
		fetcher:   fetcher,
		formatter: formatter,
		loc:       loc,
		weekStart: weekStart,
		pipeline: &pipeline{
			store:             store,
			fetcher:           fetcher,
			orchestrator:      orchestrator,
			adminChatID:       conf.AdminChatID,
			defaultCalendarID: conf.DefaultCalendarID,
			loc:               loc,
			weekStart:         weekStart,
			logger:            logger,
			metrics:           metrics,
		},
	}
	return rt, nil
}

// probe verifies connectivity to both external services before any
// digest work starts.
func (rt *runtime) probe(ctx context.Context) error {
	if !rt.telegram.Probe() {
		return fmt.Errorf("telegram connectivity check failed")
	}
	if !rt.calendar.Probe(ctx, rt.conf.DefaultCalendarID) {
		return fmt.Errorf("google calendar connectivity check failed for %s",
			logging.RedactCalendarID(rt.conf.DefaultCalendarID))
	}
	return nil
}

func (rt *runtime) shutdown(ctx context.Context) {
	if err := rt.provider.Shutdown(ctx); err != nil {
		rt.logger.Warn("failed to shut down instrumentation", logging.Err(err))
	}
}
