package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/schedulenudge/schedulenudge/internal/console"
	"github.com/schedulenudge/schedulenudge/internal/instrumentation"
	"github.com/schedulenudge/schedulenudge/internal/logging"
)

func newListenCmd() *cobra.Command {
	var configPath string
	var schedule string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Stay resident, answer bot commands and run digests on a schedule",
		Long: `Listen keeps the bot online. It answers Telegram commands (/status,
/preview and the admin mapping commands) and, when --schedule is set,
runs the digest pipeline on the given cron expression.

A Prometheus metrics endpoint is served on the configured listen
address while the bot is running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := setupRuntime(ctx, configPath)
			if err != nil {
				return err
			}
			defer rt.shutdown(context.Background())

			if err := rt.probe(ctx); err != nil {
				return err
			}

			if rt.provider.Enabled() {
				stopMetrics := startMetricsServer(rt)
				defer stopMetrics()
			}

			if schedule != "" {
				runner := cron.New()
				_, err := runner.AddFunc(schedule, func() {
					if err := rt.pipeline.run(ctx); err != nil {
						rt.logger.Error("scheduled digest run failed",
							logging.Err(err))
					}
				})
				if err != nil {
					return fmt.Errorf("invalid schedule %q: %w", schedule, err)
				}
				runner.Start()
				defer runner.Stop()
				rt.logger.Info("digest schedule active",
					logging.Operation("schedule"),
					logging.Status(logging.StatusSuccess))
			}

			bot := console.New(rt.telegram, rt.store, rt.fetcher, rt.formatter,
				rt.conf.AdminChatID, rt.conf.DefaultCalendarID, rt.loc,
				rt.weekStart, rt.logger)

			rt.logger.Info("bot online, polling for updates")
			bot.Run(ctx, rt.telegram.Updates())
			rt.telegram.StopPolling()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to the YAML configuration file")
	cmd.Flags().StringVarP(&schedule, "schedule", "s", "",
		"Cron expression for scheduled digest runs (e.g. \"0 18 * * 0\")")

	return cmd
}

// startMetricsServer serves the Prometheus scrape endpoint in the
// background and returns a function that shuts it down.
func startMetricsServer(rt *runtime) func() {
	endpoint := instrumentation.DefaultConfig().PrometheusEndpoint

	mux := http.NewServeMux()
	mux.Handle(endpoint, rt.provider.PrometheusHandler())

	server := &http.Server{
		Addr:              rt.conf.MetricsListen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		rt.logger.Info("metrics server listening",
			logging.Operation("metrics_server"),
			logging.Status(logging.StatusSuccess),
			slog.String("addr", rt.conf.MetricsListen))
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			rt.logger.Error("metrics server failed", logging.Err(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			rt.logger.Warn("failed to shut down metrics server",
				logging.Err(err))
		}
	}
}
