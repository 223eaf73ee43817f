package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newSendCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Fetch the upcoming week's events and deliver digests",
		Long: `Send runs one digest cycle: it verifies connectivity to Telegram and
Google Calendar, fetches the upcoming week's events for every mapped
calendar and delivers a formatted digest to each mapped chat. A summary
of the run is sent to the operator chat when one is configured.

The command exits non-zero when a connectivity check fails or when
every calendar fetch failed. Individual delivery failures are reported
but do not fail the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := setupRuntime(ctx, configPath)
			if err != nil {
				return err
			}
			defer rt.shutdown(ctx)

			if err := rt.probe(ctx); err != nil {
				return err
			}

			return rt.pipeline.run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to the YAML configuration file")

	return cmd
}
