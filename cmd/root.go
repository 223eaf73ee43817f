package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "schedulenudge",
	Short: "Deliver weekly Google Calendar digests to Telegram chats",
	Long: `schedulenudge fetches the upcoming week's events from Google Calendar
and delivers a formatted digest to the Telegram chats mapped to each
calendar. It can run as a one-shot batch job or stay resident,
answering bot commands and running the digest on a schedule.`,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func Execute() error {
	// Default to the send command when invoked without arguments so the
	// binary works as a bare cron job target.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "send")
	}

	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newListenCmd())
	rootCmd.AddCommand(newGroupsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd.Execute()
}
