package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schedulenudge/schedulenudge/internal/config"
	"github.com/schedulenudge/schedulenudge/internal/groups"
	"github.com/schedulenudge/schedulenudge/internal/logging"
)

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Inspect the chat/calendar mapping",
	}

	cmd.AddCommand(newGroupsListCmd())
	cmd.AddCommand(newGroupsExportCmd())

	return cmd
}

// loadStore builds a mapping store from the configured mapping without
// requiring the full credential set.
func loadStore(configPath string) (*groups.Store, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.Setup(conf.LogLevel)

	store := groups.NewStore(logger)
	store.Load(conf.GroupMappings)
	return store, nil
}

func newGroupsListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the configured chat/calendar mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(configPath)
			if err != nil {
				return err
			}

			if store.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chats mapped.")
				return nil
			}

			for _, g := range store.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n",
					g.ChatID, g.CalendarID, g.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to the YAML configuration file")

	return cmd
}

func newGroupsExportCmd() *cobra.Command {
	var configPath string
	var raw bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the mapping as the encoded configuration value",
		Long: `Export prints the mapping in the encoded form expected by the
GROUP_CALENDAR_MAPPINGS setting. Use --json to print the decoded JSON
instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(configPath)
			if err != nil {
				return err
			}

			export, err := store.ExportSnapshot()
			if err != nil {
				return err
			}

			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), export.JSON)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), export.Base64)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to the YAML configuration file")
	cmd.Flags().BoolVar(&raw, "json", false,
		"Print the decoded JSON instead of the base64 value")

	return cmd
}
