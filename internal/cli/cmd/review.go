package cmd

import (
	"fmt"

	"github.com/propmarket/backend/internal/cli/output"
	"github.com/spf13/cobra"
)

var flagStatus string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List listings for moderation (admins)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		properties, pagination, err := apiClient.AdminProperties(cmd.Context(), flagStatus, pageFlags())
		if err != nil {
			return fmt.Errorf("listing properties for review: %w", err)
		}
		printProperties(cmd, properties, pagination)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show the moderation history of a listing (admins)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		events, err := apiClient.History(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetching history: %w", err)
		}
		if flagJSON {
			output.JSON(cmd.OutOrStdout(), events)
			return nil
		}
		output.HistoryTable(cmd.OutOrStdout(), events)
		return nil
	},
}

func statusCommand(use, short, status, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			property, err := apiClient.SetStatus(cmd.Context(), args[0], status)
			if err != nil {
				return fmt.Errorf("updating status: %w", err)
			}
			if flagJSON {
				output.JSON(cmd.OutOrStdout(), property)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s.\n", verb, property.Title())
			return nil
		},
	}
}

func init() {
	reviewCmd.Flags().StringVar(&flagStatus, "status", "", "Filter by status: pending, approved, cancelled")
	reviewCmd.Flags().IntVar(&flagPage, "page", 0, "Page number")
	reviewCmd.Flags().IntVar(&flagLimit, "limit", 0, "Listings per page")

	rootCmd.AddCommand(
		reviewCmd,
		historyCmd,
		statusCommand("approve", "Approve a listing (admins)", "approved", "Approved"),
		statusCommand("reject", "Reject a listing (admins)", "cancelled", "Rejected"),
	)
}
