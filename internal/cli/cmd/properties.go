package cmd

import (
	"fmt"

	"github.com/propmarket/backend/internal/cli/output"
	"github.com/propmarket/backend/pkg/client"
	"github.com/spf13/cobra"
)

var (
	flagPage  int
	flagLimit int
)

func pageFlags() *client.Page {
	if flagPage == 0 && flagLimit == 0 {
		return nil
	}
	return &client.Page{Page: flagPage, Limit: flagLimit}
}

func printProperties(cmd *cobra.Command, properties []client.Property, pagination *client.Pagination) {
	w := cmd.OutOrStdout()
	if flagJSON {
		output.JSON(w, properties)
		return
	}
	output.PropertyTable(w, properties)
	if pagination != nil {
		fmt.Fprintf(w, "\nPage %d of %d (%d total)\n", pagination.Page, pagination.TotalPages, pagination.Total)
	}
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		user, err := apiClient.Me(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching user: %w", err)
		}
		if flagJSON {
			output.JSON(cmd.OutOrStdout(), user)
			return nil
		}
		output.UserInfo(cmd.OutOrStdout(), *user)
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List approved listings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		properties, pagination, err := apiClient.Properties(cmd.Context(), pageFlags())
		if err != nil {
			return fmt.Errorf("listing properties: %w", err)
		}
		printProperties(cmd, properties, pagination)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one listing with its features",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		property, err := apiClient.Property(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetching property: %w", err)
		}
		if flagJSON {
			output.JSON(cmd.OutOrStdout(), property)
			return nil
		}
		output.PropertyDetail(cmd.OutOrStdout(), *property)
		return nil
	},
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own listings and their interests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		properties, pagination, err := apiClient.MyProperties(cmd.Context(), pageFlags())
		if err != nil {
			return fmt.Errorf("listing your properties: %w", err)
		}
		if flagJSON {
			output.JSON(cmd.OutOrStdout(), properties)
			return nil
		}
		printProperties(cmd, properties, pagination)
		for _, p := range properties {
			if len(p.Interests) == 0 {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nInterests for %s:\n", p.Title())
			output.InterestTable(cmd.OutOrStdout(), p.Interests)
		}
		return nil
	},
}

var (
	flagInterestName    string
	flagInterestPhone   string
	flagInterestMessage string
)

var interestCmd = &cobra.Command{
	Use:   "interest <property-id>",
	Short: "Send an enquiry about a listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client.InterestRequest{
			Name:       flagInterestName,
			Phone:      flagInterestPhone,
			PropertyID: args[0],
		}
		if flagInterestMessage != "" {
			req.Message = &flagInterestMessage
		}
		interest, err := apiClient.SubmitInterest(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("sending interest: %w", err)
		}
		if flagJSON {
			output.JSON(cmd.OutOrStdout(), interest)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Interest sent. The owner will be in touch.")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{lsCmd, mineCmd} {
		c.Flags().IntVar(&flagPage, "page", 0, "Page number")
		c.Flags().IntVar(&flagLimit, "limit", 0, "Listings per page")
	}
	interestCmd.Flags().StringVar(&flagInterestName, "name", "", "Your name")
	interestCmd.Flags().StringVar(&flagInterestPhone, "phone", "", "Your phone number")
	interestCmd.Flags().StringVar(&flagInterestMessage, "message", "", "Optional message for the owner")

	rootCmd.AddCommand(whoamiCmd, lsCmd, showCmd, mineCmd, interestCmd)
}
