package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/propmarket/backend/internal/cli/config"
	"github.com/propmarket/backend/pkg/client"
	"github.com/spf13/cobra"
)

var (
	flagJSON      bool
	flagServerURL string

	cfg       *config.Config
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "propctl",
	Short: "Browse and moderate property listings from the terminal",
	Long: `propctl talks to a property marketplace server.

Get started:
  propctl login --email you@example.com   Sign in (prompts for a password)
  propctl ls                              Browse approved listings
  propctl review --status pending         Moderation queue (admins)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagServerURL != "" {
			cfg.ServerURL = flagServerURL
		}
		apiClient, err = client.New(cfg.ServerURL)
		if err != nil {
			return err
		}
		apiClient.SetSession(cfg.Session)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return saveSession()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Override server URL (default: from config or http://localhost:8080)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, client.ErrSessionExpired) {
			_ = saveSession()
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// saveSession persists cookies that changed during the command, such as a
// refreshed access token.
func saveSession() error {
	if cfg == nil || apiClient == nil {
		return nil
	}
	session := apiClient.Session()
	if session == cfg.Session {
		return nil
	}
	cfg.Session = session
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func requireAuth() error {
	if cfg == nil || !cfg.LoggedIn() {
		return fmt.Errorf("not authenticated, run \"propctl login\" first")
	}
	return nil
}
