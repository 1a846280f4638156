package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/propmarket/backend/internal/cli/config"
	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `Sign in and store the session cookies in the user config directory.

  propctl login --email you@example.com
  echo "$PASSWORD" | propctl login --email you@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagEmail == "" {
			return fmt.Errorf("--email is required")
		}
		password := flagPassword
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		user, err := apiClient.Login(cmd.Context(), flagEmail, password)
		if err != nil {
			return fmt.Errorf("logging in: %w", err)
		}

		cfg.Email = user.Email
		cfg.Session = apiClient.Session()
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Name, user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.LoggedIn() {
			_ = apiClient.Logout(cmd.Context())
		}
		if err := config.Clear(); err != nil {
			return fmt.Errorf("clearing config: %w", err)
		}
		cfg.Session = apiClient.Session()
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "Account password (read from stdin when omitted)")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
