package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antiq-app/antiq/internal/api"
	"github.com/antiq-app/antiq/internal/dates"
)

// NewLoginCmd creates the login command. A successful sign-in stores the
// session token in the config file.
func NewLoginCmd() *cobra.Command {
	var server, email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an AntiQ server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if server != "" {
				cfg.ServerURL = server
			}
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			client := newClient(cfg)
			session, err := client.SignIn(cmd.Context(), email, password)
			if err != nil {
				if errors.Is(err, api.ErrNotAuthenticated) {
					return fmt.Errorf("invalid email or password")
				}
				return fmt.Errorf("sign in: %w", err)
			}

			cfg.Token = session.Token
			if err := saveConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (session valid until %s)\n",
				session.User.Email, dates.FormatDateTime(&session.ExpiresAt, false))
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "Server base URL (default from config file)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

// NewSignupCmd creates the signup command
func NewSignupCmd() *cobra.Command {
	var server, email, name, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if server != "" {
				cfg.ServerURL = server
			}
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			client := newClient(cfg)
			session, err := client.SignUp(cmd.Context(), email, password, name)
			if err != nil {
				return fmt.Errorf("sign up: %w", err)
			}

			cfg.Token = session.Token
			if err := saveConfig(cfg); err != nil {
				return err
			}
			fmt.Printf("Account created, logged in as %s\n", session.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "Server base URL (default from config file)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

// NewLogoutCmd creates the logout command. The server-side session is
// revoked and the stored token dropped either way.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := requireSession()
			if err != nil {
				return err
			}
			if err := client.SignOut(cmd.Context()); err != nil && !errors.Is(err, api.ErrNotAuthenticated) {
				return fmt.Errorf("sign out: %w", err)
			}
			cfg.Token = ""
			if err := saveConfig(cfg); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := requireSession()
			if err != nil {
				return err
			}
			user, err := client.CurrentUser(cmd.Context())
			if err != nil {
				if errors.Is(err, api.ErrNotAuthenticated) {
					return fmt.Errorf("session expired or revoked, run 'antiq login' again")
				}
				return fmt.Errorf("get current user: %w", err)
			}
			fmt.Printf("%s <%s> on %s\n", user.Name, user.Email, cfg.ServerURL)
			return nil
		},
	}
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}
