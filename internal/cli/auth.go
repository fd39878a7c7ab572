// Package cli provides authentication commands.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newLoginCmd creates the 'login' command.
func newLoginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Authenticate against the media-vault backend",
		Long: `Authenticate with admin credentials and persist the session.

The token and user profile are stored together under the data
directory; subsequent commands reuse them until logout or expiry.

Examples:
  vault-admin login admin
  vault-admin login             # prompts for username`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				username = args[0]
			}
			if username == "" {
				fmt.Print("Username: ")
				reader := bufio.NewReader(os.Stdin)
				input, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read username: %w", err)
				}
				username = strings.TrimSpace(input)
			}
			if username == "" {
				return fmt.Errorf("username is required")
			}

			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			client, sess, err := newAPIClient()
			if err != nil {
				return err
			}

			data, err := sess.Login(GetContext(), client, username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Printf("Logged in as %s (%s)\n", data.User.Username, data.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Admin username")

	return cmd
}

// newLogoutCmd creates the 'logout' command.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Long:  `Remove the stored token and user profile. Safe to run when already logged out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sess, err := newSession(cfg)
			if err != nil {
				return err
			}

			sess.Logout()
			fmt.Println("Logged out.")
			return nil
		},
	}
}

// newWhoamiCmd creates the 'whoami' command.
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sess, err := newSession(cfg)
			if err != nil {
				return err
			}

			user := sess.User()
			if user == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("Username: %s\n", user.Username)
			fmt.Printf("Role:     %s\n", user.Role)
			fmt.Printf("Admin:    %v\n", user.IsAdmin())
			return nil
		},
	}
}

// readPassword reads a password without echoing when stdin is a
// terminal, falling back to a plain line read when it is not (pipes,
// scripts).
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(input, "\r\n"), nil
}
