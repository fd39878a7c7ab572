// Package cli provides configuration management commands.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evermediavault/vault-admin/internal/api"
	"github.com/evermediavault/vault-admin/internal/config"
	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/models"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vault-admin configuration",
		Long: `Configuration management commands.

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  test  - Test backend connectivity
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigTestCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup.

The configuration is saved to ~/.config/vault-admin/config.
Use --force to overwrite an existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}

			if !force {
				if _, err := os.Stat(configPath); err == nil {
					fmt.Printf("Configuration already exists at: %s\n", configPath)
					fmt.Println("Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			fmt.Println("Evermediavault Configuration Setup")
			fmt.Println("==================================")
			fmt.Println()

			reader := bufio.NewReader(os.Stdin)

			var urlInput string
			for urlInput == "" {
				fmt.Print("Backend API base URL (required): ")
				input, _ := reader.ReadString('\n')
				urlInput = strings.TrimSpace(input)
				if urlInput == "" {
					fmt.Println("  Error: base URL is required")
				}
			}

			fmt.Printf("Max concurrent uploads [%d]: ", constants.DefaultUploadConcurrency)
			concurrentInput, _ := reader.ReadString('\n')
			concurrentInput = strings.TrimSpace(concurrentInput)
			maxConcurrent := constants.DefaultUploadConcurrency
			if concurrentInput != "" {
				if v, err := strconv.Atoi(concurrentInput); err == nil && v >= constants.MinUploadConcurrency && v <= constants.MaxUploadConcurrency {
					maxConcurrent = v
				} else {
					fmt.Printf("  Invalid value, using default %d\n", constants.DefaultUploadConcurrency)
				}
			}

			cfg := config.Default()
			cfg.BaseURL = urlInput
			cfg.MaxConcurrent = maxConcurrent

			if err := cfg.Save(configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Println()
			fmt.Printf("Configuration saved to: %s\n", configPath)
			fmt.Println("Run 'vault-admin config test' to verify connectivity.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Base URL:        %s\n", valueOrUnset(cfg.BaseURL))
			fmt.Printf("Max concurrent:  %d\n", cfg.MaxConcurrent)
			fmt.Printf("Data directory:  %s\n", valueOrUnset(cfg.DataDir))
			return nil
		},
	}
}

// newConfigTestCmd creates the 'config test' command.
func newConfigTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test backend connectivity",
		Long:  `Load the configuration and perform an unauthenticated list call against the backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			client, err := api.NewClient(cfg, nil)
			if err != nil {
				return err
			}

			// The file list is reachable without a session.
			if _, _, err := client.ListFiles(GetContext(), models.ListQuery{Page: 1, PageSize: 1}); err != nil {
				return fmt.Errorf("backend unreachable: %w", err)
			}

			fmt.Printf("OK: %s is reachable\n", cfg.BaseURL)
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			fmt.Println(path)
			return nil
		},
	}
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
