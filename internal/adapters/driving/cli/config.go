package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client settings",
	Long: `View and configure the backend connection, upload behaviour and UI.

Use subcommands to change specific settings.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configServerCmd = &cobra.Command{
	Use:   "server [url]",
	Short: "Set the backend URL",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigServer,
}

var configThemeCmd = &cobra.Command{
	Use:   "theme [name]",
	Short: "Set the UI theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTheme,
}

var configDropDirCmd = &cobra.Command{
	Use:   "drop-dir [path]",
	Short: "Set the watched drop directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigDropDir,
}

var configConcurrencyCmd = &cobra.Command{
	Use:   "concurrency [n]",
	Short: "Set how many uploads run at once",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigConcurrency,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configServerCmd)
	configCmd.AddCommand(configThemeCmd)
	configCmd.AddCommand(configDropDirCmd)
	configCmd.AddCommand(configConcurrencyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Base URL: %s\n", settings.Server.BaseURL)
	if settings.Server.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %.1f requests/second\n", settings.Server.RequestsPerSecond)
	} else {
		cmd.Printf("  Rate limit: unlimited\n")
	}
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Allowed types: %s\n", strings.Join(settings.Ingest.AllowedTypes, ", "))
	cmd.Printf("  Concurrency: %d\n", settings.Ingest.Concurrency)
	if settings.Ingest.DropDir != "" {
		cmd.Printf("  Drop directory: %s\n", settings.Ingest.DropDir)
	} else {
		cmd.Printf("  Drop directory: (not set)\n")
	}
	notify := "no"
	if settings.Ingest.NotifyRejections {
		notify = "yes"
	}
	cmd.Printf("  Notify rejections: %s\n", notify)
	cmd.Println()

	cmd.Println("[Ask]")
	cmd.Printf("  Query expansion: %s\n", onOff(settings.Ask.QueryExpansion))
	cmd.Printf("  HyDE: %s\n", onOff(settings.Ask.HyDE))
	cmd.Println()

	cmd.Println("[UI]")
	cmd.Printf("  Theme: %s\n", settings.UI.Theme.Description())

	return nil
}

func runConfigServer(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if len(args) == 0 {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		cmd.Printf("Backend URL: %s\n", settings.Server.BaseURL)
		return nil
	}

	if err := settingsService.SetServerURL(args[0]); err != nil {
		return fmt.Errorf("failed to set server URL: %w", err)
	}

	cmd.Printf("Backend URL set to %s\n", args[0])
	return nil
}

func runConfigTheme(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if len(args) == 0 {
		cmd.Println("Available themes:")
		for _, theme := range domain.AllThemes() {
			cmd.Printf("  %s - %s\n", theme, theme.Description())
		}
		return nil
	}

	theme := domain.Theme(strings.ToLower(args[0]))
	if err := settingsService.SetTheme(theme); err != nil {
		return fmt.Errorf("failed to set theme: %w", err)
	}

	cmd.Printf("Theme set to %s\n", theme)
	return nil
}

func runConfigDropDir(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if len(args) == 0 {
		if settings.Ingest.DropDir == "" {
			cmd.Println("No drop directory configured.")
		} else {
			cmd.Printf("Drop directory: %s\n", settings.Ingest.DropDir)
		}
		return nil
	}

	settings.Ingest.DropDir = args[0]
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Drop directory set to %s\n", args[0])
	return nil
}

func runConfigConcurrency(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if len(args) == 0 {
		cmd.Printf("Upload concurrency: %d\n", settings.Ingest.Concurrency)
		return nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("invalid concurrency %q: %w", args[0], domain.ErrInvalidInput)
	}

	settings.Ingest.Concurrency = n
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Upload concurrency set to %d\n", n)
	return nil
}

// onOff renders a toggle for display.
func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
