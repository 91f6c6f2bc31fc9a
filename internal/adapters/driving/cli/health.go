package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the backend connection",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			cmd.Printf("Backend: %s\n", settings.Server.BaseURL)
		}
	}

	if err := assistantService.Health(cmd.Context()); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	cmd.Println("Backend is healthy.")
	return nil
}
