package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driven/notify"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/tui"
	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
)

// TUIConfig holds configuration for the TUI command.
type TUIConfig struct {
	Ingestor  driving.Ingestor
	Assistant driving.Assistant
	Settings  driving.SettingsService
	Uploads   *notify.Hub
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for the assistant.

The TUI provides a chat view for asking questions about your documents,
an upload manager for the corpus, and a voice view for spoken questions.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Send / Select
  Tab      - Switch focus
  Esc      - Back
  ctrl+c   - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Build ports from configuration
	ports := &tui.Ports{}

	if tuiConfig != nil {
		ports.Ingestor = tuiConfig.Ingestor
		ports.Assistant = tuiConfig.Assistant
		ports.Settings = tuiConfig.Settings
		ports.Uploads = tuiConfig.Uploads
	}

	// Create the TUI app
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Set up context from command
	app.WithContext(cmd.Context())

	// Kick off the startup corpus fetch so the documents view opens
	// populated. Start is asynchronous and idempotent.
	ports.Ingestor.Start(cmd.Context())

	// Create and run the bubbletea program
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
