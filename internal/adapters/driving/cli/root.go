// Package cli implements the command line interface for the assistant.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shashanksh04/RAG-Assistant/internal/core/ports/driving"
	"github.com/shashanksh04/RAG-Assistant/internal/logger"
)

// version is overridden at build time via ldflags.
var version = "dev"

// Services backing the commands, injected by the composition root.
var (
	ingestService    driving.Ingestor
	assistantService driving.Assistant
	settingsService  driving.SettingsService
)

// Services groups the driving ports the CLI depends on.
type Services struct {
	Ingestor  driving.Ingestor
	Assistant driving.Assistant
	Settings  driving.SettingsService
}

// SetServices wires the commands to their backing services.
func SetServices(services Services) {
	ingestService = services.Ingestor
	assistantService = services.Assistant
	settingsService = services.Settings
}

// SetVersion records the binary version for the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Ask questions about your documents from the terminal",
	Long: `A terminal client for the document assistant.

Upload PDF documents into the assistant's knowledge base, then ask
questions about them in plain language. Answers come back grounded in
the uploaded documents, with page-level citations.

Run without arguments to see available commands, or start the
interactive terminal UI with 'assistant tui'.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verboseFlag)
	},
}

// verboseFlag enables debug logging on stderr.
var verboseFlag bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"print debug logging to stderr")
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
