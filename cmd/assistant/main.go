// Command assistant is the terminal client for the document assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driven/api"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driven/config/file"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driven/notify"
	"github.com/shashanksh04/RAG-Assistant/internal/adapters/driving/cli"
	"github.com/shashanksh04/RAG-Assistant/internal/core/services"
)

// Version is set during build via ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	backend := api.NewClient(api.Config{
		BaseURL:           settings.Server.BaseURL,
		RequestsPerSecond: settings.Server.RequestsPerSecond,
	})

	// One hub serves both the upload workers and the TUI event loop.
	uploads := notify.NewHub(notify.DefaultBuffer)
	ingestor := services.NewIngestionService(backend, backend, uploads, settings.Ingest)
	assistant := services.NewAssistantService(backend, settings.Ask)

	cli.SetVersion(Version)
	cli.SetServices(cli.Services{
		Ingestor:  ingestor,
		Assistant: assistant,
		Settings:  settingsService,
	})
	cli.SetTUIConfig(&cli.TUIConfig{
		Ingestor:  ingestor,
		Assistant: assistant,
		Settings:  settingsService,
		Uploads:   uploads,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx)
}
