// cmd/budgetbook/main.go
//
// This is the entry point for the budgetbook terminal client.
//
// Flow:
// 1. Resolve the config directory and make sure it exists
// 2. Open the diagnostics log and the API client
// 3. Launch the TUI
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/budgetbook/internal/api"
	"github.com/kingrea/budgetbook/internal/config"
	"github.com/kingrea/budgetbook/internal/logging"
	"github.com/kingrea/budgetbook/internal/session"
	"github.com/kingrea/budgetbook/internal/tui"
)

func main() {
	apiURL := flag.String("api", "", "backend base URL (overrides the configured one for this run)")
	setAPI := flag.String("set-api", "", "backend base URL, written to the config file")
	flag.Parse()

	dir, err := config.ResolveDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving config directory: %v\n", err)
		os.Exit(1)
	}
	if err := config.Init(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing %s: %v\n", dir, err)
		os.Exit(1)
	}
	cfg, err := config.New(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *setAPI != "" {
		if err := cfg.SetBaseURL(*setAPI); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving base URL: %v\n", err)
			os.Exit(1)
		}
	}

	log, logFile, err := logging.Open(cfg.DiagnosticsPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	baseURL := cfg.BaseURL()
	if *apiURL != "" {
		baseURL = *apiURL
	}
	client := api.NewClient(baseURL, api.WithLogger(log))

	// There is no login flow yet; the TUI runs against a mock session.
	sess := session.NewMock()

	app, err := tui.NewApp(cfg, client, sess)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting budgetbook: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("tui exited with error", "err", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
