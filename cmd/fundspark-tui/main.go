package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fundspark/pkg/auth"
	"fundspark/pkg/backend"
	"fundspark/pkg/config"
	"fundspark/pkg/logging"
	"fundspark/pkg/tui"
	"fundspark/pkg/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, nil))
}

// run starts the terminal front end and returns the process exit code. A nil
// start runs the bubbletea program on the terminal.
func run(args []string, stdout io.Writer, start func(tea.Model) error) int {
	fs := flag.NewFlagSet("fundspark-tui", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configPath := fs.String("config", "config.yaml", "path to the YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stdout, "Alas, there's been an error: %v\n", err)
		return 1
	}

	// the terminal belongs to bubbletea, so logs go to a file or nowhere
	logger := logging.Discard()
	if cfg.TUI.LogFile != "" {
		f, err := os.OpenFile(cfg.TUI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(stdout, "Alas, there's been an error: %v\n", err)
			return 1
		}
		defer f.Close()
		logger = logging.NewWithWriter(f, cfg.AppEnv, cfg.LogLevel).With().Str("service", "fundspark-tui").Logger()
	}

	identity, err := auth.NewIdentity(auth.NewFileStore(identityPath(cfg, logger)))
	if err != nil {
		fmt.Fprintf(stdout, "Alas, there's been an error: %v\n", err)
		return 1
	}

	client, err := backend.NewClient(backend.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.BackendTimeout(),
		Logger:  &logger,
	})
	if err != nil {
		fmt.Fprintf(stdout, "Alas, there's been an error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.New(ctx, tui.Options{
		Backend:  client,
		Identity: identity,
		Counter: views.Counter{
			Target:   cfg.Home.CounterTarget,
			Steps:    cfg.Home.CounterSteps,
			Interval: cfg.CounterInterval(),
		},
		Logger: logger,
	})

	if start == nil {
		start = func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		}
	}
	if err := start(model); err != nil {
		logger.Error().Err(err).Msg("program exited")
		fmt.Fprintf(stdout, "Alas, there's been an error: %v\n", err)
		return 1
	}
	return 0
}

func identityPath(cfg *config.Config, logger zerolog.Logger) string {
	if cfg.TUI.IdentityFile != "" {
		return cfg.TUI.IdentityFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		logger.Warn().Err(err).Msg("no user config dir, keeping identity in the working directory")
		return "identity.yaml"
	}
	return filepath.Join(dir, "fundspark", "identity.yaml")
}
