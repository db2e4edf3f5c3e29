package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"clinicterm/cmd/clinicterm/ui"
	"clinicterm/internal/clinic"
	"clinicterm/internal/config"
	"clinicterm/internal/logging"
)

var (
	// Global flags
	cfgPath     string
	serverURL   string
	timeoutFlag time.Duration
	verbose     bool

	cfg     *config.Config
	backend *clinic.Client
)

// rootCmd represents the base command. Run without arguments it starts the
// interactive interface.
var rootCmd = &cobra.Command{
	Use:   "clinicterm",
	Short: "clinicterm - terminal client for the clinic records backend",
	Long: `clinicterm is a terminal client for the clinic patient records backend.

It manages patient records and their visit histories over the backend's
REST API. Run without arguments to start the interactive interface; the
subcommands cover one-shot scripted use.`,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath())
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	if timeoutFlag > 0 {
		cfg.Server.Timeout = timeoutFlag.String()
	}
	if verbose {
		cfg.Logging.Level = "debug"
		if cfg.Logging.File == "" {
			// One-shot commands may log to the terminal; the TUI owns it
			// and keeps logging file-only.
			cfg.Logging.File = "stderr"
		}
	}

	if err := logging.Initialize(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("clinicterm starting (server=%s)", cfg.Server.BaseURL)

	backend = clinic.NewClientWithConfig(clinic.Config{
		BaseURL: cfg.Server.BaseURL,
		Timeout: cfg.GetTimeout(),
	})
	return nil
}

func configPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.DefaultPath()
}

// runInteractive starts the TUI with the config watcher attached so log
// level changes take effect without a restart.
func runInteractive(ctx context.Context) error {
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher, err := config.NewWatcher(configPath(), func(fresh *config.Config) {
		logging.SetLevel(fresh.Logging.Level)
	})
	if err == nil {
		if err := watcher.Start(watchCtx); err == nil {
			defer watcher.Stop()
		}
	}

	app := ui.NewApp(ui.Options{
		Backend:        backend,
		SearchDebounce: cfg.GetSearchDebounce(),
		Theme:          cfg.UI.Theme,
	})
	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// confirmOnTerminal asks for a y/N answer on stdin. Used by the delete
// subcommands when --yes was not passed.
func confirmOnTerminal(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: OS config dir)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "request timeout (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
