package cli

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/taskcal/internal/api"
	"github.com/existflow/taskcal/internal/config"
	"github.com/existflow/taskcal/internal/logger"
	"github.com/existflow/taskcal/internal/notify"
	"github.com/existflow/taskcal/internal/sync"
	"github.com/existflow/taskcal/internal/tui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	logLevel   string
	logFile    string
	logConsole bool
)

// cfg is loaded once per invocation by the root pre-run hook
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "taskcal",
	Short: "taskcal - Terminal calendar for your tasks",
	Long: `taskcal shows the tasks of a task API on a week calendar and lets
you create, edit, move and complete them.

Run 'taskcal' without arguments to launch the interactive calendar.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Only file values and flags are saved; the environment applies to
		// this run alone
		stored, err := config.LoadFile()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			stored = config.DefaultConfig()
		}
		configChanged := applyFlags(cmd, stored)

		loaded := *stored
		loaded.ApplyEnv()
		applyFlags(cmd, &loaded) // Flags win over the environment

		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := stored.Validate(); err != nil {
				logger.Warn("Not saving invalid config", logger.F("error", err))
			} else if err := stored.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}
		cfg = &loaded

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("taskcal started", logger.F("command", cmd.Name()), logger.F("server", cfg.ServerURL))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		notices := notify.NewChannel(16)
		ctrl := newController(notify.Multi{notify.Log{}, notices})

		m := tui.NewModel(ctrl, notices, tui.Options{
			SundayFirst: cfg.WeekStartsSunday(),
			Location:    time.Local,
			Timeout:     cfg.RequestTimeout(),
		})
		ctrl.Attach(m.Refresher())

		auto, err := sync.NewAutoRefresh(cfg.RefreshSchedule, m.Refresher())
		if err != nil {
			return err
		}
		auto.Start()
		defer auto.Stop()

		logger.Info("Launching calendar")
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("taskcal exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// applyFlags copies persistent flags that were set into c and reports
// whether any were
func applyFlags(cmd *cobra.Command, c *config.Config) bool {
	changed := false
	if cmd.Flags().Changed("server") {
		c.ServerURL = serverURL
		changed = true
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = logLevel
		changed = true
	}
	if cmd.Flags().Changed("log-file") {
		c.LogFile = logFile
		changed = true
	}
	if cmd.Flags().Changed("log-console") {
		c.LogConsole = logConsole
		changed = true
	}
	return changed
}

// newController builds a controller for the configured server
func newController(n notify.Notifier) *sync.Controller {
	client := api.NewClient(cfg.ServerURL, cfg.RequestTimeout())
	return sync.NewController(client, n, sync.WithLocation(time.Local))
}

// printer writes command feedback to the command's stdout
func printer(cmd *cobra.Command) notify.Notifier {
	return notify.Multi{notify.Log{}, notify.NewPrinter(cmd.OutOrStdout())}
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Task API base URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(configCmd)
}
