package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/taskcal/internal/config"
	"github.com/existflow/taskcal/internal/logger"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show or change settings stored in ~/.taskcal/config.yaml.

Commands:
  taskcal config show                          # Print the effective settings
  taskcal config set-server http://host:5000   # Point at another task API`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server [url]",
	Short: "Set the task API base URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetServer,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetServerCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, _ := config.Path()
	refresh := cfg.RefreshSchedule
	if refresh == "" {
		refresh = "disabled"
	}
	w := out(cmd)
	fmt.Fprintf(w, "Config:         %s\n", path)
	fmt.Fprintf(w, "Server:         %s\n", cfg.ServerURL)
	fmt.Fprintf(w, "Timeout:        %s\n", cfg.RequestTimeout())
	fmt.Fprintf(w, "Confirm delete: %t\n", cfg.ConfirmDelete)
	fmt.Fprintf(w, "Auto refresh:   %s\n", refresh)
	fmt.Fprintf(w, "Week starts:    %s\n", weekStartLabel(cfg))
	fmt.Fprintf(w, "Log level:      %s\n", strings.ToUpper(cfg.LogLevel))
	fmt.Fprintf(w, "Log file:       %s\n", cfg.LogFile)
	return nil
}

func weekStartLabel(c *config.Config) string {
	if c.WeekStartsSunday() {
		return "sunday"
	}
	return "monday"
}

func runConfigSetServer(cmd *cobra.Command, args []string) error {
	stored, err := config.LoadFile()
	if err != nil {
		return err
	}
	stored.ServerURL = strings.TrimRight(strings.TrimSpace(args[0]), "/")
	if err := stored.Validate(); err != nil {
		return err
	}
	if err := stored.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cfg.ServerURL = stored.ServerURL

	logger.Info("Server changed", logger.F("server", stored.ServerURL))
	fmt.Fprintf(out(cmd), "✓ Server set to: %s\n", stored.ServerURL)
	return nil
}
