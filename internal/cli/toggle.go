package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/existflow/taskcal/internal/model"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:     "toggle [task-id]",
	Aliases: []string{"done"},
	Short:   "Advance a task's state",
	Long: `Move a task to its next state on the server:
pendiente -> en_progreso -> completada -> pendiente.

Examples:
  taskcal toggle 12
  taskcal done 12`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

var moveCmd = &cobra.Command{
	Use:   "move [task-id] [when]",
	Short: "Change a task's due date",
	Long: `Set a task's due date, keeping every other field.

Examples:
  taskcal move 12 2024-03-20
  taskcal move 12 "2024-03-20T15:30"`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func runToggle(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
	defer cancel()

	_, err = newController(printer(cmd)).SubmitToggleState(ctx, id)
	return err
}

func runMove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	when, err := parseWhen(args[1], time.Local)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
	defer cancel()

	ctrl := newController(printer(cmd))
	ev, err := ctrl.FindEvent(ctx, id)
	if err != nil {
		return err
	}
	return ctrl.OnEventMoved(ctx, ev, when)
}

// parseWhen reads a due date. A bare date is due at the default hour.
func parseWhen(s string, loc *time.Location) (time.Time, error) {
	t, err := model.Timestamp(s).Parse(loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
