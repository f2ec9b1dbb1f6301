package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/existflow/taskcal/internal/model"
	"github.com/existflow/taskcal/internal/sync"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task by its ID.

Examples:
  taskcal delete 12
  taskcal rm 12 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteYes bool

// errNotTerminal is returned when a delete needs confirmation but stdin
// cannot answer
var errNotTerminal = errors.New("refusing to delete without confirmation: stdin is not a terminal (use --yes)")

// isTerminal is replaced in tests
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var confirm sync.Confirmer
	if !deleteYes && cfg.ConfirmDelete {
		if !isTerminal() {
			return errNotTerminal
		}
		confirm = promptConfirmer(cmd.InOrStdin(), out(cmd))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
	defer cancel()

	err = newController(printer(cmd)).SubmitDelete(ctx, id, confirm)
	if errors.Is(err, sync.ErrCancelled) {
		fmt.Fprintln(out(cmd), "Cancelled.")
		return nil
	}
	return err
}

// promptConfirmer asks on w and reads a y/N answer from r
func promptConfirmer(r io.Reader, w io.Writer) sync.Confirmer {
	reader := bufio.NewReader(r)
	return sync.ConfirmFunc(func(ctx context.Context, prompt string) bool {
		fmt.Fprintf(w, "%s [y/N]: ", prompt)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(answer)
		return answer == "y" || answer == "Y"
	})
}

// parseID accepts any non-empty id
func parseID(s string) (model.TaskID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("task id is required")
	}
	return model.TaskID(s), nil
}
