package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/taskcal/internal/validate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new task",
	Long: `Add a new task.

Examples:
  taskcal add "Buy groceries"
  taskcal add "Quarterly report" -p alta --due 2024-03-15
  taskcal add "Call plumber" -c Home -e 30 --due "2024-03-15T14:00"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Long: `Replace the fields given as flags, keeping the rest.

Examples:
  taskcal edit 12 --name "Quarterly report v2"
  taskcal edit 12 -p media --due 2024-03-20
  taskcal edit 12 --estimate ""`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

// taskFlags holds the form fields shared by add and edit
type taskFlags struct {
	name     string
	category string
	priority string
	estimate string
	due      string
	state    string
}

var (
	addFlags  taskFlags
	editFlags taskFlags
)

func (tf *taskFlags) register(fs *pflag.FlagSet, withName bool) {
	if withName {
		fs.StringVarP(&tf.name, "name", "n", "", "Task name")
	}
	fs.StringVarP(&tf.category, "category", "c", "", "Category")
	fs.StringVarP(&tf.priority, "priority", "p", "", "Priority (baja, media, alta)")
	fs.StringVarP(&tf.estimate, "estimate", "e", "", "Estimated minutes")
	fs.StringVarP(&tf.due, "due", "d", "", "Due date (2006-01-02 or 2006-01-02T15:04)")
	fs.StringVarP(&tf.state, "state", "s", "", "State (pendiente, en_progreso, completada)")
}

// apply overrides the fields whose flags were set
func (tf *taskFlags) apply(fs *pflag.FlagSet, f *validate.FormFields) {
	if fs.Changed("name") {
		f.Name = tf.name
	}
	if fs.Changed("category") {
		f.Category = tf.category
	}
	if fs.Changed("priority") {
		f.Priority = tf.priority
	}
	if fs.Changed("estimate") {
		f.Estimate = tf.estimate
	}
	if fs.Changed("due") {
		f.DueAt = tf.due
	}
	if fs.Changed("state") {
		f.State = tf.state
	}
}

func init() {
	addFlags.register(addCmd.Flags(), false)
	editFlags.register(editCmd.Flags(), true)
}

func runAdd(cmd *cobra.Command, args []string) error {
	fields := validate.FormFields{Name: strings.Join(args, " ")}
	addFlags.apply(cmd.Flags(), &fields)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
	defer cancel()

	task, err := newController(printer(cmd)).SubmitCreate(ctx, fields)
	if err != nil {
		return err
	}
	if task != nil {
		fmt.Fprintf(out(cmd), "  id: %s\n", task.ID)
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
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

	fields := validate.FromEvent(ev)
	editFlags.apply(cmd.Flags(), &fields)

	_, err = ctrl.SubmitUpdate(ctx, id, fields)
	return err
}
