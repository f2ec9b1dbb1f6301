package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/existflow/taskcal/internal/model"
	"github.com/existflow/taskcal/internal/sync"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, optionally filtered and sorted.

Examples:
  taskcal list
  taskcal list --state pendiente --priority alta
  taskcal list --from 2024-03-01 --to 2024-03-31 --sort priority --desc
  taskcal list --search report`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listFrom     string
	listTo       string
	listState    string
	listPriority string
	listCategory string
	listSearch   string
	listSort     string
	listDesc     bool
)

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "", "Only tasks created on or after this date")
	listCmd.Flags().StringVar(&listTo, "to", "", "Only tasks created on or before this date")
	listCmd.Flags().StringVarP(&listState, "state", "s", "", "Filter by state (pendiente, en_progreso, completada)")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Filter by priority (baja, media, alta)")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Filter by name substring")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort by created, name, priority or state")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort descending")
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter(time.Local)
	if err != nil {
		return err
	}
	spec, err := buildSort(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout())
	defer cancel()

	tasks, err := newController(printer(cmd)).Tasks(ctx, filter, spec)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out(cmd), "No tasks found. Add one with: taskcal add \"Your task\"")
		return nil
	}

	fmt.Fprintln(out(cmd), renderTasks(tasks, terminalWidth()))
	return nil
}

func buildFilter(loc *time.Location) (sync.Filter, error) {
	var f sync.Filter
	if listState != "" {
		s, ok := model.ParseState(listState)
		if !ok {
			return f, fmt.Errorf("unknown state %q", listState)
		}
		f.State = s
	}
	if listPriority != "" {
		p, ok := model.ParsePriority(listPriority)
		if !ok {
			return f, fmt.Errorf("unknown priority %q", listPriority)
		}
		f.Priority = p
	}
	f.Category = strings.TrimSpace(listCategory)
	f.Text = strings.TrimSpace(listSearch)

	if listFrom != "" {
		t, err := parseBound(listFrom, loc, false)
		if err != nil {
			return f, fmt.Errorf("invalid --from: %w", err)
		}
		f.CreatedFrom = t
	}
	if listTo != "" {
		t, err := parseBound(listTo, loc, true)
		if err != nil {
			return f, fmt.Errorf("invalid --to: %w", err)
		}
		f.CreatedTo = t
	}
	return f, nil
}

// parseBound reads a range bound. A bare date covers the whole day.
func parseBound(s string, loc *time.Location, end bool) (time.Time, error) {
	if day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc); err == nil {
		if end {
			return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
		}
		return day, nil
	}
	return model.Timestamp(s).Parse(loc)
}

func buildSort(cmd *cobra.Command) (sync.SortSpec, error) {
	field, err := sync.ParseSortField(listSort)
	if err != nil {
		return sync.SortSpec{}, err
	}
	// Newest first unless a field was picked
	if !cmd.Flags().Changed("sort") && !cmd.Flags().Changed("desc") {
		return sync.SortSpec{Field: field}, nil
	}
	return sync.SortSpec{Field: field, Asc: !listDesc}, nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	doneStyle   = cellStyle.Foreground(lipgloss.Color("#6c757d")).Strikethrough(true)
)

func renderTasks(tasks []model.Task, width int) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, taskRow(t))
	}

	done := make(map[int]bool, len(tasks))
	for i, t := range tasks {
		done[i] = t.IsCompleted()
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "CATEGORY", "PRIORITY", "STATE", "ESTIMATE", "DUE").
		Rows(rows...).
		Width(width).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if done[row] {
				return doneStyle
			}
			return cellStyle
		})
	return tbl.String()
}

func taskRow(t model.Task) []string {
	due := "-"
	if !t.DueAt.IsZero() {
		if parsed, err := t.DueAt.Parse(time.Local); err == nil {
			due = parsed.Format("Jan 2 15:04")
		} else {
			due = string(t.DueAt)
		}
	}
	category := t.Category
	if category == "" {
		category = "-"
	}
	return []string{
		t.ID.String(),
		t.Name,
		category,
		t.Priority.Label(),
		t.State.Label(),
		sync.FormatEstimate(t.EstimatedMinutes),
		due,
	}
}
