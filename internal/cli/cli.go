// Package cli implements taskctl, the command-line face of the task store.
package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MihkelHunter/mkPlanner/internal/todo"
	"github.com/MihkelHunter/mkPlanner/internal/view"
)

// Opener opens the store named by a config path and returns its closer.
type Opener func(configPath string) (*todo.Store, func() error, error)

type env struct {
	open       Opener
	now        func() time.Time
	configPath string
	store      *todo.Store
	close      func() error
}

// NewRootCmd builds the taskctl command tree.
func NewRootCmd(open Opener, now func() time.Time) *cobra.Command {
	e := &env{open: open, now: now}

	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Plan tasks by date, time and priority",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			st, closeFn, err := e.open(e.configPath)
			if err != nil {
				return err
			}
			e.store, e.close = st, closeFn
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.close == nil {
				return nil
			}
			return e.close()
		},
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mktodo/config.yaml)")

	root.AddCommand(
		e.addCmd(),
		e.listCmd(),
		e.doneCmd(),
		e.rmCmd(),
		e.moveCmd(),
		e.statsCmd(),
		e.calendarCmd(),
		e.chartCmd(),
	)
	return root
}

// Warning returns the user-facing message for err, if it is a validation failure.
func Warning(err error) (string, bool) {
	var verr *todo.ValidationError
	if errors.As(err, &verr) {
		return verr.Warning(), true
	}
	return "", false
}

func (e *env) addCmd() *cobra.Command {
	var date, clock, priority string
	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a task",
		Long: `Add a task with a description, date, time and priority.

Date and time default to now.

Examples:
  taskctl add "Buy milk" --date 2025-01-10 --time 09:00 --priority low
  taskctl add Ship the release --priority high
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defDate, defTime := todo.DefaultSchedule(e.now())
			if !cmd.Flags().Changed("date") {
				date = defDate
			}
			if !cmd.Flags().Changed("time") {
				clock = defTime
			}
			p, err := todo.ParsePriority(priority)
			if err != nil {
				return err
			}
			t, err := e.store.Add(strings.Join(args, " "), date, clock, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", t.ID, rowLabel(t))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&clock, "time", "", "time as HH:MM")
	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "low, medium or high")
	return cmd
}

func (e *env) listCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list [filter]",
		Aliases: []string{"ls"},
		Short:   "List tasks ordered by date and time",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			rows := view.List(e.store, filter)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}
			for _, r := range rows {
				mark := " "
				if r.Task.Completed {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %-15d %s (%s)\n", mark, r.Task.ID, r.Label, r.Task.Priority)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func (e *env) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <task_id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task between open and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := e.store.Toggle(id); err != nil {
				return err
			}
			if t, ok := e.store.Get(id); ok {
				state := "open"
				if t.Completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d is %s\n", id, state)
			}
			return nil
		},
	}
}

func (e *env) rmCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <task_id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task after confirmation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			confirm := func(todo.Task) bool { return true }
			if !yes {
				confirm = promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			removed, err := e.store.Delete(id, confirm)
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func promptConfirm(in io.Reader, out io.Writer) todo.ConfirmFunc {
	return func(t todo.Task) bool {
		fmt.Fprintf(out, "Are you sure you want to delete this task? %q [y/N] ", t.Description)
		line, _ := bufio.NewReader(in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func (e *env) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <task_id> <date>",
		Short: "Move a task to another day, keeping its time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := view.Drop(e.store, view.DragPayload{TaskID: id}, view.Day{Date: args[1]}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d moved to %s\n", id, args[1])
			return nil
		},
	}
}

func (e *env) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the completion dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), view.Dashboard(e.store.All()))
			return nil
		},
	}
}

func (e *env) calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Show this month's tasks day by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := view.Calendar(e.store.All(), e.now())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d\n", m.Month, m.Year)
			for _, d := range m.Days {
				if len(d.Entries) == 0 {
					continue
				}
				fmt.Fprintf(out, "%2d  %s\n", d.Number, d.Entries[0].Label)
				for _, en := range d.Entries[1:] {
					fmt.Fprintf(out, "    %s\n", en.Label)
				}
			}
			return nil
		},
	}
}

func (e *env) chartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "Show completed and total tasks per date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			(&textChart{w: cmd.OutOrStdout()}).Render(view.Chart(e.store.All()))
			return nil
		},
	}
}

// textChart renders view.ChartData as horizontal bars.
type textChart struct {
	w io.Writer
}

var _ view.ChartRenderer = (*textChart)(nil)

func (c *textChart) Render(data view.ChartData) {
	if len(data.Labels) == 0 {
		fmt.Fprintln(c.w, "No tasks.")
		return
	}
	fmt.Fprintf(c.w, "# = %s, . = remaining of %s\n", view.SeriesCompleted, view.SeriesTotal)
	for i, label := range data.Labels {
		done, total := data.Completed[i], data.Total[i]
		bar := strings.Repeat("#", done) + strings.Repeat(".", total-done)
		fmt.Fprintf(c.w, "%s %-20s %d/%d\n", label, bar, done, total)
	}
}

func rowLabel(t todo.Task) string {
	return fmt.Sprintf("%s %s - %s", t.Date, t.Time, t.Description)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID: %s", s)
	}
	return id, nil
}
