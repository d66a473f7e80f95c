package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/antiq-app/antiq/internal/calendar"
	"github.com/antiq-app/antiq/internal/dates"
	"github.com/antiq-app/antiq/internal/filter"
	"github.com/antiq-app/antiq/internal/models"
)

var weekdayHeaders = []string{"Mo", "Di", "Mi", "Do", "Fr", "Sa", "So"}

// NewCalCmd creates the cal command. The persisted category filter from the
// user's preferences applies, matching what the web client shows.
func NewCalCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:       "cal [day|week|month]",
		Short:     "Show tasks on a calendar",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"day", "week", "month"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			mode := calendar.ModeMonth
			if len(args) == 1 {
				mode = calendar.Mode(args[0])
			}

			ref := time.Now()
			if date != "" {
				parsed, err := time.ParseInLocation(dueDateLayout, date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q, expected %s", date, dueDateLayout)
				}
				ref = parsed
			}

			tasks, err := client.ListTasks(ctx)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			prefs, err := client.GetPreferences(ctx)
			if err != nil {
				return fmt.Errorf("get preferences: %w", err)
			}

			visible := filter.Visible(derefTasks(tasks), filter.Config{
				View:        filter.ViewCalendar,
				CategoryIDs: prefs.FilterCategories,
				Now:         time.Now(),
			})

			switch mode {
			case calendar.ModeDay:
				renderDay(visible, ref)
			case calendar.ModeWeek:
				renderWeek(visible, ref)
			case calendar.ModeMonth:
				renderMonth(visible, ref)
			default:
				return fmt.Errorf("invalid mode %q, expected day, week, or month", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Reference date (02.01.2006, default today)")
	return cmd
}

func renderDay(tasks []models.Task, day time.Time) {
	fmt.Printf("%s, %s\n", weekdayHeaders[weekdayIndex(day)], dates.FormatDate(day))
	dayTasks := calendar.TasksOn(tasks, day)
	if len(dayTasks) == 0 {
		fmt.Println("  No tasks.")
		return
	}
	for _, task := range dayTasks {
		fmt.Printf("  %s\n", taskLine(task))
	}
}

func renderWeek(tasks []models.Task, ref time.Time) {
	days := calendar.WeekDays(ref)
	fmt.Printf("Week of %s\n", dates.FormatDate(days[0]))
	for i, day := range days {
		dayTasks := calendar.TasksOn(tasks, day)
		fmt.Printf("\n%s %s\n", weekdayHeaders[i], dates.FormatDate(day))
		if len(dayTasks) == 0 {
			fmt.Println("  -")
			continue
		}
		for _, task := range dayTasks {
			fmt.Printf("  %s\n", taskLine(task))
		}
	}
}

// renderMonth prints the fixed six-row grid, one "dd(n)" cell per day with
// the task count. Days outside the month render dimmed with a dot.
func renderMonth(tasks []models.Task, ref time.Time) {
	fmt.Printf("%s %d\n", ref.Month(), ref.Year())
	fmt.Println(strings.Join(padCells(weekdayHeaders), " "))

	cells := calendar.MonthGrid(ref)
	for row := 0; row < calendar.GridSize/7; row++ {
		line := make([]string, 7)
		for col := 0; col < 7; col++ {
			cell := cells[row*7+col]
			count := len(calendar.TasksOn(tasks, cell.Date))
			switch {
			case !cell.InMonth:
				line[col] = "."
			case count > 0:
				line[col] = fmt.Sprintf("%d(%d)", cell.Date.Day(), count)
			default:
				line[col] = fmt.Sprintf("%d", cell.Date.Day())
			}
		}
		fmt.Println(strings.Join(padCells(line), " "))
	}
}

func taskLine(task models.Task) string {
	if task.AllDay {
		return fmt.Sprintf("%-10s %s", "Ganztägig", task.Title)
	}
	return fmt.Sprintf("%-10s %s", dates.FormatTime(*task.DueAt), task.Title)
}

// weekdayIndex maps time.Weekday to the Monday-first header index.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func padCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = fmt.Sprintf("%-6s", cell)
	}
	return out
}
