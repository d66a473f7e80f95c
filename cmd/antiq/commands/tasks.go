package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/antiq-app/antiq/internal/dates"
	"github.com/antiq-app/antiq/internal/filter"
	"github.com/antiq-app/antiq/internal/models"
)

// NewTasksCmd creates the tasks command with its subcommands
func NewTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksAddCmd())
	cmd.AddCommand(newTasksShowCmd())
	cmd.AddCommand(newTasksDoneCmd())
	cmd.AddCommand(newTasksSnoozeCmd())
	cmd.AddCommand(newTasksCommentCmd())
	cmd.AddCommand(newTasksRmCmd())
	return cmd
}

func newTasksListCmd() *cobra.Command {
	var status, category, due, search string
	var today, untimed bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  "List tasks. Without flags, all dated tasks are shown; --today and --untimed switch the view.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if today && untimed {
				return fmt.Errorf("--today and --untimed are mutually exclusive")
			}

			cfg := filter.Config{
				View:  filter.ViewAll,
				Query: search,
				Now:   time.Now(),
			}
			if today {
				cfg.View = filter.ViewToday
			}
			if untimed {
				cfg.View = filter.ViewUntimed
			}

			switch status {
			case "", "all":
				cfg.Status = models.FilterStatusAll
			case "open", "snoozed", "completed":
				cfg.Status = models.FilterStatus(status)
			default:
				return fmt.Errorf("invalid --status %q, expected open, snoozed, completed, or all", status)
			}

			switch due {
			case "":
				cfg.DueRange = models.FilterDueAll
			case "today", "week", "overdue", "all":
				cfg.DueRange = models.FilterDueRange(due)
			default:
				return fmt.Errorf("invalid --due %q, expected today, week, overdue, or all", due)
			}

			if category != "" {
				cat, err := resolveCategory(ctx, client, category)
				if err != nil {
					return err
				}
				cfg.CategoryIDs = append(cfg.CategoryIDs, cat.ID)
			}

			tasks, err := client.ListTasks(ctx)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			label, err := categoryLabels(ctx, client)
			if err != nil {
				return err
			}

			visible := filter.Visible(derefTasks(tasks), cfg)
			if len(visible) == 0 {
				fmt.Println("No tasks.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tPRIO\tDUE\tCATEGORY\tTITLE")
			for _, task := range visible {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(task.ID),
					task.Status,
					task.Priority,
					dates.FormatDateTime(task.DueAt, task.AllDay),
					label(task.CategoryID),
					task.Title,
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (open, snoozed, completed, all)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category name or id")
	cmd.Flags().StringVar(&due, "due", "", "Filter by due range (today, week, overdue, all)")
	cmd.Flags().StringVar(&search, "search", "", "Filter by text in title or description")
	cmd.Flags().BoolVar(&today, "today", false, "Show only tasks due today")
	cmd.Flags().BoolVar(&untimed, "untimed", false, "Show only tasks without a due date")
	return cmd
}

func newTasksAddCmd() *cobra.Command {
	var description, due, category, priority, assignee string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Long:  "Create a task. A date-only --due (02.01.2006) creates an all-day task; add a time (02.01.2006 15:04) for a timed one.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			draft := models.TaskDraft{
				Title:       strings.Join(args, " "),
				Description: description,
				Status:      models.TaskStatusOpen,
				Priority:    models.PriorityNormal,
				Interval:    models.Interval{Type: models.IntervalNone, Mode: models.IntervalModeRelative},
			}

			switch priority {
			case "":
			case "low", "normal", "high":
				draft.Priority = models.Priority(priority)
			default:
				return fmt.Errorf("invalid --priority %q, expected low, normal, or high", priority)
			}

			if due != "" {
				dueAt, allDay, err := parseDue(due)
				if err != nil {
					return err
				}
				draft.DueAt = dueAt
				draft.AllDay = allDay
			}

			if category != "" {
				cat, err := resolveCategory(ctx, client, category)
				if err != nil {
					return err
				}
				draft.CategoryID = &cat.ID
			}

			draft.Assignee = assignee

			task, err := client.CreateTask(ctx, draft)
			if err != nil {
				return fmt.Errorf("create task: %w", err)
			}
			fmt.Printf("Created task %s: %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "desc", "", "Task description")
	cmd.Flags().StringVar(&due, "due", "", "Due date (02.01.2006 or '02.01.2006 15:04')")
	cmd.Flags().StringVar(&category, "category", "", "Category name or id")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low, normal, high)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee name")
	return cmd
}

func newTasksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its comments and attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			task, err := resolveTask(ctx, client, args[0])
			if err != nil {
				return err
			}
			label, err := categoryLabels(ctx, client)
			if err != nil {
				return err
			}

			fmt.Printf("%s  %s\n", task.ID, task.Title)
			if task.Description != "" {
				fmt.Printf("  %s\n", task.Description)
			}
			fmt.Printf("  Status:   %s", task.Status)
			if task.Status == models.TaskStatusSnoozed && task.SnoozedUntil != nil {
				fmt.Printf(" (until %s)", dates.FormatDateTime(task.SnoozedUntil, false))
			}
			fmt.Println()
			fmt.Printf("  Priority: %s\n", task.Priority)
			fmt.Printf("  Due:      %s\n", dates.FormatDateTime(task.DueAt, task.AllDay))
			if task.CategoryID != nil {
				fmt.Printf("  Category: %s\n", label(task.CategoryID))
			}
			if task.Assignee != "" {
				fmt.Printf("  Assignee: %s\n", task.Assignee)
			}
			if task.Interval.Type != models.IntervalNone {
				fmt.Printf("  Repeats:  %s (%s)\n", task.Interval.Type, task.Interval.Mode)
			}

			if len(task.Comments) > 0 {
				fmt.Printf("\n  Comments (%d):\n", len(task.Comments))
				for _, comment := range task.Comments {
					fmt.Printf("    %s  %s: %s\n",
						dates.FormatDateTime(&comment.CreatedAt, false), comment.Author, comment.Text)
				}
			}
			if len(task.Attachments) > 0 {
				fmt.Printf("\n  Attachments (%d):\n", len(task.Attachments))
				for _, attachment := range task.Attachments {
					fmt.Printf("    %s  %s (%s)\n",
						shortID(attachment.ID), attachment.Name, dates.FormatFileSize(attachment.Size))
				}
			}
			return nil
		},
	}
}

func newTasksDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			task, err := resolveTask(ctx, client, args[0])
			if err != nil {
				return err
			}
			completed := models.TaskStatusCompleted
			updated, err := client.UpdateTask(ctx, task.ID, models.TaskPatch{Status: &completed})
			if err != nil {
				return fmt.Errorf("complete task: %w", err)
			}
			fmt.Printf("Completed %s: %s\n", shortID(updated.ID), updated.Title)
			return nil
		},
	}
}

func newTasksSnoozeCmd() *cobra.Command {
	var minutes int
	cmd := &cobra.Command{
		Use:   "snooze <id>",
		Short: "Snooze a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			task, err := resolveTask(ctx, client, args[0])
			if err != nil {
				return err
			}
			updated, err := client.SnoozeTask(ctx, task.ID, minutes)
			if err != nil {
				return fmt.Errorf("snooze task: %w", err)
			}
			fmt.Printf("Snoozed %s until %s\n",
				shortID(updated.ID), dates.FormatDateTime(updated.SnoozedUntil, false))
			return nil
		},
	}
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 60, "Snooze duration in minutes")
	return cmd
}

func newTasksCommentCmd() *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Add a comment to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			task, err := resolveTask(ctx, client, args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			updated, err := client.AddComment(ctx, task.ID, text, author)
			if err != nil {
				return fmt.Errorf("add comment: %w", err)
			}
			fmt.Printf("Added comment to %s (%d total)\n", shortID(updated.ID), len(updated.Comments))
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Comment author (defaults to your account name)")
	return cmd
}

func newTasksRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			task, err := resolveTask(ctx, client, args[0])
			if err != nil {
				return err
			}
			if err := client.DeleteTask(ctx, task.ID); err != nil {
				return fmt.Errorf("delete task: %w", err)
			}
			fmt.Printf("Deleted %s: %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}
}
