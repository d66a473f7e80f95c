// Package calendar maps a reference date and view mode to the renderable
// grid, and buckets tasks into days. The builder is a pure transform: it
// never mutates its inputs and is deterministic for the same
// (date, mode, tasks) triple.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/antiq-app/antiq/internal/dates"
	"github.com/antiq-app/antiq/internal/models"
)

// Mode is the calendar view granularity
type Mode string

const (
	ModeDay   Mode = "day"
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

// GridSize is the fixed number of cells in a month grid. Months needing
// only five rows still render six so the layout never reflows.
const GridSize = 42

// HoursPerDay is the number of hour slots rendered per day.
const HoursPerDay = 24

// Cell is one day cell of a month grid
type Cell struct {
	Date    time.Time
	InMonth bool
}

// Midnight truncates t to 00:00:00 in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday on or before date, truncated to midnight.
func WeekStart(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return Midnight(date).AddDate(0, 0, -offset)
}

// WeekDays returns the seven days of the week containing date, Monday
// first.
func WeekDays(date time.Time) []time.Time {
	start := WeekStart(date)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// MonthGrid returns the 42 cells of the month view for the month
// containing ref, starting at the Monday on or before the 1st. Trailing
// cells roll into the next month.
func MonthGrid(ref time.Time) []Cell {
	y, m, _ := ref.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
	start := WeekStart(first)

	cells := make([]Cell, GridSize)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{Date: d, InMonth: d.Month() == m}
	}
	return cells
}

// Prev shifts the reference date one step back for the given mode: a day,
// a week, or a calendar month.
func Prev(ref time.Time, mode Mode) time.Time {
	switch mode {
	case ModeDay:
		return ref.AddDate(0, 0, -1)
	case ModeWeek:
		return ref.AddDate(0, 0, -7)
	default:
		return ref.AddDate(0, -1, 0)
	}
}

// Next shifts the reference date one step forward for the given mode.
func Next(ref time.Time, mode Mode) time.Time {
	switch mode {
	case ModeDay:
		return ref.AddDate(0, 0, 1)
	case ModeWeek:
		return ref.AddDate(0, 0, 7)
	default:
		return ref.AddDate(0, 1, 0)
	}
}

// TasksOn returns the tasks due on the given day: all-day tasks first in
// source order, then timed tasks stably sorted by time of day. Tasks
// without a due timestamp never appear.
func TasksOn(tasks []models.Task, day time.Time) []models.Task {
	var allDay, timed []models.Task
	for _, task := range tasks {
		if task.DueAt == nil || !dates.SameDay(*task.DueAt, day) {
			continue
		}
		if task.AllDay {
			allDay = append(allDay, task)
		} else {
			timed = append(timed, task)
		}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		return minutesOf(timed[i]) < minutesOf(timed[j])
	})

	return append(allDay, timed...)
}

// MinutesFromMidnight returns the vertical position of a timed task in the
// hour grid, in minutes from midnight. All-day and untimed tasks have no
// position.
func MinutesFromMidnight(task models.Task) (int, bool) {
	if task.AllDay || task.DueAt == nil {
		return 0, false
	}
	return minutesOf(task), true
}

func minutesOf(task models.Task) int {
	return task.DueAt.Hour()*60 + task.DueAt.Minute()
}

// HourSlots returns the 24 one-hour slot labels ("00:00" .. "23:00") shown
// in day and week mode.
func HourSlots() []string {
	slots := make([]string, HoursPerDay)
	for hour := range slots {
		slots[hour] = fmt.Sprintf("%02d:00", hour)
	}
	return slots
}
