// Package dates holds the pure date/time helpers shared by the filter
// engine, calendar builder, and views. All classification functions take an
// explicit reference time so callers (and tests) control "now"; nil inputs
// always classify as false and format as the no-date placeholder.
package dates

import (
	"fmt"
	"time"
)

const (
	// NoDatePlaceholder is rendered for tasks without a due timestamp.
	NoDatePlaceholder = "Kein Datum"
	// AllDaySuffix is appended to all-day due dates.
	AllDaySuffix = " (Ganztägig)"

	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006, 15:04"
	timeLayout     = "15:04"
)

// SameDay reports whether a and b fall on the same calendar day in the
// local time of a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsToday reports whether t falls on the same calendar day as now.
func IsToday(t *time.Time, now time.Time) bool {
	if t == nil {
		return false
	}
	return SameDay(*t, now)
}

// WithinNextWeek reports whether t lies in [now, now+7d], both bounds
// inclusive.
func WithinNextWeek(t *time.Time, now time.Time) bool {
	if t == nil {
		return false
	}
	weekAhead := now.Add(7 * 24 * time.Hour)
	return !t.Before(now) && !t.After(weekAhead)
}

// IsOverdue reports whether t is strictly before now.
func IsOverdue(t *time.Time, now time.Time) bool {
	if t == nil {
		return false
	}
	return t.Before(now)
}

// FormatDate formats t as dd.mm.yyyy.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateTime formats a due timestamp for display. All-day tasks omit
// the time of day; a nil timestamp renders the placeholder.
func FormatDateTime(t *time.Time, allDay bool) string {
	if t == nil {
		return NoDatePlaceholder
	}
	if allDay {
		return t.Format(dateLayout) + AllDaySuffix
	}
	return t.Format(dateTimeLayout)
}

// FormatTime formats the time of day as hh:mm.
func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// FormatFileSize renders a byte count as B, KB, or MB.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
