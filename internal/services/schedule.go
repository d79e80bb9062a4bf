// Package services provides the business logic above the storage layer:
// jar operations, the recurring contribution engine and report building.
package services

import (
	"time"

	"jarify/internal/core"
)

// fallbackAdvance is applied when a stored schedule is malformed. The engine
// keeps processing the remaining jars instead of failing the whole run.
const fallbackAdvance = 7 * 24 * time.Hour

// NextOccurrence computes when an already-fired schedule fires again. The
// result is seeded from now, not from the previous NextDate, so a schedule
// that was overdue for weeks fires once and resumes its rhythm instead of
// replaying the backlog.
func NextOccurrence(now time.Time, s core.RecurringSchedule) time.Time {
	base := applyTimeOfDay(now, s.Time)

	switch s.Frequency {
	case core.Daily:
		next := base.AddDate(0, 0, 1)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next

	case core.Weekly:
		if s.Weekday == nil {
			return base.Add(fallbackAdvance)
		}
		delta := (*s.Weekday - int(now.Weekday()) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		next := base.AddDate(0, 0, delta)
		if !next.After(now) {
			next = next.AddDate(0, 0, 7)
		}
		return next

	case core.Monthly:
		if s.MonthDay == nil {
			return base.Add(fallbackAdvance)
		}
		return monthlyOccurrence(now, base, *s.MonthDay, 1)

	default:
		return base.Add(fallbackAdvance)
	}
}

// InitialOccurrence computes the first firing instant for a schedule being
// enabled now. Unlike NextOccurrence it may land on today when the
// configured time of day is still ahead.
func InitialOccurrence(now time.Time, s core.RecurringSchedule) time.Time {
	base := applyTimeOfDay(now, s.Time)

	switch s.Frequency {
	case core.Daily:
		if base.After(now) {
			return base
		}
		return base.AddDate(0, 0, 1)

	case core.Weekly:
		if s.Weekday == nil {
			return base.Add(fallbackAdvance)
		}
		delta := (*s.Weekday - int(now.Weekday()) + 7) % 7
		next := base.AddDate(0, 0, delta)
		if !next.After(now) {
			next = next.AddDate(0, 0, 7)
		}
		return next

	case core.Monthly:
		if s.MonthDay == nil {
			return base.Add(fallbackAdvance)
		}
		return monthlyOccurrence(now, base, *s.MonthDay, 0)

	default:
		return base.Add(fallbackAdvance)
	}
}

// monthlyOccurrence places the occurrence on the requested day of month,
// clamping to the last day of shorter months. monthOffset 0 tries the
// current month first, 1 starts at the next month.
func monthlyOccurrence(now, base time.Time, monthDay, monthOffset int) time.Time {
	// Walk months from the first of the month so day-of-month overflow can
	// never skip a month.
	first := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location()).AddDate(0, monthOffset, 0)
	year, month := first.Year(), first.Month()
	for {
		day := monthDay
		if last := daysInMonth(year, month); day > last {
			day = last
		}
		next := time.Date(year, month, day, base.Hour(), base.Minute(), 0, 0, base.Location())
		if next.After(now) {
			return next
		}
		year, month, _ = time.Date(year, month, 1, 0, 0, 0, 0, base.Location()).AddDate(0, 1, 0).Date()
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// applyTimeOfDay returns t's date at the schedule's HH:MM with seconds
// zeroed. An unparsable time keeps t's own hour and minute.
func applyTimeOfDay(t time.Time, hhmm string) time.Time {
	hour, minute := t.Hour(), t.Minute()
	if parsed, err := time.Parse("15:04", hhmm); err == nil {
		hour, minute = parsed.Hour(), parsed.Minute()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
