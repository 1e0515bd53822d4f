package tracker

import (
	"time"
)

// Cell is one slot of a 7-column month grid. Pad cells fill the first
// week so that column 0 is always Monday. A non-pad cell carries its
// date and, when the user has data for it, the derived day view.
type Cell struct {
	Pad  bool
	Date time.Time
	Day  *DayView // nil when the user has no record for this date
}

// Policy collects the behaviors that existed in more than one variant
// of the original calendar.
type Policy struct {
	// ClampToData keeps month navigation inside the range of fetched
	// days. Off means prev/next are never refused.
	ClampToData bool

	// ShiftExerciseDate submits new exercises one calendar day after
	// the selected date. This mirrors a long-standing quirk of the
	// calendar's exercise form; it is a flag so the behavior can be
	// pinned down by tests instead of hiding in the submit path.
	ShiftExerciseDate bool
}

// DefaultPolicy matches the shipped calendar: navigation is clamped and
// the exercise date shift is active.
var DefaultPolicy = Policy{ClampToData: true, ShiftExerciseDate: true}

// MonthGrid lays out year/month as ordered cells for a Monday-first
// 7-column calendar: (weekdayOfFirst+6)%7 pad cells, then one cell per
// true calendar day, each resolved against the store.
func MonthGrid(year int, month time.Month, s *Store) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	offset := (int(first.Weekday()) + 6) % 7 // Sunday-first to Monday-first

	// Day zero of the next month overflows back to the last day of this
	// one, so leap years come out right without a table.
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()

	cells := make([]Cell, 0, offset+daysInMonth)
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{Pad: true})
	}
	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.Local)
		cell := Cell{Date: date}
		if view, ok := s.Day(DateKey(date)); ok {
			cell.Day = &view
		}
		cells = append(cells, cell)
	}
	return cells
}

// PrevMonth steps the displayed month back. Under ClampToData the step
// is refused (moved=false) once it would leave the month of the
// earliest fetched day; with no data there is nothing to clamp to.
func (p Policy) PrevMonth(year int, month time.Month, s *Store) (int, time.Month, bool) {
	prev := time.Date(year, month-1, 1, 0, 0, 0, 0, time.Local)
	if p.ClampToData {
		if min, _, ok := s.Bounds(); ok {
			floor := time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.Local)
			if prev.Before(floor) {
				return year, month, false
			}
		}
	}
	return prev.Year(), prev.Month(), true
}

// NextMonth steps the displayed month forward, clamped to the month of
// the latest fetched day when ClampToData is set.
func (p Policy) NextMonth(year int, month time.Month, s *Store) (int, time.Month, bool) {
	next := time.Date(year, month+1, 1, 0, 0, 0, 0, time.Local)
	if p.ClampToData {
		if _, max, ok := s.Bounds(); ok {
			ceil := time.Date(max.Year(), max.Month(), 1, 0, 0, 0, 0, time.Local)
			if next.After(ceil) {
				return year, month, false
			}
		}
	}
	return next.Year(), next.Month(), true
}
