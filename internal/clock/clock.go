// Package clock makes the current date an explicit dependency so that
// date-boundary behavior (day-close, schedules, late/advance
// classification) is deterministic under test.
package clock

import "time"

// Clock supplies the current time to the core services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns a Clock backed by the wall clock in UTC.
func System() Clock { return systemClock{} }

// Fixed returns a Clock pinned to the given instant.
func Fixed(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// DateOf truncates an instant to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// DaysBetween returns the whole calendar days from a to b, never
// negative.
func DaysBetween(a, b time.Time) int {
	days := int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
