package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Weekdays is the set of weekday names a loan is collected on,
// stored as a jsonb array.
type Weekdays []string

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Value implements the driver.Valuer interface
func (w Weekdays) Value() (driver.Value, error) {
	return json.Marshal(w)
}

// Scan implements the sql.Scanner interface
func (w *Weekdays) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, w)
}

// Contains reports whether the set includes the given weekday.
func (w Weekdays) Contains(day time.Weekday) bool {
	for _, name := range w {
		if wd, ok := weekdayNames[strings.ToLower(name)]; ok && wd == day {
			return true
		}
	}
	return false
}

// Normalize lowercases and de-duplicates the set, erroring on
// anything that is not a weekday name.
func (w Weekdays) Normalize() (Weekdays, error) {
	seen := make(map[string]bool, len(w))
	out := make(Weekdays, 0, len(w))
	for _, name := range w {
		lower := strings.ToLower(strings.TrimSpace(name))
		if _, ok := weekdayNames[lower]; !ok {
			return nil, errors.New("unknown weekday name: " + name)
		}
		if !seen[lower] {
			seen[lower] = true
			out = append(out, lower)
		}
	}
	return out, nil
}
