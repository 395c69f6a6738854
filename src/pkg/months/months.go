// Package months enumerates the completed months a report covers.
package months

import (
	"fmt"
	"time"
)

// Layout is the year-month format used in month identifiers and data file names.
const Layout = "2006-01"

// ID is a year-month identifier like "2022-05".
type ID string

/*
Enumerate returns every month from the month of start up to, but not
including, the month that contains now.

now is a parameter so callers (and tests) control the clock. Both dates are
read in their own location; pass them in the report timezone.
*/
func Enumerate(start time.Time, now time.Time) []ID {
	cursor := FirstOfMonth(start)
	currentMonth := FirstOfMonth(now)

	ids := make([]ID, 0)
	for cursor.Before(currentMonth) {
		ids = append(ids, FromTime(cursor))
		cursor = cursor.AddDate(0, 1, 0)
	}

	return ids
}

// FirstOfMonth truncates t to midnight on the first day of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// FromTime formats the month containing t.
func FromTime(t time.Time) ID {
	return ID(t.Format(Layout))
}

// Parse returns the first day of the month (UTC).
func Parse(id ID) (monthStart time.Time, err error) {
	monthStart, err = time.Parse(Layout, string(id))
	if err != nil {
		return monthStart, fmt.Errorf("invalid month id '%s': %w", id, err)
	}
	return monthStart, nil
}

// Next returns the identifier of the following month.
func (id ID) Next() (next ID, err error) {
	monthStart, err := Parse(id)
	if err != nil {
		return next, err
	}
	return FromTime(monthStart.AddDate(0, 1, 0)), nil
}

func (id ID) String() string {
	return string(id)
}

/*
Validate checks that ids are well formed, unique, contiguous and ascending.
*/
func Validate(ids []ID) error {
	for index := 0; index < len(ids); index += 1 {
		_, parseErr := Parse(ids[index])
		if parseErr != nil {
			return parseErr
		}
		if index == 0 {
			continue
		}

		expected, _ := ids[index-1].Next()
		if ids[index] != expected {
			return fmt.Errorf("month '%s' follows '%s', expected '%s'", ids[index], ids[index-1], expected)
		}
	}
	return nil
}
