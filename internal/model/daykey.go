package model

import (
	"fmt"
	"time"
)

// ReferenceYear is the leap year every DayKey is projected onto, so that
// Feb 29 rows keep a valid position on the axis.
const ReferenceYear = 2000

// DayKey is a calendar date with the year normalized away.
type DayKey struct {
	Month time.Month
	Day   int
}

// DayKeyOf drops the year component of t.
func DayKeyOf(t time.Time) DayKey {
	_, m, d := t.Date()
	return DayKey{Month: m, Day: d}
}

// Time returns the key as midnight UTC in ReferenceYear.
func (k DayKey) Time() time.Time {
	return time.Date(ReferenceYear, k.Month, k.Day, 0, 0, 0, 0, time.UTC)
}

// Less orders keys by month, then day.
func (k DayKey) Less(o DayKey) bool {
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	return k.Day < o.Day
}

// String renders the key as MM-DD.
func (k DayKey) String() string {
	return fmt.Sprintf("%02d-%02d", int(k.Month), k.Day)
}

// Label renders the key the way chart axes show it (M/D).
func (k DayKey) Label() string {
	return fmt.Sprintf("%d/%d", int(k.Month), k.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (k DayKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
