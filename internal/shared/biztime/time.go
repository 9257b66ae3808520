// Package biztime provides utilities for business timezone calculations.
// All storage and transport use UTC. Business timezone is only used for
// calculating date boundaries (start of day, calendar-day distances).
//
// Design principles:
// - All time storage is in UTC
// - Calendar-day comparisons (reading streaks) must use business timezone boundaries
// - Implicit Local timezone is prohibited
package biztime

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "America/New_York"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
// If tz is empty, defaults to America/New_York.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone location, auto-initializing with the
// default timezone if Init was never called.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns the start of day (00:00:00) in business timezone, converted to UTC.
func StartOfDayUTC(t time.Time) time.Time {
	bizTime := t.In(Location())
	startOfDay := time.Date(bizTime.Year(), bizTime.Month(), bizTime.Day(), 0, 0, 0, 0, Location())
	return startOfDay.UTC()
}

// DateOnly formats a UTC time as a YYYY-MM-DD date in business timezone.
func DateOnly(t time.Time) string {
	return t.In(Location()).Format(time.DateOnly)
}

// CalendarDaysBetween returns the number of calendar days (business timezone)
// from a to b. Same calendar day yields 0, b on the day after a yields 1.
func CalendarDaysBetween(a, b time.Time) int {
	loc := Location()
	at := a.In(loc)
	bt := b.In(loc)
	aDay := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, loc)
	bDay := time.Date(bt.Year(), bt.Month(), bt.Day(), 0, 0, 0, 0, loc)
	// Round to absorb DST-shortened or -lengthened days.
	return int(math.Round(bDay.Sub(aDay).Hours() / 24))
}

// ParseDateInBizTimezone parses a date string (YYYY-MM-DD) as business timezone midnight,
// then returns the UTC equivalent.
func ParseDateInBizTimezone(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, dateStr, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", dateStr, err)
	}
	return t.UTC(), nil
}
