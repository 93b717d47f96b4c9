// Package timeutil provides timezone utilities for the Berlin timezone.
// Quota rollovers in DeutschFlow Hub happen at German midnight, so all
// day and week boundary math is done in Europe/Berlin.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// BerlinTZ is the Berlin timezone (CET/CEST, observes DST).
// Falls back to a fixed UTC+1 zone if the tzdata is unavailable.
var BerlinTZ = loadBerlin()

func loadBerlin() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.FixedZone("Europe/Berlin", 1*60*60)
	}
	return loc
}

// Now returns the current time in Berlin timezone.
func Now() time.Time {
	return time.Now().In(BerlinTZ)
}

// ToBerlin converts a time to Berlin timezone.
func ToBerlin(t time.Time) time.Time {
	return t.In(BerlinTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Berlin timezone.
func StartOfDay(t time.Time) time.Time {
	berlin := ToBerlin(t)
	return time.Date(berlin.Year(), berlin.Month(), berlin.Day(), 0, 0, 0, 0, BerlinTZ)
}

// NextMidnight returns the next daily rollover boundary after the given time.
func NextMidnight(t time.Time) time.Time {
	return StartOfDay(ToBerlin(t).AddDate(0, 0, 1))
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in Berlin timezone.
func StartOfWeek(t time.Time) time.Time {
	berlin := ToBerlin(t)
	weekday := int(berlin.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	daysToSubtract := weekday - 1 // Monday = 1
	return StartOfDay(berlin.AddDate(0, 0, -daysToSubtract))
}

// NextWeekStart returns the next weekly rollover boundary (Monday midnight)
// after the given time.
func NextWeekStart(t time.Time) time.Time {
	return StartOfWeek(ToBerlin(t).AddDate(0, 0, 7))
}
