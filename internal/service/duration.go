package service

import (
    "fmt"
    "time"
)

// StayDuration is the elapsed time of a visitor stay decomposed into
// whole hours, minutes and seconds.  The decomposition is plain
// floor division over milliseconds; no rounding, no calendar
// arithmetic.
type StayDuration struct {
    Hours   int64
    Minutes int64
    Seconds int64
}

// StayBetween computes the stay duration from check-in to check-out.
func StayBetween(start, end time.Time) StayDuration {
    ms := end.Sub(start).Milliseconds()
    return StayDuration{
        Hours:   ms / 3_600_000,
        Minutes: (ms % 3_600_000) / 60_000,
        Seconds: (ms % 60_000) / 1_000,
    }
}

// String renders the duration the way receipts display it, e.g. "2h 30m 15s".
func (d StayDuration) String() string {
    return fmt.Sprintf("%dh %dm %ds", d.Hours, d.Minutes, d.Seconds)
}

// SemesterEnd returns the expiry assigned to student and staff
// reservations: June 30 of the current year, the last day of the
// first academic semester.
func SemesterEnd(now time.Time) time.Time {
    return time.Date(now.Year(), time.June, 30, 0, 0, 0, 0, time.UTC)
}
