package domain

import "time"

// MinutesBetween computes the elapsed whole minutes between start and end,
// working on millisecond-resolution timestamps with half a minute rounding up.
// stop, manual adds, and updates all compute durations through this one function.
func MinutesBetween(start, end time.Time) int {
	ms := end.Sub(start).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int((ms + 30000) / 60000)
}
