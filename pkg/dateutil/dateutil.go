// Package dateutil provides the small set of calendar-year helpers the
// calculators and per-year configuration tables share. The simulator works
// in whole calendar years (birth year, start-work year, calendar year of a
// ledger entry) rather than exact dates, so these helpers operate on ints
// rather than time.Time.
package dateutil

// IsLeapYear reports whether year is a leap year in the Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns the number of days in the given calendar year.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// NearestYear returns the entry of years closest to target, preferring the
// earlier year on a tie. years must be non-empty and need not be sorted.
// Used by per-year configuration tables (spec §7's "name the nearest year
// present" guidance on ConfigError).
func NearestYear(years []int, target int) int {
	best := years[0]
	bestDist := abs(best - target)
	for _, y := range years[1:] {
		d := abs(y - target)
		if d < bestDist || (d == bestDist && y < best) {
			best = y
			bestDist = d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// LastKnownYear returns the greatest year in years that is <= target, or
// the smallest year in years if target precedes every entry. This backs the
// "last-known year, inflation-indexed forward" extrapolation policy (spec
// §9 Design Note).
func LastKnownYear(years []int, target int) int {
	best := years[0]
	haveBest := false
	for _, y := range years {
		if y <= target && (!haveBest || y > best) {
			best = y
			haveBest = true
		}
	}
	if !haveBest {
		return NearestYear(years, target)
	}
	return best
}
