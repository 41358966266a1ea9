package daterange

import (
	"time"
)

// Period is the selector the views expose in their filter bar.
type Period string

const (
	PeriodThisMonth   Period = "this_month"
	PeriodLastMonth   Period = "last_month"
	PeriodThisQuarter Period = "this_quarter"
	PeriodThisYear    Period = "this_year"
	PeriodLastYear    Period = "last_year"
	PeriodAllTime     Period = "all_time"
	PeriodCustom      Period = "custom"
)

// SentinelYear marks the all-time lower bound. Adapters that see a range
// starting in this year must drop their lower date bound entirely, not
// filter against it.
const SentinelYear = 2020

// Range is a closed interval of instants, normalized to local calendar day
// boundaries (start at 00:00:00.000, end at 23:59:59.999...).
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AllTime reports whether the range carries the sentinel epoch, meaning
// "no lower bound".
func (r Range) AllTime() bool {
	return r.Start.Year() == SentinelYear &&
		r.Start.Month() == time.January &&
		r.Start.Day() == 1
}

// SentinelEpoch returns the fixed all-time lower bound in local time.
func SentinelEpoch() time.Time {
	return time.Date(SentinelYear, time.January, 1, 0, 0, 0, 0, time.Local)
}

// Resolve turns a period selector into a concrete range. An unrecognized
// selector resolves like this_month. Custom bounds are calendar dates in
// "2006-01-02" form; a missing custom bound silently falls back to the
// default now-based value so callers can resolve partial input while the
// user is still picking the second date.
func Resolve(period Period, customStart, customEnd string) Range {
	return ResolveAt(time.Now(), period, customStart, customEnd)
}

// ResolveAt is Resolve with an explicit clock, for tests.
func ResolveAt(now time.Time, period Period, customStart, customEnd string) Range {
	start := startOfDay(now)
	end := endOfDay(now)

	switch period {
	case PeriodThisMonth:
		start = startOfMonth(now)
	case PeriodLastMonth:
		// Calendar month arithmetic: first of this month, step back one
		// month, and close the window on that month's last day. Day
		// subtraction drifts across 28/30/31-day months.
		firstOfThis := startOfMonth(now)
		start = firstOfThis.AddDate(0, -1, 0)
		end = endOfDay(firstOfThis.AddDate(0, 0, -1))
	case PeriodThisQuarter:
		qm := time.Month((int(now.Month())-1)/3*3 + 1)
		start = time.Date(now.Year(), qm, 1, 0, 0, 0, 0, now.Location())
	case PeriodThisYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case PeriodLastYear:
		start = time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, now.Location())
		end = endOfDay(time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, now.Location()))
	case PeriodAllTime:
		start = time.Date(SentinelYear, time.January, 1, 0, 0, 0, 0, now.Location())
	case PeriodCustom:
		if t, ok := parseLocalDate(customStart, now.Location()); ok {
			start = t
		}
		if t, ok := parseLocalDate(customEnd, now.Location()); ok {
			end = endOfDay(t)
		}
	default:
		// A typo'd selector gets the filter bar default, not a
		// surprising single-day window.
		start = startOfMonth(now)
	}

	return Range{Start: start, End: end}
}

// parseLocalDate interprets a calendar date as a local wall-clock day,
// ignoring any offset the caller may have attached.
func parseLocalDate(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
