package domain

import (
	"fmt"
	"time"
)

type timeUnit struct {
	name string
	size time.Duration
}

// Calendar units are approximations: a month is 30 days, a year 365.
var relativeUnits = []timeUnit{
	{"year", 365 * 24 * time.Hour},
	{"month", 30 * 24 * time.Hour},
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// RelativeTime renders ts relative to now in short English
// ("now", "5 minutes ago", "yesterday", "last year", "in 2 hours").
// It picks the largest unit that fits and floors the count.
func RelativeTime(ts, now time.Time) string {
	diff := now.Sub(ts)

	for _, u := range relativeUnits {
		if absDuration(diff) < u.size && u.name != "second" {
			continue
		}
		// floor towards negative infinity so "just in the future" reads as "in 1 ..."
		n := floorDiv(diff, u.size)
		return formatRelative(-n, u.name)
	}
	return "now"
}

func formatRelative(n int64, unit string) string {
	switch n {
	case 0:
		return "now"
	case -1:
		switch unit {
		case "day":
			return "yesterday"
		case "second":
			return "1 second ago"
		case "minute", "hour":
			return "1 " + unit + " ago"
		default:
			return "last " + unit
		}
	case 1:
		switch unit {
		case "day":
			return "tomorrow"
		case "second", "minute", "hour":
			return "in 1 " + unit
		default:
			return "next " + unit
		}
	}

	if n < 0 {
		return fmt.Sprintf("%d %ss ago", -n, unit)
	}
	return fmt.Sprintf("in %d %ss", n, unit)
}

func floorDiv(d, unit time.Duration) int64 {
	q := int64(d / unit)
	if d%unit != 0 && d < 0 {
		q--
	}
	return q
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
