// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package interval

import (
	"fmt"
	"strconv"
	"time"
)

// Interval is the logical duration of one bar. Day-based intervals do not
// have a constant duration (daylight saving time, different month lengths),
// so all duration lookups take a context time.
type Interval int32

const (
	OneMinute Interval = iota
	FiveMinutes
	FifteenMinutes
	ThirtyMinutes
	SixtyMinutes
	OneDay
	OneWeek
	OneMonth
)

const NumIntervals = OneMonth + 1

func FromString(s string) (Interval, error) {
	switch s {
	case "1m":
		return OneMinute, nil
	case "5m":
		return FiveMinutes, nil
	case "15m":
		return FifteenMinutes, nil
	case "30m":
		return ThirtyMinutes, nil
	case "60m", "1h":
		return SixtyMinutes, nil
	case "1d":
		return OneDay, nil
	case "1w":
		return OneWeek, nil
	case "1M":
		return OneMonth, nil
	default:
		return OneMinute, fmt.Errorf("unknown bar interval %q", s)
	}
}

func (r Interval) String() string {
	switch r {
	case OneMinute:
		return "1m"
	case FiveMinutes:
		return "5m"
	case FifteenMinutes:
		return "15m"
	case ThirtyMinutes:
		return "30m"
	case SixtyMinutes:
		return "60m"
	case OneDay:
		return "1d"
	case OneWeek:
		return "1w"
	case OneMonth:
		return "1M"
	default:
		return strconv.Itoa(int(r))
	}
}

func UiStringList() []string {
	return []string{
		"1 min",
		"5 min",
		"15 min",
		"30 min",
		"60 min",
		"1 day",
		"1 week",
		"1 month",
	}
}

// FormatString returns the time format used for axis labels of this interval.
func (r Interval) FormatString() string {
	switch r {
	case OneMinute, FiveMinutes, FifteenMinutes, ThirtyMinutes, SixtyMinutes:
		return "15:04"
	case OneDay, OneWeek, OneMonth:
		return "02 Jan 06"
	default:
		panic("unsupported bar interval")
	}
}

func (r Interval) Duration(context time.Time) time.Duration {
	switch r {
	case OneMinute:
		return time.Minute
	case FiveMinutes:
		return time.Minute * 5
	case FifteenMinutes:
		return time.Minute * 15
	case ThirtyMinutes:
		return time.Minute * 30
	case SixtyMinutes:
		return time.Hour
	case OneDay:
		return dayDuration(context)
	case OneWeek:
		d, _ := weekDuration(context)
		return d
	case OneMonth:
		d, _ := monthDuration(context)
		return d
	default:
		panic("unsupported bar interval")
	}
}

// NthTime returns the start time of the bar n intervals after the bar
// containing t. n may be negative.
func (r Interval) NthTime(t time.Time, n int) time.Time {
	// Normalise to the bar start first, so that n = 0 works.
	t = r.startTime(t)
	if n < 0 {
		for i := 0; i > n; i-- {
			// Go one second back to the previous interval to get the correct duration.
			t = t.Add(-r.Duration(t.Add(-time.Second)))
		}
	}
	for i := 0; i < n; i++ {
		t = t.Add(r.Duration(t))
	}
	return t
}

// Truncate returns the start time of the bar containing t.
func (r Interval) Truncate(t time.Time) time.Time {
	return r.startTime(t)
}

func (r Interval) startTime(t time.Time) time.Time {
	switch r {
	case OneMinute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	case FiveMinutes:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()/5*5, 0, 0, t.Location())
	case FifteenMinutes:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()/15*15, 0, 0, t.Location())
	case ThirtyMinutes:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()/30*30, 0, 0, t.Location())
	case SixtyMinutes:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case OneDay:
		// Use UTC start of day as normalised start of day-based bars.
		// Feeds may use closing timestamps, which may even be non-constant.
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case OneWeek:
		// Candlestick weeks start on Mondays. Golang weeks start on Sundays.
		weekdayDiff := int(t.Weekday()) - int(time.Monday)
		if weekdayDiff < 0 {
			weekdayDiff = 7 + weekdayDiff
		}
		return time.Date(t.Year(), t.Month(), t.Day()-weekdayDiff, 0, 0, 0, 0, time.UTC)
	case OneMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		panic("unsupported bar interval")
	}
}

func dayDuration(t time.Time) time.Duration {
	y := t.Year()
	m := t.Month()
	d := t.Day()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Sub(
		time.Date(y, m, d, 0, 0, 0, 0, t.Location()),
	)
}

func weekDuration(t time.Time) (time.Duration, time.Time) {
	weekdayDiff := int(t.Weekday()) - int(time.Monday)
	if weekdayDiff < 0 {
		weekdayDiff = 7 + weekdayDiff
	}
	y, m, d := t.Date()
	d -= weekdayDiff
	s := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return time.Date(y, m, d+7, 0, 0, 0, 0, t.Location()).Sub(s), s
}

func monthDuration(t time.Time) (time.Duration, time.Time) {
	// Use "Sub" call so that daylight saving time is considered.
	y := t.Year()
	m := t.Month()
	s := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location()).Sub(s), s
}
