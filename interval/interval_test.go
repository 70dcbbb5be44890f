// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromStringRoundTrip(t *testing.T) {
	for r := Interval(0); r < NumIntervals; r++ {
		parsed, err := FromString(r.String())
		assert.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
	parsed, err := FromString("1h")
	assert.NoError(t, err)
	assert.Equal(t, SixtyMinutes, parsed)
	_, err = FromString("3m")
	assert.Error(t, err)
	_, err = FromString("")
	assert.Error(t, err)
}

func TestTruncateIntraday(t *testing.T) {
	tm := time.Date(2026, 3, 9, 14, 37, 12, 500, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 9, 14, 37, 0, 0, time.UTC), OneMinute.Truncate(tm))
	assert.Equal(t, time.Date(2026, 3, 9, 14, 35, 0, 0, time.UTC), FiveMinutes.Truncate(tm))
	assert.Equal(t, time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC), FifteenMinutes.Truncate(tm))
	assert.Equal(t, time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC), ThirtyMinutes.Truncate(tm))
	assert.Equal(t, time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC), SixtyMinutes.Truncate(tm))
}

func TestTruncateDayBased(t *testing.T) {
	// 2026-03-11 is a Wednesday.
	tm := time.Date(2026, 3, 11, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), OneDay.Truncate(tm))
	// Weeks start on Mondays.
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), OneWeek.Truncate(tm))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), OneMonth.Truncate(tm))
	// Sunday belongs to the week starting the previous Monday.
	sunday := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), OneWeek.Truncate(sunday))
}

func TestNthTime(t *testing.T) {
	tm := time.Date(2026, 3, 9, 14, 37, 30, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 9, 14, 37, 0, 0, time.UTC), OneMinute.NthTime(tm, 0))
	assert.Equal(t, time.Date(2026, 3, 9, 14, 40, 0, 0, time.UTC), OneMinute.NthTime(tm, 3))
	assert.Equal(t, time.Date(2026, 3, 9, 14, 32, 0, 0, time.UTC), OneMinute.NthTime(tm, -5))
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), OneDay.NthTime(tm, 1))
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), OneDay.NthTime(tm, -9))
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), OneWeek.NthTime(tm, 1))
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), OneMonth.NthTime(tm, 2))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), OneMonth.NthTime(tm, -2))
}

func TestDuration(t *testing.T) {
	tm := time.Date(2026, 3, 9, 14, 37, 0, 0, time.UTC)
	assert.Equal(t, time.Minute, OneMinute.Duration(tm))
	assert.Equal(t, time.Minute*30, ThirtyMinutes.Duration(tm))
	assert.Equal(t, time.Hour*24, OneDay.Duration(tm))
	assert.Equal(t, time.Hour*24*7, OneWeek.Duration(tm))
	// March has 31 days.
	assert.Equal(t, time.Hour*24*31, OneMonth.Duration(tm))
	// February 2028 is a leap month.
	assert.Equal(t, time.Hour*24*29, OneMonth.Duration(time.Date(2028, 2, 15, 0, 0, 0, 0, time.UTC)))
}

func TestDurationDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)
	// DST starts on 2026-03-08 in the US, the day only has 23 hours.
	assert.Equal(t, time.Hour*23, OneDay.Duration(time.Date(2026, 3, 8, 12, 0, 0, 0, loc)))
	assert.Equal(t, time.Hour*(24*7-1), OneWeek.Duration(time.Date(2026, 3, 8, 12, 0, 0, 0, loc)))
}
