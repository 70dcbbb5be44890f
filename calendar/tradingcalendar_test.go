// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsTradingDay(t *testing.T) {
	c := NewUSTradingCalendar()
	// 2026-01-05 is a regular Monday.
	assert.True(t, c.IsTradingDay(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)))
	// Weekend.
	assert.False(t, c.IsTradingDay(time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC)))
	assert.False(t, c.IsTradingDay(time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)))
	// New Year's Day.
	assert.False(t, c.IsTradingDay(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestIsBankHoliday(t *testing.T) {
	c := NewUSTradingCalendar()
	holiday, name := c.IsBankHoliday(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	assert.True(t, holiday)
	assert.Equal(t, "New Year's Day", name)
	holiday, _ = c.IsBankHoliday(time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC))
	assert.False(t, holiday)
	// Independence Day 2026 falls on a Saturday and is observed on Friday.
	holiday, name = c.IsBankHoliday(time.Date(2026, 7, 3, 12, 0, 0, 0, time.UTC))
	assert.True(t, holiday)
	assert.Equal(t, "Independence Day (observed)", name)
}

func TestNextTradingDay(t *testing.T) {
	c := NewUSTradingCalendar()
	// Friday to Monday.
	next := c.NextTradingDay(time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC))
	y, m, d := next.Date()
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.January, m)
	assert.Equal(t, 12, d)
	// Thursday before the observed Independence Day holiday weekend.
	next = c.NextTradingDay(time.Date(2026, 7, 2, 12, 0, 0, 0, time.UTC))
	y, m, d = next.Date()
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.July, m)
	assert.Equal(t, 6, d)
}
