// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartlive

import (
	"testing"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTapeOrdersByTimestamp(t *testing.T) {
	tape := NewTape()
	base := time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)
	tape.Add(base.Add(2*time.Second), decimal.New(102, 0), decimal.New(10, 0))
	tape.Add(base, decimal.New(100, 0), decimal.New(5, 0))
	tape.Add(base.Add(time.Second), decimal.New(101, 0), decimal.New(7, 0))
	assert.Equal(t, 3, tape.Len())
	var prices []string
	tape.Range(func(ts time.Time, e TapeEntry) bool {
		prices = append(prices, e.Price.String())
		return true
	})
	assert.Equal(t, []string{"100", "101", "102"}, prices)
}

func TestTapeLatest(t *testing.T) {
	tape := NewTape()
	_, _, ok := tape.Latest()
	assert.False(t, ok)
	base := time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)
	tape.Add(base.Add(2*time.Second), decimal.New(102, 0), decimal.New(10, 0))
	// A late tick with an older timestamp does not become the latest.
	tape.Add(base, decimal.New(100, 0), decimal.New(5, 0))
	ts, e, ok := tape.Latest()
	assert.True(t, ok)
	assert.True(t, ts.Equal(base.Add(2*time.Second)))
	assert.Equal(t, "102", e.Price.String())
}

func TestTapeTrimBefore(t *testing.T) {
	tape := NewTape()
	base := time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		tape.Add(base.Add(time.Duration(i)*time.Second), decimal.New(int64(100+i), 0), decimal.New(1, 0))
	}
	tape.TrimBefore(base.Add(3 * time.Second))
	assert.Equal(t, 2, tape.Len())
	tape.Range(func(ts time.Time, e TapeEntry) bool {
		assert.False(t, ts.Before(base.Add(3*time.Second)))
		return true
	})
}
