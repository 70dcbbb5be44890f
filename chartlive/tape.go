// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartlive

import (
	"sync/atomic"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/zhangyunhao116/skipmap"
)

// TapeEntry is one raw trade tick as received from a feed, before it is
// aggregated into candles.
type TapeEntry struct {
	Price  *decimal.Big
	Volume *decimal.Big
}

// Tape keeps the most recent raw ticks ordered by timestamp. Feeds store
// concurrently while readers range, the skipmap handles the locking.
type Tape struct {
	entries   *skipmap.Int64Map[TapeEntry]
	latestKey atomic.Int64
}

func NewTape() *Tape {
	return &Tape{entries: skipmap.NewInt64[TapeEntry]()}
}

func (t *Tape) Add(timestamp time.Time, price, volume *decimal.Big) {
	key := timestamp.UnixMilli()
	t.entries.Store(key, TapeEntry{Price: price, Volume: volume})
	for {
		latest := t.latestKey.Load()
		if key <= latest || t.latestKey.CompareAndSwap(latest, key) {
			break
		}
	}
}

// Latest returns the most recent tick for a quote readout.
func (t *Tape) Latest() (time.Time, TapeEntry, bool) {
	key := t.latestKey.Load()
	if key == 0 {
		return time.Time{}, TapeEntry{}, false
	}
	e, ok := t.entries.Load(key)
	if !ok {
		return time.Time{}, TapeEntry{}, false
	}
	return time.UnixMilli(key), e, true
}

func (t *Tape) Len() int {
	return t.entries.Len()
}

// Range calls f for each tick in timestamp order until f returns false.
func (t *Tape) Range(f func(timestamp time.Time, e TapeEntry) bool) {
	t.entries.Range(func(key int64, e TapeEntry) bool {
		return f(time.UnixMilli(key), e)
	})
}

// TrimBefore drops all ticks older than the given time.
func (t *Tape) TrimBefore(cutoff time.Time) {
	limit := cutoff.UnixMilli()
	var stale []int64
	t.entries.Range(func(key int64, e TapeEntry) bool {
		if key >= limit {
			return false
		}
		stale = append(stale, key)
		return true
	})
	for _, key := range stale {
		t.entries.Delete(key)
	}
}
