// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartlive

import (
	"fmt"

	"chartview/chartval"
)

// Update is one pending data point for a series of a chart pane.
type Update struct {
	PaneName   string
	SeriesName string
	Point      chartval.DataPoint
}

const DefaultQueueSize = 1024

// Queue is the buffered hand-off between feed goroutines and the single
// updater goroutine. Producers only enqueue; the chart itself is never
// touched from a producer. When the buffer is full the oldest entry is
// dropped, new realtime data is more important than old data.
type Queue struct {
	c chan Update
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{c: make(chan Update, size)}
}

func (q *Queue) Len() int {
	return len(q.c)
}

// Enqueue adds an update without blocking. It is safe to call from any
// goroutine. A non-nil error reports an overflow, the update itself has
// still been handled newest-wins.
func (q *Queue) Enqueue(u Update) error {
	select {
	case q.c <- u:
		return nil
	default:
	}
	// The buffer is full. Steal the oldest entry and retry, both
	// non-blocking since the consumer may drain concurrently.
	select {
	case <-q.c:
		select {
		case q.c <- u:
			return fmt.Errorf("series %s: buffer overflow, old realtime data is being removed", u.SeriesName)
		default:
			return fmt.Errorf("series %s: buffer overflow, new realtime data is being dropped", u.SeriesName)
		}
	default:
		return fmt.Errorf("series %s: buffer cannot be read from or written to", u.SeriesName)
	}
}

// TryDequeue removes the oldest pending update without blocking. Only the
// updater goroutine may call this.
func (q *Queue) TryDequeue() (Update, bool) {
	select {
	case u := <-q.c:
		return u, true
	default:
		return Update{}, false
	}
}

// Discard drops all pending updates.
func (q *Queue) Discard() {
	for {
		select {
		case <-q.c:
		default:
			return
		}
	}
}
