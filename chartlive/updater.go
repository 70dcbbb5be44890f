// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartlive

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"chartview/chartplot"
	"chartview/chartval"
)

// Invalidator requests a redraw after chart data changed.
type Invalidator interface {
	Invalidate()
}

const DefaultTickRate = 100 * time.Millisecond

type UpdaterOptions struct {
	QueueSize int
	TickRate  time.Duration
	// RescaleOnDrain re-fits dirty pane price scales after each drain.
	// Disable to keep scales fixed during bursts and rescale manually.
	RescaleOnDrain bool
}

func DefaultUpdaterOptions() UpdaterOptions {
	return UpdaterOptions{
		QueueSize:      DefaultQueueSize,
		TickRate:       DefaultTickRate,
		RescaleOnDrain: true,
	}
}

// Updater owns all mutation of a chart after Start. Feed goroutines hand
// updates to the queue; the updater goroutine drains the queue at a fixed
// rate, merges the points and requests a single redraw per drain.
type Updater struct {
	chart          *chartplot.Chart
	queue          *Queue
	invalidator    Invalidator
	logger         *log.Logger
	tickRate       time.Duration
	rescaleOnDrain bool
	dropped        atomic.Int64
	cancel         context.CancelFunc
	done           chan struct{}
}

func NewUpdater(chart *chartplot.Chart, invalidator Invalidator, logger *log.Logger, opt UpdaterOptions) *Updater {
	if opt.TickRate <= 0 {
		opt.TickRate = DefaultTickRate
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Updater{
		chart:          chart,
		queue:          NewQueue(opt.QueueSize),
		invalidator:    invalidator,
		logger:         logger,
		tickRate:       opt.TickRate,
		rescaleOnDrain: opt.RescaleOnDrain,
	}
}

func (u *Updater) Queue() *Queue {
	return u.queue
}

// DroppedUpdates returns the number of updates discarded since creation,
// out-of-order and otherwise invalid ones included.
func (u *Updater) DroppedUpdates() int64 {
	return u.dropped.Load()
}

// Start launches the updater goroutine. The chart must not be mutated by
// any other goroutine until Stop returns.
func (u *Updater) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.done = make(chan struct{})
	go func() {
		defer close(u.done)
		ticker := time.NewTicker(u.tickRate)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if u.Drain() > 0 {
					u.invalidator.Invalidate()
				}
			}
		}
	}()
}

// Stop terminates the updater goroutine and discards pending updates.
func (u *Updater) Stop() {
	if u.cancel == nil {
		return
	}
	u.cancel()
	<-u.done
	u.cancel = nil
	u.queue.Discard()
}

// Drain merges all pending updates into the chart and returns the number
// of points applied. Out-of-order updates are dropped and logged, they
// must not corrupt the series. Call only from the updater goroutine, or
// while the updater is stopped.
func (u *Updater) Drain() int {
	applied := 0
	for {
		upd, ok := u.queue.TryDequeue()
		if !ok {
			break
		}
		if u.applyUpdate(upd) {
			applied++
		}
	}
	if applied > 0 {
		u.chart.SyncDataLength()
		if u.rescaleOnDrain {
			u.chart.RescaleDirtyPanes()
		}
	}
	return applied
}

func (u *Updater) applyUpdate(upd Update) bool {
	pane := u.chart.Pane(upd.PaneName)
	if pane == nil {
		u.dropped.Add(1)
		u.logger.Printf("Dropping update for unknown pane %s.", upd.PaneName)
		return false
	}
	series := pane.FindSeries(upd.SeriesName)
	if series == nil {
		u.dropped.Add(1)
		u.logger.Printf("Dropping update for unknown series %s.", upd.SeriesName)
		return false
	}
	_, err := series.MergePoint(upd.Point)
	if err != nil {
		u.dropped.Add(1)
		var orderErr *chartval.OutOfOrderUpdateError
		if errors.As(err, &orderErr) {
			u.logger.Printf("Dropping out of order update for series %s: %v", upd.SeriesName, err)
		} else {
			u.logger.Printf("Dropping invalid update for series %s: %v", upd.SeriesName, err)
		}
		return false
	}
	pane.MarkDirty()
	return true
}
