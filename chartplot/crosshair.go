// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"time"

	"gioui.org/f32"

	"chartview/chartval"
	"chartview/interval"
)

// MoveEvent is delivered to crosshair move subscribers whenever the
// pointer moves within the chart area. PanePrices always carries the
// value under the pointer for every pane; PanePoints only carries entries
// for panes whose series cover the resolved bar index.
type MoveEvent struct {
	Position   f32.Point
	BarIndex   int
	Time       time.Time
	PanePrices map[string]float64
	PanePoints map[string]*chartval.DataPoint
}

type MoveCallback func(MoveEvent)
type LeaveCallback func()

// Crosshair tracks the pointer state over the chart and notifies
// subscribers. Callbacks run synchronously on the calling goroutine.
type Crosshair struct {
	active         bool
	position       f32.Point
	moveCallbacks  []MoveCallback
	leaveCallbacks []LeaveCallback
}

func newCrosshair() *Crosshair {
	return &Crosshair{}
}

// Position returns the last pointer position. The second return value is
// false when the pointer is outside the chart.
func (x *Crosshair) Position() (f32.Point, bool) {
	return x.position, x.active
}

func (c *Chart) SubscribeCrosshairMove(cb MoveCallback) {
	c.crosshair.moveCallbacks = append(c.crosshair.moveCallbacks, cb)
}

func (c *Chart) SubscribeCrosshairLeave(cb LeaveCallback) {
	c.crosshair.leaveCallbacks = append(c.crosshair.leaveCallbacks, cb)
}

func (c *Chart) Crosshair() *Crosshair {
	return c.crosshair
}

func (c *Chart) paneAt(pos f32.Point) *Pane {
	for _, p := range c.panes {
		if p.Contains(pos) {
			return p
		}
	}
	return nil
}

// MoveCrosshair updates the crosshair with a new pointer position in
// chart coordinates. Positions outside every pane viewport, separator
// rows included, are treated as LeaveCrosshair. Repeated identical
// positions do not re-notify.
func (c *Chart) MoveCrosshair(pos f32.Point) {
	if c.paneAt(pos) == nil {
		c.LeaveCrosshair()
		return
	}
	if c.crosshair.active && c.crosshair.position == pos {
		return
	}
	c.crosshair.active = true
	c.crosshair.position = pos
	evt := c.resolveCrosshair(pos)
	for _, cb := range c.crosshair.moveCallbacks {
		cb(evt)
	}
}

// LeaveCrosshair deactivates the crosshair. Leave subscribers are only
// notified on the transition from active to inactive.
func (c *Chart) LeaveCrosshair() {
	if !c.crosshair.active {
		return
	}
	c.crosshair.active = false
	for _, cb := range c.crosshair.leaveCallbacks {
		cb()
	}
}

// resolveCrosshair maps a pointer position to the bar index, the bar time
// and the per-pane price under the pointer. The bar index is clamped to
// the data bounds; with no data it stays at the unclamped nearest index.
// Bar times beyond the newest bar are extrapolated using the candle
// interval.
func (c *Chart) resolveCrosshair(pos f32.Point) MoveEvent {
	index := c.timeScale.NearestIndex(float64(pos.X))
	dataLen := c.timeScale.DataLength()
	if dataLen > 0 {
		index = int(chartval.Clamp(float64(index), 0, float64(dataLen-1)))
	}
	evt := MoveEvent{
		Position:   pos,
		BarIndex:   index,
		PanePrices: make(map[string]float64, len(c.panes)),
		PanePoints: make(map[string]*chartval.DataPoint, len(c.panes)),
	}
	for _, p := range c.panes {
		evt.PanePrices[p.name] = p.priceScale.PixelToValue(p.RelativeY(float64(pos.Y)))
		if pt := p.pointAt(index); pt != nil {
			evt.PanePoints[p.name] = pt
			if evt.Time.IsZero() {
				evt.Time = pt.Time
			}
		}
	}
	if evt.Time.IsZero() {
		evt.Time = c.extrapolateBarTime(index)
	}
	return evt
}

// extrapolateBarTime continues bar times beyond the data bounds. Daily
// bars with a trading calendar advance by trading days, so the bar after a
// Friday lands on Monday. Backward extrapolation and coarser intervals
// step by the plain candle interval.
func (c *Chart) extrapolateBarTime(index int) time.Time {
	for _, p := range c.panes {
		for _, s := range p.series {
			if s.Len() == 0 {
				continue
			}
			last, _ := s.Last()
			n := index - (s.Len() - 1)
			if n > 0 && c.tradingCalendar != nil && c.candleInterval == interval.OneDay {
				t := last.Time
				for i := 0; i < n; i++ {
					t = c.candleInterval.Truncate(c.tradingCalendar.NextTradingDay(t))
				}
				return t
			}
			return c.candleInterval.NthTime(last.Time, n)
		}
	}
	return time.Time{}
}
