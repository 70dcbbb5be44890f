// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"image"
	"math"

	"chartview/calendar"
	"chartview/chartval"
	"chartview/interval"
)

// Chart is the viewport engine for one instrument: a shared time scale,
// a stack of panes and a crosshair. It performs no drawing; it resolves
// coordinates and keeps scales consistent while data and viewport change.
type Chart struct {
	timeScale       *TimeScale
	candleInterval  interval.Interval
	panes           []*Pane
	crosshair       *Crosshair
	tradingCalendar *calendar.TradingCalendar
	paddingFraction float64
	width           int
	height          int
	separatorPx     int
}

type ChartOptions struct {
	TimeScale       TimeScaleOptions
	PaddingFraction float64
	SeparatorHeight int
	TradingCalendar *calendar.TradingCalendar
}

func NewChart(candleInterval interval.Interval, opt ChartOptions) *Chart {
	if opt.PaddingFraction <= 0 {
		opt.PaddingFraction = DefaultPaddingFraction
	}
	if opt.SeparatorHeight <= 0 {
		opt.SeparatorHeight = DefaultSeparatorHeight
	}
	return &Chart{
		timeScale:       NewTimeScale(opt.TimeScale),
		candleInterval:  candleInterval,
		crosshair:       newCrosshair(),
		tradingCalendar: opt.TradingCalendar,
		paddingFraction: opt.PaddingFraction,
		separatorPx:     opt.SeparatorHeight,
		width:           int(opt.TimeScale.PixelWidth),
		height:          1,
	}
}

func (c *Chart) TimeScale() *TimeScale {
	return c.timeScale
}

func (c *Chart) Interval() interval.Interval {
	return c.candleInterval
}

func (c *Chart) Panes() []*Pane {
	return c.panes
}

func (c *Chart) Pane(name string) *Pane {
	for _, p := range c.panes {
		if p.name == name {
			return p
		}
	}
	return nil
}

// AddPane appends a pane with the given height ratio. The first pane added
// becomes the primary pane.
func (c *Chart) AddPane(name string, ratio float64) (*Pane, error) {
	if ratio <= 0 {
		return nil, &chartval.InvalidArgumentError{Name: "height ratio", Value: ratio}
	}
	if c.Pane(name) != nil {
		return nil, &chartval.InvalidArgumentError{Name: "pane name", Value: name}
	}
	p := newPane(name, ratio, len(c.panes) == 0, c.paddingFraction)
	c.panes = append(c.panes, p)
	c.relayout()
	return p, nil
}

// RemovePane removes a pane by name. The primary pane cannot be removed.
func (c *Chart) RemovePane(name string) bool {
	for i, p := range c.panes {
		if p.name == name {
			if p.primary {
				return false
			}
			c.panes = append(c.panes[:i], c.panes[i+1:]...)
			c.relayout()
			return true
		}
	}
	return false
}

// Resize updates the chart canvas size and recomputes the pane layout and
// the pixel extents of all scales.
func (c *Chart) Resize(width, height int) error {
	if width <= 0 {
		return &chartval.InvalidArgumentError{Name: "width", Value: width}
	}
	if height <= 0 {
		return &chartval.InvalidArgumentError{Name: "height", Value: height}
	}
	c.width = width
	c.height = height
	c.timeScale.SetPixelWidth(float64(width))
	c.relayout()
	return nil
}

func (c *Chart) relayout() {
	if len(c.panes) == 0 {
		return
	}
	ratios := make([]float64, len(c.panes))
	for i, p := range c.panes {
		ratios[i] = p.ratio
	}
	available := c.height - (len(c.panes)-1)*c.separatorPx
	if available < len(c.panes) {
		available = len(c.panes)
	}
	heights, err := NormalizeHeights(ratios, available)
	if err != nil {
		return
	}
	y := 0
	for i, p := range c.panes {
		p.setViewport(image.Rect(0, y, c.width, y+heights[i]))
		y += heights[i] + c.separatorPx
	}
}

// VerticalZoom scales the price range of the named pane by 1/factor around
// the value at pivotFraction of the pane height. Locked panes ignore
// vertical zoom. Zooming switches the pane to a manual range.
func (c *Chart) VerticalZoom(paneName string, factor, pivotFraction float64) error {
	if factor <= 0 {
		return &chartval.InvalidArgumentError{Name: "zoom factor", Value: factor}
	}
	p := c.Pane(paneName)
	if p == nil {
		return &chartval.InvalidArgumentError{Name: "pane name", Value: paneName}
	}
	if p.Locked() {
		return nil
	}
	pivotFraction = chartval.Clamp(pivotFraction, 0, 1)
	min, max := p.priceScale.Range()
	pivot := p.priceScale.PixelToValue(pivotFraction * p.priceScale.PixelHeight())
	span := (max - min) / factor
	upperFraction := (max - pivot) / (max - min)
	newMax := pivot + span*upperFraction
	return p.priceScale.SetManualRange(newMax-span, newMax)
}

// VerticalPan shifts the price range of the named pane by deltaPx pixels.
// Locked panes ignore vertical pan. Panning switches the pane to a manual
// range.
func (c *Chart) VerticalPan(paneName string, deltaPx float64) error {
	p := c.Pane(paneName)
	if p == nil {
		return &chartval.InvalidArgumentError{Name: "pane name", Value: paneName}
	}
	if p.Locked() {
		return nil
	}
	min, max := p.priceScale.Range()
	deltaValue := deltaPx / p.priceScale.PixelHeight() * (max - min)
	if p.priceScale.Inverted() {
		deltaValue = -deltaValue
	}
	return p.priceScale.SetManualRange(min+deltaValue, max+deltaValue)
}

// VisibleIndexRange returns the half-open integer index range covering the
// visible bars, clamped to the data bounds.
func (c *Chart) VisibleIndexRange() (from, to int) {
	f, t := c.timeScale.VisibleRange()
	from = int(math.Floor(f))
	if from < 0 {
		from = 0
	}
	to = int(math.Ceil(t))
	if to > c.timeScale.DataLength() {
		to = c.timeScale.DataLength()
	}
	if to < from {
		to = from
	}
	return from, to
}

// MarkAllDirty schedules a rescale of every pane.
func (c *Chart) MarkAllDirty() {
	for _, p := range c.panes {
		p.MarkDirty()
	}
}

// RescaleDirtyPanes auto-fits the price scale of every dirty pane to the
// currently visible data.
func (c *Chart) RescaleDirtyPanes() {
	from, to := c.VisibleIndexRange()
	for _, p := range c.panes {
		p.RescaleIfDirty(from, to)
	}
}

// SyncDataLength updates the time scale with the longest series length
// across all panes. Called after data mutations.
func (c *Chart) SyncDataLength() {
	maxLen := 0
	for _, p := range c.panes {
		for _, s := range p.series {
			if s.Len() > maxLen {
				maxLen = s.Len()
			}
		}
	}
	c.timeScale.SetDataLength(maxLen)
}
