// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"image"

	"gioui.org/f32"

	"chartview/chartval"
)

// Pane is a horizontal band of the chart with its own price scale and
// series. All panes share the chart's time scale. The first pane of a
// chart is the primary pane; secondary panes are locked, meaning they
// follow horizontal navigation but ignore vertical zoom and pan.
type Pane struct {
	name       string
	ratio      float64
	primary    bool
	priceScale *PriceScale
	series     []*chartval.Series
	viewport   image.Rectangle
	dirty      bool
}

func newPane(name string, ratio float64, primary bool, paddingFraction float64) *Pane {
	return &Pane{
		name:       name,
		ratio:      ratio,
		primary:    primary,
		priceScale: NewPriceScale(paddingFraction),
		dirty:      true,
	}
}

func (p *Pane) Name() string {
	return p.name
}

func (p *Pane) HeightRatio() float64 {
	return p.ratio
}

func (p *Pane) SetHeightRatio(ratio float64) error {
	if ratio <= 0 {
		return &chartval.InvalidArgumentError{Name: "height ratio", Value: ratio}
	}
	p.ratio = ratio
	return nil
}

func (p *Pane) Primary() bool {
	return p.primary
}

// Locked panes follow horizontal navigation only.
func (p *Pane) Locked() bool {
	return !p.primary
}

func (p *Pane) PriceScale() *PriceScale {
	return p.priceScale
}

func (p *Pane) AddSeries(s *chartval.Series) {
	p.series = append(p.series, s)
	p.dirty = true
}

func (p *Pane) Series() []*chartval.Series {
	return p.series
}

func (p *Pane) FindSeries(name string) *chartval.Series {
	for _, s := range p.series {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func (p *Pane) Viewport() image.Rectangle {
	return p.viewport
}

func (p *Pane) setViewport(r image.Rectangle) {
	p.viewport = r
	p.priceScale.SetPixelHeight(float64(r.Dy()))
}

func (p *Pane) Contains(pos f32.Point) bool {
	return image.Pt(int(pos.X), int(pos.Y)).In(p.viewport)
}

// RelativeY converts a chart-global y coordinate into the pane-local
// coordinate expected by the price scale.
func (p *Pane) RelativeY(y float64) float64 {
	return y - float64(p.viewport.Min.Y)
}

// MarkDirty schedules a price rescale for the next RescaleIfDirty call.
func (p *Pane) MarkDirty() {
	p.dirty = true
}

func (p *Pane) Dirty() bool {
	return p.dirty
}

// Rescale fits the price scale to the data of all series within the
// half-open visible index range [from, to).
func (p *Pane) Rescale(from, to int) {
	var visible []chartval.DataPoint
	for _, s := range p.series {
		visible = append(visible, s.Slice(from, to)...)
	}
	p.priceScale.AutoRange(visible)
	p.dirty = false
}

func (p *Pane) RescaleIfDirty(from, to int) {
	if p.dirty {
		p.Rescale(from, to)
	}
}

// pointAt returns the data point at the given bar index from the first
// series that covers it, or nil.
func (p *Pane) pointAt(index int) *chartval.DataPoint {
	for _, s := range p.series {
		if pt, ok := s.At(index); ok {
			return &pt
		}
	}
	return nil
}
