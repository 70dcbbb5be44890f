// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"chartview/chartval"
)

// PriceScale maps the value domain of a single pane onto vertical pixels.
// Larger values map to smaller y coordinates unless the scale is inverted.
type PriceScale struct {
	pixelHeight     float64
	minValue        float64
	maxValue        float64
	paddingFraction float64
	manual          bool
	inverted        bool
}

const (
	DefaultPaddingFraction  = 0.1
	degenerateRangePadding  = 1.0
	defaultPriceScaleBottom = 0
	defaultPriceScaleTop    = 100
)

func NewPriceScale(paddingFraction float64) *PriceScale {
	if paddingFraction < 0 {
		paddingFraction = DefaultPaddingFraction
	}
	return &PriceScale{
		pixelHeight:     1,
		minValue:        defaultPriceScaleBottom,
		maxValue:        defaultPriceScaleTop,
		paddingFraction: paddingFraction,
	}
}

func (s *PriceScale) Range() (min, max float64) {
	return s.minValue, s.maxValue
}

func (s *PriceScale) Manual() bool {
	return s.manual
}

func (s *PriceScale) Inverted() bool {
	return s.inverted
}

func (s *PriceScale) SetInverted(inverted bool) {
	s.inverted = inverted
}

func (s *PriceScale) SetPixelHeight(h float64) {
	if h > 0 {
		s.pixelHeight = h
	}
}

func (s *PriceScale) PixelHeight() float64 {
	return s.pixelHeight
}

// SetManualRange pins the scale to a fixed value range. Automatic
// rescaling is suspended until ClearManualRange is called.
func (s *PriceScale) SetManualRange(min, max float64) error {
	if max <= min {
		return &chartval.InvalidRangeError{Min: min, Max: max}
	}
	s.minValue = min
	s.maxValue = max
	s.manual = true
	return nil
}

func (s *PriceScale) ClearManualRange() {
	s.manual = false
}

// AutoRange fits the scale to the extrema of the given points, padded by
// the configured fraction of the value span. A degenerate span (all values
// equal) is padded by a fixed absolute amount instead, so the scale never
// collapses. No-op while a manual range is active or when points is empty.
func (s *PriceScale) AutoRange(points []chartval.DataPoint) {
	if s.manual || len(points) == 0 {
		return
	}
	min := points[0].MinValue()
	max := points[0].MaxValue()
	for _, p := range points[1:] {
		if v := p.MinValue(); v < min {
			min = v
		}
		if v := p.MaxValue(); v > max {
			max = v
		}
	}
	if max-min < chartval.NearZero {
		min -= degenerateRangePadding
		max += degenerateRangePadding
	} else {
		pad := s.paddingFraction * (max - min)
		min -= pad
		max += pad
	}
	s.minValue = min
	s.maxValue = max
}

// ValueToPixel returns the vertical pixel position of a value, relative to
// the top of the pane.
func (s *PriceScale) ValueToPixel(v float64) float64 {
	span := s.maxValue - s.minValue
	if s.inverted {
		return (v - s.minValue) / span * s.pixelHeight
	}
	return (s.maxValue - v) / span * s.pixelHeight
}

// PixelToValue is the inverse of ValueToPixel.
func (s *PriceScale) PixelToValue(y float64) float64 {
	span := s.maxValue - s.minValue
	if s.inverted {
		return s.minValue + y/s.pixelHeight*span
	}
	return s.maxValue - y/s.pixelHeight*span
}
