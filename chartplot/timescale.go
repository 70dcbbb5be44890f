// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"math"

	"chartview/chartval"
)

// TimeScale maps the logical bar index domain onto pixel columns.
// There is exactly one TimeScale per chart. All panes reference it, none
// owns it. The visible range may extend beyond the data bounds by up to
// maxOverscan bars on either side.
type TimeScale struct {
	pixelWidth      float64
	dataLen         int
	from            float64 // visible range start, in bar indexes
	to              float64 // visible range end, always > from
	barSpacing      float64
	minBarSpacing   float64
	maxBarSpacing   float64
	maxOverscan     float64
	autoScroll      bool
	rightOffsetBars float64
}

type TimeScaleOptions struct {
	PixelWidth      float64
	MinBarSpacing   float64
	MaxBarSpacing   float64
	MaxOverscan     float64
	AutoScroll      bool
	RightOffsetBars float64
}

const (
	DefaultMinBarSpacing   = 0.5
	DefaultMaxBarSpacing   = 50
	DefaultMaxOverscan     = 10
	DefaultRightOffsetBars = 2
)

func NewTimeScale(opt TimeScaleOptions) *TimeScale {
	if opt.MinBarSpacing <= 0 {
		opt.MinBarSpacing = DefaultMinBarSpacing
	}
	if opt.MaxBarSpacing <= opt.MinBarSpacing {
		opt.MaxBarSpacing = DefaultMaxBarSpacing
	}
	if opt.MaxOverscan <= 0 {
		opt.MaxOverscan = DefaultMaxOverscan
	}
	if opt.PixelWidth <= 0 {
		opt.PixelWidth = 1
	}
	s := &TimeScale{
		pixelWidth:      opt.PixelWidth,
		minBarSpacing:   opt.MinBarSpacing,
		maxBarSpacing:   opt.MaxBarSpacing,
		maxOverscan:     opt.MaxOverscan,
		autoScroll:      opt.AutoScroll,
		rightOffsetBars: opt.RightOffsetBars,
		from:            0,
		to:              1,
	}
	s.barSpacing = s.pixelWidth
	s.applySpacingBounds()
	return s
}

func (s *TimeScale) VisibleRange() (from, to float64) {
	return s.from, s.to
}

func (s *TimeScale) BarSpacing() float64 {
	return s.barSpacing
}

func (s *TimeScale) PixelWidth() float64 {
	return s.pixelWidth
}

func (s *TimeScale) DataLength() int {
	return s.dataLen
}

func (s *TimeScale) AutoScroll() bool {
	return s.autoScroll
}

func (s *TimeScale) SetAutoScroll(enabled bool) {
	s.autoScroll = enabled
}

// minVisibleBars and maxVisibleBars derive from the bar spacing bounds, so
// that spacing stays within [minBarSpacing, maxBarSpacing] at all times.
func (s *TimeScale) minVisibleBars() float64 {
	return math.Max(1, s.pixelWidth/s.maxBarSpacing)
}

func (s *TimeScale) maxVisibleBars() float64 {
	return math.Max(1, s.pixelWidth/s.minBarSpacing)
}

func (s *TimeScale) minStart() float64 {
	return -s.maxOverscan
}

func (s *TimeScale) maxEnd() float64 {
	return float64(s.dataLen) + s.maxOverscan
}

// clampRange shifts a range with a valid bar count into the overscan
// bounds. The count is always preserved: when the clamped domain is
// narrower than the count, the range invariant wins over the overscan
// bound and the range anchors at the left.
func (s *TimeScale) clampRange(from, to float64) (float64, float64) {
	count := to - from
	if from < s.minStart() {
		from = s.minStart()
		to = from + count
	}
	if to > s.maxEnd() {
		to = s.maxEnd()
		from = to - count
	}
	if from < s.minStart() {
		from = s.minStart()
		to = from + count
	}
	return from, to
}

// SetVisibleRange sets the visible bar index range. The bar count is
// clamped to the spacing bounds and the range is shifted into the overscan
// bounds before the bar spacing is recomputed.
func (s *TimeScale) SetVisibleRange(from, to float64) error {
	if to <= from {
		return &chartval.InvalidRangeError{Min: from, Max: to}
	}
	count := chartval.Clamp(to-from, s.minVisibleBars(), s.maxVisibleBars())
	from, to = s.clampRange(from, from+count)
	s.from = from
	s.to = to
	s.barSpacing = s.pixelWidth / (s.to - s.from)
	return nil
}

// Pan shifts the visible range by deltaBars. At a clamp boundary the range
// stops moving, so panning past the boundary repeatedly is a no-op.
func (s *TimeScale) Pan(deltaBars float64) {
	s.from, s.to = s.clampRange(s.from+deltaBars, s.to+deltaBars)
}

// Zoom scales the number of visible bars by 1/factor. pivotFraction is the
// horizontal position (as a fraction of the pixel width) that keeps its
// logical index, it is clamped to [0, 1].
func (s *TimeScale) Zoom(factor float64, pivotFraction float64) error {
	if factor <= 0 {
		return &chartval.InvalidArgumentError{Name: "zoom factor", Value: factor}
	}
	pivotFraction = chartval.Clamp(pivotFraction, 0, 1)
	count := s.to - s.from
	newCount := chartval.Clamp(count/factor, s.minVisibleBars(), s.maxVisibleBars())
	pivotIndex := s.from + count*pivotFraction
	from := pivotIndex - newCount*pivotFraction
	s.from, s.to = s.clampRange(from, from+newCount)
	s.barSpacing = s.pixelWidth / (s.to - s.from)
	return nil
}

// IndexToPixel returns the horizontal pixel position of the center of the
// bar at the given index.
func (s *TimeScale) IndexToPixel(index float64) float64 {
	return (index - s.from + 0.5) * s.barSpacing
}

// PixelToIndex is the inverse of IndexToPixel.
func (s *TimeScale) PixelToIndex(x float64) float64 {
	return x/s.barSpacing + s.from - 0.5
}

// NearestIndex returns the bar index whose pixel center is closest to x.
// Ties break toward the lower index.
func (s *TimeScale) NearestIndex(x float64) int {
	return int(math.Ceil(s.PixelToIndex(x) - 0.5))
}

// SetDataLength updates the underlying data length, keeping the newest bar
// in view if auto scroll is enabled and the data grew.
func (s *TimeScale) SetDataLength(n int) {
	if n < 0 {
		n = 0
	}
	grown := n > s.dataLen
	s.dataLen = n
	if s.autoScroll && grown {
		s.ScrollToRealtime()
	}
}

// ScrollToRealtime moves the visible range so that the newest bar stays at
// a fixed offset from the right edge. The visible bar count is preserved.
func (s *TimeScale) ScrollToRealtime() {
	count := s.to - s.from
	to := float64(s.dataLen) + math.Min(s.rightOffsetBars, s.maxOverscan)
	_ = s.SetVisibleRange(to-count, to)
}

func (s *TimeScale) SetPixelWidth(w float64) {
	if w <= 0 {
		return
	}
	s.pixelWidth = w
	s.applySpacingBounds()
}

func (s *TimeScale) applySpacingBounds() {
	count := chartval.Clamp(s.to-s.from, s.minVisibleBars(), s.maxVisibleBars())
	s.to = s.from + count
	s.barSpacing = s.pixelWidth / count
}
