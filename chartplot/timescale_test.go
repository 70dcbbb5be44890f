// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chartview/chartval"
)

func newTestTimeScale(t *testing.T, dataLen int) *TimeScale {
	t.Helper()
	s := NewTimeScale(TimeScaleOptions{PixelWidth: 100})
	s.SetDataLength(dataLen)
	return s
}

func TestSetVisibleRange(t *testing.T) {
	s := newTestTimeScale(t, 100)
	assert.NoError(t, s.SetVisibleRange(0, 10))
	from, to := s.VisibleRange()
	assert.Equal(t, float64(0), from)
	assert.Equal(t, float64(10), to)
	assert.Equal(t, float64(10), s.BarSpacing())
}

func TestSetVisibleRangeInvalid(t *testing.T) {
	s := newTestTimeScale(t, 100)
	err := s.SetVisibleRange(10, 10)
	var rangeErr *chartval.InvalidRangeError
	assert.ErrorAs(t, err, &rangeErr)
	err = s.SetVisibleRange(10, 5)
	assert.ErrorAs(t, err, &rangeErr)
}

func TestSetVisibleRangeClampsOverscan(t *testing.T) {
	s := newTestTimeScale(t, 100)
	assert.NoError(t, s.SetVisibleRange(-50, -30))
	from, _ := s.VisibleRange()
	assert.Equal(t, float64(-DefaultMaxOverscan), from)
	assert.NoError(t, s.SetVisibleRange(150, 170))
	_, to := s.VisibleRange()
	assert.Equal(t, float64(100+DefaultMaxOverscan), to)
}

func TestSetVisibleRangeClampsBarSpacing(t *testing.T) {
	s := newTestTimeScale(t, 1000)
	// 500 bars over 100px would be 0.2px spacing, below the minimum.
	assert.NoError(t, s.SetVisibleRange(0, 500))
	from, to := s.VisibleRange()
	assert.InDelta(t, 100/DefaultMinBarSpacing, to-from, 1e-9)
	assert.InDelta(t, DefaultMinBarSpacing, s.BarSpacing(), 1e-9)
	// A single visible bar would be 100px spacing, above the maximum.
	assert.NoError(t, s.SetVisibleRange(0, 1))
	from, to = s.VisibleRange()
	assert.InDelta(t, 100/DefaultMaxBarSpacing, to-from, 1e-9)
	assert.InDelta(t, DefaultMaxBarSpacing, s.BarSpacing(), 1e-9)
}

func TestIndexPixelRoundTrip(t *testing.T) {
	s := newTestTimeScale(t, 100)
	assert.NoError(t, s.SetVisibleRange(0, 10))
	// Bar centers sit at the middle of each bar column.
	assert.InDelta(t, 55, s.IndexToPixel(5), 1e-9)
	assert.InDelta(t, 5, s.PixelToIndex(55), 1e-9)
	for i := 0; i < 10; i++ {
		x := s.IndexToPixel(float64(i))
		assert.Equal(t, i, s.NearestIndex(x))
	}
}

func TestNearestIndexTieBreak(t *testing.T) {
	s := newTestTimeScale(t, 100)
	assert.NoError(t, s.SetVisibleRange(0, 10))
	// x=60 is equidistant between bar 5 (center 55) and bar 6 (center 65).
	assert.Equal(t, 5, s.NearestIndex(60))
	assert.Equal(t, 6, s.NearestIndex(60.001))
}

func TestPanClampIsIdempotent(t *testing.T) {
	s := newTestTimeScale(t, 100)
	assert.NoError(t, s.SetVisibleRange(0, 10))
	s.Pan(-1000)
	from, to := s.VisibleRange()
	assert.Equal(t, float64(-DefaultMaxOverscan), from)
	s.Pan(-5)
	from2, to2 := s.VisibleRange()
	assert.Equal(t, from, from2)
	assert.Equal(t, to, to2)
	s.Pan(1000)
	_, to = s.VisibleRange()
	assert.Equal(t, float64(100+DefaultMaxOverscan), to)
}

func TestPanOnEmptyData(t *testing.T) {
	// Zero-value options fall back to the documented defaults, including
	// the overscan bound.
	s := NewTimeScale(TimeScaleOptions{PixelWidth: 100})
	from, to := s.VisibleRange()
	assert.GreaterOrEqual(t, to-from, float64(1))
	s.Pan(5)
	from, to = s.VisibleRange()
	assert.GreaterOrEqual(t, to-from, float64(1), "visible range must never be empty")
	assert.LessOrEqual(t, to, float64(DefaultMaxOverscan))
	s.Pan(1000)
	from, to = s.VisibleRange()
	assert.GreaterOrEqual(t, to-from, float64(1))
	assert.Equal(t, float64(DefaultMaxOverscan), to)
	assert.InDelta(t, s.PixelWidth()/(to-from), s.BarSpacing(), 1e-9)
}

func TestZoomInverse(t *testing.T) {
	s := newTestTimeScale(t, 100)
	assert.NoError(t, s.SetVisibleRange(20, 40))
	assert.NoError(t, s.Zoom(2, 0.5))
	from, to := s.VisibleRange()
	assert.InDelta(t, 25, from, 1e-9)
	assert.InDelta(t, 35, to, 1e-9)
	assert.NoError(t, s.Zoom(0.5, 0.5))
	from, to = s.VisibleRange()
	assert.InDelta(t, 20, from, 1e-9)
	assert.InDelta(t, 40, to, 1e-9)
}

func TestZoomKeepsPivotIndex(t *testing.T) {
	s := newTestTimeScale(t, 100)
	assert.NoError(t, s.SetVisibleRange(20, 40))
	pivotIndex := s.PixelToIndex(25)
	assert.NoError(t, s.Zoom(2, 0.25))
	assert.InDelta(t, pivotIndex, s.PixelToIndex(25), 1e-9)
}

func TestZoomInvalidFactor(t *testing.T) {
	s := newTestTimeScale(t, 100)
	var argErr *chartval.InvalidArgumentError
	assert.ErrorAs(t, s.Zoom(0, 0.5), &argErr)
	assert.ErrorAs(t, s.Zoom(-1, 0.5), &argErr)
}

func TestAutoScrollOnDataGrowth(t *testing.T) {
	s := NewTimeScale(TimeScaleOptions{
		PixelWidth:      100,
		AutoScroll:      true,
		RightOffsetBars: 2,
	})
	s.SetDataLength(50)
	assert.NoError(t, s.SetVisibleRange(30, 50))
	s.SetDataLength(51)
	from, to := s.VisibleRange()
	assert.InDelta(t, 53, to, 1e-9)
	assert.InDelta(t, 33, from, 1e-9)
	// Shrinking or unchanged data must not scroll.
	assert.NoError(t, s.SetVisibleRange(10, 30))
	s.SetDataLength(51)
	from, _ = s.VisibleRange()
	assert.InDelta(t, 10, from, 1e-9)
}

func TestSetPixelWidthKeepsVisibleRange(t *testing.T) {
	s := newTestTimeScale(t, 100)
	assert.NoError(t, s.SetVisibleRange(0, 10))
	s.SetPixelWidth(200)
	from, to := s.VisibleRange()
	assert.Equal(t, float64(0), from)
	assert.Equal(t, float64(10), to)
	assert.InDelta(t, 20, s.BarSpacing(), 1e-9)
}
