// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chartview/chartval"
)

func valuePoints(t *testing.T, values ...float64) []chartval.DataPoint {
	t.Helper()
	points := make([]chartval.DataPoint, len(values))
	for i, v := range values {
		p, err := chartval.NewValuePoint(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i), v)
		assert.NoError(t, err)
		points[i] = p
	}
	return points
}

func TestAutoRange(t *testing.T) {
	s := NewPriceScale(0.1)
	s.AutoRange(valuePoints(t, 7, 5, 10, 6))
	min, max := s.Range()
	assert.InDelta(t, 4.5, min, 1e-9)
	assert.InDelta(t, 10.5, max, 1e-9)
}

func TestAutoRangeDegenerate(t *testing.T) {
	s := NewPriceScale(0.1)
	s.AutoRange(valuePoints(t, 7, 7, 7))
	min, max := s.Range()
	assert.InDelta(t, 6, min, 1e-9)
	assert.InDelta(t, 8, max, 1e-9)
}

func TestAutoRangeUsesCandleExtrema(t *testing.T) {
	s := NewPriceScale(0)
	p, err := chartval.NewOHLCPoint(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 5, 12, 4, 9)
	assert.NoError(t, err)
	s.AutoRange([]chartval.DataPoint{p})
	min, max := s.Range()
	assert.InDelta(t, 4, min, 1e-9)
	assert.InDelta(t, 12, max, 1e-9)
}

func TestAutoRangeEmptyKeepsRange(t *testing.T) {
	s := NewPriceScale(0.1)
	min, max := s.Range()
	s.AutoRange(nil)
	min2, max2 := s.Range()
	assert.Equal(t, min, min2)
	assert.Equal(t, max, max2)
}

func TestManualRangeSuspendsAutoRange(t *testing.T) {
	s := NewPriceScale(0.1)
	assert.NoError(t, s.SetManualRange(0, 50))
	s.AutoRange(valuePoints(t, 5, 10))
	min, max := s.Range()
	assert.Equal(t, float64(0), min)
	assert.Equal(t, float64(50), max)
	s.ClearManualRange()
	s.AutoRange(valuePoints(t, 5, 10))
	min, max = s.Range()
	assert.InDelta(t, 4.5, min, 1e-9)
	assert.InDelta(t, 10.5, max, 1e-9)
}

func TestManualRangeInvalid(t *testing.T) {
	s := NewPriceScale(0.1)
	var rangeErr *chartval.InvalidRangeError
	assert.ErrorAs(t, s.SetManualRange(10, 10), &rangeErr)
	assert.ErrorAs(t, s.SetManualRange(10, 5), &rangeErr)
}

func TestValuePixelRoundTrip(t *testing.T) {
	s := NewPriceScale(0.1)
	s.SetPixelHeight(200)
	assert.NoError(t, s.SetManualRange(0, 100))
	// Larger values are closer to the top of the pane.
	assert.InDelta(t, 0, s.ValueToPixel(100), 1e-9)
	assert.InDelta(t, 200, s.ValueToPixel(0), 1e-9)
	assert.InDelta(t, 100, s.ValueToPixel(50), 1e-9)
	for _, v := range []float64{0, 12.5, 50, 99, 100} {
		assert.InDelta(t, v, s.PixelToValue(s.ValueToPixel(v)), 1e-9)
	}
}

func TestInvertedScale(t *testing.T) {
	s := NewPriceScale(0.1)
	s.SetPixelHeight(200)
	assert.NoError(t, s.SetManualRange(0, 100))
	s.SetInverted(true)
	assert.InDelta(t, 0, s.ValueToPixel(0), 1e-9)
	assert.InDelta(t, 200, s.ValueToPixel(100), 1e-9)
	assert.InDelta(t, 25, s.PixelToValue(s.ValueToPixel(25)), 1e-9)
}
