// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testTime = time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)

func TestNewValuePoint(t *testing.T) {
	p, err := NewValuePoint(testTime, 42.5)
	assert.NoError(t, err)
	assert.Equal(t, KindValue, p.Kind)
	assert.Equal(t, 42.5, p.Value)
	assert.Equal(t, 42.5, p.MinValue())
	assert.Equal(t, 42.5, p.MaxValue())
	assert.False(t, p.HasVolume)
}

func TestNewValuePointInvalid(t *testing.T) {
	var valErr *ValidationError
	_, err := NewValuePoint(time.Time{}, 1)
	assert.ErrorAs(t, err, &valErr)
	_, err = NewValuePoint(testTime, math.NaN())
	assert.ErrorAs(t, err, &valErr)
	_, err = NewValuePoint(testTime, math.Inf(1))
	assert.ErrorAs(t, err, &valErr)
}

func TestNewOHLCPoint(t *testing.T) {
	p, err := NewOHLCPoint(testTime, 10, 12, 9, 11)
	assert.NoError(t, err)
	assert.Equal(t, KindOHLC, p.Kind)
	assert.Equal(t, float64(9), p.MinValue())
	assert.Equal(t, float64(12), p.MaxValue())
}

func TestNewOHLCPointInvalid(t *testing.T) {
	var valErr *ValidationError
	_, err := NewOHLCPoint(time.Time{}, 10, 12, 9, 11)
	assert.ErrorAs(t, err, &valErr)
	_, err = NewOHLCPoint(testTime, 10, 9, 12, 11)
	assert.ErrorAs(t, err, &valErr, "high below low must be rejected")
	_, err = NewOHLCPoint(testTime, math.NaN(), 12, 9, 11)
	assert.ErrorAs(t, err, &valErr)
}

func TestWithVolume(t *testing.T) {
	p, err := NewOHLCPoint(testTime, 10, 12, 9, 11)
	assert.NoError(t, err)
	p, err = p.WithVolume(1250)
	assert.NoError(t, err)
	assert.True(t, p.HasVolume)
	assert.Equal(t, float64(1250), p.Volume)
	var valErr *ValidationError
	_, err = p.WithVolume(-1)
	assert.ErrorAs(t, err, &valErr)
	_, err = p.WithVolume(math.NaN())
	assert.ErrorAs(t, err, &valErr)
}
