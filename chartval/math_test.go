// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"testing"

	"github.com/ericlagergren/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(0.5, 1, 10))
	assert.Equal(t, 10.0, Clamp(11, 1, 10))
	assert.Equal(t, 5.0, Clamp(5, 1, 10))
}

func TestCountDigits(t *testing.T) {
	assert.Equal(t, 0, CountDigits(0))
	assert.Equal(t, 1, CountDigits(7))
	assert.Equal(t, 4, CountDigits(1234))
	assert.Equal(t, 4, CountDigits(-1234))
}

func TestIsGreenCandle(t *testing.T) {
	assert.True(t, IsGreenCandle(10, 11))
	assert.True(t, IsGreenCandle(10, 10))
	assert.False(t, IsGreenCandle(11, 10))
}

func TestCalculateDeltaPercentage(t *testing.T) {
	base := new(decimal.Big).SetUint64(200)
	current := new(decimal.Big).SetUint64(250)
	delta := CalculateDeltaPercentage(base, current)
	assert.Zero(t, delta.Cmp(decimal.New(25, 0)))
	zero := new(decimal.Big)
	assert.Zero(t, CalculateDeltaPercentage(zero, current).Sign())
}

func TestConvertFloatToDecimal(t *testing.T) {
	d := ConvertFloatToDecimal(123.25, 64)
	expected, _ := new(decimal.Big).SetString("123.25")
	assert.Zero(t, d.Cmp(expected))
}
