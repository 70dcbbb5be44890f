// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"strconv"

	"github.com/ericlagergren/decimal"
)

const NearZero = 0.000001

func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func CountDigits(v int64) int {
	var count int
	for ; v != 0; v /= 10 {
		count++
	}
	return count
}

// A candle closing exactly at its open counts as green.
func IsGreenCandle(o, c float64) bool {
	return c >= o
}

// CalculateDeltaPercentage returns the percentage change from baseValue to
// currentValue. A zero base yields zero, Quo would set an error condition.
func CalculateDeltaPercentage(baseValue, currentValue *decimal.Big) *decimal.Big {
	percentage := new(decimal.Big)
	if baseValue.Sign() != 0 {
		percentage.Quo(currentValue, baseValue)
		percentage.Sub(percentage, decimal.New(1, 0))
		percentage.Mul(percentage, decimal.New(100, 0))
	}
	return percentage
}

// ConvertFloatToDecimal converts via the string form. decimal.Big's own
// float64 conversion is exact in the binary sense and produces unusable
// price values, see https://github.com/ericlagergren/decimal/issues/142
func ConvertFloatToDecimal(v float64, bitSize int) *decimal.Big {
	d, _ := new(decimal.Big).SetString(strconv.FormatFloat(v, 'f', -1, bitSize))
	return d
}
