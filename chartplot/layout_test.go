// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chartview/chartval"
)

func TestNormalizeHeights(t *testing.T) {
	heights, err := NormalizeHeights([]float64{3, 1}, 400)
	assert.NoError(t, err)
	assert.Equal(t, []int{300, 100}, heights)
}

func TestNormalizeHeightsRemainderGoesToLastPane(t *testing.T) {
	heights, err := NormalizeHeights([]float64{1, 1, 1}, 100)
	assert.NoError(t, err)
	assert.Equal(t, []int{33, 33, 34}, heights)
	sum := 0
	for _, h := range heights {
		sum += h
	}
	assert.Equal(t, 100, sum)
}

func TestNormalizeHeightsInvalid(t *testing.T) {
	var argErr *chartval.InvalidArgumentError
	_, err := NormalizeHeights(nil, 400)
	assert.ErrorAs(t, err, &argErr)
	_, err = NormalizeHeights([]float64{1, 0}, 400)
	assert.ErrorAs(t, err, &argErr)
	_, err = NormalizeHeights([]float64{1, -2}, 400)
	assert.ErrorAs(t, err, &argErr)
}
