// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"math"

	"chartview/chartval"
)

// DefaultSeparatorHeight is the pixel height of the divider between panes.
const DefaultSeparatorHeight = 1

// NormalizeHeights distributes canvasHeight among panes proportionally to
// their ratios. Rounding errors are absorbed by the last pane, so the
// returned heights always sum to canvasHeight exactly.
func NormalizeHeights(ratios []float64, canvasHeight int) ([]int, error) {
	if len(ratios) == 0 {
		return nil, &chartval.InvalidArgumentError{Name: "ratios", Value: len(ratios)}
	}
	var sum float64
	for _, r := range ratios {
		if r <= 0 {
			return nil, &chartval.InvalidArgumentError{Name: "height ratio", Value: r}
		}
		sum += r
	}
	heights := make([]int, len(ratios))
	used := 0
	for i, r := range ratios[:len(ratios)-1] {
		heights[i] = int(math.Round(r / sum * float64(canvasHeight)))
		used += heights[i]
	}
	heights[len(ratios)-1] = canvasHeight - used
	return heights, nil
}
