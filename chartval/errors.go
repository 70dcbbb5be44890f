// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"fmt"
	"time"
)

// All errors below are recoverable. Callers reject the offending call or
// drop the offending input and keep the previous state.

// ValidationError marks a malformed or incomplete data point which is
// rejected before it enters any series.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid data point: %s", e.Reason)
}

// InvalidRangeError marks a range request with max <= min.
type InvalidRangeError struct {
	Min float64
	Max float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: max %f must be greater than min %f", e.Max, e.Min)
}

// InvalidArgumentError marks an out-of-domain argument, such as a
// non-positive zoom factor or pane ratio, or an unknown pane name.
type InvalidArgumentError struct {
	Name  string
	Value any
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %v", e.Name, e.Value)
}

// OutOfOrderUpdateError marks a realtime update older than the last stored
// data point. Updates are never silently reordered.
type OutOfOrderUpdateError struct {
	Last time.Time
	Got  time.Time
}

func (e *OutOfOrderUpdateError) Error() string {
	return fmt.Sprintf("out of order update: %v is before last stored time %v", e.Got, e.Last)
}
