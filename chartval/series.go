// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"time"
)

// Series stores DataPoints in time order, indexable by integer position
// ("bar index"). Within one series, bar index is a strictly increasing
// bijection with time order. A Series is owned by exactly one pane and is
// only ever mutated from the chart's event loop.
type Series struct {
	name string
	kind PointKind
	data []DataPoint
}

func NewSeries(name string, kind PointKind) *Series {
	return &Series{
		name: name,
		kind: kind,
	}
}

func (s *Series) Name() string {
	return s.name
}

func (s *Series) Kind() PointKind {
	return s.kind
}

func (s *Series) Len() int {
	return len(s.data)
}

func (s *Series) At(i int) (DataPoint, bool) {
	if i < 0 || i >= len(s.data) {
		return DataPoint{}, false
	}
	return s.data[i], true
}

func (s *Series) Last() (DataPoint, bool) {
	if len(s.data) == 0 {
		return DataPoint{}, false
	}
	return s.data[len(s.data)-1], true
}

func (s *Series) TimeAt(i int) (time.Time, bool) {
	if i < 0 || i >= len(s.data) {
		return time.Time{}, false
	}
	return s.data[i].Time, true
}

// Slice returns the stored points within bar index range [from, to).
// Both ends are clamped to the data bounds.
func (s *Series) Slice(from, to int) []DataPoint {
	if from < 0 {
		from = 0
	}
	if to > len(s.data) {
		to = len(s.data)
	}
	if from >= to {
		return nil
	}
	return s.data[from:to]
}

// SetData replaces the stored points. Times must be strictly increasing and
// all points must match the series kind, otherwise the series is unchanged.
func (s *Series) SetData(points []DataPoint) error {
	for i := range points {
		if points[i].Kind != s.kind {
			return &ValidationError{Reason: "data point kind does not match series"}
		}
		if i > 0 && !points[i].Time.After(points[i-1].Time) {
			return &ValidationError{Reason: "data point times are not strictly increasing"}
		}
	}
	s.data = append(s.data[:0], points...)
	return nil
}

// MergePoint applies a realtime update.
// A strictly later time appends a new bar. An equal time updates the last
// bar in place: high/low widen monotonically, close and value are
// overwritten. An earlier time fails without mutating the series.
func (s *Series) MergePoint(p DataPoint) (appended bool, err error) {
	if p.Kind != s.kind {
		return false, &ValidationError{Reason: "data point kind does not match series"}
	}
	if len(s.data) == 0 {
		s.data = append(s.data, p)
		return true, nil
	}
	last := &s.data[len(s.data)-1]
	if p.Time.After(last.Time) {
		s.data = append(s.data, p)
		return true, nil
	}
	if p.Time.Before(last.Time) {
		return false, &OutOfOrderUpdateError{Last: last.Time, Got: p.Time}
	}
	// In-progress bar update.
	switch s.kind {
	case KindValue:
		last.Value = p.Value
	case KindOHLC:
		if p.High > last.High {
			last.High = p.High
		}
		if p.Low < last.Low {
			last.Low = p.Low
		}
		last.Close = p.Close
		if p.HasVolume {
			last.Volume = p.Volume
			last.HasVolume = true
		}
	}
	return false, nil
}
