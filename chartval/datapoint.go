// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import (
	"math"
	"time"
)

type PointKind int32

const (
	KindValue PointKind = iota
	KindOHLC
)

// DataPoint is a time-indexed record holding either a single value or an
// OHLC quadruple with optional volume. The kind is fixed at construction,
// downstream code switches on the closed set of two shapes.
type DataPoint struct {
	Kind      PointKind
	Time      time.Time
	Value     float64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	HasVolume bool
}

func NewValuePoint(t time.Time, value float64) (DataPoint, error) {
	if t.IsZero() {
		return DataPoint{}, &ValidationError{Reason: "missing time"}
	}
	if !isFinite(value) {
		return DataPoint{}, &ValidationError{Reason: "value is not a finite number"}
	}
	return DataPoint{Kind: KindValue, Time: t, Value: value}, nil
}

func NewOHLCPoint(t time.Time, o, h, l, c float64) (DataPoint, error) {
	if t.IsZero() {
		return DataPoint{}, &ValidationError{Reason: "missing time"}
	}
	if !isFinite(o) || !isFinite(h) || !isFinite(l) || !isFinite(c) {
		return DataPoint{}, &ValidationError{Reason: "ohlc field is not a finite number"}
	}
	// Feeds may deliver transient candles where high/low do not yet cover
	// open/close, but an inverted high/low pair is always invalid.
	if h < l {
		return DataPoint{}, &ValidationError{Reason: "high is below low"}
	}
	return DataPoint{Kind: KindOHLC, Time: t, Open: o, High: h, Low: l, Close: c}, nil
}

// WithVolume returns a copy of p with the given volume attached.
func (p DataPoint) WithVolume(v float64) (DataPoint, error) {
	if !isFinite(v) || v < 0 {
		return DataPoint{}, &ValidationError{Reason: "volume is not a finite non-negative number"}
	}
	p.Volume = v
	p.HasVolume = true
	return p, nil
}

// MinValue returns the lower end of the point within the value domain.
func (p DataPoint) MinValue() float64 {
	if p.Kind == KindOHLC {
		return p.Low
	}
	return p.Value
}

// MaxValue returns the upper end of the point within the value domain.
func (p DataPoint) MaxValue() float64 {
	if p.Kind == KindOHLC {
		return p.High
	}
	return p.Value
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
