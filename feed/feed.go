// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package feed

import (
	"context"
	"time"

	"github.com/ericlagergren/decimal"

	"chartview/chartval"
	"chartview/interval"
)

// Asset identifies one tradable instrument of a feed.
type Asset struct {
	Symbol string
	Name   string
}

// TradeTick is one trade as delivered by a realtime feed.
type TradeTick struct {
	Symbol string
	Time   time.Time
	Price  *decimal.Big
	Volume *decimal.Big
}

// HistoryProvider delivers historic candle data.
type HistoryProvider interface {
	// QueryCandles returns candles for the given range in ascending
	// time order.
	QueryCandles(ctx context.Context, asset Asset, candleInterval interval.Interval, fromTime, toTime time.Time) ([]chartval.DataPoint, error)
}

// CandleUpdate is one live update of an in-progress candle. The volume of
// the point is the cumulative volume of the bar so far.
type CandleUpdate struct {
	Symbol string
	Point  chartval.DataPoint
}

// RealtimeProvider delivers live data. Updates for a subscribed asset are
// published to the returned channel until the matching unsubscribe call.
type RealtimeProvider interface {
	Run(ctx context.Context)
	SubscribeCandles(asset Asset) (chan CandleUpdate, error)
	UnsubscribeCandles(asset Asset) error
	SubscribeTrades(asset Asset) (chan TradeTick, error)
	UnsubscribeTrades(asset Asset) error
}

// Feed combines history and realtime access of one data source.
type Feed interface {
	HistoryProvider
	RealtimeProvider
	Name() string
}

// TickToCandlePoint converts a raw trade tick into an in-progress candle
// update for the bar containing the tick. Merging consecutive tick points
// into a series reconstructs open, high, low and close. The tick volume is
// not carried over, a single trade does not know the bar volume.
func TickToCandlePoint(candleInterval interval.Interval, tick TradeTick) (chartval.DataPoint, error) {
	if tick.Price == nil {
		return chartval.DataPoint{}, &chartval.ValidationError{Reason: "tick without price"}
	}
	price, _ := tick.Price.Float64()
	return chartval.NewOHLCPoint(candleInterval.Truncate(tick.Time), price, price, price, price)
}
