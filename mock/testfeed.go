// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package mock

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/ericlagergren/decimal"

	"chartview/chartval"
	"chartview/feed"
	"chartview/interval"
)

// TestFeed is a deterministic offline feed. History follows a sine wave,
// realtime updates continue it at a fixed rate.
type TestFeed struct {
	candleChans    *feed.ChanMap[feed.CandleUpdate]
	tradeChans     *feed.ChanMap[feed.TradeTick]
	updateRate     time.Duration
	subscribed     map[string]struct{}
	subscribedLock sync.Mutex
}

const testFeedBasePrice = 100.0

func NewTestFeed(updateRate time.Duration) *TestFeed {
	if updateRate <= 0 {
		updateRate = 500 * time.Millisecond
	}
	return &TestFeed{
		candleChans: feed.NewChanMap[feed.CandleUpdate](),
		tradeChans:  feed.NewChanMap[feed.TradeTick](),
		updateRate:  updateRate,
		subscribed:  make(map[string]struct{}),
	}
}

func (f *TestFeed) Name() string {
	return "test"
}

func testPrice(barIndex int64) float64 {
	return testFeedBasePrice + 10*math.Sin(float64(barIndex)/10)
}

func testCandle(barStart time.Time) chartval.DataPoint {
	i := barStart.Unix() / 60
	open := testPrice(i)
	close := testPrice(i + 1)
	high := math.Max(open, close) + 0.5
	low := math.Min(open, close) - 0.5
	p, err := chartval.NewOHLCPoint(barStart, open, high, low, close)
	if err != nil {
		panic(err)
	}
	p, err = p.WithVolume(float64(100 + i%17))
	if err != nil {
		panic(err)
	}
	return p
}

func (f *TestFeed) QueryCandles(ctx context.Context, asset feed.Asset, candleInterval interval.Interval,
	fromTime, toTime time.Time) ([]chartval.DataPoint, error) {
	var candles []chartval.DataPoint
	for t := candleInterval.Truncate(fromTime); !t.After(toTime); t = candleInterval.NthTime(t, 1) {
		candles = append(candles, testCandle(t))
	}
	return candles, nil
}

func (f *TestFeed) SubscribeCandles(asset feed.Asset) (chan feed.CandleUpdate, error) {
	c, err := f.candleChans.Subscribe(asset)
	if err != nil {
		return nil, err
	}
	f.subscribedLock.Lock()
	f.subscribed[asset.Symbol] = struct{}{}
	f.subscribedLock.Unlock()
	return c, nil
}

func (f *TestFeed) UnsubscribeCandles(asset feed.Asset) error {
	f.subscribedLock.Lock()
	delete(f.subscribed, asset.Symbol)
	f.subscribedLock.Unlock()
	return f.candleChans.Unsubscribe(asset)
}

func (f *TestFeed) SubscribeTrades(asset feed.Asset) (chan feed.TradeTick, error) {
	return f.tradeChans.Subscribe(asset)
}

func (f *TestFeed) UnsubscribeTrades(asset feed.Asset) error {
	return f.tradeChans.Unsubscribe(asset)
}

// Run publishes a candle update and a trade tick for every subscribed
// symbol at the configured rate until the context is cancelled.
func (f *TestFeed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.updateRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			f.candleChans.Close()
			f.tradeChans.Close()
			return
		case now := <-ticker.C:
			f.publishUpdates(now.UTC())
		}
	}
}

func (f *TestFeed) publishUpdates(now time.Time) {
	barStart := interval.OneMinute.Truncate(now)
	point := testCandle(barStart)
	f.subscribedLock.Lock()
	symbols := make([]string, 0, len(f.subscribed))
	for symbol := range f.subscribed {
		symbols = append(symbols, symbol)
	}
	f.subscribedLock.Unlock()
	for _, symbol := range symbols {
		_ = f.candleChans.Publish(symbol, feed.CandleUpdate{Symbol: symbol, Point: point})
		_ = f.tradeChans.Publish(symbol, feed.TradeTick{
			Symbol: symbol,
			Time:   now,
			Price:  chartval.ConvertFloatToDecimal(point.Close, 64),
			Volume: decimal.New(1, 0),
		})
	}
	f.candleChans.CloseUnsubscribed()
	f.tradeChans.CloseUnsubscribed()
}
