// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/lotodore/localcache"

	"chartview/chartval"
	"chartview/config"
	"chartview/interval"
)

// HistoryCache avoids re-requesting historic candle data on every chart
// load. Implementations are safe for concurrent use.
type HistoryCache interface {
	GetCandles(ctx context.Context, asset Asset, candleInterval interval.Interval,
		fromTime, toTime time.Time, req func(ctx context.Context) ([]chartval.DataPoint, error)) ([]chartval.DataPoint, error)
}

type localHistoryCache struct {
	feedName string
	data     *localcache.Cache
	initLock sync.Mutex
}

// Cache candle history for some hours, in-progress bars change.
const candleCacheMaxAge = time.Hour * 12

func NewLocalHistoryCache(feedName string) HistoryCache {
	c := localHistoryCache{
		feedName: feedName,
	}
	var err error
	c.data, err = localcache.New(filepath.Join(config.AppName, feedName))
	if err != nil {
		log.Fatalf("error initializing candle cache: %v", err)
	}
	return &c
}

func candleCacheKey(asset Asset, candleInterval interval.Interval, fromTime, toTime time.Time) string {
	return fmt.Sprintf("candles_%s_%d_%d_%d", asset.Symbol, candleInterval, fromTime.Unix(), toTime.Unix())
}

func (c *localHistoryCache) GetCandles(ctx context.Context, asset Asset, candleInterval interval.Interval,
	fromTime, toTime time.Time, req func(ctx context.Context) ([]chartval.DataPoint, error)) ([]chartval.DataPoint, error) {
	key := candleCacheKey(asset, candleInterval, fromTime, toTime)
	err := c.data.PurgeKey(key, candleCacheMaxAge)
	if err != nil {
		log.Printf("error purging cache %s, candle data may be outdated", key)
	}
	candles := c.readCandlesFromCache(key)
	if candles != nil {
		return candles, nil
	}
	return c.initCandleCache(ctx, key, req)
}

func (c *localHistoryCache) readCandlesFromCache(key string) []chartval.DataPoint {
	raw, err := c.data.ReadFile(key)
	if err != nil {
		return nil
	}
	var candles []chartval.DataPoint
	if err = json.Unmarshal(raw, &candles); err == nil {
		return candles
	}
	log.Printf("%s candle cache contains invalid data", c.feedName)
	if err = c.data.Remove(key); err != nil {
		log.Printf("error deleting cache %s, candle data may be invalid", key)
	}
	return nil
}

func (c *localHistoryCache) initCandleCache(ctx context.Context, key string,
	req func(ctx context.Context) ([]chartval.DataPoint, error)) ([]chartval.DataPoint, error) {
	c.initLock.Lock()
	defer c.initLock.Unlock()
	// retry reading cache within lock, to avoid requesting the data twice.
	if candles := c.readCandlesFromCache(key); candles != nil {
		return candles, nil
	}
	log.Printf("requesting %s candles...", c.feedName)
	candles, err := req(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(&candles)
	if err != nil {
		return nil, err
	}
	if err = c.data.WriteFile(key, raw); err != nil {
		return nil, err
	}
	return candles, nil
}
