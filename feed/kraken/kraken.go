// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package kraken

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ericlagergren/decimal"
	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"

	"chartview/chartval"
	"chartview/config"
	"chartview/feed"
	"chartview/interval"
	"chartview/webclient"
)

// We directly unmarshal price values into decimal.Big, float32/float64
// are bad for price calculations.
type krakenFeed struct {
	// Kraken public endpoints are limited per IP, there are no rate limit headers.
	rateLimiter    *webclient.RateLimiter
	apiClient      *http.Client
	apiURL         string
	wsURL          string
	candleInterval interval.Interval
	candleChans    *feed.ChanMap[feed.CandleUpdate]
	tradeChans     *feed.ChanMap[feed.TradeTick]
	cache          feed.HistoryCache
	commands       chan wsCommand
	subscribed     map[string]struct{}
	subscribedLock sync.Mutex
}

type wsCommand struct {
	event        string
	pair         string
	subscription string
}

type ohlcResponse struct {
	Error  []string                   `json:"error"`
	Result map[string]json.RawMessage `json:"result"`
}

const FeedName = "kraken"

func NewFeed(c config.FeedConfig, candleInterval interval.Interval) feed.Feed {
	return &krakenFeed{
		rateLimiter:    webclient.NewManualRateLimiter(time.Second*time.Duration(c.RateLimitWindowSeconds), c.RateLimitRequests),
		apiClient:      &http.Client{Timeout: time.Second * time.Duration(c.DataTimeoutSeconds)},
		apiURL:         c.ApiUrl,
		wsURL:          c.WsUrl,
		candleInterval: candleInterval,
		candleChans:    feed.NewChanMap[feed.CandleUpdate](),
		tradeChans:     feed.NewChanMap[feed.TradeTick](),
		cache:          feed.NewLocalHistoryCache(FeedName),
		commands:       make(chan wsCommand, 128),
		subscribed:     make(map[string]struct{}),
	}
}

func (rq *krakenFeed) Name() string {
	return FeedName
}

func (rq *krakenFeed) RemainingApiLimit() int {
	return rq.rateLimiter.Remaining()
}

// getIntervalMinutes maps a candle interval to the kraken interval
// parameter, which is in minutes.
func getIntervalMinutes(candleInterval interval.Interval) (int, error) {
	switch candleInterval {
	case interval.OneMinute:
		return 1, nil
	case interval.FiveMinutes:
		return 5, nil
	case interval.FifteenMinutes:
		return 15, nil
	case interval.ThirtyMinutes:
		return 30, nil
	case interval.SixtyMinutes:
		return 60, nil
	case interval.OneDay:
		return 1440, nil
	case interval.OneWeek:
		return 10080, nil
	default:
		return 0, &chartval.InvalidArgumentError{Name: "candle interval", Value: candleInterval}
	}
}

// restPair strips the slash from a trading pair, the REST api expects
// "XBTUSD" while the websocket api expects "XBT/USD".
func restPair(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

func (rq *krakenFeed) QueryCandles(ctx context.Context, asset feed.Asset, candleInterval interval.Interval,
	fromTime, toTime time.Time) ([]chartval.DataPoint, error) {
	return rq.cache.GetCandles(ctx, asset, candleInterval, fromTime, toTime,
		func(ctx context.Context) ([]chartval.DataPoint, error) {
			return rq.queryCandles(ctx, asset, candleInterval, fromTime, toTime)
		})
}

func (rq *krakenFeed) queryCandles(ctx context.Context, asset feed.Asset, candleInterval interval.Interval,
	fromTime, toTime time.Time) ([]chartval.DataPoint, error) {
	minutes, err := getIntervalMinutes(candleInterval)
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Add("pair", restPair(asset.Symbol))
	query.Add("interval", fmt.Sprint(minutes))
	query.Add("since", fmt.Sprint(fromTime.Unix()))
	var resp ohlcResponse
	err = webclient.GetJson(ctx, rq.apiClient, rq.rateLimiter, rq.apiURL+"/0/public/OHLC?"+query.Encode(), &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Error) > 0 {
		return nil, fmt.Errorf("kraken OHLC query failed: %s", strings.Join(resp.Error, "; "))
	}
	candles, err := parseCandleRows(resp.Result)
	if err != nil {
		return nil, err
	}
	// Kraken does not support an upper bound, filter locally.
	filtered := candles[:0]
	for _, c := range candles {
		if !c.Time.After(toTime) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// parseCandleRows extracts the candle array from the result map. The key
// is the normalised pair name, which differs from the requested pair, so
// the single non-"last" entry is used.
func parseCandleRows(result map[string]json.RawMessage) ([]chartval.DataPoint, error) {
	for key, raw := range result {
		if key == "last" {
			continue
		}
		var rows [][]json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, err
		}
		candles := make([]chartval.DataPoint, 0, len(rows))
		for _, row := range rows {
			c, err := parseCandleRow(row)
			if err != nil {
				return nil, err
			}
			candles = append(candles, c)
		}
		return candles, nil
	}
	return nil, fmt.Errorf("kraken OHLC response contains no candle data")
}

// A candle row is [time, open, high, low, close, vwap, volume, count],
// with prices as strings and time in unix seconds.
func parseCandleRow(row []json.RawMessage) (chartval.DataPoint, error) {
	if len(row) < 8 {
		return chartval.DataPoint{}, fmt.Errorf("unexpected candle row length %d", len(row))
	}
	var barTime int64
	if err := json.Unmarshal(row[0], &barTime); err != nil {
		return chartval.DataPoint{}, err
	}
	values := make([]float64, 4)
	for i, raw := range row[1:5] {
		v, err := parseDecimalField(raw)
		if err != nil {
			return chartval.DataPoint{}, err
		}
		values[i], _ = v.Float64()
	}
	p, err := chartval.NewOHLCPoint(time.Unix(barTime, 0).UTC(), values[0], values[1], values[2], values[3])
	if err != nil {
		return chartval.DataPoint{}, err
	}
	volume, err := parseDecimalField(row[6])
	if err != nil {
		return chartval.DataPoint{}, err
	}
	volumeFloat, _ := volume.Float64()
	return p.WithVolume(volumeFloat)
}

// parseUnixTime parses a timestamp string like "1672531255.5012" without
// going through float64, which loses sub-second precision at unix epoch
// magnitudes.
func parseUnixTime(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	secondsStr, fracStr, _ := strings.Cut(s, ".")
	seconds, err := strconv.ParseInt(secondsStr, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	var nanos int64
	if fracStr != "" {
		if len(fracStr) > 9 {
			fracStr = fracStr[:9]
		}
		for len(fracStr) < 9 {
			fracStr += "0"
		}
		nanos, err = strconv.ParseInt(fracStr, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
		}
	}
	return time.Unix(seconds, nanos).UTC(), nil
}

func parseDecimalField(raw json.RawMessage) (*decimal.Big, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	v, ok := new(decimal.Big).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid decimal value %q", s)
	}
	return v, nil
}

func (rq *krakenFeed) SubscribeCandles(asset feed.Asset) (chan feed.CandleUpdate, error) {
	c, err := rq.candleChans.Subscribe(asset)
	if err != nil {
		return nil, err
	}
	rq.requestSubscription("subscribe", asset.Symbol, "ohlc")
	return c, nil
}

func (rq *krakenFeed) UnsubscribeCandles(asset feed.Asset) error {
	rq.requestSubscription("unsubscribe", asset.Symbol, "ohlc")
	return rq.candleChans.Unsubscribe(asset)
}

func (rq *krakenFeed) SubscribeTrades(asset feed.Asset) (chan feed.TradeTick, error) {
	c, err := rq.tradeChans.Subscribe(asset)
	if err != nil {
		return nil, err
	}
	rq.requestSubscription("subscribe", asset.Symbol, "trade")
	return c, nil
}

func (rq *krakenFeed) UnsubscribeTrades(asset feed.Asset) error {
	rq.requestSubscription("unsubscribe", asset.Symbol, "trade")
	return rq.tradeChans.Unsubscribe(asset)
}

func (rq *krakenFeed) requestSubscription(event, pair, subscription string) {
	cmd := wsCommand{event: event, pair: pair, subscription: subscription}
	rq.subscribedLock.Lock()
	key := subscription + ":" + pair
	if event == "subscribe" {
		rq.subscribed[key] = struct{}{}
	} else {
		delete(rq.subscribed, key)
	}
	rq.subscribedLock.Unlock()
	select {
	case rq.commands <- cmd:
	default:
		log.Printf("kraken subscription command buffer overflow, %s %s dropped", event, pair)
	}
}

// pendingSubscriptions returns commands re-establishing all current
// subscriptions, used after a reconnect.
func (rq *krakenFeed) pendingSubscriptions() []wsCommand {
	rq.subscribedLock.Lock()
	defer rq.subscribedLock.Unlock()
	cmds := make([]wsCommand, 0, len(rq.subscribed))
	for key := range rq.subscribed {
		sub, pair, _ := strings.Cut(key, ":")
		cmds = append(cmds, wsCommand{event: "subscribe", pair: pair, subscription: sub})
	}
	return cmds
}

// Run maintains the realtime websocket connection until the context is
// cancelled, reconnecting with exponential backoff.
func (rq *krakenFeed) Run(ctx context.Context) {
	b := &backoff.Backoff{
		Min:    time.Second,
		Max:    webclient.MinReconnectWaitTime * 6,
		Jitter: true,
	}
	for {
		if ctx.Err() != nil {
			rq.candleChans.Close()
			rq.tradeChans.Close()
			return
		}
		err := rq.connectAndRead(ctx)
		if err != nil && ctx.Err() == nil {
			wait := b.Duration()
			log.Printf("kraken websocket failed: %v - reconnecting in %v", err, wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
			}
		} else {
			b.Reset()
		}
	}
}

func (rq *krakenFeed) connectAndRead(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rq.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	// Close the connection when the context is cancelled.
	closeCtx, stopCloseHandler := context.WithCancel(ctx)
	defer stopCloseHandler()
	go func() {
		<-closeCtx.Done()
		conn.Close()
	}()
	for _, cmd := range rq.pendingSubscriptions() {
		if err = rq.writeCommand(conn, cmd); err != nil {
			return err
		}
	}
	go rq.handleCommands(closeCtx, conn)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil // clean shutdown
			}
			return fmt.Errorf("read: %w", err)
		}
		rq.handleRealtimeMessage(msg)
		rq.candleChans.CloseUnsubscribed()
		rq.tradeChans.CloseUnsubscribed()
	}
}

func (rq *krakenFeed) handleCommands(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-rq.commands:
			if err := rq.writeCommand(conn, cmd); err != nil {
				log.Printf("kraken websocket write failed: %v", err)
				return
			}
		}
	}
}

func (rq *krakenFeed) writeCommand(conn *websocket.Conn, cmd wsCommand) error {
	msg := map[string]any{
		"event": cmd.event,
		"pair":  []string{cmd.pair},
	}
	sub := map[string]any{"name": cmd.subscription}
	if cmd.subscription == "ohlc" {
		minutes, err := getIntervalMinutes(rq.candleInterval)
		if err != nil {
			return err
		}
		sub["interval"] = minutes
	}
	msg["subscription"] = sub
	return conn.WriteJSON(msg)
}

// handleRealtimeMessage parses one websocket message. Data messages are
// arrays [channelID, payload, channelName, pair]; everything else is an
// event object (heartbeats, subscription status) and is skipped.
func (rq *krakenFeed) handleRealtimeMessage(msg []byte) {
	var parts []json.RawMessage
	if err := json.Unmarshal(msg, &parts); err != nil || len(parts) < 4 {
		return
	}
	var channelName, pair string
	if err := json.Unmarshal(parts[len(parts)-2], &channelName); err != nil {
		return
	}
	if err := json.Unmarshal(parts[len(parts)-1], &pair); err != nil {
		return
	}
	switch {
	case strings.HasPrefix(channelName, "ohlc"):
		update, err := parseOhlcPayload(parts[1], rq.candleInterval)
		if err != nil {
			log.Printf("kraken ohlc payload invalid: %v", err)
			return
		}
		update.Symbol = pair
		if err = rq.candleChans.Publish(pair, update); err != nil {
			log.Print(err)
		}
	case channelName == "trade":
		ticks, err := parseTradePayload(parts[1])
		if err != nil {
			log.Printf("kraken trade payload invalid: %v", err)
			return
		}
		for _, tick := range ticks {
			tick.Symbol = pair
			if err = rq.tradeChans.Publish(pair, tick); err != nil {
				log.Print(err)
			}
		}
	}
}

// An ohlc payload is [time, etime, open, high, low, close, vwap, volume,
// count]. etime is the end of the bar, the bar start is derived from it.
func parseOhlcPayload(raw json.RawMessage, candleInterval interval.Interval) (feed.CandleUpdate, error) {
	var row []json.RawMessage
	if err := json.Unmarshal(raw, &row); err != nil {
		return feed.CandleUpdate{}, err
	}
	if len(row) < 9 {
		return feed.CandleUpdate{}, fmt.Errorf("unexpected ohlc payload length %d", len(row))
	}
	endTime, err := parseDecimalField(row[1])
	if err != nil {
		return feed.CandleUpdate{}, err
	}
	endSeconds, _ := endTime.Float64()
	barStart := candleInterval.Truncate(time.Unix(int64(endSeconds), 0).UTC().Add(-time.Millisecond))
	values := make([]float64, 4)
	for i, r := range row[2:6] {
		v, err := parseDecimalField(r)
		if err != nil {
			return feed.CandleUpdate{}, err
		}
		values[i], _ = v.Float64()
	}
	p, err := chartval.NewOHLCPoint(barStart, values[0], values[1], values[2], values[3])
	if err != nil {
		return feed.CandleUpdate{}, err
	}
	volume, err := parseDecimalField(row[7])
	if err != nil {
		return feed.CandleUpdate{}, err
	}
	volumeFloat, _ := volume.Float64()
	p, err = p.WithVolume(volumeFloat)
	if err != nil {
		return feed.CandleUpdate{}, err
	}
	return feed.CandleUpdate{Point: p}, nil
}

// A trade payload is a list of [price, volume, time, side, orderType,
// misc] rows.
func parseTradePayload(raw json.RawMessage) ([]feed.TradeTick, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	ticks := make([]feed.TradeTick, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("unexpected trade row length %d", len(row))
		}
		price, err := parseDecimalField(row[0])
		if err != nil {
			return nil, err
		}
		volume, err := parseDecimalField(row[1])
		if err != nil {
			return nil, err
		}
		tradeTime, err := parseUnixTime(row[2])
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, feed.TradeTick{
			Time:   tradeTime,
			Price:  price,
			Volume: volume,
		})
	}
	return ticks, nil
}
