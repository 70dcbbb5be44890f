// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/ericlagergren/decimal"

	"chartview/calendar"
	"chartview/chartlive"
	"chartview/chartplot"
	"chartview/chartval"
	"chartview/config"
	"chartview/feed"
	"chartview/feed/kraken"
	"chartview/interval"
	"chartview/mock"
)

type logInvalidator struct {
	chart *chartplot.Chart
}

// Invalidate is called by the updater after each applied drain. Without a
// render surface the redraw is a log line of the chart state.
func (l *logInvalidator) Invalidate() {
	from, to := l.chart.TimeScale().VisibleRange()
	pane := l.chart.Panes()[0]
	if s := pane.Series(); len(s) > 0 {
		if last, ok := s[0].Last(); ok {
			direction := "down"
			if chartval.IsGreenCandle(last.Open, last.Close) {
				direction = "up"
			}
			min, max := pane.PriceScale().Range()
			log.Printf("bars=%d visible=[%.1f,%.1f) last close=%.2f (%s) scale=[%.2f,%.2f]",
				l.chart.TimeScale().DataLength(), from, to, last.Close, direction, min, max)
		}
	}
}

func main() {
	symbolFlag := flag.String("symbol", "", "trading pair, e.g. XBT/USD")
	intervalFlag := flag.String("interval", "", "candle interval, e.g. 1m or 1d")
	offlineFlag := flag.Bool("offline", false, "use a deterministic offline feed")
	durationFlag := flag.Duration("duration", 0, "exit after this duration, 0 runs until interrupted")
	flag.Parse()

	globalConfig := config.NewGlobalConfig()
	appConfig, err := globalConfig.Copy()
	if err != nil {
		log.Fatalf("unable to load configuration: %v", err)
	}
	chartConfig := appConfig.Charts[0]
	if *symbolFlag != "" {
		chartConfig.Symbol = *symbolFlag
	}
	if *intervalFlag != "" {
		chartConfig.Interval = *intervalFlag
	}
	candleInterval, err := interval.FromString(chartConfig.Interval)
	if err != nil {
		log.Fatalf("invalid interval: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *durationFlag > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *durationFlag)
		defer cancel()
	}

	var dataFeed feed.Feed
	if *offlineFlag {
		dataFeed = mock.NewTestFeed(500 * time.Millisecond)
	} else {
		dataFeed = kraken.NewFeed(appConfig.Feeds[kraken.FeedName], candleInterval)
	}

	chart := buildChart(chartConfig, candleInterval)
	asset := feed.Asset{Symbol: chartConfig.Symbol}
	if err = loadHistory(ctx, chart, dataFeed, asset, candleInterval); err != nil {
		log.Fatalf("unable to load candle history: %v", err)
	}
	chart.TimeScale().ScrollToRealtime()
	chart.RescaleDirtyPanes()

	chart.SubscribeCrosshairMove(func(evt chartplot.MoveEvent) {
		log.Printf("crosshair bar=%d time=%s price=%.2f", evt.BarIndex, evt.Time.Format(time.RFC3339), evt.PanePrices["price"])
	})

	updater := chartlive.NewUpdater(chart, &logInvalidator{chart: chart}, log.Default(), chartlive.UpdaterOptions{
		TickRate:       time.Duration(chartConfig.UpdateRateMs) * time.Millisecond,
		RescaleOnDrain: chartConfig.RescaleOnDrain,
	})
	updater.Start(ctx)
	defer updater.Stop()

	go dataFeed.Run(ctx)
	runFeedPump(ctx, dataFeed, asset, chartConfig, updater.Queue())
	log.Print("shutting down")
}

func buildChart(c config.ChartConfig, candleInterval interval.Interval) *chartplot.Chart {
	tradingCalendar := calendar.NewUSTradingCalendar()
	chart := chartplot.NewChart(candleInterval, chartplot.ChartOptions{
		TimeScale: chartplot.TimeScaleOptions{
			PixelWidth:      1024,
			MinBarSpacing:   float64(c.MinBarSpacing),
			MaxBarSpacing:   float64(c.MaxBarSpacing),
			MaxOverscan:     c.MaxOverscanBars,
			AutoScroll:      c.AutoScroll,
			RightOffsetBars: c.RightOffsetBars,
		},
		PaddingFraction: c.PaddingFraction,
		TradingCalendar: &tradingCalendar,
	})
	for _, paneConfig := range c.Panes {
		pane, err := chart.AddPane(paneConfig.Name, paneConfig.HeightRatio)
		if err != nil {
			log.Fatalf("invalid pane configuration: %v", err)
		}
		kind := chartval.KindOHLC
		if paneConfig.Volume {
			kind = chartval.KindValue
		}
		pane.AddSeries(chartval.NewSeries("candles", kind))
	}
	if err := chart.Resize(1024, 768); err != nil {
		log.Fatalf("invalid chart size: %v", err)
	}
	return chart
}

func loadHistory(ctx context.Context, chart *chartplot.Chart,
	dataFeed feed.Feed, asset feed.Asset, candleInterval interval.Interval) error {
	toTime := time.Now().UTC()
	fromTime := candleInterval.NthTime(toTime, -500)
	candles, err := dataFeed.QueryCandles(ctx, asset, candleInterval, fromTime, toTime)
	if err != nil {
		return err
	}
	log.Printf("loaded %d candles for %s", len(candles), asset.Symbol)
	for _, pane := range chart.Panes() {
		series := pane.FindSeries("candles")
		data := candles
		if series.Kind() == chartval.KindValue {
			data = volumePoints(candles)
		}
		if err = series.SetData(data); err != nil {
			return err
		}
		pane.MarkDirty()
	}
	chart.SyncDataLength()
	return nil
}

func volumePoints(candles []chartval.DataPoint) []chartval.DataPoint {
	points := make([]chartval.DataPoint, 0, len(candles))
	for _, c := range candles {
		p, err := chartval.NewValuePoint(c.Time, c.Volume)
		if err != nil {
			continue
		}
		points = append(points, p)
	}
	return points
}

// runFeedPump forwards realtime feed data into the updater queue and the
// tick tape until the context is cancelled.
func runFeedPump(ctx context.Context, dataFeed feed.Feed, asset feed.Asset,
	c config.ChartConfig, queue *chartlive.Queue) {
	candleChan, err := dataFeed.SubscribeCandles(asset)
	if err != nil {
		log.Fatalf("unable to subscribe candles: %v", err)
	}
	tradeChan, err := dataFeed.SubscribeTrades(asset)
	if err != nil {
		log.Fatalf("unable to subscribe trades: %v", err)
	}
	tape := chartlive.NewTape()
	tapeTrim := time.NewTicker(time.Minute)
	defer tapeTrim.Stop()
	var sessionPrice *decimal.Big
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-candleChan:
			if !ok {
				return
			}
			for _, paneConfig := range c.Panes {
				point := update.Point
				if paneConfig.Volume {
					if !point.HasVolume {
						continue
					}
					volumePoint, err := chartval.NewValuePoint(point.Time, point.Volume)
					if err != nil {
						log.Printf("invalid volume update: %v", err)
						continue
					}
					point = volumePoint
				}
				if err := queue.Enqueue(chartlive.Update{
					PaneName:   paneConfig.Name,
					SeriesName: "candles",
					Point:      point,
				}); err != nil {
					log.Print(err)
				}
			}
		case tick, ok := <-tradeChan:
			if !ok {
				return
			}
			if sessionPrice == nil {
				sessionPrice = tick.Price
			}
			tape.Add(tick.Time, tick.Price, tick.Volume)
		case <-tapeTrim.C:
			tape.TrimBefore(time.Now().Add(-10 * time.Minute))
			if ts, e, ok := tape.Latest(); ok {
				delta := chartval.CalculateDeltaPercentage(sessionPrice, e.Price)
				log.Printf("last trade %s (%s%% since start) at %s, %d ticks on tape",
					e.Price.String(), delta.String(), ts.Format(time.RFC3339), tape.Len())
			}
		}
	}
}
