// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chartview/calendar"
	"chartview/interval"
)

func TestPriceTicks(t *testing.T) {
	c := newTestChart(t)
	assert.NoError(t, c.Pane("price").PriceScale().SetManualRange(0, 100))
	ticks := c.PriceTicks("price", 5)
	assert.Len(t, ticks, 5)
	assert.InDelta(t, 0, ticks[0].Value, 1e-9)
	assert.InDelta(t, 25, ticks[1].Value, 1e-9)
	assert.InDelta(t, 100, ticks[4].Value, 1e-9)
	// The lowest value sits at the bottom of the pane.
	assert.InDelta(t, 300, ticks[0].Y, 1e-9)
	assert.InDelta(t, 0, ticks[4].Y, 1e-9)
	assert.Equal(t, "0", ticks[0].Label)
	assert.Equal(t, "25", ticks[1].Label)
}

func TestPriceTicksShortenThousands(t *testing.T) {
	c := newTestChart(t)
	assert.NoError(t, c.Pane("volume").PriceScale().SetManualRange(0, 4000))
	ticks := c.PriceTicks("volume", 5)
	assert.Equal(t, "0k", ticks[0].Label)
	assert.Equal(t, "1k", ticks[1].Label)
	assert.Equal(t, "4k", ticks[4].Label)
}

func TestPriceTicksShortenMillions(t *testing.T) {
	c := newTestChart(t)
	assert.NoError(t, c.Pane("volume").PriceScale().SetManualRange(0, 8000000))
	ticks := c.PriceTicks("volume", 5)
	assert.Equal(t, "2m", ticks[1].Label)
	assert.Equal(t, "8m", ticks[4].Label)
}

func TestPriceTicksUnknownPane(t *testing.T) {
	c := newTestChart(t)
	assert.Nil(t, c.PriceTicks("missing", 5))
	assert.Nil(t, c.PriceTicks("price", 0))
}

func TestTimeTicks(t *testing.T) {
	c := newTestChart(t)
	c.Pane("price").AddSeries(candleSeries(t, 10))
	c.SyncDataLength()
	assert.NoError(t, c.TimeScale().SetVisibleRange(0, 10))
	ticks := c.TimeTicks(5)
	assert.Len(t, ticks, 5)
	assert.Equal(t, 1, ticks[0].Index)
	assert.True(t, ticks[0].Time.Equal(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.InDelta(t, c.TimeScale().IndexToPixel(1), ticks[0].X, 1e-9)
	for i := 1; i < len(ticks); i++ {
		assert.Greater(t, ticks[i].Index, ticks[i-1].Index)
	}
}

func TestTimeTicksExtrapolatePastData(t *testing.T) {
	c := newTestChart(t)
	c.Pane("price").AddSeries(candleSeries(t, 5))
	c.SyncDataLength()
	c.TimeScale().SetDataLength(10)
	assert.NoError(t, c.TimeScale().SetVisibleRange(0, 10))
	ticks := c.TimeTicks(5)
	last := ticks[len(ticks)-1]
	assert.Greater(t, last.Index, 4)
	// Extrapolated from the newest bar at 2026-01-05.
	expected := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC).AddDate(0, 0, last.Index-4)
	assert.True(t, last.Time.Equal(expected))
}

func TestTimeTicksMarkNonTradingDays(t *testing.T) {
	cal := calendar.NewUSTradingCalendar()
	c := NewChart(interval.OneDay, ChartOptions{
		TimeScale:       TimeScaleOptions{PixelWidth: 100},
		TradingCalendar: &cal,
	})
	_, err := c.AddPane("price", 1)
	assert.NoError(t, err)
	assert.NoError(t, c.Resize(100, 400))
	s := candleSeries(t, 10) // starts Thursday 2026-01-01
	c.Pane("price").AddSeries(s)
	c.SyncDataLength()
	assert.NoError(t, c.TimeScale().SetVisibleRange(0, 10))
	ticks := c.TimeTicks(10)
	byWeekday := make(map[time.Weekday]bool)
	for _, tick := range ticks {
		byWeekday[tick.Time.Weekday()] = tick.TradingDay
	}
	assert.False(t, byWeekday[time.Saturday])
	assert.False(t, byWeekday[time.Sunday])
	assert.True(t, byWeekday[time.Monday])
}
