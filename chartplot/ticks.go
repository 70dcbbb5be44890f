// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartplot

import (
	"strconv"
	"time"

	"chartview/chartval"
)

// TimeTick is one labeled position on the time axis.
type TimeTick struct {
	Index      int
	X          float64
	Time       time.Time
	Label      string
	TradingDay bool
}

// PriceTick is one labeled position on the price axis of a pane.
type PriceTick struct {
	Value float64
	Y     float64
	Label string
}

type printFormat int

const (
	printFormatDefault printFormat = iota
	printFormatThousands
	printFormatMillions
	printFormatBillions
)

// TimeTicks returns up to n evenly spaced labeled ticks for the visible
// range. Ticks beyond the newest bar carry extrapolated times. For daily
// and coarser intervals, ticks falling on weekends or bank holidays are
// flagged as non-trading days when the chart has a trading calendar.
func (c *Chart) TimeTicks(n int) []TimeTick {
	if n <= 0 {
		return nil
	}
	from, to := c.timeScale.VisibleRange()
	step := (to - from) / float64(n)
	if step < 1 {
		step = 1
	}
	ticks := make([]TimeTick, 0, n)
	prevIndex := -1 << 31
	for i := 0; i < n; i++ {
		index := int(from + step*float64(i) + step/2)
		if index == prevIndex {
			continue
		}
		prevIndex = index
		t, ok := c.barTime(index)
		if !ok {
			continue
		}
		tick := TimeTick{
			Index:      index,
			X:          c.timeScale.IndexToPixel(float64(index)),
			Time:       t,
			Label:      t.Format(c.candleInterval.FormatString()),
			TradingDay: true,
		}
		if c.tradingCalendar != nil && c.candleInterval.Duration(t) >= 24*time.Hour {
			tick.TradingDay = c.tradingCalendar.IsTradingDay(t)
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

func (c *Chart) barTime(index int) (time.Time, bool) {
	for _, p := range c.panes {
		for _, s := range p.series {
			if t, ok := s.TimeAt(index); ok {
				return t, true
			}
		}
	}
	t := c.extrapolateBarTime(index)
	return t, !t.IsZero()
}

// PriceTicks returns n evenly spaced labeled ticks for the price scale of
// the named pane. Large values are shortened with a "k", "m" or "b"
// postfix when all tick values share the magnitude.
func (c *Chart) PriceTicks(paneName string, n int) []PriceTick {
	p := c.Pane(paneName)
	if p == nil || n <= 0 {
		return nil
	}
	min, max := p.priceScale.Range()
	values := make([]float64, n)
	if n == 1 {
		values[0] = min
	} else {
		for i := range values {
			values[i] = min + (max-min)*float64(i)/float64(n-1)
		}
	}
	format := determinePrintFormat(values)
	precision := labelPrecision(max - min)
	ticks := make([]PriceTick, n)
	for i, v := range values {
		ticks[i] = PriceTick{
			Value: v,
			Y:     p.priceScale.ValueToPixel(v),
			Label: formatPriceLabel(v, format, precision),
		}
	}
	return ticks
}

// Check whether all values are billions, millions or thousands.
func determinePrintFormat(values []float64) printFormat {
	printBillions := true
	printMillions := true
	printThousands := true
	for i, v := range values {
		valueI := int64(v)
		if (i != 0 && valueI/1000000000 == 0) || valueI%1000000000 != 0 {
			printBillions = false
		}
		if (i != 0 && valueI/1000000 == 0) || valueI%1000000 != 0 {
			printMillions = false
		}
		if (i != 0 && valueI/1000 == 0) || valueI%1000 != 0 {
			printThousands = false
		}
	}
	if printBillions {
		return printFormatBillions
	}
	if printMillions {
		return printFormatMillions
	}
	if printThousands {
		return printFormatThousands
	}
	return printFormatDefault
}

// labelPrecision picks the number of decimal places so that adjacent tick
// labels of the given value span stay distinguishable.
func labelPrecision(span float64) int {
	if span >= 1 {
		precision := 2 - chartval.CountDigits(int64(span))
		if precision < 0 {
			precision = 0
		}
		return precision
	}
	precision := 2
	for span < 0.1 && precision < 6 {
		span *= 10
		precision++
	}
	return precision
}

func formatPriceLabel(value float64, format printFormat, precision int) string {
	switch format {
	case printFormatBillions:
		return strconv.FormatFloat(value/1000000000, 'f', precision, 64) + "b"
	case printFormatMillions:
		return strconv.FormatFloat(value/1000000, 'f', precision, 64) + "m"
	case printFormatThousands:
		return strconv.FormatFloat(value/1000, 'f', precision, 64) + "k"
	default:
		return strconv.FormatFloat(value, 'f', precision, 64)
	}
}
