// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

const observedHolidayPostfix = "(observed)"

// TradingCalendar answers whether a given day has an equities trading
// session. The time axis uses it to annotate daily and coarser bars and to
// skip non-session days when extrapolating bar times.
type TradingCalendar struct {
	exchangeLocation *time.Location
	calendar         *cal.BusinessCalendar
}

func NewUSTradingCalendar() TradingCalendar {
	// NYSE uses ET, which can be either EST or EDT.
	// Luckily, changing to/from daylight saving time does not occur during market hours.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic("NYSE time location not supported")
	}
	c := cal.NewBusinessCalendar()
	// Source for bank holidays: https://www.federalreserve.gov/aboutthefed/k8.htm
	c.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	c.Cacheable = true
	return TradingCalendar{
		calendar:         c,
		exchangeLocation: loc,
	}
}

func (b TradingCalendar) IsBankHoliday(t time.Time) (bool, string) {
	actual, observed, h := b.calendar.IsHoliday(t.In(b.exchangeLocation))
	if !actual && !observed {
		return false, ""
	} else if !actual {
		return true, h.Name + " " + observedHolidayPostfix
	} else {
		return true, h.Name
	}
}

func (b TradingCalendar) IsTradingDay(t time.Time) bool {
	return b.calendar.IsWorkday(t.In(b.exchangeLocation))
}

// NextTradingDay returns the first trading day strictly after t.
func (b TradingCalendar) NextTradingDay(t time.Time) time.Time {
	day := t.In(b.exchangeLocation).AddDate(0, 0, 1)
	for !b.calendar.IsWorkday(day) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
