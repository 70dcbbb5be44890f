// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"gioui.org/unit"
)

type ChartConfig struct {
	Symbol          string
	FeedName        string
	Interval        string
	AutoScroll      bool    `yaml:",omitempty"`
	RightOffsetBars float64 `yaml:",omitempty"`
	MinBarSpacing   unit.Dp `yaml:",omitempty"`
	MaxBarSpacing   unit.Dp `yaml:",omitempty"`
	MaxOverscanBars float64 `yaml:",omitempty"`
	PaddingFraction float64 `yaml:",omitempty"`
	RescaleOnDrain  bool    `yaml:",omitempty"`
	UpdateRateMs    int     `yaml:",omitempty"`
	Panes           []PaneConfig
}

type PaneConfig struct {
	Name        string
	HeightRatio float64
	Volume      bool `yaml:",omitempty"`
}

// Returns some valid default chart data. Make sure the feed is available.
func NewChartConfig() ChartConfig {
	return ChartConfig{
		Symbol:          "XBT/USD",
		FeedName:        "kraken",
		Interval:        "1m",
		AutoScroll:      true,
		RightOffsetBars: 2,
		MinBarSpacing:   unit.Dp(0.5),
		MaxBarSpacing:   unit.Dp(50),
		MaxOverscanBars: 10,
		PaddingFraction: 0.1,
		RescaleOnDrain:  true,
		UpdateRateMs:    100,
		Panes:           NewPaneConfig(),
	}
}

func NewPaneConfig() []PaneConfig {
	return []PaneConfig{
		{Name: "price", HeightRatio: 3},
		{Name: "volume", HeightRatio: 1, Volume: true},
	}
}

func (c *ChartConfig) sanitize() {
	if len(c.Symbol) == 0 {
		c.Symbol = "XBT/USD"
	}
	if len(c.FeedName) == 0 {
		c.FeedName = "kraken"
	}
	if len(c.Interval) == 0 {
		c.Interval = "1m"
	}
	if c.MinBarSpacing <= 0 {
		c.MinBarSpacing = unit.Dp(0.5)
	}
	if c.MaxBarSpacing <= c.MinBarSpacing {
		c.MaxBarSpacing = unit.Dp(50)
	}
	if c.MaxOverscanBars < 0 {
		c.MaxOverscanBars = 10
	}
	if c.PaddingFraction < 0 {
		c.PaddingFraction = 0.1
	}
	if c.UpdateRateMs <= 0 {
		c.UpdateRateMs = 100
	}
	if len(c.Panes) == 0 {
		c.Panes = NewPaneConfig()
	}
	for i := range c.Panes {
		if c.Panes[i].HeightRatio <= 0 {
			c.Panes[i].HeightRatio = 1
		}
	}
}
