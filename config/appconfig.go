// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"github.com/barkimedes/go-deepcopy"
)

type AppConfig struct {
	Charts []ChartConfig
	Feeds  map[string]FeedConfig
}

type FeedConfig struct {
	ApiUrl string `yaml:",omitempty"`
	WsUrl  string `yaml:",omitempty"`
	// Kraken public endpoints reject bursts per IP, there are no rate limit headers.
	RateLimitRequests      uint32 `yaml:",omitempty"`
	RateLimitWindowSeconds int    `yaml:",omitempty"`
	// The api sometimes does not reply, so use a timeout.
	DataTimeoutSeconds int `yaml:",omitempty"`
}

var defaultFeedConfig = NewFeedConfigMap()

func NewAppConfig() AppConfig {
	return AppConfig{
		Charts: []ChartConfig{NewChartConfig()},
		Feeds:  NewFeedConfigMap(),
	}
}

func NewFeedConfigMap() map[string]FeedConfig {
	return map[string]FeedConfig{
		"kraken": {
			ApiUrl:                 "https://api.kraken.com",
			WsUrl:                  "wss://ws.kraken.com",
			RateLimitRequests:      1,
			RateLimitWindowSeconds: 1,
			DataTimeoutSeconds:     10,
		},
	}
}

func (a *AppConfig) deepCopy() AppConfig {
	c, err := deepcopy.Anything(a)
	if err != nil {
		panic(err)
	}
	return *c.(*AppConfig)
}

func (a *AppConfig) Sanitize() {
	if len(a.Charts) == 0 {
		a.Charts = append(a.Charts, NewChartConfig())
	}
	for i := range a.Charts {
		a.Charts[i].sanitize()
	}
	if a.Feeds == nil {
		a.Feeds = NewFeedConfigMap()
	}
	a.RestoreDefaults()
}

// We do not want to store certain default values in the configuration file,
// in order to avoid having to patch them.
func (a *AppConfig) RemoveDefaults() {
	for key, c := range a.Feeds {
		def := defaultFeedConfig[key]
		if c.ApiUrl == def.ApiUrl {
			c.ApiUrl = ""
		}
		if c.WsUrl == def.WsUrl {
			c.WsUrl = ""
		}
		a.Feeds[key] = c
	}
}

// Restore certain default values which are not stored in the configuration file.
func (a *AppConfig) RestoreDefaults() {
	for key, c := range a.Feeds {
		def := defaultFeedConfig[key]
		if len(c.ApiUrl) == 0 {
			c.ApiUrl = def.ApiUrl
		}
		if len(c.WsUrl) == 0 {
			c.WsUrl = def.WsUrl
		}
		if c.RateLimitRequests == 0 {
			c.RateLimitRequests = def.RateLimitRequests
		}
		if c.RateLimitWindowSeconds == 0 {
			c.RateLimitWindowSeconds = def.RateLimitWindowSeconds
		}
		if c.DataTimeoutSeconds == 0 {
			c.DataTimeoutSeconds = def.DataTimeoutSeconds
		}
		a.Feeds[key] = c
	}
}
