// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package mock

import (
	"bufio"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"chartview/config"
)

func NewLogger(t *testing.T) (*log.Logger, *bufio.Scanner) {
	r, w, err := os.Pipe()
	if err != nil {
		assert.Fail(t, "failed to create logger mock: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	t.Cleanup(func() { w.Close() })
	return log.New(w, "", log.LstdFlags), bufio.NewScanner(r)
}

func NewFeedConfig(feedName string, apiUrl string) config.Config {
	c := config.NewTestConfig()
	appConfig, _ := c.Lock()
	feedConfig := appConfig.Feeds[feedName]
	feedConfig.ApiUrl = apiUrl
	feedConfig.WsUrl = "ws" + strings.TrimPrefix(apiUrl, "http")
	appConfig.Feeds[feedName] = feedConfig
	_ = c.Unlock(appConfig)
	return c
}
