// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package webclient

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Simple bucket rate limiter (client side) which optionally considers http headers.
// Sadly, I could not find a proper client library for this job.
type RateLimiter struct {
	mutex     sync.Mutex
	limit     int
	counter   int
	interval  time.Duration
	startTime time.Time
}

const MinWaitTime = time.Millisecond * 250
const MinReconnectWaitTime = time.Second * 10

// Create a rate limiter to be initialized by http headers.
// Call HandleResponseHeadersWithWait to initialize.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{}
}

// Create a rate limiter with a fixed limit per interval.
func NewManualRateLimiter(interval time.Duration, limit uint32) *RateLimiter {
	return &RateLimiter{
		limit:    int(limit),
		interval: interval,
	}
}

// tryAcquire consumes one slot if available. The caller holds no lock.
func (l *RateLimiter) tryAcquire() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.limit == 0 {
		return true // no limitation
	}
	now := time.Now()
	if l.startTime.IsZero() {
		l.startTime = now
	}
	// reset counter after time interval
	if l.interval > 0 && now.Sub(l.startTime) >= l.interval {
		l.startTime = now
		l.counter = 0
	}
	if l.counter < l.limit {
		l.counter++
		return true
	}
	return false
}

// Wait blocks until a request slot is available.
func (l *RateLimiter) Wait(ctx context.Context) error {
	for {
		if l.tryAcquire() {
			return nil
		}
		// too many requests, poll every MinWaitTime
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(MinWaitTime):
		}
	}
}

// Return the remaining count or max int if not limited.
func (l *RateLimiter) Remaining() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.limit == 0 {
		return math.MaxInt
	}
	remaining := l.limit - l.counter
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// HandleResponseHeadersWithWait updates limiter state from rate limit
// response headers. A 429 enforces a delay and requests a retry.
func (l *RateLimiter) HandleResponseHeadersWithWait(ctx context.Context, resp *http.Response) (retry bool, err error) {
	if resp.StatusCode == http.StatusTooManyRequests {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(MinWaitTime): // enforce some delay if the server complains
			return true, nil
		}
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.limit != 0 {
		return false, nil
	}
	limit, err := strconv.ParseInt(resp.Header.Get("x-ratelimit-limit"), 10, 32)
	if err != nil {
		limit, err = strconv.ParseInt(resp.Header.Get("ratelimit-limit"), 10, 32)
	}
	if err != nil || limit <= 0 {
		return false, nil
	}
	interval := time.Minute // default rate limit reset interval
	// use custom interval from header if provided
	if resetUnixTime, err := strconv.ParseInt(resp.Header.Get("x-ratelimit-reset"), 10, 64); err == nil && resetUnixTime > 0 {
		if timeDiff := time.Until(time.Unix(resetUnixTime, 0)).Round(time.Second * 10); timeDiff > 0 {
			interval = timeDiff
		}
	} else if resetRemainingSeconds, err := strconv.ParseInt(resp.Header.Get("ratelimit-reset"), 10, 32); err == nil && resetRemainingSeconds > 0 {
		interval = time.Second * time.Duration(resetRemainingSeconds)
	}
	l.limit = int(limit)
	l.interval = interval
	l.counter = 1 // this response already counts
	l.startTime = time.Now()
	return false, nil
}
