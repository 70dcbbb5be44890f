// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package feed

import (
	"fmt"
	"sync"

	"github.com/zhangyunhao116/skipmap"
)

// ChanMap distributes realtime data to per-symbol subscriber channels.
// Channels are buffered so that a slow consumer never blocks the feed
// reader; on overflow the oldest entry is replaced, new realtime data is
// more important than old data.
type ChanMap[T any] struct {
	sm               *skipmap.StringMap[chan T]
	pendingClose     []chan T
	pendingCloseLock sync.Mutex
}

const subscriberBufferSize = 1024

func NewChanMap[T any]() *ChanMap[T] {
	return &ChanMap[T]{
		sm: skipmap.NewString[chan T](),
	}
}

func (m *ChanMap[T]) Subscribe(asset Asset) (chan T, error) {
	c := make(chan T, subscriberBufferSize)
	if _, exists := m.sm.LoadOrStore(asset.Symbol, c); exists {
		return nil, fmt.Errorf("already subscribed to %s", asset.Symbol)
	}
	return c, nil
}

// Unsubscribe removes the subscriber channel. The channel is not closed
// immediately, the feed reader may still be publishing to it; it is closed
// on the next CloseUnsubscribed call from the reader goroutine.
func (m *ChanMap[T]) Unsubscribe(asset Asset) error {
	c, exists := m.sm.LoadAndDelete(asset.Symbol)
	if !exists {
		return fmt.Errorf("cannot unsubscribe %s: not subscribed", asset.Symbol)
	}
	m.pendingCloseLock.Lock()
	m.pendingClose = append(m.pendingClose, c)
	m.pendingCloseLock.Unlock()
	return nil
}

func (m *ChanMap[T]) CloseUnsubscribed() {
	m.pendingCloseLock.Lock()
	for _, c := range m.pendingClose {
		close(c)
	}
	m.pendingClose = nil
	m.pendingCloseLock.Unlock()
}

func (m *ChanMap[T]) Close() {
	m.sm.Range(func(k string, c chan T) bool {
		close(c)
		return true
	})
	m.sm = skipmap.NewString[chan T]()
	m.CloseUnsubscribed()
}

// Publish hands data to the subscriber of the symbol without blocking.
// Data for symbols without a subscriber is silently dropped, this happens
// while unsubscribing.
func (m *ChanMap[T]) Publish(symbol string, data T) error {
	c, exists := m.sm.Load(symbol)
	if !exists {
		return nil
	}
	select {
	case c <- data:
		return nil
	default:
	}
	select {
	// try to remove the oldest entry, non-blocking
	case <-c:
		select {
		case c <- data:
			return fmt.Errorf("symbol %s: buffer overflow, old realtime data is being removed", symbol)
		default:
			return fmt.Errorf("symbol %s: buffer overflow, new realtime data is being dropped", symbol)
		}
	default:
		return fmt.Errorf("symbol %s: buffer cannot be read from or written to", symbol)
	}
}
