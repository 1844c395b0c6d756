// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package server

import (
	"context"

	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

// Hub fans telemetry readings out to any number of consumers (log,
// recorder, TUI). Slow consumers drop readings instead of stalling the
// poll loop.
type Hub struct {
	broadcast  chan hhc.Reading
	register   chan chan hhc.Reading
	unregister chan chan hhc.Reading
	clients    map[chan hhc.Reading]struct{}
	clientBuf  int
}

// HubOption tunes hub buffering.
type HubOption func(*Hub)

// WithBroadcastBuffer sets the size of the central broadcast channel.
func WithBroadcastBuffer(size int) HubOption {
	return func(h *Hub) {
		if size > 0 {
			h.broadcast = make(chan hhc.Reading, size)
		}
	}
}

// WithClientBuffer sets the default buffer size for subscriptions.
func WithClientBuffer(size int) HubOption {
	return func(h *Hub) {
		if size > 0 {
			h.clientBuf = size
		}
	}
}

// NewHub creates a telemetry hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		broadcast:  make(chan hhc.Reading, 64),
		register:   make(chan chan hhc.Reading),
		unregister: make(chan chan hhc.Reading),
		clients:    make(map[chan hhc.Reading]struct{}),
		clientBuf:  32,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run dispatches readings until the context is cancelled, then closes all
// subscriptions.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for ch := range h.clients {
				close(ch)
			}
			return
		case ch := <-h.register:
			h.clients[ch] = struct{}{}
		case ch := <-h.unregister:
			if _, ok := h.clients[ch]; ok {
				delete(h.clients, ch)
				close(ch)
			}
		case reading := <-h.broadcast:
			for ch := range h.clients {
				select {
				case ch <- reading:
				default:
				}
			}
		}
	}
}

// Subscribe registers a consumer with the default buffer size.
func (h *Hub) Subscribe() chan hhc.Reading {
	ch := make(chan hhc.Reading, h.clientBuf)
	h.register <- ch
	return ch
}

// Unsubscribe removes a consumer and closes its channel.
func (h *Hub) Unsubscribe(ch chan hhc.Reading) {
	h.unregister <- ch
}

// Publish hands a reading to the hub for fan-out.
func (h *Hub) Publish(reading hhc.Reading) {
	h.broadcast <- reading
}
