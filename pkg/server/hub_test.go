// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

func sample(value float64) hhc.Reading {
	return hhc.Reading{Kind: hhc.ReadingTemperature, Value: value, Timestamp: time.Now()}
}

func TestHub_FanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Publish(sample(21.5))

	for name, ch := range map[string]chan hhc.Reading{"a": a, "b": b} {
		select {
		case reading := <-ch:
			assert.InDelta(t, 21.5, reading.Value, 1e-9, "subscriber %s", name)
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s received nothing", name)
		}
	}
}

func TestHub_SlowSubscriberDrops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(WithClientBuffer(1))
	go hub.Run(ctx)

	slow := hub.Subscribe()

	// Fill the subscriber's one-slot buffer and keep publishing. Publish
	// must never block on the stalled consumer.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(sample(float64(i)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publishing blocked on a slow subscriber")
	}

	// The stalled subscriber still holds the first buffered reading.
	select {
	case <-slow:
	case <-time.After(time.Second):
		t.Fatal("slow subscriber got nothing at all")
	}
}

func TestHub_UnsubscribeCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	ch := hub.Subscribe()
	hub.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel must be closed after Unsubscribe")
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestHub_ShutdownClosesAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub()
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	ch := hub.Subscribe()
	cancel()
	<-done

	_, ok := <-ch
	assert.False(t, ok, "subscriptions must close on shutdown")
}
