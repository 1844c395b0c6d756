// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package comm

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

// silentPort accepts writes but never produces response bytes: every read
// reports an expired timeout the way go.bug.st/serial does, as (0, nil).
type silentPort struct {
	serial.Port
	reads int
}

func (p *silentPort) Read(b []byte) (int, error) {
	p.reads++
	return 0, nil
}

func (p *silentPort) Write(b []byte) (int, error) {
	return len(b), nil
}

func (p *silentPort) Close() error {
	return nil
}

func TestSerialConnectionReadTimeout(t *testing.T) {
	conn := &SerialConnection{port: &silentPort{}}

	n, err := conn.Read(make([]byte, 4))
	assert.Equal(t, 0, n)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadTimeout)
	assert.ErrorIs(t, err, os.ErrDeadlineExceeded)
}

func TestSerialConnectionReadEmptyBuffer(t *testing.T) {
	// A zero-length read is not a timeout.
	conn := &SerialConnection{port: &silentPort{}}

	n, err := conn.Read(nil)
	assert.Equal(t, 0, n)
	assert.NoError(t, err)
}

// A dead controller must fail the exchange, not hold the session mutex
// forever.
func TestExchangeFailsOnSilentController(t *testing.T) {
	port := &silentPort{}
	session := NewSession(&SerialConnection{port: port})

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := session.Exchange(hhc.FrameInfo, hhc.InfoRequest())
		done <- result{data, err}
	}()

	select {
	case res := <-done:
		require.Error(t, res.err)
		assert.ErrorIs(t, res.err, ErrReadTimeout)
		assert.Nil(t, res.data)
	case <-time.After(2 * time.Second):
		t.Fatal("exchange did not return after read timeout")
	}

	// The mutex must be free again: a second exchange runs and fails the
	// same way instead of blocking.
	_, err := session.Exchange(hhc.FrameInfo, hhc.InfoRequest())
	assert.ErrorIs(t, err, ErrReadTimeout)
	assert.GreaterOrEqual(t, port.reads, 2)
}
