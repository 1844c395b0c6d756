// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package comm

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

// fakeBus scripts the remote side of an exchange: it records everything
// written and serves canned response bytes.
type fakeBus struct {
	written  bytes.Buffer
	response *bytes.Reader
	readErr  error
	closed   bool
}

func newFakeBus(response []byte) *fakeBus {
	return &fakeBus{response: bytes.NewReader(response)}
}

func (f *fakeBus) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	return f.response.Read(p)
}

func (f *fakeBus) Write(p []byte) (int, error) {
	return f.written.Write(p)
}

func (f *fakeBus) Close() error {
	f.closed = true
	return nil
}

func TestSessionExchange_WireSequence(t *testing.T) {
	bus := newFakeBus([]byte{0xEC, 0x9D, 1, 0})
	session := NewSession(bus)

	response, err := session.Exchange(hhc.FrameInfo, hhc.InfoRequest())
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEC, 0x9D, 1, 0}, response)

	// One length announcement byte, then the payload, nothing else.
	expected := append([]byte{byte(hhc.TransmitLength(hhc.FrameInfo))}, hhc.InfoRequest()...)
	assert.Equal(t, expected, bus.written.Bytes())
}

func TestSessionExchange_RejectsWrongPayloadLength(t *testing.T) {
	bus := newFakeBus(nil)
	session := NewSession(bus)

	_, err := session.Exchange(hhc.FrameOneLeg, []byte{1, 2, 3})
	require.ErrorIs(t, err, hhc.ErrFrameLength)

	// A rejected payload must never reach the bus.
	assert.Zero(t, bus.written.Len())
}

func TestSessionExchange_ShortResponse(t *testing.T) {
	bus := newFakeBus([]byte{0xEC}) // one byte instead of four
	session := NewSession(bus)

	_, err := session.Exchange(hhc.FrameInfo, hhc.InfoRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSessionExchange_ReadError(t *testing.T) {
	bus := newFakeBus(nil)
	bus.readErr = errors.New("bus gone")
	session := NewSession(bus)

	_, err := session.Exchange(hhc.FrameAdc, hhc.TelemetryRequest(hhc.FrameAdc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus gone")
}

func TestSessionInfo_Classifies(t *testing.T) {
	bus := newFakeBus([]byte{0xEC, 0x9D, hhc.Version.Major, hhc.Version.Minor})
	session := NewSession(bus)

	report, err := session.Info()
	require.NoError(t, err)
	assert.Equal(t, hhc.InfoValid, report.Status)
	assert.Equal(t, hhc.Version, report.Remote)
}

func TestSessionTemperature(t *testing.T) {
	// 23456 m°C big-endian after the two header bytes.
	bus := newFakeBus([]byte{0x05, 0x03, 0x00, 0x5B, 0xA0})
	session := NewSession(bus)

	reading, err := session.Temperature()
	require.NoError(t, err)
	assert.Equal(t, hhc.ReadingTemperature, reading.Kind)
	assert.InDelta(t, 23.456, reading.Value, 1e-9)
}

func TestSessionVoltage(t *testing.T) {
	bus := newFakeBus([]byte{0x05, 0x02, 0x00, 0x08, 0x00})
	session := NewSession(bus)

	reading, err := session.Voltage()
	require.NoError(t, err)
	assert.Equal(t, hhc.ReadingVoltage, reading.Kind)
	assert.InDelta(t, 1.65, reading.Value, 1e-9)
}

func TestSessionSendLeg(t *testing.T) {
	bus := newFakeBus([]byte{0x00}) // full-duplex filler byte
	session := NewSession(bus)

	cmd := hhc.LegCommand{
		LegID:   2,
		OpCodes: []uint8{1, 1, 1},
		Angles:  []float64{10.0, -20.0, 30.0},
	}
	require.NoError(t, session.SendLeg(cmd))

	written := bus.written.Bytes()
	require.Len(t, written, 1+hhc.TransmitLength(hhc.FrameOneLeg))
	assert.Equal(t, byte(hhc.TransmitLength(hhc.FrameOneLeg)), written[0])
	assert.Equal(t, byte(2), written[1]) // leg id right after the announcement
}

func TestSessionSendLeg_PreconditionShortCircuits(t *testing.T) {
	bus := newFakeBus(nil)
	session := NewSession(bus)

	err := session.SendLeg(hhc.LegCommand{LegID: 9, OpCodes: []uint8{1, 1, 1}, Angles: []float64{0, 0, 0}})
	require.ErrorIs(t, err, hhc.ErrLegID)
	assert.Zero(t, bus.written.Len())
}

func TestSessionClose(t *testing.T) {
	bus := newFakeBus(nil)
	session := NewSession(bus)
	require.NoError(t, session.Close())
	assert.True(t, bus.closed)
}
