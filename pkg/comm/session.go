// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package comm

import (
	"fmt"
	"io"
	"sync"

	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

// Session runs request/response exchanges on the shared bus. The bus is a
// single half-duplex resource: a mutex keeps each exchange atomic, so the
// length announcement, payload write and response read of one frame are
// never interleaved with another.
//
// Session knows byte counts, not frame semantics; encoding and decoding
// live in package hhc.
type Session struct {
	mu   sync.Mutex
	conn Connection
}

// NewSession wraps an open bus connection.
func NewSession(conn Connection) *Session {
	return &Session{conn: conn}
}

// Exchange performs one complete exchange for the given frame kind:
// announce the payload length in a single byte, write the payload, read
// exactly the catalogue's receive length. The payload must match the
// catalogue's transmit length; a mismatched payload is rejected before any
// byte touches the bus.
func (s *Session) Exchange(kind hhc.FrameType, payload []byte) ([]byte, error) {
	want := hhc.TransmitLength(kind)
	if len(payload) != want {
		return nil, fmt.Errorf("%w: %v payload is %d bytes, catalogue declares %d",
			hhc.ErrFrameLength, kind, len(payload), want)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.conn.Write([]byte{byte(len(payload))}); err != nil {
		return nil, fmt.Errorf("%v length announcement: %w", kind, err)
	}
	if _, err := s.conn.Write(payload); err != nil {
		return nil, fmt.Errorf("%v payload write: %w", kind, err)
	}

	response := make([]byte, hhc.ReceiveLength(kind))
	if _, err := io.ReadFull(s.conn, response); err != nil {
		return nil, fmt.Errorf("%v response read: %w", kind, err)
	}
	return response, nil
}

// Info runs one INFO exchange and classifies the response against the
// protocol version this host speaks.
func (s *Session) Info() (hhc.InfoReport, error) {
	data, err := s.Exchange(hhc.FrameInfo, hhc.InfoRequest())
	if err != nil {
		return hhc.InfoReport{}, err
	}
	return hhc.CheckInfoFrame(data, hhc.Version), nil
}

// Temperature polls the MCU temperature.
func (s *Session) Temperature() (hhc.Reading, error) {
	data, err := s.Exchange(hhc.FrameTemperature, hhc.TelemetryRequest(hhc.FrameTemperature))
	if err != nil {
		return hhc.Reading{}, err
	}
	return hhc.DecodeTemperature(data)
}

// Voltage polls the analog input.
func (s *Session) Voltage() (hhc.Reading, error) {
	data, err := s.Exchange(hhc.FrameAdc, hhc.TelemetryRequest(hhc.FrameAdc))
	if err != nil {
		return hhc.Reading{}, err
	}
	return hhc.DecodeADC(data)
}

// SendLeg encodes and transmits a ONE_LEG command frame. The command path
// is fire-and-forget; the single response byte the bus clocks out is read
// and discarded to keep the link aligned.
func (s *Session) SendLeg(cmd hhc.LegCommand) error {
	payload, err := hhc.EncodeOneLeg(cmd)
	if err != nil {
		return err
	}
	_, err = s.Exchange(hhc.FrameOneLeg, payload)
	return err
}

// Close closes the underlying bus connection.
func (s *Session) Close() error {
	return s.conn.Close()
}
