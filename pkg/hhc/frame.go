// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package hhc

import "fmt"

// Frame catalogue. This is the single place frame sizes are defined; every
// other component consults it instead of hard-coding byte counts. The
// firmware parses positionally, so a wrong entry here silently corrupts the
// whole exchange.
var transmitLengths = map[FrameType]int{
	FrameInfo:        2,
	FrameAdc:         2,
	FrameTemperature: 2,
	FrameOneLeg:      1 + 3*ServosPerLeg,
}

// The bus is full duplex, so even fire-and-forget ONE_LEG frames clock out
// one filler byte that the host must consume to keep the link aligned.
var receiveLengths = map[FrameType]int{
	FrameInfo:        4,
	FrameAdc:         adcHeaderLen + 2,
	FrameTemperature: temperatureHeaderLen + 3,
	FrameOneLeg:      1,
}

// TransmitLength returns the fixed transmit payload size for a frame kind.
func TransmitLength(t FrameType) int {
	n, ok := transmitLengths[t]
	if !ok {
		panic(fmt.Sprintf("hhc: unknown frame type 0x%02X", byte(t)))
	}
	return n
}

// ReceiveLength returns the fixed response size for a frame kind.
func ReceiveLength(t FrameType) int {
	n, ok := receiveLengths[t]
	if !ok {
		panic(fmt.Sprintf("hhc: unknown frame type 0x%02X", byte(t)))
	}
	return n
}

// InfoRequest returns the fixed request sequence for an INFO exchange.
func InfoRequest() []byte {
	return []byte{byte(TransmitLength(FrameInfo)), byte(FrameInfo)}
}

// TelemetryRequest returns the request payload for an ADC or TEMPERATURE
// poll: the transmit length followed by the frame tag.
func TelemetryRequest(t FrameType) []byte {
	return []byte{byte(TransmitLength(t)), byte(t)}
}
