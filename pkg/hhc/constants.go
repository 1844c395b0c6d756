// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

// Package hhc implements the Elkapod Hexapod Protocol spoken between the
// host and the Hardware Hexapod Controller (HHC) over the serial bus.
//
// The protocol is a master-driven exchange of fixed-size binary frames with
// no framing redundancy: every frame kind has a fixed transmit and receive
// length, fields are positional, and multi-byte values are big-endian. This
// package provides the frame catalogue, the command encoder, the info frame
// validator, and the telemetry decoders.
package hhc

// FrameType identifies a frame kind and doubles as the wire tag byte.
type FrameType byte

// Frame kinds
const (
	FrameInfo        FrameType = 0x01
	FrameAdc         FrameType = 0x02
	FrameTemperature FrameType = 0x03
	FrameOneLeg      FrameType = 0x04
)

// String returns the frame kind name as used in logs.
func (t FrameType) String() string {
	switch t {
	case FrameInfo:
		return "INFO"
	case FrameAdc:
		return "ADC"
	case FrameTemperature:
		return "TEMPERATURE"
	case FrameOneLeg:
		return "ONE_LEG"
	default:
		return "UNKNOWN"
	}
}

// Leg geometry
const (
	LegCount     = 6
	ServosPerLeg = 3
)

// INFO response markers. The HHC prefixes its info frame with these two
// fixed bytes so a garbled response is detectable despite the absence of
// checksums.
const (
	infoMarker0 = 0xEC
	infoMarker1 = 0x9D
)

// Telemetry unit conversions
const (
	adcFullScale     = 4096
	adcReferenceVolt = 3.3
	milliDegPerDeg   = 1000
)

// Telemetry response headers precede the raw big-endian count.
const (
	adcHeaderLen         = 3
	temperatureHeaderLen = 2
)
