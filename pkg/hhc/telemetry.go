// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package hhc

import (
	"fmt"
	"time"
)

// ReadingKind identifies the physical quantity a telemetry frame carries.
type ReadingKind int

const (
	// ReadingVoltage is an ADC sample converted to volts.
	ReadingVoltage ReadingKind = iota
	// ReadingTemperature is the MCU temperature in degrees Celsius.
	ReadingTemperature
)

func (k ReadingKind) String() string {
	switch k {
	case ReadingVoltage:
		return "voltage"
	case ReadingTemperature:
		return "temperature"
	default:
		return "unknown"
	}
}

// Unit returns the physical unit symbol for the reading kind.
func (k ReadingKind) Unit() string {
	switch k {
	case ReadingVoltage:
		return "V"
	case ReadingTemperature:
		return "°C"
	default:
		return ""
	}
}

// Reading is one decoded telemetry sample. It is created per poll cycle and
// handed to the consumer; nothing is retained between exchanges.
type Reading struct {
	Kind      ReadingKind
	Raw       uint64
	Value     float64
	Timestamp time.Time
}

// DecodeADC decodes an ADC response frame into a voltage reading. The raw
// count occupies the big-endian bytes after the fixed header; voltage is
// raw / 4096 * 3.3.
func DecodeADC(data []byte) (Reading, error) {
	if len(data) != ReceiveLength(FrameAdc) {
		return Reading{}, fmt.Errorf("%w: ADC frame has %d bytes, expected %d",
			ErrFrameLength, len(data), ReceiveLength(FrameAdc))
	}
	raw, err := BytesToValue(data[adcHeaderLen:])
	if err != nil {
		return Reading{}, err
	}
	return Reading{
		Kind:      ReadingVoltage,
		Raw:       raw,
		Value:     float64(raw) / adcFullScale * adcReferenceVolt,
		Timestamp: time.Now(),
	}, nil
}

// DecodeTemperature decodes a TEMPERATURE response frame. The raw count
// after the two-byte header is in thousandths of a degree Celsius.
func DecodeTemperature(data []byte) (Reading, error) {
	if len(data) != ReceiveLength(FrameTemperature) {
		return Reading{}, fmt.Errorf("%w: TEMPERATURE frame has %d bytes, expected %d",
			ErrFrameLength, len(data), ReceiveLength(FrameTemperature))
	}
	raw, err := BytesToValue(data[temperatureHeaderLen:])
	if err != nil {
		return Reading{}, err
	}
	return Reading{
		Kind:      ReadingTemperature,
		Raw:       raw,
		Value:     float64(raw) / milliDegPerDeg,
		Timestamp: time.Now(),
	}, nil
}
