// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package hhc

import "fmt"

// BytesToValue interprets a big-endian byte sequence as an unsigned integer.
// Sequences of 1 to 8 bytes are accepted; anything else overflows uint64.
func BytesToValue(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty byte sequence", ErrOverflow)
	}
	if len(data) > 8 {
		return 0, fmt.Errorf("%w: %d bytes exceeds uint64", ErrOverflow, len(data))
	}
	var value uint64
	for i, b := range data {
		value |= uint64(b) << (8 * (len(data) - i - 1))
	}
	return value, nil
}

// ValueToBytes encodes value as a big-endian sequence of exactly width
// bytes. It is the inverse of BytesToValue for outbound multi-byte fields.
func ValueToBytes(value uint64, width int) ([]byte, error) {
	if width < 1 || width > 8 {
		return nil, fmt.Errorf("%w: width %d", ErrOverflow, width)
	}
	if width < 8 && value>>(8*width) != 0 {
		return nil, fmt.Errorf("%w: %d does not fit in %d bytes", ErrOverflow, value, width)
	}
	data := make([]byte, width)
	for i := range data {
		data[i] = byte(value >> (8 * (width - i - 1)))
	}
	return data, nil
}
