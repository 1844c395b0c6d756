// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package hhc

import "errors"

var (
	// ErrOverflow indicates a byte sequence or value wider than the codec
	// can represent.
	ErrOverflow = errors.New("value overflows target width")
	// ErrAngleNotFinite indicates a NaN or infinite angle in a leg command.
	ErrAngleNotFinite = errors.New("angle is not finite")
	// ErrAngleRange indicates a servo angle whose integer part does not fit
	// the signed wire byte.
	ErrAngleRange = errors.New("servo angle out of representable range")
	// ErrServoCount indicates a leg command whose opcode and angle sequences
	// do not both have exactly ServosPerLeg elements.
	ErrServoCount = errors.New("leg command must carry one opcode and one angle per servo")
	// ErrLegID indicates a leg identifier outside 1..LegCount.
	ErrLegID = errors.New("leg id out of range")
	// ErrFrameLength indicates a received frame whose byte count does not
	// match the catalogue's declared receive length.
	ErrFrameLength = errors.New("frame length mismatch")
)
