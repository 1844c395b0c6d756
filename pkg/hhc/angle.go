// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package hhc

import (
	"fmt"
	"math"
)

// SplitAngle converts a servo angle in degrees to the fixed-point wire
// representation: a signed whole-degree part and an unsigned fractional
// byte counting 1/256ths of a degree.
//
// The integer part truncates toward zero and carries the sign; the
// fractional byte is always the non-negative magnitude of the remainder.
// When the fraction rounds up to a full degree it carries into the integer
// part, so the fractional byte never reaches 256.
func SplitAngle(angle float64) (int8, uint8, error) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0, 0, fmt.Errorf("%w: %v", ErrAngleNotFinite, angle)
	}

	intPart := math.Trunc(angle)
	frac := math.Round(math.Abs(angle-intPart) * 256)
	if frac >= 256 {
		frac = 0
		if angle >= 0 {
			intPart++
		} else {
			intPart--
		}
	}

	if intPart < math.MinInt8 || intPart > math.MaxInt8 {
		return 0, 0, fmt.Errorf("%w: %.3f deg", ErrAngleRange, angle)
	}
	return int8(intPart), uint8(frac), nil
}

// CombineAngle reverses SplitAngle. The fractional byte carries no sign of
// its own: it extends the magnitude away from zero for negative integer
// parts and toward positive for the rest, matching how the firmware
// reassembles the angle.
func CombineAngle(intPart int8, frac uint8) float64 {
	f := float64(frac) / 256
	if intPart < 0 {
		return float64(intPart) - f
	}
	return float64(intPart) + f
}
