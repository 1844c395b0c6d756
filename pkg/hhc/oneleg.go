// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package hhc

import (
	"fmt"
	"math"
)

// LegCommand describes the desired state of one physical leg: which leg,
// what each of its three servos should do, and the target angles in the
// kinematic frame (degrees).
type LegCommand struct {
	LegID   uint8
	OpCodes []uint8
	Angles  []float64
}

// Validate checks the caller contract before any encoding happens. A
// malformed command is rejected here and never reaches the bus.
func (c LegCommand) Validate() error {
	if c.LegID < 1 || c.LegID > LegCount {
		return fmt.Errorf("%w: %d (valid 1-%d)", ErrLegID, c.LegID, LegCount)
	}
	if len(c.OpCodes) != ServosPerLeg || len(c.Angles) != ServosPerLeg {
		return fmt.Errorf("%w: got %d opcodes, %d angles", ErrServoCount, len(c.OpCodes), len(c.Angles))
	}
	for i, a := range c.Angles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("%w: servo %d", ErrAngleNotFinite, i)
		}
	}
	return nil
}

// KinematicToServo maps kinematic-frame angles to servo-frame angles. The
// transform is positional, one rule per servo slot on every leg:
//
//	servo 0: kinematic + 90
//	servo 1: kinematic + 90
//	servo 2: kinematic * -1
//
// Slots beyond the input length are simply absent from the result; a
// short slice is the caller's problem to validate, not a panic.
func KinematicToServo(angles []float64) []float64 {
	servo := make([]float64, len(angles))
	copy(servo, angles)
	for i := range servo {
		switch i {
		case 0, 1:
			servo[i] += 90
		case 2:
			servo[i] *= -1
		}
	}
	return servo
}

// EncodeOneLeg builds the ONE_LEG wire payload for a leg command.
//
// Layout is field-major, exactly as the firmware parses it: leg id, then
// the three opcodes, then the three integer parts, then the three
// fractional bytes. Integer parts travel as two's-complement bytes.
func EncodeOneLeg(cmd LegCommand) ([]byte, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	servo := KinematicToServo(cmd.Angles)

	intParts := make([]int8, ServosPerLeg)
	fracParts := make([]uint8, ServosPerLeg)
	for i, angle := range servo {
		ip, fp, err := SplitAngle(angle)
		if err != nil {
			return nil, fmt.Errorf("servo %d: %w", i, err)
		}
		intParts[i] = ip
		fracParts[i] = fp
	}

	payload := make([]byte, 0, TransmitLength(FrameOneLeg))
	payload = append(payload, cmd.LegID)
	payload = append(payload, cmd.OpCodes...)
	for _, ip := range intParts {
		payload = append(payload, byte(ip))
	}
	payload = append(payload, fracParts...)
	return payload, nil
}
