// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

var legOpCodes []uint

var legCmd = &cobra.Command{
	Use:   "leg <leg-id> <angle0> <angle1> <angle2>",
	Short: "Send a one-leg servo command",
	Long: `Send a single ONE_LEG frame to the controller.

Angles are given in degrees in the kinematic frame; the fixed per-joint
transform to servo angles (+90, +90, *-1) is applied before encoding.

Example:
  elkapod leg 2 10.0 -20.0 30.0 --opcodes 1,1,1`,
	Args: cobra.ExactArgs(1 + hhc.ServosPerLeg),
	RunE: runLeg,
}

func init() {
	rootCmd.AddCommand(legCmd)
	legCmd.Flags().UintSliceVar(&legOpCodes, "opcodes", []uint{1, 1, 1}, "Per-servo operation codes")
}

func runLeg(cmd *cobra.Command, args []string) error {
	legID, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return fmt.Errorf("invalid leg id %q: %w", args[0], err)
	}

	angles := make([]float64, hhc.ServosPerLeg)
	for i := 0; i < hhc.ServosPerLeg; i++ {
		angles[i], err = strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return fmt.Errorf("invalid angle %q: %w", args[i+1], err)
		}
	}

	opCodes := make([]uint8, 0, len(legOpCodes))
	for _, op := range legOpCodes {
		if op > 0xFF {
			return fmt.Errorf("opcode %d does not fit in a byte", op)
		}
		opCodes = append(opCodes, uint8(op))
	}

	command := hhc.LegCommand{
		LegID:   uint8(legID),
		OpCodes: opCodes,
		Angles:  angles,
	}
	if err := command.Validate(); err != nil {
		return err
	}

	session, connInfo, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.SendLeg(command); err != nil {
		return fmt.Errorf("leg command failed: %w", err)
	}

	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Leg %d commanded: angles %v, opcodes %v\n", command.LegID, command.Angles, command.OpCodes)
	return nil
}
