// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik
//
// Elkapod - Hexapod Host Communication Tool
//
// A CLI tool for talking to the Elkapod Hardware Hexapod Controller over
// its serial bus: version checks, telemetry polling, leg commands, and the
// full comm server.

package main

import (
	"os"

	"github.com/HexapodBionik/Elkapod/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
