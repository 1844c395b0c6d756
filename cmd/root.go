// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HexapodBionik/Elkapod/pkg/comm"
	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

var (
	// Serial connection flags
	portName    string
	baudRate    int
	readTimeout time.Duration

	// WebSocket bridge flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool
)

var rootCmd = &cobra.Command{
	Use:   "elkapod",
	Short: "Elkapod Hexapod Controller communication tool",
	Long: `Elkapod - host-side tooling for the Hardware Hexapod Controller (HHC).

Talks the Elkapod Hexapod Protocol over the serial bus: version checks,
telemetry polling (MCU temperature, analog readings), and per-leg servo
commands.

Connection modes:
  Serial: --port /dev/ttyACM0 [--baud 115200]
  Bridge: --url ws://host/path [--username user]

For bridge authentication, the password is read from the ELKAPOD_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell
history.`,
	Version: hhc.Version.String(),
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")
	rootCmd.PersistentFlags().DurationVar(&readTimeout, "read-timeout", 500*time.Millisecond, "Response read timeout (serial only)")

	// WebSocket bridge flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "Bridge URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// openConnection opens either a serial or bridge connection based on flags
func openConnection() (comm.Connection, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = comm.GetPassword()
			if err != nil {
				return nil, "", err
			}
		}

		conn, err := comm.OpenWebSocketConnection(wsURL, wsUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, "", err
		}

		return conn, fmt.Sprintf("Bridge: %s", wsURL), nil
	}

	if portName != "" {
		conn, err := comm.OpenSerialConnection(portName, baudRate, readTimeout)
		if err != nil {
			return nil, "", err
		}

		return conn, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	return nil, "", fmt.Errorf("either --port or --url must be specified")
}

// openSession opens a connection and wraps it in an exchange session
func openSession() (*comm.Session, string, error) {
	conn, connInfo, err := openConnection()
	if err != nil {
		return nil, "", err
	}
	return comm.NewSession(conn), connInfo, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
