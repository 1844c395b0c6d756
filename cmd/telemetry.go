// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/HexapodBionik/Elkapod/pkg/hhc"
	"github.com/HexapodBionik/Elkapod/pkg/server"
)

var (
	telemetryInterval time.Duration
	telemetryADC      bool
	telemetryRecord   string
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Poll and display controller telemetry",
	Long: `Continuously poll the MCU temperature (and optionally the analog
input) and print each reading with its timestamp.

With --record, every reading is also appended to a CBOR stream file for
offline analysis.

Supports both serial and bridge connections. Press Ctrl+C to exit.`,
	RunE: runTelemetry,
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
	telemetryCmd.Flags().DurationVar(&telemetryInterval, "interval", time.Second, "Poll interval")
	telemetryCmd.Flags().BoolVar(&telemetryADC, "adc", false, "Also poll the analog input")
	telemetryCmd.Flags().StringVar(&telemetryRecord, "record", "", "Append readings to a CBOR stream file")
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	session, connInfo, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	var recorder *server.Recorder
	if telemetryRecord != "" {
		file, err := os.OpenFile(telemetryRecord, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open recording file: %w", err)
		}
		defer file.Close()
		recorder = server.NewRecorder(file)
	}

	fmt.Printf("Elkapod - Telemetry\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	ticker := time.NewTicker(telemetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-interrupt:
			return nil
		case <-ticker.C:
			printReading(session.Temperature, recorder)
			if telemetryADC {
				printReading(session.Voltage, recorder)
			}
		}
	}
}

func printReading(poll func() (hhc.Reading, error), recorder *server.Recorder) {
	reading, err := poll()
	if err != nil {
		log.Printf("poll error: %v", err)
		return
	}

	fmt.Printf("[%s] %s: %.3f %s\n",
		reading.Timestamp.Format("15:04:05.000"),
		reading.Kind, reading.Value, reading.Kind.Unit())

	if recorder != nil {
		if err := recorder.Write(reading); err != nil {
			log.Printf("record error: %v", err)
		}
	}
}
