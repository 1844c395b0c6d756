// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Check the controller's protocol version",
	Long: `Run a single INFO exchange against the Hardware Hexapod Controller.

The response is validated structurally and its protocol version compared
against the version this tool speaks. Exit status is non-zero when the
frame is malformed or the major versions differ.`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	session, connInfo, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Local protocol version: %s\n", hhc.Version)

	report, err := session.Info()
	if err != nil {
		return fmt.Errorf("info exchange failed: %w", err)
	}

	fmt.Printf("Status: %s\n", report.Status)
	if report.Status != hhc.InfoMalformed {
		fmt.Printf("Remote protocol version: %s\n", report.Remote)
	}
	fmt.Println(report.Message)

	if report.Status.IsError() {
		return fmt.Errorf("controller link unusable: %s", report.Status)
	}
	return nil
}
