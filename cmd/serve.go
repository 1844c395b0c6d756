// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HexapodBionik/Elkapod/pkg/comm"
	"github.com/HexapodBionik/Elkapod/pkg/config"
	"github.com/HexapodBionik/Elkapod/pkg/logging"
	"github.com/HexapodBionik/Elkapod/pkg/server"
)

var (
	serveConfig string
	serveRecord string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the comm server",
	Long: `Run the full host-side comm server: periodic protocol version checks,
periodic telemetry polling, and the leg command path, all scheduled on the
shared bus.

Configuration is read from the --config file (YAML) with ELKAPOD_*
environment overrides. Connection flags on the command line take precedence
over the bus section of the config file.

The server refuses to start when the bus cannot be opened; steady-state
exchange failures are logged and retried on the next scheduled tick.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Config file (YAML)")
	serveCmd.Flags().StringVar(&serveRecord, "record", "", "Append telemetry to a CBOR stream file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return err
	}

	// Command line connection flags win over the config file.
	if portName != "" || wsURL != "" {
		cfg.Bus.Port = portName
		cfg.Bus.Baud = baudRate
		cfg.Bus.URL = wsURL
		cfg.Bus.Username = wsUsername
		cfg.Bus.SkipTLSVerify = wsNoSSLVerify
		cfg.Bus.ReadTimeout = readTimeout
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	session, connInfo, err := openConfiguredSession(cfg.Bus)
	if err != nil {
		// No bus, no hexapod. This is the one fatal error in the design.
		log.Fatal("cannot open connection to Hardware Hexapod Controller",
			zap.Error(err))
	}
	defer session.Close()

	log.Info("comm server starting", zap.String("connection", connInfo))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := server.New(session, log, cfg.Poll, cfg.Command.QueueSize)

	if serveRecord != "" {
		file, err := os.OpenFile(serveRecord, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open recording file: %w", err)
		}
		defer file.Close()

		recorder := server.NewRecorder(file)
		go func() {
			// Subscription happens inside the goroutine so it does not
			// race the hub startup in srv.Run.
			if err := recorder.Consume(ctx, srv.Hub().Subscribe()); err != nil {
				log.Error("telemetry recording stopped", zap.Error(err))
			}
		}()
	}

	return srv.Run(ctx)
}

// openConfiguredSession opens the bus endpoint named in the config.
func openConfiguredSession(cfg config.BusConfig) (*comm.Session, string, error) {
	if cfg.Port != "" {
		conn, err := comm.OpenSerialConnection(cfg.Port, cfg.Baud, cfg.ReadTimeout)
		if err != nil {
			return nil, "", err
		}
		return comm.NewSession(conn), fmt.Sprintf("Serial: %s @ %d baud", cfg.Port, cfg.Baud), nil
	}

	if cfg.URL != "" {
		password := ""
		if cfg.Username != "" {
			var err error
			password, err = comm.GetPassword()
			if err != nil {
				return nil, "", err
			}
		}
		conn, err := comm.OpenWebSocketConnection(cfg.URL, cfg.Username, password, cfg.SkipTLSVerify)
		if err != nil {
			return nil, "", err
		}
		return comm.NewSession(conn), fmt.Sprintf("Bridge: %s", cfg.URL), nil
	}

	return nil, "", fmt.Errorf("no bus endpoint configured: set bus.port or bus.url")
}
