// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

// Package server runs the host-side comm loop: periodic info checks,
// telemetry polls, and the event-driven leg command path, all funneled
// through one bus session.
package server

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/HexapodBionik/Elkapod/pkg/config"
	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

// ErrQueueFull is returned by Submit when the bounded command queue cannot
// accept another leg command.
var ErrQueueFull = errors.New("leg command queue full")

// Bus is the session surface the server drives. *comm.Session satisfies it.
type Bus interface {
	Info() (hhc.InfoReport, error)
	Temperature() (hhc.Reading, error)
	Voltage() (hhc.Reading, error)
	SendLeg(cmd hhc.LegCommand) error
}

// Server schedules all traffic on the bus. Three stimuli compete for it:
// the low-frequency info check, the telemetry polls, and leg commands
// arriving on the queue. Commands move legs, so the loop drains them
// before honoring a telemetry tick.
type Server struct {
	bus      Bus
	log      *zap.Logger
	poll     config.PollConfig
	commands chan hhc.LegCommand
	hub      *Hub
}

// New creates a server around an open bus session.
func New(b Bus, log *zap.Logger, poll config.PollConfig, queueSize int) *Server {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Server{
		bus:      b,
		log:      log,
		poll:     poll,
		commands: make(chan hhc.LegCommand, queueSize),
		hub:      NewHub(),
	}
}

// Hub exposes the telemetry fan-out for consumers.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Submit queues a batch of leg commands for transmission. Each command is
// validated before it is accepted; a full queue rejects the remainder of
// the batch with ErrQueueFull rather than blocking the producer.
func (s *Server) Submit(cmds ...hhc.LegCommand) error {
	for _, cmd := range cmds {
		if err := cmd.Validate(); err != nil {
			return err
		}
	}
	for _, cmd := range cmds {
		select {
		case s.commands <- cmd:
		default:
			return ErrQueueFull
		}
	}
	return nil
}

// Run drives the bus until the context is cancelled. An immediate info
// check verifies the controller before any scheduled traffic. Exchange
// failures are logged and retried by the natural recurrence of the
// timers; they never stop the loop.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	s.checkInfo()

	infoTicker := time.NewTicker(s.poll.InfoPeriod)
	defer infoTicker.Stop()
	tempTicker := time.NewTicker(s.poll.TemperaturePeriod)
	defer tempTicker.Stop()

	var adcTick <-chan time.Time
	if s.poll.EnableADC {
		adcTicker := time.NewTicker(s.poll.ADCPeriod)
		defer adcTicker.Stop()
		adcTick = adcTicker.C
	}

	for {
		// Pending commands take priority over telemetry ticks.
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-s.commands:
			s.sendLeg(cmd)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return nil
		case cmd := <-s.commands:
			s.sendLeg(cmd)
		case <-tempTicker.C:
			s.pollTemperature()
		case <-adcTick:
			s.pollVoltage()
		case <-infoTicker.C:
			s.checkInfo()
		}
	}
}

func (s *Server) sendLeg(cmd hhc.LegCommand) {
	if err := s.bus.SendLeg(cmd); err != nil {
		s.log.Error("leg command failed",
			zap.Uint8("leg", cmd.LegID),
			zap.Error(err))
		return
	}
	s.log.Debug("leg command sent",
		zap.Uint8("leg", cmd.LegID),
		zap.Float64s("angles", cmd.Angles))
}

func (s *Server) pollTemperature() {
	reading, err := s.bus.Temperature()
	if err != nil {
		s.log.Error("temperature poll failed", zap.Error(err))
		return
	}
	s.hub.Publish(reading)
}

func (s *Server) pollVoltage() {
	reading, err := s.bus.Voltage()
	if err != nil {
		s.log.Error("adc poll failed", zap.Error(err))
		return
	}
	s.hub.Publish(reading)
}

// checkInfo runs one info exchange and logs the classification at the
// severity it carries. The check is periodic and self-healing: a failed
// poll does not mark the link dead, the next one may succeed.
func (s *Server) checkInfo() {
	report, err := s.bus.Info()
	if err != nil {
		s.log.Error("info exchange failed", zap.Error(err))
		return
	}

	fields := []zap.Field{
		zap.String("status", report.Status.String()),
		zap.String("local", report.Local.String()),
	}
	if report.Status != hhc.InfoMalformed {
		fields = append(fields, zap.String("remote", report.Remote.String()))
	}

	switch {
	case report.Status.IsError():
		s.log.Error(report.Message, fields...)
	case report.Status.IsWarning():
		s.log.Warn(report.Message, fields...)
	default:
		s.log.Info(report.Message, fields...)
	}
}
