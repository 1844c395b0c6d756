// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HexapodBionik/Elkapod/pkg/config"
	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

// fakeHHC stands in for the bus session and counts what the server asks
// of it.
type fakeHHC struct {
	mu        sync.Mutex
	infoCalls int
	tempCalls int
	adcCalls  int
	legs      []hhc.LegCommand
	infoData  []byte
	legErr    error
}

func newFakeHHC() *fakeHHC {
	return &fakeHHC{infoData: []byte{0xEC, 0x9D, hhc.Version.Major, hhc.Version.Minor}}
}

func (f *fakeHHC) Info() (hhc.InfoReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoCalls++
	return hhc.CheckInfoFrame(f.infoData, hhc.Version), nil
}

func (f *fakeHHC) Temperature() (hhc.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tempCalls++
	return hhc.Reading{Kind: hhc.ReadingTemperature, Value: 23.456, Timestamp: time.Now()}, nil
}

func (f *fakeHHC) Voltage() (hhc.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adcCalls++
	return hhc.Reading{Kind: hhc.ReadingVoltage, Value: 1.65, Timestamp: time.Now()}, nil
}

func (f *fakeHHC) SendLeg(cmd hhc.LegCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.legErr != nil {
		return f.legErr
	}
	f.legs = append(f.legs, cmd)
	return nil
}

func (f *fakeHHC) counts() (info, temp, adc, legs int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.infoCalls, f.tempCalls, f.adcCalls, len(f.legs)
}

func testPoll() config.PollConfig {
	return config.PollConfig{
		InfoPeriod:        time.Hour, // only the startup check fires
		TemperaturePeriod: 5 * time.Millisecond,
		ADCPeriod:         5 * time.Millisecond,
	}
}

func validCommand(leg uint8) hhc.LegCommand {
	return hhc.LegCommand{LegID: leg, OpCodes: []uint8{1, 1, 1}, Angles: []float64{10, -20, 30}}
}

func TestServer_StartupInfoCheck(t *testing.T) {
	bus := newFakeHHC()
	srv := New(bus, zap.NewNop(), testPoll(), 4)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, srv.Run(ctx))

	info, temp, _, _ := bus.counts()
	assert.Equal(t, 1, info, "startup must run exactly one info check")
	assert.Greater(t, temp, 0, "temperature ticker must have fired")
}

func TestServer_ADCDisabledByDefault(t *testing.T) {
	bus := newFakeHHC()
	srv := New(bus, zap.NewNop(), testPoll(), 4)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, srv.Run(ctx))

	_, _, adc, _ := bus.counts()
	assert.Zero(t, adc)
}

func TestServer_ADCEnabled(t *testing.T) {
	bus := newFakeHHC()
	poll := testPoll()
	poll.EnableADC = true
	srv := New(bus, zap.NewNop(), poll, 4)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, srv.Run(ctx))

	_, _, adc, _ := bus.counts()
	assert.Greater(t, adc, 0)
}

func TestServer_CommandsTransmitted(t *testing.T) {
	bus := newFakeHHC()
	srv := New(bus, zap.NewNop(), testPoll(), 8)

	require.NoError(t, srv.Submit(validCommand(1), validCommand(2), validCommand(3)))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, srv.Run(ctx))

	bus.mu.Lock()
	defer bus.mu.Unlock()
	require.Len(t, bus.legs, 3)
	assert.Equal(t, uint8(1), bus.legs[0].LegID)
	assert.Equal(t, uint8(2), bus.legs[1].LegID)
	assert.Equal(t, uint8(3), bus.legs[2].LegID)
}

func TestServer_SubmitValidates(t *testing.T) {
	srv := New(newFakeHHC(), zap.NewNop(), testPoll(), 4)

	err := srv.Submit(hhc.LegCommand{LegID: 0, OpCodes: []uint8{1, 1, 1}, Angles: []float64{0, 0, 0}})
	assert.ErrorIs(t, err, hhc.ErrLegID)
}

func TestServer_SubmitBounded(t *testing.T) {
	srv := New(newFakeHHC(), zap.NewNop(), testPoll(), 2)

	require.NoError(t, srv.Submit(validCommand(1), validCommand(2)))
	assert.ErrorIs(t, srv.Submit(validCommand(3)), ErrQueueFull)
}

func TestServer_TelemetryReachesHub(t *testing.T) {
	bus := newFakeHHC()
	srv := New(bus, zap.NewNop(), testPoll(), 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Run(ctx)
	}()

	// Subscribe after Run has started the hub.
	time.Sleep(5 * time.Millisecond)
	sub := srv.Hub().Subscribe()

	select {
	case reading := <-sub:
		assert.Equal(t, hhc.ReadingTemperature, reading.Kind)
		assert.InDelta(t, 23.456, reading.Value, 1e-9)
	case <-time.After(time.Second):
		t.Fatal("no telemetry reached the hub")
	}

	cancel()
	<-done
}

func TestServer_LegErrorDoesNotStopLoop(t *testing.T) {
	bus := newFakeHHC()
	bus.legErr = assert.AnError
	srv := New(bus, zap.NewNop(), testPoll(), 4)

	require.NoError(t, srv.Submit(validCommand(1)))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, srv.Run(ctx))

	_, temp, _, _ := bus.counts()
	assert.Greater(t, temp, 0, "loop must keep polling after a command failure")
}
