// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package server

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

func TestRecorder_WritesDecodableStream(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	now := time.Now()
	require.NoError(t, rec.Write(hhc.Reading{
		Kind: hhc.ReadingTemperature, Raw: 23456, Value: 23.456, Timestamp: now,
	}))
	require.NoError(t, rec.Write(hhc.Reading{
		Kind: hhc.ReadingVoltage, Raw: 2048, Value: 1.65, Timestamp: now,
	}))

	dec := cbor.NewDecoder(&buf)

	var first, second Record
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "temperature", first.Kind)
	assert.Equal(t, "°C", first.Unit)
	assert.Equal(t, uint64(23456), first.Raw)
	assert.InDelta(t, 23.456, first.Value, 1e-9)
	assert.Equal(t, now.UnixNano(), first.Timestamp)

	assert.Equal(t, "voltage", second.Kind)
	assert.InDelta(t, 1.65, second.Value, 1e-9)

	// Nothing beyond the two records.
	var extra Record
	assert.ErrorIs(t, dec.Decode(&extra), io.EOF)
}

func TestRecorder_ConsumeDrainsUntilClose(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	in := make(chan hhc.Reading, 3)
	in <- hhc.Reading{Kind: hhc.ReadingTemperature, Value: 20}
	in <- hhc.Reading{Kind: hhc.ReadingTemperature, Value: 21}
	close(in)

	require.NoError(t, rec.Consume(context.Background(), in))

	dec := cbor.NewDecoder(&buf)
	count := 0
	for {
		var r Record
		if err := dec.Decode(&r); err != nil {
			break
		}
		count++
	}
	assert.Equal(t, 2, count)
}

func TestRecorder_ConsumeStopsOnContext(t *testing.T) {
	rec := NewRecorder(&bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make(chan hhc.Reading)
	require.NoError(t, rec.Consume(ctx, in))
}
