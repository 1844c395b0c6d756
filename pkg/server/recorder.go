// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package server

import (
	"context"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/HexapodBionik/Elkapod/pkg/hhc"
)

// Record is one telemetry sample as written to a recording stream.
type Record struct {
	Timestamp int64   `cbor:"ts"` // unix nanoseconds
	Kind      string  `cbor:"kind"`
	Unit      string  `cbor:"unit"`
	Raw       uint64  `cbor:"raw"`
	Value     float64 `cbor:"value"`
}

// Recorder appends telemetry readings to a writer as a stream of CBOR
// records, one per sample. CBOR keeps recordings compact on long runs and
// preserves the raw counts for offline re-conversion.
type Recorder struct {
	enc *cbor.Encoder
}

// NewRecorder wraps a writer. The caller owns the writer's lifecycle.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: cbor.NewEncoder(w)}
}

// Write appends a single reading.
func (r *Recorder) Write(reading hhc.Reading) error {
	return r.enc.Encode(Record{
		Timestamp: reading.Timestamp.UnixNano(),
		Kind:      reading.Kind.String(),
		Unit:      reading.Kind.Unit(),
		Raw:       reading.Raw,
		Value:     reading.Value,
	})
}

// Consume drains a hub subscription until the context ends or the channel
// closes. Encode errors are returned to the caller; the recording is
// useless once the sink fails.
func (r *Recorder) Consume(ctx context.Context, in <-chan hhc.Reading) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case reading, ok := <-in:
			if !ok {
				return nil
			}
			if err := r.Write(reading); err != nil {
				return err
			}
		}
	}
}
