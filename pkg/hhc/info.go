// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package hhc

import "fmt"

// InfoStatus is the terminal classification of a received INFO frame.
type InfoStatus int

const (
	// InfoValid means structure and both version numbers match exactly.
	InfoValid InfoStatus = iota
	// InfoMalformed means the byte count or marker bytes are wrong; no
	// version bytes were interpreted.
	InfoMalformed
	// InfoVersionIncompatible means the remote major version differs. The
	// link must be treated as unusable for version-sensitive operations.
	InfoVersionIncompatible
	// InfoVersionOlder means the remote minor version is behind the host's.
	InfoVersionOlder
	// InfoVersionNewer means the remote minor version is ahead of the host's.
	InfoVersionNewer
)

// String returns the classification name as used in logs.
func (s InfoStatus) String() string {
	switch s {
	case InfoValid:
		return "VALID"
	case InfoMalformed:
		return "MALFORMED"
	case InfoVersionIncompatible:
		return "VERSION_INCOMPATIBLE"
	case InfoVersionOlder:
		return "VERSION_OLDER"
	case InfoVersionNewer:
		return "VERSION_NEWER"
	default:
		return "UNKNOWN"
	}
}

// IsError reports whether the classification makes the link unusable.
// Minor-version skew is a warning, not an error.
func (s InfoStatus) IsError() bool {
	return s == InfoMalformed || s == InfoVersionIncompatible
}

// IsWarning reports whether the classification allows operation with
// reduced guarantees.
func (s InfoStatus) IsWarning() bool {
	return s == InfoVersionOlder || s == InfoVersionNewer
}

// InfoReport carries an INFO classification with enough detail to log.
// Remote is the zero value when the frame was malformed.
type InfoReport struct {
	Status  InfoStatus
	Local   ProtocolVersion
	Remote  ProtocolVersion
	Message string
}

// CheckInfoFrame validates a received INFO frame against the local protocol
// version. It is a pure function of its inputs: the same bytes and local
// version always yield the same classification. Classification never
// panics; a periodic info check that fails may succeed on the next poll.
func CheckInfoFrame(data []byte, local ProtocolVersion) InfoReport {
	want := ReceiveLength(FrameInfo)
	if len(data) != want {
		return InfoReport{
			Status:  InfoMalformed,
			Local:   local,
			Message: fmt.Sprintf("malformed INFO frame: got %d bytes, expected %d", len(data), want),
		}
	}
	if data[0] != infoMarker0 || data[1] != infoMarker1 {
		return InfoReport{
			Status:  InfoMalformed,
			Local:   local,
			Message: fmt.Sprintf("malformed INFO frame: bad markers 0x%02X 0x%02X", data[0], data[1]),
		}
	}

	remote := ProtocolVersion{Major: data[2], Minor: data[3]}
	report := InfoReport{Local: local, Remote: remote}

	switch {
	case remote.Major != local.Major:
		report.Status = InfoVersionIncompatible
		report.Message = fmt.Sprintf("incompatible protocol version: remote %s, local %s", remote, local)
	case remote.Minor < local.Minor:
		report.Status = InfoVersionOlder
		report.Message = fmt.Sprintf("remote protocol version %s is older than local %s", remote, local)
	case remote.Minor > local.Minor:
		report.Status = InfoVersionNewer
		report.Message = fmt.Sprintf("remote protocol version %s is newer than local %s", remote, local)
	default:
		report.Status = InfoValid
		report.Message = fmt.Sprintf("protocol version %s matches", remote)
	}
	return report
}
