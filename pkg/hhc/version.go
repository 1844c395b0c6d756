// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 HexapodBionik

package hhc

import "fmt"

// ProtocolVersion is a (major, minor) pair. Major must match exactly for
// the link to be usable; minor differences are tolerated but reported.
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// Version is the protocol revision this implementation speaks.
var Version = ProtocolVersion{Major: 1, Minor: 0}

func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
