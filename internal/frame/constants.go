// go-tropic01
// Copyright (c) 2025 The go-tropic01 Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-tropic01.
//
// go-tropic01 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-tropic01 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-tropic01; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package frame implements the bridge firmware's ASCII wire format:
// hex-encoded, terminator-suffixed frames plus the fixed chip-select
// command exchange.
package frame

import tropic01 "github.com/sbellem/go-tropic01"

// MaxPayload is the largest binary payload one frame may carry. The
// bridge firmware rejects anything longer.
const MaxPayload = tropic01.MaxTransferSize

// TerminatorLen is the length of the frame terminator in bytes
const TerminatorLen = 2

// Chip-select command exchange. The same command both begins and ends a
// transaction; the bridge firmware alternates the physical line state
// between successive commands.
var (
	// CSCommand toggles the chip-select line.
	CSCommand = []byte("CS=0\n")
	// CSAck is the only acknowledgement the bridge may answer with.
	CSAck = []byte("OK\r\n")
)

// Frame terminators. Outgoing frames always end in Terminator; the
// bridge may echo either form back.
var (
	Terminator     = []byte("x\n")
	CRLFTerminator = []byte("\r\n")
)

// EncodedLength returns the on-wire size of a frame carrying n payload
// bytes: two hex characters per byte plus the terminator.
func EncodedLength(n int) int {
	return 2*n + TerminatorLen
}
