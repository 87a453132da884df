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

package tropic01

import "fmt"

// DeviceErrorCode enumerates the TROPIC01 protocol error conditions.
type DeviceErrorCode int

const (
	// DeviceErrAlarmMode means the chip entered alarm mode and refuses
	// all commands.
	DeviceErrAlarmMode DeviceErrorCode = iota
	// DeviceErrChipBusy means the chip reported busy status.
	DeviceErrChipBusy
	// DeviceErrBus means the underlying transport failed; the causing
	// transport error is carried in Err.
	DeviceErrBus
	// DeviceErrDecryption means a secure-channel response failed to
	// decrypt.
	DeviceErrDecryption
	// DeviceErrEncryption means a secure-channel command failed to
	// encrypt.
	DeviceErrEncryption
	// DeviceErrGPIO means a chip-select GPIO operation failed. Neither
	// backend uses a GPIO chip-select, so this code is never produced.
	DeviceErrGPIO
	// DeviceErrHandshakeFailed means secure session establishment
	// failed.
	DeviceErrHandshakeFailed
	// DeviceErrInvalidChipStatus means the chip status byte was not
	// recognized.
	DeviceErrInvalidChipStatus
	// DeviceErrInvalidCRC means a response frame failed its checksum.
	DeviceErrInvalidCRC
	// DeviceErrInvalidKey means a key slot holds no usable key.
	DeviceErrInvalidKey
	// DeviceErrInvalidL2Response means an L2 response frame was
	// malformed.
	DeviceErrInvalidL2Response
	// DeviceErrInvalidL3Cmd means the chip rejected an L3 command.
	DeviceErrInvalidL3Cmd
	// DeviceErrInvalidPublicKey means a public key failed validation.
	DeviceErrInvalidPublicKey
	// DeviceErrL2Response means the chip returned an L2 error status.
	DeviceErrL2Response
	// DeviceErrL3CmdFailed means an L3 command did not complete.
	DeviceErrL3CmdFailed
	// DeviceErrL3ResponseOverflow means an L3 response exceeded the
	// response buffer.
	DeviceErrL3ResponseOverflow
	// DeviceErrNoSession means no secure session is established.
	DeviceErrNoSession
	// DeviceErrParsing means a response could not be parsed.
	DeviceErrParsing
	// DeviceErrRequestExceedsSize means a request exceeds the chip's
	// frame limit.
	DeviceErrRequestExceedsSize
	// DeviceErrUnauthorized means the current pairing key lacks the
	// required access rights.
	DeviceErrUnauthorized
	// DeviceErrUnexpectedStatus means the chip answered with a status
	// that does not match the request.
	DeviceErrUnexpectedStatus
)

// String returns a short description of the code
func (c DeviceErrorCode) String() string {
	switch c {
	case DeviceErrAlarmMode:
		return "alarm mode"
	case DeviceErrChipBusy:
		return "chip busy"
	case DeviceErrBus:
		return "bus error"
	case DeviceErrDecryption:
		return "decryption failed"
	case DeviceErrEncryption:
		return "encryption failed"
	case DeviceErrGPIO:
		return "gpio error"
	case DeviceErrHandshakeFailed:
		return "handshake failed"
	case DeviceErrInvalidChipStatus:
		return "invalid chip status"
	case DeviceErrInvalidCRC:
		return "invalid CRC"
	case DeviceErrInvalidKey:
		return "invalid key"
	case DeviceErrInvalidL2Response:
		return "invalid L2 response"
	case DeviceErrInvalidL3Cmd:
		return "invalid L3 command"
	case DeviceErrInvalidPublicKey:
		return "invalid public key"
	case DeviceErrL2Response:
		return "L2 response error"
	case DeviceErrL3CmdFailed:
		return "L3 command failed"
	case DeviceErrL3ResponseOverflow:
		return "L3 response buffer overflow"
	case DeviceErrNoSession:
		return "no session"
	case DeviceErrParsing:
		return "parsing error"
	case DeviceErrRequestExceedsSize:
		return "request exceeds size"
	case DeviceErrUnauthorized:
		return "unauthorized"
	case DeviceErrUnexpectedStatus:
		return "unexpected response status"
	default:
		return fmt.Sprintf("unknown device error %d", int(c))
	}
}

// DeviceError is an error from the secure-element protocol layer. A
// code of DeviceErrBus carries the transport error that caused it in
// Err; other codes may carry additional detail there.
type DeviceError struct {
	Err  error
	Code DeviceErrorCode
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tropic device error: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("tropic device error: %s", e.Code)
}

// Unwrap returns the underlying error, if any
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// NewDeviceError creates a DeviceError for the given code
func NewDeviceError(code DeviceErrorCode) *DeviceError {
	return &DeviceError{Code: code}
}

// NewBusError wraps a transport error in the device error domain
func NewBusError(cause error) *DeviceError {
	return &DeviceError{Code: DeviceErrBus, Err: cause}
}
