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

import (
	"errors"
	"fmt"
)

// Transport errors. These form a closed set; transports wrap them in a
// *TransportError carrying the operation and port.
var (
	// ErrTransportTimeout indicates a read or write hit the link's
	// per-call timeout.
	ErrTransportTimeout = errors.New("transport timeout")
	// ErrTransportRead indicates a read from the link failed.
	ErrTransportRead = errors.New("transport read failed")
	// ErrTransportWrite indicates a write to the link failed.
	ErrTransportWrite = errors.New("transport write failed")
	// ErrCommunicationFailed indicates the exchange broke down for a
	// reason that is likely transient.
	ErrCommunicationFailed = errors.New("communication failed")
	// ErrInvalidResponse indicates the bridge answered with an
	// unexpected chip-select acknowledgement or frame terminator.
	ErrInvalidResponse = errors.New("invalid response from device")
	// ErrDataTooLong indicates a transfer payload exceeds
	// MaxTransferSize.
	ErrDataTooLong = errors.New("data too long for transport")
	// ErrNonUTF8Hex indicates the echoed hex region contained bytes
	// outside ASCII/UTF-8.
	ErrNonUTF8Hex = errors.New("non-UTF8 hex characters in response")
	// ErrInvalidHexDigit indicates the echoed hex region contained a
	// character that is not a hex digit.
	ErrInvalidHexDigit = errors.New("invalid hex digit in response")
	// ErrInvalidBufferLength indicates a Transfer operation with
	// mismatched read and write lengths.
	ErrInvalidBufferLength = errors.New("invalid buffer length")
	// ErrInvalidParameter indicates a caller-supplied argument is out
	// of range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDeviceNotFound indicates no bridge dongle could be located.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrPortBusy indicates the serial port is held by another process.
	ErrPortBusy = errors.New("port busy")
)

// ErrorType categorizes errors for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent indicates an error that will not resolve by
	// retrying.
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient indicates an error that may resolve by
	// retrying.
	ErrorTypeTransient
	// ErrorTypeTimeout indicates the operation timed out.
	ErrorTypeTimeout
)

// TransportError wraps a low-level error with the operation and port it
// occurred on.
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError; retryability is derived
// from the error type.
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType != ErrorTypePermanent,
	}
}

// NewTimeoutError creates a TransportError for a link timeout
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// NewInvalidResponseError creates a TransportError for a bad
// chip-select acknowledgement or frame terminator
func NewInvalidResponseError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrInvalidResponse, ErrorTypeTransient)
}

// NewDataTooLongError creates a TransportError for an oversized payload
func NewDataTooLongError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrDataTooLong, ErrorTypePermanent)
}

// NewInvalidBufferLengthError creates a TransportError for mismatched
// Transfer buffer lengths
func NewInvalidBufferLengthError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrInvalidBufferLength, ErrorTypePermanent)
}

// IsRetryable reports whether the error is worth retrying. For
// *TransportError the Retryable field is authoritative; sentinel errors
// are classified directly. Errors merely containing a sentinel's text
// are not recognized.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrCommunicationFailed),
		errors.Is(err, ErrInvalidResponse),
		errors.Is(err, ErrNonUTF8Hex),
		errors.Is(err, ErrInvalidHexDigit):
		return true
	default:
		return false
	}
}

// GetErrorType classifies an error for retry decisions
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrCommunicationFailed),
		errors.Is(err, ErrInvalidResponse),
		errors.Is(err, ErrNonUTF8Hex),
		errors.Is(err, ErrInvalidHexDigit):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}

// FromDeviceError converts a secure-element protocol error into the
// transport error domain. The conversion is total over every
// DeviceErrorCode.
//
// The bus-error case is the cyclic one: a DeviceError of code
// DeviceErrBus carries the transport error that caused it, and the
// result wraps that DeviceError again. The inner transport error stays
// behind the DeviceError pointer, so the two domains reference each
// other through one level of indirection instead of by value.
func FromDeviceError(err *DeviceError, port string) *TransportError {
	if err == nil {
		return nil
	}

	switch err.Code {
	case DeviceErrBus:
		// Preserve the causing transport error behind the device
		// error so callers can still reach it with errors.As.
		return &TransportError{
			Op:        "device",
			Port:      port,
			Err:       err,
			Type:      GetErrorType(err.Err),
			Retryable: IsRetryable(err.Err),
		}
	case DeviceErrGPIO:
		// No GPIO chip-select line exists on either backend, so this
		// code can never be produced; map it to a sentinel to keep
		// the conversion total.
		return NewInvalidResponseError("device", port)
	case DeviceErrChipBusy:
		return NewTransportError("device", port, err, ErrorTypeTransient)
	case DeviceErrAlarmMode,
		DeviceErrDecryption,
		DeviceErrEncryption,
		DeviceErrHandshakeFailed,
		DeviceErrInvalidChipStatus,
		DeviceErrInvalidCRC,
		DeviceErrInvalidKey,
		DeviceErrInvalidL2Response,
		DeviceErrInvalidL3Cmd,
		DeviceErrInvalidPublicKey,
		DeviceErrL2Response,
		DeviceErrL3CmdFailed,
		DeviceErrL3ResponseOverflow,
		DeviceErrNoSession,
		DeviceErrParsing,
		DeviceErrRequestExceedsSize,
		DeviceErrUnauthorized,
		DeviceErrUnexpectedStatus:
		return NewTransportError("device", port, err, ErrorTypePermanent)
	default:
		return NewTransportError("device", port, err, ErrorTypePermanent)
	}
}
