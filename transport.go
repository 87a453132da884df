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
	"context"
	"fmt"
	"time"
)

// MaxTransferSize is the largest payload a single transfer may carry.
// Larger payloads must be split into multiple transactions; see
// Device.Exchange.
const MaxTransferSize = 2048

// Operation is one step of an SPI transaction. The set is closed:
// Write, Read, Transfer, TransferInPlace and Delay are the only
// implementations.
type Operation interface {
	op()
}

// Write clocks Data out to the chip and discards whatever the chip
// clocks back.
type Write struct {
	Data []byte
}

// Read clocks len(Data) zero bytes out and stores the chip's reply in
// Data.
type Read struct {
	Data []byte
}

// Transfer clocks Write out while storing the reply in Read. Both
// buffers must have the same length.
type Transfer struct {
	Read  []byte
	Write []byte
}

// TransferInPlace clocks Data out and overwrites Data with the reply.
type TransferInPlace struct {
	Data []byte
}

// Delay pauses between operations. Transports that cannot time the bus
// precisely may approximate the requested duration.
type Delay struct {
	Duration time.Duration
}

func (Write) op()           {}
func (Read) op()            {}
func (Transfer) op()        {}
func (TransferInPlace) op() {}
func (Delay) op()           {}

// Transport defines the interface for communication with the TROPIC01.
// This can be implemented by the serial bridge or native SPI backends.
type Transport interface {
	// Transact runs the operations in order inside one chip-select
	// window. A failing operation aborts the remainder of the list.
	Transact(ops ...Operation) error

	// Close closes the transport connection
	Close() error

	// SetTimeout sets the read timeout for the transport
	SetTimeout(timeout time.Duration) error

	// IsConnected returns true if the transport is connected
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportSerial represents the hex-over-UART bridge transport.
	TransportSerial TransportType = "serial"
	// TransportSPI represents native SPI bus transport.
	TransportSPI TransportType = "spi"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// ContextTransactor is implemented by transports that can check for
// cancellation between operations. Once a transfer has been written to
// the wire its matching read always runs; cancellation is only observed
// at operation boundaries.
type ContextTransactor interface {
	TransactWithContext(ctx context.Context, ops ...Operation) error
}

// TransportWithRetry wraps a Transport with transaction-level retry.
// The transport itself never retries; a failed transaction is re-run
// from its opening chip-select toggle.
type TransportWithRetry struct {
	transport Transport
	config    *RetryConfig
}

// NewTransportWithRetry creates a new transport wrapper with retry logic
func NewTransportWithRetry(transport Transport, config *RetryConfig) *TransportWithRetry {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &TransportWithRetry{
		transport: transport,
		config:    config,
	}
}

// Transact runs a transaction, re-running it on retryable failures
func (t *TransportWithRetry) Transact(ops ...Operation) error {
	return RetryWithConfig(context.Background(), t.config, func() error {
		if err := t.transport.Transact(ops...); err != nil {
			return fmt.Errorf("transaction failed: %w", err)
		}
		return nil
	})
}

// Close closes the transport connection
func (t *TransportWithRetry) Close() error {
	if err := t.transport.Close(); err != nil {
		return fmt.Errorf("failed to close underlying transport: %w", err)
	}
	return nil
}

// SetTimeout sets the read timeout for the transport
func (t *TransportWithRetry) SetTimeout(timeout time.Duration) error {
	if err := t.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set timeout on underlying transport: %w", err)
	}
	return nil
}

// IsConnected returns true if the transport is connected
func (t *TransportWithRetry) IsConnected() bool {
	return t.transport.IsConnected()
}

// Type returns the transport type
func (t *TransportWithRetry) Type() TransportType {
	return t.transport.Type()
}

// SetRetryConfig updates the retry configuration
func (t *TransportWithRetry) SetRetryConfig(config *RetryConfig) {
	t.config = config
}
