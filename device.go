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
	"bytes"
	"fmt"
	"time"
)

// pingFill is the byte pattern Ping clocks out. The chip treats it as a
// no-op request and echoes status in its place.
const pingFill = 0x06

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// RetryConfig configures retry behavior for transactions
	RetryConfig *RetryConfig
	// Timeout is the default timeout for operations
	Timeout time.Duration
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		RetryConfig: DefaultRetryConfig(),
		Timeout:     1 * time.Second,
	}
}

// Device represents a TROPIC01 secure element reached through a
// Transport.
//
// Thread Safety: Device is NOT thread-safe. All methods must be called
// from a single goroutine or protected with external synchronization;
// the underlying transport owns exactly one bus handle.
type Device struct {
	transport Transport
	config    *DeviceConfig
}

// New creates a new TROPIC01 device with the given transport
func New(transport Transport, opts ...Option) (*Device, error) {
	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Transport returns the transport the device drives
func (d *Device) Transport() Transport {
	return d.transport
}

// Transact runs one transaction on the underlying transport
func (d *Device) Transact(ops ...Operation) error {
	return d.transport.Transact(ops...)
}

// Exchange clocks tx out to the chip and returns the bytes the chip
// clocked back. Payloads larger than MaxTransferSize are split into
// consecutive transactions of at most MaxTransferSize bytes, each
// bracketed by its own chip-select window. An empty payload performs no
// bus traffic.
func (d *Device) Exchange(tx []byte) ([]byte, error) {
	if len(tx) == 0 {
		return nil, nil
	}

	rx := make([]byte, len(tx))
	for off := 0; off < len(tx); off += MaxTransferSize {
		end := off + MaxTransferSize
		if end > len(tx) {
			end = len(tx)
		}
		err := d.transport.Transact(Transfer{
			Read:  rx[off:end],
			Write: tx[off:end],
		})
		if err != nil {
			return nil, fmt.Errorf("exchange failed at offset %d: %w", off, err)
		}
	}
	return rx, nil
}

// Ping clocks n filler bytes through the chip and returns its reply.
// Large pings are chunked like any other exchange.
func (d *Device) Ping(n int) ([]byte, error) {
	if n <= 0 {
		return nil, NewTransportError("ping", "", ErrInvalidParameter, ErrorTypePermanent)
	}
	debugf("pinging with %d bytes", n)
	return d.Exchange(bytes.Repeat([]byte{pingFill}, n))
}

// SetTimeout sets the transport read timeout
func (d *Device) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return NewTransportError("setTimeout", "", ErrInvalidParameter, ErrorTypePermanent)
	}
	d.config.Timeout = timeout
	if err := d.transport.SetTimeout(timeout); err != nil {
		return fmt.Errorf("failed to set transport timeout: %w", err)
	}
	return nil
}

// SetRetryConfig updates the retry configuration
func (d *Device) SetRetryConfig(config *RetryConfig) {
	d.config.RetryConfig = config
	if tr, ok := d.transport.(*TransportWithRetry); ok {
		tr.SetRetryConfig(config)
	}
}

// Close closes the underlying transport
func (d *Device) Close() error {
	debugln("closing transport")
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}
