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

// Package spi provides native SPI transport for boards wired straight
// to the TROPIC01, via periph.io. Chip-select is driven by the SPI
// controller per transfer, so unlike the serial bridge each
// data-carrying operation is its own chip-select window.
package spi

import (
	"fmt"
	"time"

	tropic01 "github.com/sbellem/go-tropic01"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// maxClockFreq is the fastest the TROPIC01 datasheet allows on a bench
// setup (5 MHz keeps margin on jumper wires).
const maxClockFreq = 5 * physic.MegaHertz

// Transport implements the tropic01.Transport interface for a native
// SPI bus
type Transport struct {
	port     spi.PortCloser
	conn     spi.Conn
	portName string
	timeout  time.Duration
}

// New opens the SPI port (e.g. "/dev/spidev0.0" or a periph port name)
// and connects to the chip in mode 0.
func New(portName string) (*Transport, error) {
	// Initialize host
	if _, err := host.Init(); err != nil {
		return nil, tropic01.NewTransportError("open", portName,
			fmt.Errorf("failed to initialize periph host: %w", err), tropic01.ErrorTypePermanent)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, tropic01.NewTransportError("open", portName,
			fmt.Errorf("failed to open SPI port: %w", err), tropic01.ErrorTypePermanent)
	}

	conn, err := port.Connect(maxClockFreq, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, tropic01.NewTransportError("open", portName,
			fmt.Errorf("failed to connect to SPI device: %w", err), tropic01.ErrorTypePermanent)
	}

	return &Transport{
		port:     port,
		conn:     conn,
		portName: portName,
		timeout:  500 * time.Millisecond,
	}, nil
}

// Transact runs the operations in order. Delay operations honor the
// requested duration here; the bus has no bridge firmware in the way.
func (t *Transport) Transact(ops ...tropic01.Operation) error {
	if t.conn == nil {
		return tropic01.NewTransportError("transact", t.portName,
			tropic01.ErrCommunicationFailed, tropic01.ErrorTypePermanent)
	}

	for _, op := range ops {
		if err := t.execute(op); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transport) execute(op tropic01.Operation) error {
	switch o := op.(type) {
	case tropic01.Write:
		return t.tx(o.Data, nil)
	case tropic01.Transfer:
		if len(o.Read) != len(o.Write) {
			return tropic01.NewInvalidBufferLengthError("transfer", t.portName)
		}
		return t.tx(o.Write, o.Read)
	case tropic01.TransferInPlace:
		w := append([]byte(nil), o.Data...)
		return t.tx(w, o.Data)
	case tropic01.Read:
		return t.tx(nil, o.Data)
	case tropic01.Delay:
		time.Sleep(o.Duration)
		return nil
	default:
		return tropic01.NewTransportError("transact", t.portName,
			tropic01.ErrInvalidParameter, tropic01.ErrorTypePermanent)
	}
}

func (t *Transport) tx(w, r []byte) error {
	if len(w) == 0 && len(r) == 0 {
		return nil
	}
	if err := t.conn.Tx(w, r); err != nil {
		return tropic01.NewTransportError("transfer", t.portName,
			fmt.Errorf("SPI transfer failed: %w", err), tropic01.ErrorTypeTransient)
	}
	return nil
}

// SetTimeout records the timeout; the kernel SPI driver blocks per
// transfer and offers no per-call deadline to forward it to.
func (t *Transport) SetTimeout(timeout time.Duration) error {
	t.timeout = timeout
	return nil
}

// Close closes the SPI port
func (t *Transport) Close() error {
	if t.port == nil {
		return nil
	}
	if err := t.port.Close(); err != nil {
		return tropic01.NewTransportError("close", t.portName,
			fmt.Errorf("failed to close SPI port: %w", err), tropic01.ErrorTypePermanent)
	}
	t.port = nil
	t.conn = nil
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	return t.conn != nil
}

// Type returns the transport type
func (*Transport) Type() tropic01.TransportType {
	return tropic01.TransportSPI
}

// Ensure Transport implements tropic01.Transport
var _ tropic01.Transport = (*Transport)(nil)
