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

// Package serial provides the hex-over-UART bridge transport for the
// TROPIC01. The USB dongle's firmware emulates the chip's SPI bus over
// a byte-oriented serial link: payloads travel as uppercase hex frames
// and chip-select is driven by a fixed ASCII command.
package serial

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tropic01 "github.com/sbellem/go-tropic01"
	"github.com/sbellem/go-tropic01/internal/frame"
	goserial "go.bug.st/serial"
)

const (
	// DefaultBaudRate is the bridge firmware's line speed.
	DefaultBaudRate = 115200

	// DefaultReadTimeout bounds every read and write on the link.
	DefaultReadTimeout = 500 * time.Millisecond

	// settleDelay is how long the bridge firmware needs between
	// receiving a frame and echoing it. Firmware-dependent; measured,
	// not derived from payload size. Do not tune without hardware.
	settleDelay = 10 * time.Millisecond

	// delayQuantum approximates Delay operations. The bridge exposes
	// no timing primitive, so requested magnitudes are not honored.
	delayQuantum = time.Nanosecond
)

// serialPort is the part of go.bug.st/serial.Port the transport uses.
// Tests substitute a mock; production code never sees this type.
type serialPort interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	ResetInputBuffer() error
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Transport implements the tropic01.Transport interface over a USB
// serial bridge. It owns the port handle exclusively and is not safe
// for concurrent use.
type Transport struct {
	port     serialPort
	portName string
	timeout  time.Duration
}

// Option configures a Transport before the port is opened
type Option func(*settings) error

type settings struct {
	baudRate    int
	readTimeout time.Duration
}

// WithBaudRate overrides the default line speed
func WithBaudRate(baud int) Option {
	return func(s *settings) error {
		if baud <= 0 {
			return tropic01.NewTransportError("open", "", tropic01.ErrInvalidParameter, tropic01.ErrorTypePermanent)
		}
		s.baudRate = baud
		return nil
	}
}

// WithReadTimeout overrides the per-call link timeout
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *settings) error {
		if timeout <= 0 {
			return tropic01.NewTransportError("open", "", tropic01.ErrInvalidParameter, tropic01.ErrorTypePermanent)
		}
		s.readTimeout = timeout
		return nil
	}
}

// New opens the bridge on the named port. The line is fixed at 8 data
// bits, no parity, one stop bit, no flow control; stale bridge output
// is discarded before the first exchange.
func New(portName string, opts ...Option) (*Transport, error) {
	s := settings{
		baudRate:    DefaultBaudRate,
		readTimeout: DefaultReadTimeout,
	}
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}

	mode := &goserial.Mode{
		BaudRate: s.baudRate,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	}

	port, err := goserial.Open(portName, mode)
	if err != nil {
		return nil, tropic01.NewTransportError("open", portName,
			fmt.Errorf("failed to open serial port: %w", err), tropic01.ErrorTypePermanent)
	}

	if err := port.SetReadTimeout(s.readTimeout); err != nil {
		_ = port.Close()
		return nil, tropic01.NewTransportError("open", portName,
			fmt.Errorf("failed to set read timeout: %w", err), tropic01.ErrorTypePermanent)
	}

	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, tropic01.NewTransportError("open", portName,
			fmt.Errorf("failed to flush port: %w", err), tropic01.ErrorTypePermanent)
	}

	return &Transport{
		port:     port,
		portName: portName,
		timeout:  s.readTimeout,
	}, nil
}

// Transact runs the operations inside one chip-select window. The same
// toggle command both opens and closes the window; the bridge firmware
// alternates the physical line state. A failing operation aborts the
// remainder of the list, and the closing toggle does not run on abort,
// so the line may be left asserted until the next transaction.
func (t *Transport) Transact(ops ...tropic01.Operation) error {
	if err := t.csToggle(); err != nil {
		return err
	}

	for _, op := range ops {
		if err := t.execute(op); err != nil {
			return err
		}
	}

	return t.csToggle()
}

// TransactWithContext is Transact with cancellation checks at operation
// boundaries. Once a transfer's frame has been written the matching
// read always runs; abandoning it would desynchronize the echo stream.
func (t *Transport) TransactWithContext(ctx context.Context, ops ...tropic01.Operation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := t.csToggle(); err != nil {
		return err
	}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.execute(op); err != nil {
			return err
		}
	}

	return t.csToggle()
}

func (t *Transport) execute(op tropic01.Operation) error {
	switch o := op.(type) {
	case tropic01.Write:
		buf := frame.GetBuffer(len(o.Data))
		defer frame.PutBuffer(buf)
		copy(buf, o.Data)
		return t.transfer(buf)
	case tropic01.Transfer:
		if len(o.Read) != len(o.Write) {
			return tropic01.NewInvalidBufferLengthError("transfer", t.portName)
		}
		copy(o.Read, o.Write)
		return t.transfer(o.Read)
	case tropic01.TransferInPlace:
		return t.transfer(o.Data)
	case tropic01.Read:
		// The far end overwrites the zeros with real data.
		for i := range o.Data {
			o.Data[i] = 0
		}
		return t.transfer(o.Data)
	case tropic01.Delay:
		time.Sleep(delayQuantum)
		return nil
	default:
		return tropic01.NewTransportError("transact", t.portName,
			tropic01.ErrInvalidParameter, tropic01.ErrorTypePermanent)
	}
}

// csToggle issues the chip-select command and checks the bridge's
// acknowledgement byte for byte.
func (t *Transport) csToggle() error {
	if err := t.writeAll(frame.CSCommand); err != nil {
		return err
	}

	ack := frame.GetSmallBuffer(len(frame.CSAck))
	defer frame.PutBuffer(ack)

	if err := t.readExact(ack); err != nil {
		return err
	}
	if !bytes.Equal(ack, frame.CSAck) {
		return tropic01.NewInvalidResponseError("csToggle", t.portName)
	}
	return nil
}

// transfer exchanges buf with the chip in place. An empty buffer is a
// no-op with zero bus traffic; an oversized one is rejected before any
// I/O occurs.
func (t *Transport) transfer(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if len(buf) > frame.MaxPayload {
		return tropic01.NewDataTooLongError("transfer", t.portName)
	}

	encLen := frame.EncodedLength(len(buf))
	enc := frame.GetBuffer(encLen)
	defer frame.PutBuffer(enc)
	frame.Encode(enc, buf)

	if err := t.writeAll(enc); err != nil {
		return err
	}

	// The link has no flow control; give the bridge firmware time to
	// process before expecting the echo.
	time.Sleep(settleDelay)

	echo := frame.GetBuffer(encLen)
	defer frame.PutBuffer(echo)

	if err := t.readExact(echo); err != nil {
		return err
	}
	if !frame.ValidTerminator(echo) {
		return tropic01.NewInvalidResponseError("transfer", t.portName)
	}
	if err := frame.Decode(buf, echo); err != nil {
		return tropic01.NewTransportError("transfer", t.portName, err, tropic01.ErrorTypeTransient)
	}
	return nil
}

// writeAll writes the whole buffer or fails
func (t *Transport) writeAll(data []byte) error {
	for off := 0; off < len(data); {
		n, err := t.port.Write(data[off:])
		if err != nil {
			return tropic01.NewTransportError("write", t.portName,
				fmt.Errorf("%w: %w", tropic01.ErrTransportWrite, err), tropic01.ErrorTypeTransient)
		}
		off += n
	}
	return nil
}

// readExact fills buf completely or fails. go.bug.st/serial signals an
// expired read timeout as (0, nil), which surfaces here as a timeout
// error.
func (t *Transport) readExact(buf []byte) error {
	for off := 0; off < len(buf); {
		n, err := t.port.Read(buf[off:])
		if err != nil {
			return tropic01.NewTransportError("read", t.portName,
				fmt.Errorf("%w: %w", tropic01.ErrTransportRead, err), tropic01.ErrorTypeTransient)
		}
		if n == 0 {
			return tropic01.NewTimeoutError("read", t.portName)
		}
		off += n
	}
	return nil
}

// SetTimeout sets the per-call link timeout
func (t *Transport) SetTimeout(timeout time.Duration) error {
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return tropic01.NewTransportError("setTimeout", t.portName,
			fmt.Errorf("failed to set read timeout: %w", err), tropic01.ErrorTypePermanent)
	}
	t.timeout = timeout
	return nil
}

// Close closes the serial port
func (t *Transport) Close() error {
	if t.port == nil {
		return nil
	}
	if err := t.port.Close(); err != nil {
		return tropic01.NewTransportError("close", t.portName,
			fmt.Errorf("failed to close serial port: %w", err), tropic01.ErrorTypePermanent)
	}
	t.port = nil
	return nil
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	return t.port != nil
}

// Type returns the transport type
func (*Transport) Type() tropic01.TransportType {
	return tropic01.TransportSerial
}

// Ensure Transport implements the transport interfaces
var (
	_ tropic01.Transport         = (*Transport)(nil)
	_ tropic01.ContextTransactor = (*Transport)(nil)
)
