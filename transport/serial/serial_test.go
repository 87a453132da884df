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

package serial

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tropic01 "github.com/sbellem/go-tropic01"
)

// mockPort simulates the bridge's byte stream. Reads drain a preloaded
// response stream; an exhausted stream behaves like an expired read
// timeout, which go.bug.st/serial reports as (0, nil).
type mockPort struct {
	readErr    error
	writeErr   error
	rx         bytes.Buffer
	tx         bytes.Buffer
	readCalls  int
	writeCalls int
	closed     bool
}

func (m *mockPort) Read(p []byte) (int, error) {
	m.readCalls++
	if m.readErr != nil {
		return 0, m.readErr
	}
	if m.rx.Len() == 0 {
		return 0, nil // timeout expired
	}
	return m.rx.Read(p)
}

func (m *mockPort) Write(p []byte) (int, error) {
	m.writeCalls++
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.tx.Write(p)
}

func (m *mockPort) ResetInputBuffer() error            { return nil }
func (m *mockPort) SetReadTimeout(time.Duration) error { return nil }
func (m *mockPort) Close() error                       { m.closed = true; return nil }

// newTestTransport builds a transport over a mock port preloaded with
// the given bridge responses, in order.
func newTestTransport(responses ...string) (*Transport, *mockPort) {
	port := &mockPort{}
	for _, r := range responses {
		port.rx.WriteString(r)
	}
	return &Transport{
		port:     port,
		portName: "mock",
		timeout:  DefaultReadTimeout,
	}, port
}

func TestTransportCreation(t *testing.T) {
	t.Parallel()

	transport := &Transport{portName: "/dev/ttyACM0"}

	if transport.portName != "/dev/ttyACM0" {
		t.Errorf("Expected port name /dev/ttyACM0, got %s", transport.portName)
	}
	if transport.Type() != tropic01.TransportSerial {
		t.Errorf("Expected transport type %v, got %v", tropic01.TransportSerial, transport.Type())
	}
	if transport.IsConnected() {
		t.Error("Expected IsConnected() to return false for uninitialized transport")
	}
}

func TestOptionValidation(t *testing.T) {
	t.Parallel()

	var s settings
	if err := WithBaudRate(0)(&s); !errors.Is(err, tropic01.ErrInvalidParameter) {
		t.Errorf("WithBaudRate(0) = %v, want %v", err, tropic01.ErrInvalidParameter)
	}
	if err := WithReadTimeout(-time.Second)(&s); !errors.Is(err, tropic01.ErrInvalidParameter) {
		t.Errorf("WithReadTimeout(-1s) = %v, want %v", err, tropic01.ErrInvalidParameter)
	}
	if err := WithBaudRate(9600)(&s); err != nil || s.baudRate != 9600 {
		t.Errorf("WithBaudRate(9600): err=%v baud=%d", err, s.baudRate)
	}
}

// TestTransactionRoundTrip walks a full Write+Read transaction and
// checks the exact byte stream both directions.
func TestTransactionRoundTrip(t *testing.T) {
	t.Parallel()

	transport, port := newTestTransport(
		"OK\r\n",      // opening chip-select ack
		"A1B2x\n",     // echo for the 2-byte write
		"DEADBEEFx\n", // echo for the 4-byte read
		"OK\r\n",      // closing chip-select ack
	)

	rx := make([]byte, 4)
	err := transport.Transact(
		tropic01.Write{Data: []byte{0x01, 0x02}},
		tropic01.Read{Data: rx},
	)
	if err != nil {
		t.Fatalf("Transact() error: %v", err)
	}

	if !bytes.Equal(rx, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("read data = % X, want DE AD BE EF", rx)
	}

	wantWire := "CS=0\n" + "0102x\n" + "00000000x\n" + "CS=0\n"
	if got := port.tx.String(); got != wantWire {
		t.Errorf("wire bytes = %q, want %q", got, wantWire)
	}
}

func TestTransferOverwritesInPlace(t *testing.T) {
	t.Parallel()

	transport, _ := newTestTransport("OK\r\n", "0F10x\n", "OK\r\n")

	rx := make([]byte, 2)
	err := transport.Transact(tropic01.Transfer{Read: rx, Write: []byte{0xAA, 0xBB}})
	if err != nil {
		t.Fatalf("Transact() error: %v", err)
	}
	if !bytes.Equal(rx, []byte{0x0F, 0x10}) {
		t.Errorf("read data = % X, want 0F 10", rx)
	}
}

func TestChipSelectBadAck(t *testing.T) {
	t.Parallel()

	transport, port := newTestTransport("NO\r\n")

	err := transport.Transact(tropic01.TransferInPlace{Data: []byte{0x01}})
	if !errors.Is(err, tropic01.ErrInvalidResponse) {
		t.Errorf("Transact() = %v, want %v", err, tropic01.ErrInvalidResponse)
	}
	if got := port.tx.String(); got != "CS=0\n" {
		t.Errorf("wire bytes = %q, only the chip-select command should have been sent", got)
	}
}

func TestTransferEmptyBufferNoIO(t *testing.T) {
	t.Parallel()

	transport, port := newTestTransport()

	if err := transport.transfer(nil); err != nil {
		t.Fatalf("transfer(nil) error: %v", err)
	}
	if port.writeCalls != 0 || port.readCalls != 0 {
		t.Errorf("empty transfer performed I/O: %d writes, %d reads",
			port.writeCalls, port.readCalls)
	}
}

func TestTransferTooLongNoIO(t *testing.T) {
	t.Parallel()

	transport, port := newTestTransport()

	err := transport.transfer(make([]byte, tropic01.MaxTransferSize+1))
	if !errors.Is(err, tropic01.ErrDataTooLong) {
		t.Errorf("transfer() = %v, want %v", err, tropic01.ErrDataTooLong)
	}
	if port.writeCalls != 0 || port.readCalls != 0 {
		t.Errorf("oversized transfer touched the link: %d writes, %d reads",
			port.writeCalls, port.readCalls)
	}
}

func TestTransferMaxPayload(t *testing.T) {
	t.Parallel()

	data := make([]byte, tropic01.MaxTransferSize)
	echo := strings.Repeat("00", tropic01.MaxTransferSize) + "x\n"
	transport, _ := newTestTransport(echo)

	for i := range data {
		data[i] = 0xFF
	}
	if err := transport.transfer(data); err != nil {
		t.Fatalf("transfer() error at the size limit: %v", err)
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("data[%d] = %02X, want 00 from echo", i, b)
		}
	}
}

func TestEchoBadTerminator(t *testing.T) {
	t.Parallel()

	transport, _ := newTestTransport("A1B2zz")

	err := transport.transfer(make([]byte, 2))
	if !errors.Is(err, tropic01.ErrInvalidResponse) {
		t.Errorf("transfer() = %v, want %v", err, tropic01.ErrInvalidResponse)
	}
}

func TestEchoCRLFTerminatorAccepted(t *testing.T) {
	t.Parallel()

	transport, _ := newTestTransport("A1B2\r\n")

	data := make([]byte, 2)
	if err := transport.transfer(data); err != nil {
		t.Fatalf("transfer() error: %v", err)
	}
	if !bytes.Equal(data, []byte{0xA1, 0xB2}) {
		t.Errorf("data = % X, want A1 B2", data)
	}
}

func TestEchoInvalidHexDigit(t *testing.T) {
	t.Parallel()

	// 0x47 ('G') in the hex region is text but not a hex digit.
	transport, _ := newTestTransport("G1x\n")

	err := transport.transfer(make([]byte, 1))
	if !errors.Is(err, tropic01.ErrInvalidHexDigit) {
		t.Errorf("transfer() = %v, want %v", err, tropic01.ErrInvalidHexDigit)
	}
}

func TestEchoNonUTF8Hex(t *testing.T) {
	t.Parallel()

	transport, port := newTestTransport()
	port.rx.Write([]byte{0xFF, 0x31, 'x', '\n'})

	err := transport.transfer(make([]byte, 1))
	if !errors.Is(err, tropic01.ErrNonUTF8Hex) {
		t.Errorf("transfer() = %v, want %v", err, tropic01.ErrNonUTF8Hex)
	}
}

func TestTransferTimeout(t *testing.T) {
	t.Parallel()

	transport, _ := newTestTransport() // nothing to echo

	err := transport.transfer(make([]byte, 1))
	if !errors.Is(err, tropic01.ErrTransportTimeout) {
		t.Errorf("transfer() = %v, want %v", err, tropic01.ErrTransportTimeout)
	}
}

func TestTransferLengthMismatchNoIO(t *testing.T) {
	t.Parallel()

	transport, port := newTestTransport("OK\r\n")

	err := transport.Transact(tropic01.Transfer{
		Read:  make([]byte, 3),
		Write: make([]byte, 4),
	})
	if !errors.Is(err, tropic01.ErrInvalidBufferLength) {
		t.Errorf("Transact() = %v, want %v", err, tropic01.ErrInvalidBufferLength)
	}
	// Only the opening chip-select command may have hit the wire.
	if got := port.tx.String(); got != "CS=0\n" {
		t.Errorf("wire bytes = %q, want only the chip-select command", got)
	}
}

// TestAbortSkipsClosingToggle pins down the abort semantics: a failing
// operation leaves the transaction without the closing chip-select
// toggle, so the line may stay asserted.
func TestAbortSkipsClosingToggle(t *testing.T) {
	t.Parallel()

	transport, port := newTestTransport("OK\r\n", "A1B2zz")

	err := transport.Transact(tropic01.TransferInPlace{Data: make([]byte, 2)})
	if !errors.Is(err, tropic01.ErrInvalidResponse) {
		t.Fatalf("Transact() = %v, want %v", err, tropic01.ErrInvalidResponse)
	}
	if got := strings.Count(port.tx.String(), "CS=0\n"); got != 1 {
		t.Errorf("chip-select command sent %d times, want 1 (no toggle on abort)", got)
	}
}

func TestDelayOperationNoIO(t *testing.T) {
	t.Parallel()

	transport, port := newTestTransport("OK\r\n", "OK\r\n")

	err := transport.Transact(tropic01.Delay{Duration: time.Hour})
	if err != nil {
		t.Fatalf("Transact() error: %v", err)
	}
	// The requested magnitude is not honored on the bridge; the hour
	// above must not actually elapse and no frame may be exchanged.
	if got := port.tx.String(); got != "CS=0\nCS=0\n" {
		t.Errorf("wire bytes = %q, want two chip-select commands only", got)
	}
}

func TestWriteErrorClassified(t *testing.T) {
	t.Parallel()

	transport, port := newTestTransport()
	port.writeErr = errors.New("unplugged")

	err := transport.Transact(tropic01.TransferInPlace{Data: []byte{0x01}})
	if !errors.Is(err, tropic01.ErrTransportWrite) {
		t.Errorf("Transact() = %v, want %v", err, tropic01.ErrTransportWrite)
	}
}

func TestCloseAndIsConnected(t *testing.T) {
	t.Parallel()

	transport, port := newTestTransport()

	if !transport.IsConnected() {
		t.Error("transport with a port should report connected")
	}
	if err := transport.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !port.closed {
		t.Error("Close() should close the port")
	}
	if transport.IsConnected() {
		t.Error("closed transport should not report connected")
	}
	if err := transport.Close(); err != nil {
		t.Errorf("second Close() should be a no-op, got %v", err)
	}
}
