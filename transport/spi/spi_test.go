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

package spi

import (
	"errors"
	"testing"
	"time"

	tropic01 "github.com/sbellem/go-tropic01"
)

// TestTransportCreation verifies basic transport properties without
// hardware attached.
func TestTransportCreation(t *testing.T) {
	t.Parallel()

	transport := &Transport{portName: "/dev/spidev0.0"}

	if transport.Type() != tropic01.TransportSPI {
		t.Errorf("Expected transport type %v, got %v", tropic01.TransportSPI, transport.Type())
	}
	if transport.IsConnected() {
		t.Error("Expected IsConnected() to return false for uninitialized transport")
	}
}

func TestTransactRequiresConnection(t *testing.T) {
	t.Parallel()

	transport := &Transport{portName: "/dev/spidev0.0"}

	err := transport.Transact(tropic01.TransferInPlace{Data: []byte{0x01}})
	if !errors.Is(err, tropic01.ErrCommunicationFailed) {
		t.Errorf("Transact() = %v, want %v", err, tropic01.ErrCommunicationFailed)
	}
}

func TestSetTimeoutAndClose(t *testing.T) {
	t.Parallel()

	transport := &Transport{portName: "/dev/spidev0.0"}

	if err := transport.SetTimeout(time.Second); err != nil {
		t.Errorf("SetTimeout() error: %v", err)
	}
	if err := transport.Close(); err != nil {
		t.Errorf("Close() on unopened transport should be a no-op, got %v", err)
	}
}
