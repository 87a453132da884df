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
	"sync"
	"time"
)

// MockTransport is an in-memory Transport for tests. Each Transact call
// is recorded; data-carrying operations are answered by TransferFunc,
// or left untouched when none is set.
type MockTransport struct {
	// TransferFunc fills buf with the simulated chip reply. It is
	// called once per data-carrying operation with the bytes the chip
	// would have received.
	TransferFunc func(buf []byte) error
	// Err, when set, fails every transaction before any operation runs.
	Err error

	mu           sync.Mutex
	transactions [][]Operation
	transfers    int
	closed       bool
}

// NewMockTransport creates a mock transport
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Transact records the transaction and simulates each operation
func (m *MockTransport) Transact(ops ...Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrTransportRead
	}
	if m.Err != nil {
		return m.Err
	}

	m.transactions = append(m.transactions, append([]Operation(nil), ops...))

	for _, op := range ops {
		var buf []byte
		switch o := op.(type) {
		case Write:
			buf = append([]byte(nil), o.Data...)
		case Transfer:
			if len(o.Read) != len(o.Write) {
				return NewInvalidBufferLengthError("transact", "mock")
			}
			copy(o.Read, o.Write)
			buf = o.Read
		case TransferInPlace:
			buf = o.Data
		case Read:
			for i := range o.Data {
				o.Data[i] = 0
			}
			buf = o.Data
		case Delay:
			continue
		}

		if len(buf) == 0 {
			continue
		}
		if len(buf) > MaxTransferSize {
			return NewDataTooLongError("transact", "mock")
		}
		m.transfers++
		if m.TransferFunc != nil {
			if err := m.TransferFunc(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// Transactions returns copies of all recorded transactions
func (m *MockTransport) Transactions() [][]Operation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]Operation, len(m.transactions))
	copy(out, m.transactions)
	return out
}

// TransferCount returns the number of data-carrying operations seen
func (m *MockTransport) TransferCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transfers
}

// Close marks the transport closed
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetTimeout is a no-op for the mock
func (*MockTransport) SetTimeout(_ time.Duration) error {
	return nil
}

// IsConnected returns true until the mock is closed
func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// Ensure MockTransport implements Transport
var _ Transport = (*MockTransport)(nil)
