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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastRetryConfig keeps retry tests quick
func fastRetryConfig(attempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    1 * time.Microsecond,
		MaxBackoff:        10 * time.Microsecond,
		BackoffMultiplier: 2.0,
		Jitter:            0.1,
		RetryTimeout:      100 * time.Millisecond,
	}
}

func TestNewTransportWithRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		config   *RetryConfig
		expected *RetryConfig
		name     string
	}{
		{
			name:     "Default config when nil provided",
			config:   nil,
			expected: DefaultRetryConfig(),
		},
		{
			name:     "Custom config preserved",
			config:   fastRetryConfig(5),
			expected: fastRetryConfig(5),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := NewMockTransport()
			wrapper := NewTransportWithRetry(mock, tt.config)

			assert.NotNil(t, wrapper)
			assert.Equal(t, Transport(mock), wrapper.transport)
			assert.Equal(t, tt.expected, wrapper.config)
		})
	}
}

func TestTransportWithRetry_Transact(t *testing.T) {
	t.Parallel()

	t.Run("success on first attempt", func(t *testing.T) {
		t.Parallel()

		mock := NewMockTransport()
		wrapper := NewTransportWithRetry(mock, fastRetryConfig(3))

		buf := []byte{0x01, 0x02}
		require.NoError(t, wrapper.Transact(TransferInPlace{Data: buf}))
		assert.Len(t, mock.Transactions(), 1)
	})

	t.Run("retries transient failures until success", func(t *testing.T) {
		t.Parallel()

		mock := NewMockTransport()
		failures := 2
		mock.TransferFunc = func(_ []byte) error {
			if failures > 0 {
				failures--
				return NewInvalidResponseError("transfer", "mock")
			}
			return nil
		}
		wrapper := NewTransportWithRetry(mock, fastRetryConfig(3))

		require.NoError(t, wrapper.Transact(TransferInPlace{Data: []byte{0xAA}}))
		assert.Len(t, mock.Transactions(), 3, "transaction should be re-run from the start")
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		t.Parallel()

		mock := NewMockTransport()
		wrapper := NewTransportWithRetry(mock, fastRetryConfig(3))

		err := wrapper.Transact(Transfer{Read: make([]byte, 3), Write: make([]byte, 4)})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidBufferLength)
		assert.Len(t, mock.Transactions(), 1)
	})

	t.Run("retries exhausted returns last error", func(t *testing.T) {
		t.Parallel()

		mock := NewMockTransport()
		mock.TransferFunc = func(_ []byte) error {
			return NewInvalidResponseError("transfer", "mock")
		}
		wrapper := NewTransportWithRetry(mock, fastRetryConfig(2))

		err := wrapper.Transact(TransferInPlace{Data: []byte{0xAA}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidResponse)
		assert.Len(t, mock.Transactions(), 2)
	})
}

func TestTransportWithRetry_Passthrough(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	wrapper := NewTransportWithRetry(mock, nil)

	assert.Equal(t, TransportMock, wrapper.Type())
	assert.True(t, wrapper.IsConnected())
	require.NoError(t, wrapper.SetTimeout(time.Second))
	require.NoError(t, wrapper.Close())
	assert.False(t, wrapper.IsConnected())
}
