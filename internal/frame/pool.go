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

package frame

import "sync"

const (
	smallBufferSize = 64
	// largeBufferSize fits a full frame: MaxPayload encoded plus the
	// terminator.
	largeBufferSize = 2*MaxPayload + TerminatorLen
)

var smallPool = sync.Pool{
	New: func() any {
		buf := make([]byte, smallBufferSize)
		return &buf
	},
}

var largePool = sync.Pool{
	New: func() any {
		buf := make([]byte, largeBufferSize)
		return &buf
	},
}

// GetSmallBuffer returns a pooled buffer of exactly size bytes for
// short exchanges like the chip-select acknowledgement.
func GetSmallBuffer(size int) []byte {
	if size > smallBufferSize {
		return GetBuffer(size)
	}
	buf := *(smallPool.Get().(*[]byte))
	return buf[:size]
}

// GetBuffer returns a pooled buffer of exactly size bytes.
func GetBuffer(size int) []byte {
	if size > largeBufferSize {
		return make([]byte, size)
	}
	buf := *(largePool.Get().(*[]byte))
	return buf[:size]
}

// PutBuffer returns a buffer obtained from GetBuffer or GetSmallBuffer
// to its pool.
func PutBuffer(buf []byte) {
	buf = buf[:cap(buf)]
	switch cap(buf) {
	case smallBufferSize:
		smallPool.Put(&buf)
	case largeBufferSize:
		largePool.Put(&buf)
	}
}
