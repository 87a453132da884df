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

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	tropic01 "github.com/sbellem/go-tropic01"
)

const hexDigits = "0123456789ABCDEF"

// Encode writes the frame for src into dst and returns the number of
// bytes written. The bridge firmware requires uppercase hex, so
// encoding/hex (lowercase) is not usable here. dst must hold at least
// EncodedLength(len(src)) bytes.
func Encode(dst, src []byte) int {
	for i, b := range src {
		dst[2*i] = hexDigits[b>>4]
		dst[2*i+1] = hexDigits[b&0x0F]
	}
	n := copy(dst[2*len(src):], Terminator)
	return 2*len(src) + n
}

// ValidTerminator reports whether an echoed frame ends in the frame
// terminator or a generic CRLF.
func ValidTerminator(frm []byte) bool {
	return bytes.HasSuffix(frm, Terminator) || bytes.HasSuffix(frm, CRLFTerminator)
}

// Decode parses the leading 2*len(dst) bytes of frm as hex into dst.
// A chunk that is not valid UTF-8 yields ErrNonUTF8Hex; a chunk that is
// text but not hex yields ErrInvalidHexDigit. Case is accepted either
// way, matching what the bridge firmware emits.
func Decode(dst, frm []byte) error {
	hexPart := frm[:2*len(dst)]
	for i := 0; i < len(dst); i++ {
		chunk := hexPart[2*i : 2*i+2]
		if !utf8.Valid(chunk) {
			return tropic01.ErrNonUTF8Hex
		}
		v, err := strconv.ParseUint(string(chunk), 16, 8)
		if err != nil {
			return tropic01.ErrInvalidHexDigit
		}
		dst[i] = byte(v)
	}
	return nil
}
