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
	"errors"
	"math/rand"
	"testing"

	tropic01 "github.com/sbellem/go-tropic01"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	dst := make([]byte, EncodedLength(4))
	n := Encode(dst, []byte{0x00, 0x1A, 0xDE, 0xFF})

	if n != len(dst) {
		t.Errorf("Encode() wrote %d bytes, want %d", n, len(dst))
	}
	if got, want := string(dst), "001ADEFFx\n"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodeUppercase(t *testing.T) {
	t.Parallel()

	dst := make([]byte, EncodedLength(1))
	Encode(dst, []byte{0xAB})
	if string(dst[:2]) != "AB" {
		t.Errorf("Encode() = %q, bridge firmware requires uppercase hex", dst[:2])
	}
}

// TestRoundTrip checks the round-trip law at the payload boundaries.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 16, MaxPayload} {
		data := make([]byte, n)
		rng.Read(data)

		enc := make([]byte, EncodedLength(n))
		Encode(enc, data)

		got := make([]byte, n)
		if err := Decode(got, enc); err != nil {
			t.Fatalf("Decode(n=%d) error: %v", n, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("round trip failed for n=%d", n)
		}
	}
}

func TestDecodeAcceptsLowercase(t *testing.T) {
	t.Parallel()

	got := make([]byte, 2)
	if err := Decode(got, []byte("deadx\n")); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !bytes.Equal(got, []byte{0xDE, 0xAD}) {
		t.Errorf("Decode() = % X, want DE AD", got)
	}
}

func TestDecodeInvalidHexDigit(t *testing.T) {
	t.Parallel()

	// 'G' (0x47) is valid text but not a hex digit.
	got := make([]byte, 2)
	err := Decode(got, []byte("G1A2x\n"))
	if !errors.Is(err, tropic01.ErrInvalidHexDigit) {
		t.Errorf("Decode() = %v, want %v", err, tropic01.ErrInvalidHexDigit)
	}
}

func TestDecodeNonUTF8(t *testing.T) {
	t.Parallel()

	got := make([]byte, 2)
	err := Decode(got, []byte{0xFF, 0xFE, '1', '2', 'x', '\n'})
	if !errors.Is(err, tropic01.ErrNonUTF8Hex) {
		t.Errorf("Decode() = %v, want %v", err, tropic01.ErrNonUTF8Hex)
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	t.Parallel()

	// Only the leading 2*len(dst) bytes are the hex region; the
	// terminator is validated separately.
	got := make([]byte, 1)
	if err := Decode(got, []byte("41zz")); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got[0] != 0x41 {
		t.Errorf("Decode() = %02X, want 41", got[0])
	}
}

func TestValidTerminator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		frm  string
		want bool
	}{
		{name: "frame terminator", frm: "41x\n", want: true},
		{name: "generic CRLF", frm: "41\r\n", want: true},
		{name: "garbage tail", frm: "41zz", want: false},
		{name: "bare newline", frm: "41A\n", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidTerminator([]byte(tt.frm)); got != tt.want {
				t.Errorf("ValidTerminator(%q) = %v, want %v", tt.frm, got, tt.want)
			}
		})
	}
}

func TestEncodedLength(t *testing.T) {
	t.Parallel()

	if got := EncodedLength(0); got != 2 {
		t.Errorf("EncodedLength(0) = %d, want 2", got)
	}
	if got := EncodedLength(MaxPayload); got != 2*MaxPayload+2 {
		t.Errorf("EncodedLength(MaxPayload) = %d, want %d", got, 2*MaxPayload+2)
	}
}
