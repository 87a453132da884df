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

/*
Package tropic01 provides a pure Go transport stack for the TROPIC01
secure element.

The TROPIC01 speaks full-duplex SPI. On a development bench it usually
sits behind a USB-to-UART bridge dongle whose firmware emulates the SPI
bus over an ASCII protocol: payloads travel as uppercase hex frames and
chip-select is driven by a fixed command exchange. This library models
that bus as an ordered list of SPI operations executed inside one
chip-select bracket, and ships two interchangeable backends plus the
plumbing around them.

Features:
  - Serial bridge transport (hex-over-UART) for USB dongles
  - Native SPI transport via periph.io for boards wired to the chip
  - Bridge dongle discovery by USB VID:PID
  - Typed, classified errors with retry guidance
  - Transaction-level retry with configurable backoff
  - Debug logging that stays silent unless enabled

Basic Usage:

	import (
	    tropic01 "github.com/sbellem/go-tropic01"
	    "github.com/sbellem/go-tropic01/transport/serial"
	)

	transport, err := serial.New("/dev/ttyACM0")
	if err != nil {
	    log.Fatal(err)
	}
	defer transport.Close()

	device, err := tropic01.New(transport)
	if err != nil {
	    log.Fatal(err)
	}

	resp, err := device.Ping(32)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Printf("chip answered: % X\n", resp)

Lower-level access runs whole transactions; every Transact call is one
chip-select window on the wire:

	rx := make([]byte, 4)
	err = transport.Transact(
	    tropic01.Write{Data: []byte{0x01, 0x02}},
	    tropic01.Read{Data: rx},
	)

Transport Selection:

  - serial: USB bridge dongles exposing the hex protocol (most common)
  - spi: direct SPI bus access through periph.io on embedded Linux

Error Handling:

All failures surface as typed results; nothing is logged and swallowed.
Sentinel errors can be inspected with errors.Is:

	if errors.Is(err, tropic01.ErrDataTooLong) {
	    // split the payload
	}

Thread Safety:

A transport owns exactly one bus handle and is not safe for concurrent
use. Drive it from a single goroutine or serialize access externally.
*/
package tropic01
