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

// Package detection locates candidate TROPIC01 bridge dongles among the
// USB serial ports attached to the host.
package detection

import (
	"fmt"
	"strings"

	tropic01 "github.com/sbellem/go-tropic01"
	"go.bug.st/serial/enumerator"
)

// DeviceInfo describes a detected candidate bridge dongle
type DeviceInfo struct {
	// Path is the OS port path, e.g. /dev/ttyACM0 or COM5.
	Path string
	// Name is a human-readable label for the device.
	Name string
	// VIDPID is the USB vendor:product pair in "VVVV:PPPP" hex form.
	VIDPID string
	// SerialNumber is the USB serial number, when the descriptor has
	// one.
	SerialNumber string
}

// knownBridges lists the USB serial converters the bridge dongle ships
// with. Ports with other IDs are still reported, after these, so an
// unrecognized dongle revision remains usable.
var knownBridges = map[string]string{
	"0483:5740": "STM32 virtual COM port",
	"0403:6001": "FTDI FT232R",
	"0403:6010": "FTDI FT2232",
	"10C4:EA60": "Silicon Labs CP210x",
	"1A86:7523": "WCH CH340",
}

// Options configures detection
type Options struct {
	// Blocklist holds VID:PID pairs that must never be probed. When
	// nil, DefaultBlocklist is used.
	Blocklist []string
	// KnownOnly restricts results to the known bridge converter IDs.
	KnownOnly bool
}

// DetectAll returns candidate bridge dongles, known converters first.
func DetectAll(opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		opts = &Options{}
	}
	blocklist := opts.Blocklist
	if blocklist == nil {
		blocklist = DefaultBlocklist()
	}

	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	var known, unknown []DeviceInfo
	for _, port := range ports {
		if !port.IsUSB {
			continue
		}
		vidpid := strings.ToUpper(port.VID + ":" + port.PID)
		if IsBlocked(vidpid, blocklist) {
			continue
		}

		info := DeviceInfo{
			Path:         port.Name,
			Name:         port.Product,
			VIDPID:       vidpid,
			SerialNumber: port.SerialNumber,
		}
		if label, ok := knownBridges[vidpid]; ok {
			if info.Name == "" {
				info.Name = label
			}
			known = append(known, info)
		} else if !opts.KnownOnly {
			unknown = append(unknown, info)
		}
	}

	return append(known, unknown...), nil
}

// Detect returns the first candidate, or an error when none is present.
func Detect(opts *Options) (DeviceInfo, error) {
	devices, err := DetectAll(opts)
	if err != nil {
		return DeviceInfo{}, err
	}
	if len(devices) == 0 {
		return DeviceInfo{}, fmt.Errorf("%w: no bridge dongle among USB serial ports", tropic01.ErrDeviceNotFound)
	}
	return devices[0], nil
}
