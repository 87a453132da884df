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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig is the optional TOML config file. Command-line flags
// override anything set here.
//
//	device = "/dev/ttyACM0"
//	baud = 115200
//	timeout = "500ms"
//	debug = false
type fileConfig struct {
	Device  string   `toml:"device"`
	Baud    int      `toml:"baud"`
	Timeout duration `toml:"timeout"`
	Debug   bool     `toml:"debug"`
}

// duration adds TOML text parsing to time.Duration
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func loadConfigFile(path string) (*fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}
