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

// tropicctl exercises a TROPIC01 behind a USB serial bridge: it can
// list candidate dongles and run a raw ping through the transport.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	tropic01 "github.com/sbellem/go-tropic01"
	"github.com/sbellem/go-tropic01/detection"
	"github.com/sbellem/go-tropic01/transport/serial"
)

type config struct {
	devicePath *string
	configPath *string
	baudRate   *int
	timeout    *time.Duration
	pingSize   *int
	list       *bool
	debug      *bool
}

func parseFlags() *config {
	cfg := &config{
		devicePath: flag.String("device", "",
			"Serial device path (e.g., /dev/ttyACM0 or COM3). Leave empty for auto-detection."),
		configPath: flag.String("config", "", "Optional TOML config file; flags override its values"),
		baudRate:   flag.Int("baud", serial.DefaultBaudRate, "Baud rate for the bridge link"),
		timeout:    flag.Duration("timeout", serial.DefaultReadTimeout, "Per-call link timeout"),
		pingSize:   flag.Int("ping-size", 32, "Number of bytes to clock through the chip"),
		list:       flag.Bool("list", false, "List candidate bridge dongles and exit"),
		debug:      flag.Bool("debug", false, "Enable debug output"),
	}
	flag.Parse()
	return cfg
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("app", "tropicctl").Logger()

	if err := run(parseFlags(), logger); err != nil {
		logger.Error().Err(err).Msg("tropicctl failed")
		os.Exit(1)
	}
}

func run(cfg *config, logger zerolog.Logger) error {
	device, baud, timeout, debug, err := resolveSettings(cfg)
	if err != nil {
		return err
	}

	if debug {
		tropic01.SetDebugEnabled(true)
		tropic01.SetDebugLogger(logger)
	}

	if *cfg.list {
		return listDongles()
	}

	if device == "" {
		info, err := detection.Detect(nil)
		if err != nil {
			return fmt.Errorf("no device specified and auto-detection failed: %w", err)
		}
		logger.Info().Str("path", info.Path).Str("vidpid", info.VIDPID).Msg("auto-detected bridge")
		device = info.Path
	}

	transport, err := serial.New(device,
		serial.WithBaudRate(baud),
		serial.WithReadTimeout(timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to open bridge: %w", err)
	}
	defer func() {
		if err := transport.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close transport")
		}
	}()

	dev, err := tropic01.New(tropic01.NewTransportWithRetry(transport, nil))
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	logger.Info().Int("bytes", *cfg.pingSize).Msg("pinging chip")
	resp, err := dev.Ping(*cfg.pingSize)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	fmt.Printf("chip answered %d bytes:\n% X\n", len(resp), resp)
	return nil
}

// resolveSettings merges the optional config file under the flags.
func resolveSettings(cfg *config) (device string, baud int, timeout time.Duration, debug bool, err error) {
	device = *cfg.devicePath
	baud = *cfg.baudRate
	timeout = *cfg.timeout
	debug = *cfg.debug

	if *cfg.configPath == "" {
		return device, baud, timeout, debug, nil
	}

	file, err := loadConfigFile(*cfg.configPath)
	if err != nil {
		return "", 0, 0, false, err
	}

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	if !setFlags["device"] && file.Device != "" {
		device = file.Device
	}
	if !setFlags["baud"] && file.Baud != 0 {
		baud = file.Baud
	}
	if !setFlags["timeout"] && file.Timeout.Duration != 0 {
		timeout = file.Timeout.Duration
	}
	if !setFlags["debug"] {
		debug = file.Debug
	}
	return device, baud, timeout, debug, nil
}

func listDongles() error {
	devices, err := detection.DetectAll(nil)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("No candidate bridge dongles found.")
		return nil
	}
	for _, d := range devices {
		name := d.Name
		if name == "" {
			name = "(unknown)"
		}
		fmt.Printf("%s\t%s\t%s", d.Path, d.VIDPID, name)
		if d.SerialNumber != "" {
			fmt.Printf("\tSN=%s", d.SerialNumber)
		}
		fmt.Println()
	}
	return nil
}
