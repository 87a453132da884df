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
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// debugLog is disabled by default; the library stays silent unless a
// caller opts in with SetDebugEnabled.
var debugLog = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).With().Timestamp().Str("lib", "tropic01").Logger()

var debugEnabled atomic.Bool

// SetDebugEnabled toggles debug output for the whole library
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetDebugLogger replaces the logger used for debug output
func SetDebugLogger(logger zerolog.Logger) {
	debugLog = logger
}

func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		debugLog.Debug().Msgf(format, args...)
	}
}

func debugln(args ...any) {
	if debugEnabled.Load() {
		debugLog.Debug().Msg(fmt.Sprint(args...))
	}
}
