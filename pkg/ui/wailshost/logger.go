// Zaparoo Launcher
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Launcher.
//
// Zaparoo Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Launcher.  If not, see <http://www.gnu.org/licenses/>.

package wailshost

import "github.com/rs/zerolog/log"

// zerologLogger sends the Wails runtime's own logging to the launcher log.
type zerologLogger struct{}

func (zerologLogger) Print(message string)   { log.Info().Str("source", "wails").Msg(message) }
func (zerologLogger) Trace(message string)   { log.Trace().Str("source", "wails").Msg(message) }
func (zerologLogger) Debug(message string)   { log.Debug().Str("source", "wails").Msg(message) }
func (zerologLogger) Info(message string)    { log.Info().Str("source", "wails").Msg(message) }
func (zerologLogger) Warning(message string) { log.Warn().Str("source", "wails").Msg(message) }
func (zerologLogger) Error(message string)   { log.Error().Str("source", "wails").Msg(message) }
func (zerologLogger) Fatal(message string)   { log.Fatal().Str("source", "wails").Msg(message) }
