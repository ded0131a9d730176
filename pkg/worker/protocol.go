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

package worker

import (
	"strconv"
	"strings"
)

// Line prefixes written by the worker on stdout.
const (
	PrefixStatus           = "_STATUS_:"
	PrefixInstanceState    = "_INSTANCE_STATE_:"
	PrefixCloseWarning     = "_SHOW_APP_CLOSE_WARNING_:"
	PrefixPotatoPCMode     = "_POTATO_PC_MODE_:"
	PrefixHashedEmailPrefs = "_HASHED_EMAIL_PREFERENCE_CHANGED_:"
)

type InstanceEvent string

const (
	GameLaunched InstanceEvent = "GAME_LAUNCHED"
	GameClosed   InstanceEvent = "GAME_CLOSED"
)

// InstanceAction is the user's preferred window reaction to a game
// launching or closing.
type InstanceAction string

const (
	ActionCloseWindow    InstanceAction = "closeWindow"
	ActionHideWindow     InstanceAction = "hideWindow"
	ActionMinimizeWindow InstanceAction = "minimizeWindow"
	ActionNone           InstanceAction = "none"
	ActionQuitApp        InstanceAction = "quitApp"
)

// Event is one decoded line of worker output.
type Event interface {
	isEvent()
}

// StatusEvent reports the port the worker's RPC server listens on.
type StatusEvent struct {
	State string
	Port  int
}

type InstanceStateEvent struct {
	Event  InstanceEvent
	Action InstanceAction
}

type CloseWarningEvent struct {
	Show bool
}

type PotatoPCModeEvent struct {
	Enabled bool
}

type HashedEmailEvent struct {
	Email   string
	Enabled bool
}

// LogLine is any line which isn't part of the protocol.
type LogLine struct {
	Text string
}

func (StatusEvent) isEvent()        {}
func (InstanceStateEvent) isEvent() {}
func (CloseWarningEvent) isEvent()  {}
func (PotatoPCModeEvent) isEvent()  {}
func (HashedEmailEvent) isEvent()   {}
func (LogLine) isEvent()            {}

// ParseLine decodes a single line of worker stdout. Malformed protocol
// lines are returned as a LogLine so nothing the worker prints is lost.
func ParseLine(line string) Event {
	line = strings.TrimRight(line, "\r\n")
	plain := LogLine{Text: line}

	if rest, ok := strings.CutPrefix(line, PrefixStatus); ok {
		// either "<port>" or "<STATE>|<port>"
		state := ""
		portStr := rest
		if i := strings.LastIndex(rest, "|"); i >= 0 {
			state = rest[:i]
			portStr = rest[i+1:]
		}
		port, err := strconv.Atoi(strings.TrimSpace(portStr))
		if err != nil || port < 0 || port > 65535 {
			return plain
		}
		return StatusEvent{State: state, Port: port}
	}

	if rest, ok := strings.CutPrefix(line, PrefixInstanceState); ok {
		event, action, found := strings.Cut(rest, "|")
		if !found || !validInstanceEvent(event) || !validInstanceAction(action) {
			return plain
		}
		return InstanceStateEvent{
			Event:  InstanceEvent(event),
			Action: InstanceAction(action),
		}
	}

	if rest, ok := strings.CutPrefix(line, PrefixCloseWarning); ok {
		show, valid := parseBool(rest)
		if !valid {
			return plain
		}
		return CloseWarningEvent{Show: show}
	}

	if rest, ok := strings.CutPrefix(line, PrefixPotatoPCMode); ok {
		enabled, valid := parseBool(rest)
		if !valid {
			return plain
		}
		return PotatoPCModeEvent{Enabled: enabled}
	}

	if rest, ok := strings.CutPrefix(line, PrefixHashedEmailPrefs); ok {
		flag, email, _ := strings.Cut(rest, "|")
		enabled, valid := parseBool(flag)
		if !valid {
			return plain
		}
		return HashedEmailEvent{Enabled: enabled, Email: email}
	}

	return plain
}

// parseBool only accepts the exact strings the worker writes.
func parseBool(s string) (value, ok bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func validInstanceEvent(s string) bool {
	switch InstanceEvent(s) {
	case GameLaunched, GameClosed:
		return true
	default:
		return false
	}
}

func validInstanceAction(s string) bool {
	switch InstanceAction(s) {
	case ActionCloseWindow, ActionHideWindow, ActionMinimizeWindow, ActionNone, ActionQuitApp:
		return true
	default:
		return false
	}
}
