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

package helpers

import (
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// Launch flags understood by the launcher. Names are shared with the
// renderer and older installs so they must not change.
const (
	ArgRuntimePath            = "--runtime_path"
	ArgAllowMultipleInstances = "--gdl_allow_multiple_instances"
	ArgOverrideBaseAPI        = "--gdl_override_base_api"
	ArgDisableSentry          = "--gdl_disable_sentry"
	ArgDisableGPU             = "--disable-gpu"
	ArgEnableAccessibility    = "--enable-accessibility"
	ArgVersion                = "--version"
)

// Argument is a flag found in the launch arguments. Value is nil when the
// flag was passed on its own.
type Argument struct {
	Value *string
	Name  string
}

// ValueOr returns the argument's value, or fallback if the argument is nil
// or has no value.
func (a *Argument) ValueOr(fallback string) string {
	if a == nil || a.Value == nil {
		return fallback
	}
	return *a.Value
}

// Args holds the raw process arguments (without the executable path) and
// is parsed once at startup.
type Args struct {
	raw []string
}

func ParseArgs(raw []string) Args {
	return Args{raw: slices.Clone(raw)}
}

// Lookup finds name in the arguments. A flag has a value when it's followed
// by an argument that doesn't start with "--". Unknown flags are ignored so
// the native host can pass its own.
func (a Args) Lookup(name string) *Argument {
	idx := slices.Index(a.raw, name)
	if idx < 0 {
		return nil
	}

	arg := &Argument{Name: name}
	if idx+1 < len(a.raw) && !strings.HasPrefix(a.raw[idx+1], "--") {
		v := a.raw[idx+1]
		arg.Value = &v
		log.Debug().Str("arg", name).Str("value", v).Msg("argument has value")
	} else {
		log.Debug().Str("arg", name).Msg("argument found without value")
	}

	return arg
}

func (a Args) Has(name string) bool {
	return a.Lookup(name) != nil
}

func (a Args) Raw() []string {
	return slices.Clone(a.raw)
}

// Without returns the raw arguments with name and its value removed, for
// relaunching without a flag that would override persisted state.
func (a Args) Without(name string) []string {
	out := make([]string, 0, len(a.raw))
	for i := 0; i < len(a.raw); i++ {
		if a.raw[i] != name {
			out = append(out, a.raw[i])
			continue
		}
		if i+1 < len(a.raw) && !strings.HasPrefix(a.raw[i+1], "--") {
			i++
		}
	}
	return out
}
