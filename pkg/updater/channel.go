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

package updater

import (
	"fmt"
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
)

// Channel is a release channel. Channels are ordered by how unstable their
// releases are.
type Channel string

const (
	ChannelStable Channel = "stable"
	ChannelBeta   Channel = "beta"
	ChannelAlpha  Channel = "alpha"
)

func (c Channel) Rank() int {
	switch c {
	case ChannelBeta:
		return 1
	case ChannelAlpha:
		return 2
	default:
		return 0
	}
}

func ParseChannel(s string) (Channel, error) {
	switch c := Channel(s); c {
	case ChannelStable, ChannelBeta, ChannelAlpha:
		return c, nil
	default:
		return "", fmt.Errorf("unknown update channel: %q", s)
	}
}

// InferChannel works out which channel a build was released on from its
// version string. beta wins when both names appear.
func InferChannel(version string) Channel {
	switch {
	case strings.Contains(version, string(ChannelBeta)):
		return ChannelBeta
	case strings.Contains(version, string(ChannelAlpha)):
		return ChannelAlpha
	default:
		return ChannelStable
	}
}

// AllowDowngrade reports whether switching to selected may install an
// older version than runningVersion. That's only the case when moving to a
// more stable channel.
func AllowDowngrade(selected Channel, runningVersion string) bool {
	return selected.Rank() < InferChannel(runningVersion).Rank()
}

// IsDevelopmentBuild reports whether version is a build which never
// updates itself.
func IsDevelopmentBuild(version string) bool {
	return version == "" || version == "DEVELOPMENT" || helpers.IsSnapshot(version)
}
