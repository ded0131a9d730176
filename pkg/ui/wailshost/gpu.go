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

import (
	"context"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
)

// windows7Version is the NT version prefix of Windows 7, where the webview
// can't use GPU acceleration.
const windows7Version = "6.1"

func isWindows7(platformVersion string) bool {
	return platformVersion == windows7Version ||
		strings.HasPrefix(platformVersion, windows7Version+".")
}

// GPUUnsupported reports whether this OS has to run without GPU
// acceleration regardless of settings.
func GPUUnsupported(ctx context.Context) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	_, _, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to get windows version")
		return false
	}
	if isWindows7(version) {
		log.Info().Str("version", version).Msg("windows 7 detected, disabling gpu")
		return true
	}
	return false
}

func linuxGPUPolicy(disabled bool) linux.WebviewGpuPolicy {
	if disabled {
		return linux.WebviewGpuPolicyNever
	}
	return linux.WebviewGpuPolicyOnDemand
}
