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

package methods

import (
	"runtime"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleGetAdSize(env requests.RequestEnv) (any, error) {
	size := env.Lifecycle.AdSize()
	return models.AdSizeResponse{
		Width:  size.Width,
		Height: size.Height,
	}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleCloseWindow(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received close window request")
	go env.Lifecycle.CloseWindow(env.State.GetContext())
	return nil, nil
}

// CurrentOS maps Go's platform names to the ones the renderer expects.
// Unknown values are passed through.
func CurrentOS(goos, goarch string) models.CurrentOSResponse {
	platform := goos
	if goos == "windows" {
		platform = "win32"
	}

	arch := goarch
	switch goarch {
	case "amd64":
		arch = "x64"
	case "386":
		arch = "ia32"
	}

	return models.CurrentOSResponse{
		Platform: platform,
		Arch:     arch,
	}
}

func HandleGetCurrentOS(_ requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return CurrentOS(runtime.GOOS, runtime.GOARCH), nil
}
