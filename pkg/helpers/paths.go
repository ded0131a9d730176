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
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
)

// ExeDir returns the directory of the running executable, or an empty
// string if it can't be determined.
func ExeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// IsSnapshot reports whether version is a snapshot build.
func IsSnapshot(version string) bool {
	return strings.Contains(version, "snapshot")
}

// UserDataOptions are the inputs to UserDataDirFor, split out so the
// platform rules can be tested without touching the real environment.
type UserDataOptions struct {
	ExePath  string
	GOOS     string
	Version  string
	DataHome string
	Packaged bool
}

// UserDataDirFor works out the user data dir. Packaged snapshot builds are
// portable and keep their data next to the executable (next to the .app
// bundle on macOS). Everything else uses the platform data home, which on
// Linux honours XDG_DATA_HOME instead of the config dir.
func UserDataDirFor(opts UserDataOptions) string {
	if opts.Packaged && IsSnapshot(opts.Version) {
		up := ".."
		deepBinary := strings.HasSuffix(
			filepath.ToSlash(filepath.Dir(opts.ExePath)),
			"Contents/MacOS",
		)
		if opts.GOOS == "darwin" && deepBinary {
			// <parent>/App.app/Contents/MacOS/<binary>
			up = filepath.Join("..", "..", "..", "..")
		}
		return filepath.Join(filepath.Clean(filepath.Join(opts.ExePath, up)), config.SnapshotDir)
	}

	return filepath.Join(opts.DataHome, config.AppName)
}

// UserDataDir returns the user data dir for this process. It doesn't
// create it; callers check whether it existed before startup first.
func UserDataDir(packaged bool) string {
	exe, err := os.Executable()
	if err != nil {
		log.Warn().Err(err).Msg("failed to get executable path")
	}

	dir := UserDataDirFor(UserDataOptions{
		ExePath:  exe,
		GOOS:     runtime.GOOS,
		Version:  config.AppVersion,
		DataHome: xdg.DataHome,
		Packaged: packaged,
	})
	log.Debug().Str("path", dir).Msg("user data path")

	return dir
}

// PathExists reports whether path can be stat'ed.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
