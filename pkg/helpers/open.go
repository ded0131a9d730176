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
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/rs/zerolog/log"
)

// OpenerCommand returns the command which opens a path with the desktop's
// default handler.
func OpenerCommand(goos string) string {
	switch goos {
	case "windows":
		return "explorer"
	case "darwin":
		return "open"
	default:
		return "xdg-open"
	}
}

// OpenFolder shows path in the system file manager without waiting for it.
func OpenFolder(ctx context.Context, cmd command.Executor, goos, path string) error {
	if path == "" {
		return errors.New("no path to open")
	}
	if !PathExists(path) {
		return fmt.Errorf("path does not exist: %s", path)
	}

	if err := cmd.Start(ctx, OpenerCommand(goos), path); err != nil {
		return fmt.Errorf("failed to open folder: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened folder")
	return nil
}

// Relaunch starts a new copy of the running executable with args. The
// caller must quit straight after so the new process gets the instance lock.
func Relaunch(ctx context.Context, cmd command.Executor, args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	log.Info().Str("exe", exe).Strs("args", args).Msg("relaunching")
	if err := cmd.Start(ctx, exe, args...); err != nil {
		return fmt.Errorf("failed to relaunch: %w", err)
	}
	return nil
}
