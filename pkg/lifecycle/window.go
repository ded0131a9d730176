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

package lifecycle

import "context"

// Window is the application's native window.
type Window interface {
	Show()
	Hide()
	Minimize()
	Restore()
	Focus()
	// Close closes the window programmatically, without asking
	// OnCloseRequested first.
	Close()
	IsDestroyed() bool
	IsMinimized() bool
	SetMinimumSize(width, height int)
	SetSize(width, height int)
	// Display returns the display the window is mostly on.
	Display() Display
}

type WindowOptions struct {
	Title              string
	Layout             Layout
	SkipIntroAnimation bool
}

// Host is the native application runtime owning the windows.
type Host interface {
	NewWindow(ctx context.Context, opts WindowOptions) (Window, error)
	PrimaryDisplay() Display
	// RequestRelaunch starts a new copy of the launcher once this one has
	// quit.
	RequestRelaunch()
	Quit()
}

// Integration is an optional platform integration notified about user
// preferences reported by the worker.
type Integration interface {
	HashedEmailPreferenceChanged(enabled bool, email string)
}

// PendingInstaller applies a downloaded update while the launcher quits.
type PendingInstaller interface {
	InstallOnQuit()
}
