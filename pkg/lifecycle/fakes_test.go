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

import (
	"context"
	"slices"
	"sync"
)

type fakeWindow struct {
	display   Display
	calls     []string
	mu        sync.Mutex
	destroyed bool
	minimized bool
	hidden    bool
	minW      int
	minH      int
}

func (w *fakeWindow) record(call string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, call)
}

func (w *fakeWindow) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.calls)
}

func (w *fakeWindow) Show() {
	w.record("show")
	w.mu.Lock()
	w.hidden = false
	w.mu.Unlock()
}

func (w *fakeWindow) Hide() {
	w.record("hide")
	w.mu.Lock()
	w.hidden = true
	w.mu.Unlock()
}

func (w *fakeWindow) Minimize() {
	w.record("minimize")
	w.mu.Lock()
	w.minimized = true
	w.mu.Unlock()
}

func (w *fakeWindow) Restore() {
	w.record("restore")
	w.mu.Lock()
	w.minimized = false
	w.mu.Unlock()
}

func (w *fakeWindow) Focus() { w.record("focus") }

func (w *fakeWindow) Close() {
	w.record("close")
	w.mu.Lock()
	w.destroyed = true
	w.mu.Unlock()
}

func (w *fakeWindow) IsDestroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

func (w *fakeWindow) IsMinimized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.minimized
}

func (w *fakeWindow) IsHidden() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hidden
}

func (w *fakeWindow) SetMinimumSize(width, height int) {
	w.record("setMinimumSize")
	w.mu.Lock()
	w.minW, w.minH = width, height
	w.mu.Unlock()
}

func (w *fakeWindow) SetSize(int, int) { w.record("setSize") }

func (w *fakeWindow) Display() Display {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.display
}

func (w *fakeWindow) SetDisplay(d Display) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.display = d
}

type fakeHost struct {
	newWinErr error
	primary   Display
	windows   []*fakeWindow
	lastOpts  WindowOptions
	mu        sync.Mutex
	quits     int
	relaunch  bool
}

func (h *fakeHost) NewWindow(_ context.Context, opts WindowOptions) (Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.newWinErr != nil {
		return nil, h.newWinErr
	}
	w := &fakeWindow{display: h.primary, hidden: true}
	h.windows = append(h.windows, w)
	h.lastOpts = opts
	return w, nil
}

func (h *fakeHost) PrimaryDisplay() Display {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.primary
}

func (h *fakeHost) RequestRelaunch() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relaunch = true
}

func (h *fakeHost) Quit() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.quits++
}

func (h *fakeHost) WindowCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.windows)
}

func (h *fakeHost) Quits() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.quits
}

type fakeInstaller struct {
	calls int
}

func (f *fakeInstaller) InstallOnQuit() { f.calls++ }

type fakeIntegration struct {
	email   string
	enabled bool
	calls   int
}

func (f *fakeIntegration) HashedEmailPreferenceChanged(enabled bool, email string) {
	f.calls++
	f.enabled = enabled
	f.email = email
}
