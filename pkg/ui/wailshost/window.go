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

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/lifecycle"
)

type window struct {
	host      *Host
	mu        syncutil.Mutex
	destroyed bool
}

func (w *window) setDestroyed(destroyed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = destroyed
}

func (w *window) Show()     { w.host.do(w.host.rt.WindowShow) }
func (w *window) Hide()     { w.host.do(w.host.rt.WindowHide) }
func (w *window) Minimize() { w.host.do(w.host.rt.WindowMinimise) }
func (w *window) Restore()  { w.host.do(w.host.rt.WindowUnminimise) }

// Focus raises the window. Wails has no separate focus call, showing the
// window brings it to the front.
func (w *window) Focus() { w.host.do(w.host.rt.WindowShow) }

func (w *window) Close() {
	w.setDestroyed(true)
	w.host.do(w.host.rt.WindowHide)
}

func (w *window) IsDestroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

func (w *window) IsMinimized() bool {
	ctx, ok := w.host.context()
	if !ok {
		return false
	}
	return w.host.rt.WindowIsMinimised(ctx)
}

func (w *window) SetMinimumSize(width, height int) {
	w.host.do(func(ctx context.Context) {
		w.host.rt.WindowSetMinSize(ctx, width, height)
	})
}

func (w *window) SetSize(width, height int) {
	w.host.do(func(ctx context.Context) {
		w.host.rt.WindowSetSize(ctx, width, height)
	})
}

func (w *window) Display() lifecycle.Display {
	screens, ok := w.host.screens()
	if !ok {
		return fallbackDisplay
	}
	displays, current := toDisplays(screens)
	return displays[current]
}
