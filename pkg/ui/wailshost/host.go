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

// Package wailshost runs the launcher's native window on Wails. Wails has a
// single window for the life of the process, so closing it from code hides
// it and marks it destroyed, and creating a window again reloads and
// reuses it.
package wailshost

import (
	"context"
	"errors"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/lifecycle"
	"github.com/rs/zerolog/log"
	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var ErrNotStarted = errors.New("window host has not started")

type Host struct {
	rt        Runtime
	ctx       context.Context
	win       *window
	mu        syncutil.Mutex
	skipIntro bool
	relaunch  bool
	quitting  bool
	closing   bool
}

func New() *Host {
	return newHost(wailsRuntime{})
}

func newHost(rt Runtime) *Host {
	return &Host{rt: rt}
}

func (h *Host) startup(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctx = ctx
}

func (h *Host) context() (context.Context, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctx, h.ctx != nil
}

// do runs fn with the runtime context, or drops the call if the runtime
// isn't up yet.
func (h *Host) do(fn func(ctx context.Context)) {
	ctx, ok := h.context()
	if !ok {
		log.Debug().Msg("window host not started, dropping window call")
		return
	}
	fn(ctx)
}

func (h *Host) screens() ([]wruntime.Screen, bool) {
	ctx, ok := h.context()
	if !ok {
		return nil, false
	}
	screens, err := h.rt.ScreenGetAll(ctx)
	if err != nil || len(screens) == 0 {
		log.Debug().Err(err).Msg("no screens reported")
		return nil, false
	}
	return screens, true
}

// NewWindow sizes the native window for opts. The first call adopts the
// window Wails created, later calls bring a destroyed window back and
// reload it so the renderer starts over.
func (h *Host) NewWindow(_ context.Context, opts lifecycle.WindowOptions) (lifecycle.Window, error) {
	ctx, ok := h.context()
	if !ok {
		return nil, ErrNotStarted
	}

	h.mu.Lock()
	h.skipIntro = opts.SkipIntroAnimation
	win := h.win
	revive := win != nil
	if win == nil {
		win = &window{host: h}
		h.win = win
	}
	h.mu.Unlock()

	win.setDestroyed(false)
	h.rt.WindowSetMinSize(ctx, opts.Layout.MinWidth, opts.Layout.MinHeight)
	h.rt.WindowSetSize(ctx, opts.Layout.Width, opts.Layout.Height)
	h.rt.WindowCenter(ctx)

	if revive {
		// the manager shows it again on the next dom ready
		log.Debug().Msg("reloading window")
		h.rt.WindowReload(ctx)
	}

	return win, nil
}

func (h *Host) PrimaryDisplay() lifecycle.Display {
	screens, ok := h.screens()
	if !ok {
		return fallbackDisplay
	}
	displays, _ := toDisplays(screens)
	for i, s := range screens {
		if s.IsPrimary {
			return displays[i]
		}
	}
	return displays[0]
}

func (h *Host) RequestRelaunch() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relaunch = true
}

// RelaunchRequested reports whether a new copy of the launcher should be
// started once Run has returned.
func (h *Host) RelaunchRequested() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.relaunch
}

// Quit stops the Wails app. It's a no-op while the user is closing the
// window, which quits the app anyway.
func (h *Host) Quit() {
	h.mu.Lock()
	if h.quitting {
		h.mu.Unlock()
		return
	}
	h.quitting = true
	closing := h.closing
	h.mu.Unlock()

	if closing {
		return
	}
	h.do(h.rt.Quit)
}

func (h *Host) skipIntroAnimation() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.skipIntro
}

// beforeClose handles the user closing the window. It returns true to keep
// the window open.
func (h *Host) beforeClose(ctx context.Context, hooks Hooks) bool {
	h.mu.Lock()
	quitting := h.quitting
	h.mu.Unlock()
	if quitting {
		return false
	}

	if hooks.OnBeforeClose != nil && hooks.OnBeforeClose() {
		return true
	}

	h.mu.Lock()
	h.closing = true
	h.mu.Unlock()

	if hooks.OnClosed != nil {
		hooks.OnClosed(ctx)
	}
	return false
}
