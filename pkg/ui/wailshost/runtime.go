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
	"fmt"

	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Runtime is the subset of the Wails runtime the host uses. Every call
// needs the context Wails passes to OnStartup.
type Runtime interface {
	WindowShow(ctx context.Context)
	WindowHide(ctx context.Context)
	WindowMinimise(ctx context.Context)
	WindowUnminimise(ctx context.Context)
	WindowIsMinimised(ctx context.Context) bool
	WindowSetMinSize(ctx context.Context, width, height int)
	WindowSetSize(ctx context.Context, width, height int)
	WindowCenter(ctx context.Context)
	WindowReload(ctx context.Context)
	ScreenGetAll(ctx context.Context) ([]wruntime.Screen, error)
	EventsEmit(ctx context.Context, name string, data ...any)
	Quit(ctx context.Context)
}

type wailsRuntime struct{}

func (wailsRuntime) WindowShow(ctx context.Context)       { wruntime.WindowShow(ctx) }
func (wailsRuntime) WindowHide(ctx context.Context)       { wruntime.WindowHide(ctx) }
func (wailsRuntime) WindowMinimise(ctx context.Context)   { wruntime.WindowMinimise(ctx) }
func (wailsRuntime) WindowUnminimise(ctx context.Context) { wruntime.WindowUnminimise(ctx) }
func (wailsRuntime) WindowCenter(ctx context.Context)     { wruntime.WindowCenter(ctx) }
func (wailsRuntime) WindowReload(ctx context.Context)     { wruntime.WindowReload(ctx) }
func (wailsRuntime) Quit(ctx context.Context)             { wruntime.Quit(ctx) }

func (wailsRuntime) WindowIsMinimised(ctx context.Context) bool {
	return wruntime.WindowIsMinimised(ctx)
}

func (wailsRuntime) WindowSetMinSize(ctx context.Context, width, height int) {
	wruntime.WindowSetMinSize(ctx, width, height)
}

func (wailsRuntime) WindowSetSize(ctx context.Context, width, height int) {
	wruntime.WindowSetSize(ctx, width, height)
}

func (wailsRuntime) ScreenGetAll(ctx context.Context) ([]wruntime.Screen, error) {
	screens, err := wruntime.ScreenGetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get screens: %w", err)
	}
	return screens, nil
}

func (wailsRuntime) EventsEmit(ctx context.Context, name string, data ...any) {
	wruntime.EventsEmit(ctx, name, data...)
}
