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
	"encoding/json"
)

// Dispatcher handles a raw JSON-RPC request and returns the raw response,
// or nil for notifications.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg []byte) []byte
}

// Bridge is bound into the renderer, which calls it with the same JSON-RPC
// messages it would send over the WebSocket.
type Bridge struct {
	ctx        context.Context
	dispatcher Dispatcher
}

func NewBridge(ctx context.Context, d Dispatcher) *Bridge {
	return &Bridge{ctx: ctx, dispatcher: d}
}

// Call returns an empty string for notifications.
func (b *Bridge) Call(request string) string {
	return string(b.dispatcher.Dispatch(b.ctx, []byte(request)))
}

// Emit pushes a notification to the renderer as a runtime event named
// after the method.
func (h *Host) Emit(method string, params json.RawMessage) {
	h.do(func(ctx context.Context) {
		if params == nil {
			h.rt.EventsEmit(ctx, method)
			return
		}
		h.rt.EventsEmit(ctx, method, params)
	})
}
