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
	"slices"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/lifecycle"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

const MetricBounds = "bounds"

// fallbackDisplay is used before the runtime can report screens.
var fallbackDisplay = lifecycle.Display{
	ID:         "screen-0",
	Width:      1920,
	Height:     1080,
	WorkWidth:  1920,
	WorkHeight: 1080,
}

// toDisplays converts the runtime's screens and returns the index of the
// screen the window is on, falling back to the primary screen. Wails has
// no work area, so the work size is the screen size.
func toDisplays(screens []wruntime.Screen) (displays []lifecycle.Display, current int) {
	current = -1
	primary := 0
	for i, s := range screens {
		w, h := s.Size.Width, s.Size.Height
		if w == 0 || h == 0 {
			w, h = s.Width, s.Height
		}
		displays = append(displays, lifecycle.Display{
			ID:         fmt.Sprintf("screen-%d", i),
			Width:      w,
			Height:     h,
			WorkWidth:  w,
			WorkHeight: h,
		})
		if s.IsCurrent && current < 0 {
			current = i
		}
		if s.IsPrimary {
			primary = i
		}
	}
	if current < 0 {
		current = primary
	}
	return displays, current
}

// changedMetrics lists what changed between two screen layouts.
func changedMetrics(prev, cur []lifecycle.Display) []string {
	var metrics []string
	bounds := len(prev) != len(cur)
	work := bounds
	for i := 0; i < len(prev) && i < len(cur); i++ {
		if prev[i].Width != cur[i].Width || prev[i].Height != cur[i].Height {
			bounds = true
		}
		if prev[i].WorkWidth != cur[i].WorkWidth || prev[i].WorkHeight != cur[i].WorkHeight {
			work = true
		}
	}
	if bounds {
		metrics = append(metrics, MetricBounds)
	}
	if work {
		metrics = append(metrics, lifecycle.MetricWorkArea)
	}
	return metrics
}

// DisplayListener is told when the screens change or the window moves to
// another screen.
type DisplayListener interface {
	HandleMove()
	HandleDisplayChange(changedMetrics []string)
}

// DisplayWatcher polls the screens, since Wails has no display events.
type DisplayWatcher struct {
	listener DisplayListener
	clock    clockwork.Clock
	screens  func() ([]wruntime.Screen, bool)
	last     []lifecycle.Display
	current  int
}

func newDisplayWatcher(
	clock clockwork.Clock,
	listener DisplayListener,
	screens func() ([]wruntime.Screen, bool),
) *DisplayWatcher {
	return &DisplayWatcher{
		listener: listener,
		clock:    clock,
		screens:  screens,
		current:  -1,
	}
}

// Run polls until ctx is done.
func (w *DisplayWatcher) Run(ctx context.Context) {
	ticker := w.clock.NewTicker(config.DisplayPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			w.poll()
		}
	}
}

func (w *DisplayWatcher) poll() {
	screens, ok := w.screens()
	if !ok {
		return
	}
	displays, current := toDisplays(screens)

	first := w.last == nil
	prev, prevCurrent := w.last, w.current
	w.last, w.current = displays, current
	if first {
		return
	}

	if !slices.Equal(prev, displays) {
		metrics := changedMetrics(prev, displays)
		log.Debug().Strs("metrics", metrics).Msg("display metrics changed")
		w.listener.HandleDisplayChange(metrics)
		return
	}
	if prevCurrent != current {
		log.Debug().Int("screen", current).Msg("window moved to another display")
		w.listener.HandleMove()
	}
}
