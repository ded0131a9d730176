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

// Display is a monitor as reported by the native host. Work sizes exclude
// taskbars and docks.
type Display struct {
	ID         string
	Width      int
	Height     int
	WorkWidth  int
	WorkHeight int
}

type AdSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Layout is the window geometry for a display.
type Layout struct {
	AdSize    AdSize
	MinWidth  int
	MinHeight int
	Width     int
	Height    int
}

type layoutTier struct {
	ad        AdSize
	minWork   AdSize
	minWidth  int
	minHeight int
}

// tiers are checked in order, the last one always matches
var tiers = []layoutTier{
	{
		minWork:   AdSize{Width: 1920, Height: 1080},
		ad:        AdSize{Width: 300, Height: 600},
		minWidth:  1280,
		minHeight: 760,
	},
	{
		minWork:   AdSize{Width: 1366, Height: 0},
		ad:        AdSize{Width: 300, Height: 250},
		minWidth:  1160,
		minHeight: 700,
	},
	{
		ad:        AdSize{Width: 160, Height: 600},
		minWidth:  1000,
		minHeight: 640,
	},
}

// AdLayout picks the ad slot size and window bounds for d. The window
// starts at 80% of the work area, never smaller than the minimum, and the
// minimum never exceeds the work area.
func AdLayout(d Display) Layout {
	workW, workH := d.WorkWidth, d.WorkHeight
	if workW <= 0 {
		workW = d.Width
	}
	if workH <= 0 {
		workH = d.Height
	}

	tier := tiers[len(tiers)-1]
	for _, t := range tiers {
		if workW >= t.minWork.Width && workH >= t.minWork.Height {
			tier = t
			break
		}
	}

	l := Layout{
		AdSize:    tier.ad,
		MinWidth:  capTo(tier.minWidth, workW),
		MinHeight: capTo(tier.minHeight, workH),
	}
	l.Width = capTo(max(l.MinWidth, workW*4/5), workW)
	l.Height = capTo(max(l.MinHeight, workH*4/5), workH)

	return l
}

// capTo limits v to limit, unless limit is unknown.
func capTo(v, limit int) int {
	if limit > 0 && v > limit {
		return limit
	}
	return v
}
