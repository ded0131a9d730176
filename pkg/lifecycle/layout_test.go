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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		display Display
		want    Layout
	}{
		{
			name:    "full hd",
			display: Display{ID: "1", Width: 1920, Height: 1080, WorkWidth: 1920, WorkHeight: 1080},
			want: Layout{
				AdSize:    AdSize{Width: 300, Height: 600},
				MinWidth:  1280,
				MinHeight: 760,
				Width:     1536,
				Height:    864,
			},
		},
		{
			name:    "full hd with taskbar",
			display: Display{ID: "1", Width: 1920, Height: 1080, WorkWidth: 1920, WorkHeight: 1040},
			want: Layout{
				AdSize:    AdSize{Width: 300, Height: 250},
				MinWidth:  1160,
				MinHeight: 700,
				Width:     1536,
				Height:    832,
			},
		},
		{
			name:    "laptop",
			display: Display{ID: "2", Width: 1366, Height: 768, WorkWidth: 1366, WorkHeight: 728},
			want: Layout{
				AdSize:    AdSize{Width: 300, Height: 250},
				MinWidth:  1160,
				MinHeight: 700,
				Width:     1160,
				Height:    700,
			},
		},
		{
			name:    "small screen caps minimum to work area",
			display: Display{ID: "3", Width: 1024, Height: 600, WorkWidth: 1024, WorkHeight: 570},
			want: Layout{
				AdSize:    AdSize{Width: 160, Height: 600},
				MinWidth:  1000,
				MinHeight: 570,
				Width:     1000,
				Height:    570,
			},
		},
		{
			name:    "unknown work area uses full size",
			display: Display{ID: "4", Width: 2560, Height: 1440},
			want: Layout{
				AdSize:    AdSize{Width: 300, Height: 600},
				MinWidth:  1280,
				MinHeight: 760,
				Width:     2048,
				Height:    1152,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AdLayout(tt.display))
		})
	}
}
