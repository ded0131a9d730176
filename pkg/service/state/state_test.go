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

package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateDefaults(t *testing.T) {
	t.Parallel()

	st, ns := NewState("/user/data", "boot-uuid")
	defer st.StopService()

	require.NotNil(t, ns)
	assert.Equal(t, "/user/data", st.UserDataDir())
	assert.Equal(t, "boot-uuid", st.BootUUID())
	assert.Empty(t, st.RuntimePath())
	assert.False(t, st.GameRunning())
	assert.True(t, st.ShowAppCloseWarning(), "close warning defaults to on")
	assert.False(t, st.GPUDisabled())
	assert.False(t, st.HostStarted())
	assert.False(t, st.Stopped())
}

func TestSetters(t *testing.T) {
	t.Parallel()

	st, _ := NewState("/user/data", "boot-uuid")
	defer st.StopService()

	st.SetRuntimePath("/games/data")
	st.SetGameRunning(true)
	st.SetShowAppCloseWarning(false)
	st.SetSkipIntroAnimation(true)
	st.SetHostStarted()

	assert.Equal(t, "/games/data", st.RuntimePath())
	assert.True(t, st.GameRunning())
	assert.False(t, st.ShowAppCloseWarning())
	assert.True(t, st.SkipIntroAnimation())
	assert.True(t, st.HostStarted())
}

func TestGPUDecidedClosesOnce(t *testing.T) {
	t.Parallel()

	st, _ := NewState("/user/data", "boot-uuid")
	defer st.StopService()

	select {
	case <-st.GPUDecided():
		t.Fatal("gpu decision should be pending")
	default:
	}

	st.SetGPUDisabled(true)
	st.SetGPUDisabled(false)

	select {
	case <-st.GPUDecided():
	case <-time.After(time.Second):
		t.Fatal("gpu decision channel not closed")
	}
	assert.False(t, st.GPUDisabled(), "later calls still update the flag")
}

func TestStopServiceCancelsContext(t *testing.T) {
	t.Parallel()

	st, _ := NewState("/user/data", "boot-uuid")
	st.StopService()
	st.StopService()

	select {
	case <-st.GetContext().Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
	assert.True(t, st.Stopped())
}
