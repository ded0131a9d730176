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

package main

import (
	"context"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/state"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/worker"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRunVersion(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, run(helpers.ParseArgs([]string{helpers.ArgVersion})))
}

func TestBaseAPI(t *testing.T) {
	t.Setenv(config.BaseAPIEnv, "http://localhost:8080")

	assert.Empty(t, baseAPI(helpers.ParseArgs(nil), false))
	assert.Equal(t, "http://localhost:8080", baseAPI(helpers.ParseArgs(nil), true))
	assert.Equal(t, "https://api.example.com", baseAPI(
		helpers.ParseArgs([]string{helpers.ArgOverrideBaseAPI, "https://api.example.com"}),
		true,
	))
}

// pendingLaunch returns a launch that never settles.
func pendingLaunch(t *testing.T) *worker.Handle {
	t.Helper()
	proc := mocks.NewFakeProcess()
	exec := &mocks.MockCommandExecutor{}
	exec.On("Spawn", mock.Anything).Return(proc, nil)
	sup := worker.NewSupervisor(exec, clockwork.NewFakeClock(), nil)
	launch := sup.Launch(worker.LaunchOptions{RuntimePath: t.TempDir(), BinaryDir: t.TempDir()})
	t.Cleanup(launch.Kill)
	return launch
}

func waitAsync(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return")
	}
}

func TestWaitGPUDecisionDecided(t *testing.T) {
	t.Parallel()

	st, _ := state.NewState(t.TempDir(), "boot")
	st.SetGPUDisabled(true)

	waitAsync(t, func() {
		waitGPUDecision(clockwork.NewFakeClock(), st, pendingLaunch(t), config.GPUDecisionTimeout)
	})
	assert.True(t, st.GPUDisabled())
}

func TestWaitGPUDecisionTimeout(t *testing.T) {
	t.Parallel()

	st, _ := state.NewState(t.TempDir(), "boot")
	clock := clockwork.NewFakeClock()
	launch := pendingLaunch(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		waitGPUDecision(clock, st, launch, config.GPUDecisionTimeout)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	select {
	case <-done:
		t.Fatal("returned before the timeout")
	default:
	}

	clock.Advance(config.GPUDecisionTimeout)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not time out")
	}
}

func TestWaitGPUDecisionDevLaunch(t *testing.T) {
	t.Parallel()

	st, _ := state.NewState(t.TempDir(), "boot")
	sup := worker.NewSupervisor(&mocks.MockCommandExecutor{}, clockwork.NewFakeClock(), nil)
	launch := sup.Launch(worker.LaunchOptions{DevMode: true})

	waitAsync(t, func() {
		waitGPUDecision(clockwork.NewFakeClock(), st, launch, config.GPUDecisionTimeout)
	})
}
