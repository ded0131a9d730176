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

package methods

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/lifecycle"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/runtimepath"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/state"
	testhelpers "github.com/ZaparooProject/zaparoo-launcher/pkg/testing/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/testing/mocks"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/updater"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	testUserData = "/home/user/.local/share/zaparoo-launcher"
	testRuntime  = testUserData + "/data"
)

type fakeLifecycle struct {
	relaunched chan struct{}
	closed     chan struct{}
	size       lifecycle.AdSize
}

func newFakeLifecycle() *fakeLifecycle {
	return &fakeLifecycle{
		relaunched: make(chan struct{}, 4),
		closed:     make(chan struct{}, 4),
		size:       lifecycle.AdSize{Width: 300, Height: 250},
	}
}

func (f *fakeLifecycle) AdSize() lifecycle.AdSize { return f.size }

func (f *fakeLifecycle) CloseWindow(context.Context) { f.closed <- struct{}{} }

func (f *fakeLifecycle) Relaunch(context.Context) { f.relaunched <- struct{}{} }

type fakeUpdater struct {
	installErr error
	checked    chan updater.Channel
	mu         sync.Mutex
	installs   int
}

func (f *fakeUpdater) Check(_ context.Context, ch updater.Channel) {
	f.checked <- ch
}

func (f *fakeUpdater) Install(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installs++
	return f.installErr
}

type fakeDialogs struct {
	openErr    error
	open       models.OpenDialogResponse
	save       models.SaveDialogResponse
	openParams models.OpenDialogParams
	saveParams models.SaveDialogParams
}

func (f *fakeDialogs) OpenFile(p models.OpenDialogParams) (models.OpenDialogResponse, error) {
	f.openParams = p
	return f.open, f.openErr
}

func (f *fakeDialogs) SaveFile(p models.SaveDialogParams) (models.SaveDialogResponse, error) {
	f.saveParams = p
	return f.save, nil
}

type testEnv struct {
	env           requests.RequestEnv
	fs            afero.Fs
	notifications <-chan models.Notification
	lifecycle     *fakeLifecycle
	updater       *fakeUpdater
	dialogs       *fakeDialogs
	cmd           *mocks.MockCommandExecutor
}

func newTestEnv(t *testing.T, params string) *testEnv {
	t.Helper()

	st, ns := state.NewState(testUserData, "boot")
	t.Cleanup(st.StopService)
	st.SetRuntimePath(testRuntime)

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testRuntime, 0o750))

	te := &testEnv{
		fs:            fs,
		notifications: ns,
		lifecycle:     newFakeLifecycle(),
		updater:       &fakeUpdater{checked: make(chan updater.Channel, 1)},
		dialogs:       &fakeDialogs{},
		cmd:           testhelpers.NewMockCommandExecutor(),
	}
	te.env = requests.RequestEnv{
		Context:   context.Background(),
		State:     st,
		Resolver:  runtimepath.NewResolver(fs, testUserData),
		Lifecycle: te.lifecycle,
		Updater:   te.updater,
		Dialogs:   te.dialogs,
		Command:   te.cmd,
	}
	if params != "" {
		te.env.Params = json.RawMessage(params)
	}
	return te
}

func waitSignal[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for signal")
	}
	var zero T
	return zero
}

func drain(ns <-chan models.Notification) []models.Notification {
	var out []models.Notification
	for {
		select {
		case n := <-ns:
			out = append(out, n)
		default:
			return out
		}
	}
}
