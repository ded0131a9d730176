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
	"context"
	"sync"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
)

// State is the single application context of the launcher. It replaces the
// process-wide globals (runtime path, running game flag, GPU mode) and is
// passed to every component that reads them.
//
// LOCKING RULES: mu protects all mutable fields. Never send to channels or
// call into other components while holding it.
type State struct {
	ctx                 context.Context
	ctxCancelFunc       context.CancelFunc
	Notifications       chan<- models.Notification
	gpuDecided          chan struct{}
	runtimePath         string
	userDataDir         string
	bootUUID            string
	gpuDecidedOnce      sync.Once
	mu                  syncutil.RWMutex
	gameRunning         bool
	showAppCloseWarning bool
	gpuDisabled         bool
	skipIntroAnimation  bool
	hostStarted         bool
	stopped             bool
}

func NewState(
	userDataDir string,
	bootUUID string,
) (state *State, notificationCh <-chan models.Notification) {
	// downloadProgress and changeRuntimePathProgress can burst, the buffer
	// keeps them from crowding out the single-shot pushes
	ns := make(chan models.Notification, 500)
	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	return &State{
		ctx:                 ctx,
		ctxCancelFunc:       ctxCancelFunc,
		Notifications:       ns,
		gpuDecided:          make(chan struct{}),
		userDataDir:         userDataDir,
		bootUUID:            bootUUID,
		showAppCloseWarning: true,
	}, ns
}

func (s *State) GetContext() context.Context {
	return s.ctx
}

// StopService cancels the application context. Safe to call more than once.
func (s *State) StopService() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.ctxCancelFunc()
}

func (s *State) Stopped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopped
}

func (s *State) BootUUID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootUUID
}

func (s *State) UserDataDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userDataDir
}

// RuntimePath is the worker's data root. It's set once during startup and
// only changes by relaunching after a migration.
func (s *State) RuntimePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runtimePath
}

func (s *State) SetRuntimePath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runtimePath = path
}

func (s *State) SkipIntroAnimation() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skipIntroAnimation
}

func (s *State) SetSkipIntroAnimation(skip bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipIntroAnimation = skip
}

func (s *State) GameRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameRunning
}

func (s *State) SetGameRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameRunning = running
}

func (s *State) ShowAppCloseWarning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showAppCloseWarning
}

func (s *State) SetShowAppCloseWarning(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showAppCloseWarning = show
}

func (s *State) GPUDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gpuDisabled
}

// SetGPUDisabled records the GPU decision and unblocks anyone waiting in
// GPUDecided. Only the first call closes the channel, later calls still
// update the flag.
func (s *State) SetGPUDisabled(disabled bool) {
	s.mu.Lock()
	s.gpuDisabled = disabled
	s.mu.Unlock()

	s.gpuDecidedOnce.Do(func() {
		close(s.gpuDecided)
	})
}

// GPUDecided is closed once the GPU mode has been decided, either from the
// command line or the worker's potato PC mode line.
func (s *State) GPUDecided() <-chan struct{} {
	return s.gpuDecided
}

// HostStarted reports whether the native window host is already running,
// after which GPU changes only apply on the next start.
func (s *State) HostStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hostStarted
}

func (s *State) SetHostStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hostStarted = true
}
