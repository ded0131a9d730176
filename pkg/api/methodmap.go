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

package api

import (
	"errors"
	"fmt"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/methods"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
)

type MethodFunc func(requests.RequestEnv) (any, error)

// MethodMap is the registry of bridge request handlers. Method names are
// matched exactly.
type MethodMap struct {
	methods map[string]MethodFunc
	mu      syncutil.RWMutex
}

// NewMethodMap returns a registry with every launcher method registered.
func NewMethodMap() *MethodMap {
	m := &MethodMap{
		methods: map[string]MethodFunc{
			// updates
			models.MethodCheckForUpdates: methods.HandleCheckForUpdates,
			models.MethodInstallUpdate:   methods.HandleInstallUpdate,
			models.MethodRelaunch:        methods.HandleRelaunch,
			// window
			models.MethodGetAdSize:      methods.HandleGetAdSize,
			models.MethodCloseWindow:    methods.HandleCloseWindow,
			models.MethodGetCurrentOS:   methods.HandleGetCurrentOS,
			models.MethodOpenFileDialog: methods.HandleOpenFileDialog,
			models.MethodShowSaveDialog: methods.HandleShowSaveDialog,
			models.MethodOpenFolder:     methods.HandleOpenFolder,
			// runtime path
			models.MethodGetUserData:           methods.HandleGetUserData,
			models.MethodGetInitialRuntimePath: methods.HandleGetInitialRuntimePath,
			models.MethodGetRuntimePath:        methods.HandleGetRuntimePath,
			models.MethodChangeRuntimePath:     methods.HandleChangeRuntimePath,
			models.MethodValidateRuntimePath:   methods.HandleValidateRuntimePath,
			// worker
			models.MethodGetCoreModule: methods.HandleGetCoreModule,
		},
	}
	return m
}

// AddMethod registers an extra handler. Existing methods can't be
// replaced.
func (m *MethodMap) AddMethod(name string, fn MethodFunc) error {
	if name == "" {
		return errors.New("method name is empty")
	}
	if fn == nil {
		return fmt.Errorf("handler for %s is nil", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.methods[name]; ok {
		return fmt.Errorf("method already exists: %s", name)
	}
	m.methods[name] = fn
	return nil
}

func (m *MethodMap) GetMethod(name string) (MethodFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.methods[name]
	return fn, ok
}

func (m *MethodMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.methods)
}
