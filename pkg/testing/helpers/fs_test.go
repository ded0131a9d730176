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

package helpers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDirectoryStructure(t *testing.T) {
	t.Parallel()

	h := NewMemoryFS()
	require.NoError(t, h.CreateDirectoryStructure(map[string]any{
		"/runtime": RuntimeDirStructure(),
	}))

	files, err := h.ListFiles("/runtime")
	require.NoError(t, err)
	assert.Equal(t, []string{
		".DS_Store",
		filepath.Join("instances", "vanilla", "instance.json"),
		"settings.db",
	}, files)

	assert.True(t, h.FileExists("/runtime/logs"))
	data, err := h.ReadFile("/runtime/settings.db")
	require.NoError(t, err)
	assert.Equal(t, "SQL", string(data))
}

func TestCreateDirectoryStructureRejectsUnknownTypes(t *testing.T) {
	t.Parallel()

	err := NewMemoryFS().CreateDirectoryStructure(map[string]any{"/bad": 42})
	require.Error(t, err)
}
