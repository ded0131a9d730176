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

package runtimepath

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func writeFiles(t require.TestingT, fs afero.Fs, root string, files map[string]string) {
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o600))
	}
}

func TestListFiles(t *testing.T) {
	t.Parallel()

	r := newTestResolver()
	writeFiles(t, r.Fs, "/old", map[string]string{
		"b.txt":                   "b",
		"a/nested.json":           "{}",
		".hidden":                 "h",
		".DS_Store":               "x",
		"a/.DS_Store":             "x",
		"runtime_path_override":   "/elsewhere",
		"a/runtime_path_override": "kept",
	})

	files, err := r.ListFiles("/old")
	require.NoError(t, err)
	assert.Equal(t, []string{
		".hidden",
		filepath.Join("a", "nested.json"),
		filepath.Join("a", "runtime_path_override"),
		"b.txt",
	}, files)
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	r := newTestResolver()
	writeFiles(t, r.Fs, "/old", map[string]string{
		"instances/game/config.json": `{"name":"game"}`,
		"settings.db":                "db",
		".DS_Store":                  "x",
	})

	var events []Progress
	err := r.Migrate("/old", "/new", func(p Progress) {
		events = append(events, p)
	})
	require.NoError(t, err)

	assert.Equal(t, []Progress{
		{Action: ActionCopy, CurrentName: "config.json", Current: 0, Total: 4},
		{Action: ActionCopy, CurrentName: "settings.db", Current: 1, Total: 4},
		{Action: ActionRemove, CurrentName: "config.json", Current: 2, Total: 4},
		{Action: ActionRemove, CurrentName: "settings.db", Current: 3, Total: 4},
	}, events)

	data, err := afero.ReadFile(r.Fs, "/new/instances/game/config.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"game"}`, string(data))

	exists, err := afero.Exists(r.Fs, "/old/settings.db")
	require.NoError(t, err)
	assert.False(t, exists, "originals are removed")

	exists, err = afero.Exists(r.Fs, "/old/.DS_Store")
	require.NoError(t, err)
	assert.True(t, exists, "ignored files stay behind")

	override, ok := r.ReadOverride()
	require.True(t, ok)
	assert.Equal(t, "/new", override)
}

func TestMigrateSamePathIsNoop(t *testing.T) {
	t.Parallel()

	r := newTestResolver()
	writeFiles(t, r.Fs, "/old", map[string]string{"a": "a"})

	called := false
	require.NoError(t, r.Migrate("/old", "/old", func(Progress) { called = true }))
	assert.False(t, called)

	_, ok := r.ReadOverride()
	assert.False(t, ok)
}

func TestMigrateOverwritesExisting(t *testing.T) {
	t.Parallel()

	r := newTestResolver()
	writeFiles(t, r.Fs, "/old", map[string]string{"save.dat": "new contents"})
	writeFiles(t, r.Fs, "/new", map[string]string{"save.dat": "stale contents that are longer"})

	require.NoError(t, r.Migrate("/old", "/new", nil))

	data, err := afero.ReadFile(r.Fs, "/new/save.dat")
	require.NoError(t, err)
	assert.Equal(t, "new contents", string(data))
}

type failingOpenFs struct {
	afero.Fs
	failOn string
}

func (f *failingOpenFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if name == f.failOn {
		return nil, errors.New("disk full")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestMigrateAbortsOnFirstError(t *testing.T) {
	t.Parallel()

	fs := &failingOpenFs{Fs: afero.NewMemMapFs(), failOn: filepath.Join("/new", "b.txt")}
	r := NewResolver(fs, userData)
	writeFiles(t, fs.Fs, "/old", map[string]string{
		"a.txt": "a",
		"b.txt": "b",
		"c.txt": "c",
	})

	var events []Progress
	err := r.Migrate("/old", "/new", func(p Progress) {
		events = append(events, p)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, events, 2, "nothing is reported after the failing file")

	// partially migrated: a.txt copied, nothing removed, no override written
	exists, err := afero.Exists(fs, "/new/a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = afero.Exists(fs, "/old/a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	_, ok := r.ReadOverride()
	assert.False(t, ok)
}

func TestMigrateProgressProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		r := newTestResolver()
		names := rapid.SliceOfDistinct(
			rapid.StringMatching(`[a-z]{1,8}(/[a-z]{1,8})?`),
			func(s string) string { return s },
		).Draw(t, "files")

		files := make(map[string]string, len(names))
		for _, n := range names {
			files[n+".dat"] = n
		}
		require.NoError(t, r.Fs.MkdirAll("/old", 0o750))
		writeFiles(t, r.Fs, "/old", files)

		var events []Progress
		require.NoError(t, r.Migrate("/old", "/new", func(p Progress) {
			events = append(events, p)
		}))

		n := len(files)
		require.Len(t, events, 2*n)
		for i, ev := range events {
			assert.Equal(t, i, ev.Current)
			assert.Equal(t, 2*n, ev.Total)
			if i < n {
				assert.Equal(t, ActionCopy, ev.Action)
			} else {
				assert.Equal(t, ActionRemove, ev.Action)
			}
		}
	})
}
