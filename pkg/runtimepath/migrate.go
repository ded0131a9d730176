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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	ActionCopy   = "copy"
	ActionRemove = "remove"
)

const dsStore = ".DS_Store"

// Progress is reported once before each file is copied and once before
// each original is removed. Current counts from 0 to Total-1 across both
// phases and Total is twice the file count.
type Progress struct {
	Action      string
	CurrentName string
	Current     int
	Total       int
}

// ListFiles returns every file under root relative to it, in lexical order.
// Dot files are included. .DS_Store files and the top level override file
// are skipped.
func (r *Resolver) ListFiles(root string) ([]string, error) {
	var files []string
	err := afero.Walk(r.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		if info.Name() == dsStore || rel == filepath.Base(r.OverrideFile()) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runtime files: %w", err)
	}
	return files, nil
}

// Migrate moves every file from current to newPath, writes the override
// file pointing at newPath and then removes the originals. Files are
// handled one at a time.
//
// Migration is not transactional. The first error aborts it and is
// returned as is, which can leave files in both trees. The caller is
// expected to stop the worker before and relaunch after.
func (r *Resolver) Migrate(current, newPath string, progress func(Progress)) error {
	if newPath == current {
		return nil
	}
	if progress == nil {
		progress = func(Progress) {}
	}

	if err := r.EnsureDir(newPath); err != nil {
		return err
	}

	files, err := r.ListFiles(current)
	if err != nil {
		return err
	}

	total := len(files) * 2
	log.Info().
		Str("from", current).
		Str("to", newPath).
		Int("files", len(files)).
		Msg("migrating runtime path")

	for i, file := range files {
		progress(Progress{
			Action:      ActionCopy,
			CurrentName: filepath.Base(file),
			Current:     i,
			Total:       total,
		})

		err := r.copyFile(filepath.Join(current, file), filepath.Join(newPath, file))
		if err != nil {
			return err
		}
	}

	err = afero.WriteFile(r.Fs, r.OverrideFile(), []byte(newPath), 0o600)
	if err != nil {
		return fmt.Errorf("failed to write runtime path override: %w", err)
	}

	for i, file := range files {
		progress(Progress{
			Action:      ActionRemove,
			CurrentName: filepath.Base(file),
			Current:     len(files) + i,
			Total:       total,
		})

		if err := r.Fs.Remove(filepath.Join(current, file)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", file, err)
		}
	}

	log.Info().Str("path", newPath).Msg("runtime path migration complete")
	return nil
}

// copyFile overwrites dst with the contents and mode of src.
func (r *Resolver) copyFile(src, dst string) error {
	info, err := r.Fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	if err := r.Fs.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	in, err := r.Fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil {
			log.Debug().Err(closeErr).Str("path", src).Msg("failed to close source file")
		}
	}()

	out, err := r.Fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}
