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

// Package runtimepath decides where the worker keeps its data and moves
// that data when the user picks a new location.
package runtimepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Validity is the answer to validateRuntimePath.
type Validity string

const (
	Valid            Validity = "valid"
	PotentiallyValid Validity = "potentially_valid"
	Invalid          Validity = "invalid"
)

// Source records which rule picked the runtime path.
type Source int

const (
	SourceDefault Source = iota
	SourceOverrideFile
	SourceExplicit
)

func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceOverrideFile:
		return "override_file"
	default:
		return "default"
	}
}

var ErrCreateDir = errors.New("failed to create runtime directory")

type Resolver struct {
	Fs          afero.Fs
	UserDataDir string
}

func NewResolver(fs afero.Fs, userDataDir string) *Resolver {
	return &Resolver{
		Fs:          fs,
		UserDataDir: userDataDir,
	}
}

// InitialPath is the default runtime path, used when nothing overrides it.
func (r *Resolver) InitialPath() string {
	return filepath.Join(r.UserDataDir, config.RuntimeDataDir)
}

// OverrideFile is the pointer file written by a migration.
func (r *Resolver) OverrideFile() string {
	return filepath.Join(r.UserDataDir, config.RuntimePathOverrideFile)
}

// ReadOverride returns the path stored in the override file. The second
// value is false if the file is missing, unreadable or blank.
func (r *Resolver) ReadOverride() (string, bool) {
	data, err := afero.ReadFile(r.Fs, r.OverrideFile())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Msg("failed to read runtime path override file")
		}
		return "", false
	}

	path := strings.TrimSpace(string(data))
	if path == "" {
		return "", false
	}
	return path, true
}

// Resolve picks the runtime path in priority order: an explicit override
// (flag or env), then the override file, then InitialPath. The chosen
// directory is created. An override file naming a directory that can't be
// created is skipped in favour of InitialPath. Any other creation failure
// wraps ErrCreateDir and is fatal to startup.
func (r *Resolver) Resolve(override string) (string, Source, error) {
	path, source := r.pick(override)

	if err := r.EnsureDir(path); err != nil {
		return "", source, err
	}

	log.Info().
		Str("path", path).
		Stringer("source", source).
		Msg("runtime path resolved")

	return path, source, nil
}

func (r *Resolver) pick(override string) (string, Source) {
	if override != "" {
		return override, SourceExplicit
	}
	if path, ok := r.ReadOverride(); ok {
		err := r.EnsureDir(path)
		if err == nil {
			return path, SourceOverrideFile
		}
		log.Warn().Err(err).Str("path", path).
			Msg("runtime path override unusable, falling back to default")
	}
	return r.InitialPath(), SourceDefault
}

// EnsureDir creates path and any missing parents.
func (r *Resolver) EnsureDir(path string) error {
	if err := r.Fs.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("%w %s: %w", ErrCreateDir, path, err)
	}
	return nil
}

// Validate classifies candidate as a new runtime path. Existing non-empty
// directories are usable but the caller should warn before migrating into
// them.
func (r *Resolver) Validate(current, candidate string) Validity {
	if candidate == "" || candidate == current {
		return Invalid
	}

	info, err := r.Fs.Stat(candidate)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Valid
		}
		log.Warn().Err(err).Str("path", candidate).Msg("failed to stat runtime path candidate")
		return Invalid
	}

	if !info.IsDir() {
		return Invalid
	}

	empty, err := afero.IsEmpty(r.Fs, candidate)
	if err != nil {
		log.Warn().Err(err).Str("path", candidate).Msg("failed to read runtime path candidate")
		return Invalid
	}
	if !empty {
		return PotentiallyValid
	}

	return Valid
}
