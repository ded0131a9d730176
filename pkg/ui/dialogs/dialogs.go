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

// Package dialogs shows the native open and save dialogs requested by the
// renderer.
package dialogs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/nixinwang/dialog"
	"github.com/rs/zerolog/log"
)

const (
	PropOpenFile        = "openFile"
	PropOpenDirectory   = "openDirectory"
	PropMultiSelections = "multiSelections"
)

// Request is a dialog request after the renderer's options were mapped.
type Request struct {
	Title    string
	StartDir string
	// StartFile is only used by save dialogs.
	StartFile string
	Filters   []Filter
}

type Filter struct {
	Desc       string
	Extensions []string
}

// Picker shows the platform dialogs. Each call returns ErrCanceled when the
// user dismissed the dialog.
type Picker interface {
	Load(req Request) (string, error)
	Save(req Request) (string, error)
	Browse(req Request) (string, error)
}

var ErrCanceled = errors.New("dialog canceled")

type nativePicker struct{}

func fileBuilder(req Request) *dialog.FileBuilder {
	b := dialog.File()
	if req.Title != "" {
		b = b.Title(req.Title)
	}
	for _, f := range req.Filters {
		b = b.Filter(f.Desc, f.Extensions...)
	}
	if req.StartDir != "" {
		b = b.SetStartDir(req.StartDir)
	}
	return b
}

func nativeErr(err error) error {
	if errors.Is(err, dialog.ErrCancelled) {
		return ErrCanceled
	}
	return err //nolint:wrapcheck // wrapped by Native
}

func (nativePicker) Load(req Request) (string, error) {
	path, err := fileBuilder(req).Load()
	return path, nativeErr(err)
}

func (nativePicker) Save(req Request) (string, error) {
	b := fileBuilder(req)
	if req.StartFile != "" {
		b = b.SetStartFile(req.StartFile)
	}
	path, err := b.Save()
	return path, nativeErr(err)
}

func (nativePicker) Browse(req Request) (string, error) {
	b := dialog.Directory()
	if req.Title != "" {
		b = b.Title(req.Title)
	}
	if req.StartDir != "" {
		b = b.SetStartDir(req.StartDir)
	}
	path, err := b.Browse()
	return path, nativeErr(err)
}

// Native implements the bridge's dialog requests. The platform dialogs only
// return one path, so multiSelections still yields a single entry.
type Native struct {
	picker Picker
}

func NewNative() *Native {
	return &Native{picker: nativePicker{}}
}

// NewWithPicker is used by tests to replace the platform dialogs.
func NewWithPicker(p Picker) *Native {
	return &Native{picker: p}
}

func mapFilters(filters []models.FileFilter) []Filter {
	mapped := make([]Filter, 0, len(filters))
	for _, f := range filters {
		exts := make([]string, 0, len(f.Extensions))
		for _, ext := range f.Extensions {
			ext = strings.TrimPrefix(ext, ".")
			// "*" means any file, which is what no filter does
			if ext == "" || ext == "*" {
				continue
			}
			exts = append(exts, ext)
		}
		if len(exts) == 0 {
			continue
		}
		mapped = append(mapped, Filter{Desc: f.Name, Extensions: exts})
	}
	return mapped
}

// splitDefaultPath splits the renderer's defaultPath, which may be a dir or
// a file path, into a start dir and file name.
func splitDefaultPath(p string) (dir, file string) {
	if p == "" {
		return "", ""
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return p, ""
	}
	return filepath.Dir(p), filepath.Base(p)
}

func (n *Native) OpenFile(params models.OpenDialogParams) (models.OpenDialogResponse, error) {
	dir, _ := splitDefaultPath(params.DefaultPath)
	req := Request{
		Title:    params.Title,
		StartDir: dir,
		Filters:  mapFilters(params.Filters),
	}

	pick := n.picker.Load
	if slices.Contains(params.Properties, PropOpenDirectory) &&
		!slices.Contains(params.Properties, PropOpenFile) {
		pick = n.picker.Browse
	}

	path, err := pick(req)
	if errors.Is(err, ErrCanceled) {
		log.Debug().Msg("open dialog canceled")
		return models.OpenDialogResponse{Canceled: true, FilePaths: []string{}}, nil
	} else if err != nil {
		return models.OpenDialogResponse{}, fmt.Errorf("open dialog failed: %w", err)
	}

	return models.OpenDialogResponse{FilePaths: []string{path}}, nil
}

func (n *Native) SaveFile(params models.SaveDialogParams) (models.SaveDialogResponse, error) {
	dir, file := splitDefaultPath(params.DefaultPath)
	path, err := n.picker.Save(Request{
		Title:     params.Title,
		StartDir:  dir,
		StartFile: file,
		Filters:   mapFilters(params.Filters),
	})
	if errors.Is(err, ErrCanceled) {
		log.Debug().Msg("save dialog canceled")
		return models.SaveDialogResponse{Canceled: true}, nil
	} else if err != nil {
		return models.SaveDialogResponse{}, fmt.Errorf("save dialog failed: %w", err)
	}

	return models.SaveDialogResponse{FilePath: path}, nil
}
