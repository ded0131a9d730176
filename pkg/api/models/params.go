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

package models

type CheckForUpdatesParams struct {
	Channel string `json:"channel" validate:"required,oneof=stable beta alpha"`
}

type FileFilter struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions" validate:"dive,extension"`
}

// OpenDialogParams mirrors the renderer's open dialog options.
type OpenDialogParams struct {
	Title       string       `json:"title"`
	DefaultPath string       `json:"defaultPath"`
	ButtonLabel string       `json:"buttonLabel"`
	Filters     []FileFilter `json:"filters" validate:"dive"`
	// Properties accepts "openFile", "openDirectory", "multiSelections" and
	// "showHiddenFiles". Anything else is ignored.
	Properties []string `json:"properties"`
}

type SaveDialogParams struct {
	Title       string       `json:"title"`
	DefaultPath string       `json:"defaultPath"`
	ButtonLabel string       `json:"buttonLabel"`
	Filters     []FileFilter `json:"filters" validate:"dive"`
}

type OpenFolderParams struct {
	Path string `json:"path" validate:"required"`
}

type ChangeRuntimePathParams struct {
	Path string `json:"path" validate:"required,abspath"`
}

// ValidateRuntimePathParams allows a missing path, which validates as
// invalid instead of failing the request.
type ValidateRuntimePathParams struct {
	Path *string `json:"path"`
}
