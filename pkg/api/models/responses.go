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

const (
	CoreModuleSuccess = "success"
	CoreModuleError   = "error"
)

type CoreModuleLog struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// CoreModuleResponse is the normalised worker launch result. Logs is only
// set for errors and Port only for successes.
type CoreModuleResponse struct {
	Port *int            `json:"port,omitempty"`
	Type string          `json:"type"`
	Logs []CoreModuleLog `json:"logs,omitempty"`
}

type CurrentOSResponse struct {
	Platform string `json:"platform"`
	Arch     string `json:"arch"`
}

type AdSizeResponse struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type OpenDialogResponse struct {
	FilePaths []string `json:"filePaths"`
	Canceled  bool     `json:"canceled"`
}

type SaveDialogResponse struct {
	FilePath string `json:"filePath,omitempty"`
	Canceled bool   `json:"canceled"`
}

type RuntimePathProgress struct {
	Action      string `json:"action"`
	CurrentName string `json:"currentName"`
	Current     int    `json:"current"`
	Total       int    `json:"total"`
}

type UpdateInfo struct {
	Version      string `json:"version"`
	ReleaseName  string `json:"releaseName,omitempty"`
	ReleaseNotes string `json:"releaseNotes,omitempty"`
	ReleaseDate  string `json:"releaseDate,omitempty"`
}

type DownloadProgress struct {
	Percent        float64 `json:"percent"`
	BytesPerSecond int64   `json:"bytesPerSecond"`
	Transferred    int64   `json:"transferred"`
	Total          int64   `json:"total"`
}
