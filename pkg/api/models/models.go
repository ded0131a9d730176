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

// Package models holds the wire types shared by the renderer bridge, its
// client and the components pushing notifications through it.
package models

import "encoding/json"

// Request methods. Names match what the renderer already calls and must
// not be changed.
const (
	MethodCheckForUpdates       = "checkForUpdates"
	MethodInstallUpdate         = "installUpdate"
	MethodRelaunch              = "relaunch"
	MethodGetAdSize             = "getAdSize"
	MethodOpenFileDialog        = "openFileDialog"
	MethodShowSaveDialog        = "showSaveDialog"
	MethodGetCurrentOS          = "getCurrentOS"
	MethodOpenFolder            = "openFolder"
	MethodCloseWindow           = "closeWindow"
	MethodGetUserData           = "getUserData"
	MethodGetInitialRuntimePath = "getInitialRuntimePath"
	MethodGetRuntimePath        = "getRuntimePath"
	MethodChangeRuntimePath     = "changeRuntimePath"
	MethodValidateRuntimePath   = "validateRuntimePath"
	MethodGetCoreModule         = "getCoreModule"
)

// Push notifications sent to the renderer.
const (
	NotificationUpdateAvailable           = "updateAvailable"
	NotificationUpdateNotAvailable        = "updateNotAvailable"
	NotificationDownloadProgress          = "downloadProgress"
	NotificationUpdateDownloaded          = "updateDownloaded"
	NotificationChangeRuntimePathProgress = "changeRuntimePathProgress"
	NotificationShowAppCloseWarning       = "showAppCloseWarning"
	NotificationAdSizeChanged             = "adSizeChanged"
)

// PositionalParams names the arguments of methods the renderer calls
// positionally, e.g. checkForUpdates("beta"). The bridge turns positional
// params into an object with these keys before decoding.
var PositionalParams = map[string][]string{
	MethodCheckForUpdates:     {"channel"},
	MethodOpenFolder:          {"path"},
	MethodChangeRuntimePath:   {"path"},
	MethodValidateRuntimePath: {"path"},
}

type Notification struct {
	Method string
	Params json.RawMessage
}

type RequestObject struct {
	ID      *RPCID          `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorObject struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ResponseObject struct {
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
	JSONRPC string       `json:"jsonrpc"`
	ID      RPCID        `json:"id"`
}

// ResponseErrorObject exists for sending errors, so we can omit result from
// the response, but so nil responses are still returned when using the main
// ResponseObject.
type ResponseErrorObject struct {
	Error   *ErrorObject `json:"error"`
	JSONRPC string       `json:"jsonrpc"`
	ID      RPCID        `json:"id"`
}
