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

package config

import "time"

// AppVersion is set at build time. Versions containing "snapshot" are
// treated as snapshot builds by the updater and the data dir resolver.
var AppVersion = "DEVELOPMENT"

const (
	AppName        = "zaparoo-launcher"
	AppTitle       = "Zaparoo Launcher"
	LogFile        = "launcher.log"
	CfgFile        = "launcher.toml"
	SnapshotDir    = "gdl_data"
	RuntimeDataDir = "data"
	UpdatesDir     = "updates"
	// RuntimePathOverrideFile is a plain text file in the user data dir
	// holding the absolute path of a relocated runtime dir.
	RuntimePathOverrideFile = "runtime_path_override"
)

// Environment variables read at startup.
const (
	RuntimePathEnv = "ZAPAROO_RUNTIME_PATH"
	SentryDSNEnv   = "ZAPAROO_SENTRY_DSN"
	BaseAPIEnv     = "ZAPAROO_BASE_API"
	DevModeEnv     = "ZAPAROO_DEV"
)

const (
	APIRequestTimeout  = 30 * time.Second
	WorkerStartTimeout = 5 * time.Minute
	// WorkerStopTimeout bounds the wait for a killed worker to let go of
	// the runtime dir before it's migrated.
	WorkerStopTimeout = 10 * time.Second
	// GPUDecisionTimeout is how long startup waits for the worker to report
	// potato PC mode before the native window is created.
	GPUDecisionTimeout  = 4 * time.Second
	DisplayPollInterval = 2 * time.Second
	// DevWorkerPort is used when the worker is run externally in dev mode.
	DevWorkerPort = 4650
)
