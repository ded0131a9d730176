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

package requests

import (
	"context"
	"encoding/json"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/lifecycle"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/runtimepath"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/state"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/updater"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/worker"
)

// Lifecycle is the part of the window manager the bridge drives.
type Lifecycle interface {
	AdSize() lifecycle.AdSize
	CloseWindow(ctx context.Context)
	Relaunch(ctx context.Context)
}

type Updater interface {
	Check(ctx context.Context, channel updater.Channel)
	Install(ctx context.Context) error
}

type Dialogs interface {
	OpenFile(params models.OpenDialogParams) (models.OpenDialogResponse, error)
	SaveFile(params models.SaveDialogParams) (models.SaveDialogResponse, error)
}

type RequestEnv struct {
	Context   context.Context
	State     *state.State
	Config    *config.Instance
	Launch    *worker.Handle
	Resolver  *runtimepath.Resolver
	Lifecycle Lifecycle
	Updater   Updater
	Dialogs   Dialogs
	Command   command.Executor
	Params    json.RawMessage
	ID        models.RPCID
}
