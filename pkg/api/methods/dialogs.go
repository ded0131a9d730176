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

package methods

import (
	"errors"
	"runtime"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleOpenFileDialog(env requests.RequestEnv) (any, error) {
	var params models.OpenDialogParams
	if err := validation.UnmarshalOptional(env.Params, &params); err != nil {
		log.Warn().Err(err).Msg("invalid open dialog params")
		return nil, err
	}

	resp, err := env.Dialogs.OpenFile(params)
	if err != nil {
		log.Error().Err(err).Msg("error showing open dialog")
		return nil, errors.New("error showing open dialog")
	}
	if resp.FilePaths == nil {
		resp.FilePaths = []string{}
	}
	return resp, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleShowSaveDialog(env requests.RequestEnv) (any, error) {
	var params models.SaveDialogParams
	if err := validation.UnmarshalOptional(env.Params, &params); err != nil {
		log.Warn().Err(err).Msg("invalid save dialog params")
		return nil, err
	}

	resp, err := env.Dialogs.SaveFile(params)
	if err != nil {
		log.Error().Err(err).Msg("error showing save dialog")
		return nil, errors.New("error showing save dialog")
	}
	return resp, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleOpenFolder(env requests.RequestEnv) (any, error) {
	var params models.OpenFolderParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		log.Warn().Err(err).Msg("invalid open folder params")
		return nil, err
	}

	log.Info().Str("path", params.Path).Msg("received open folder request")
	if err := helpers.OpenFolder(env.Context, env.Command, runtime.GOOS, params.Path); err != nil {
		log.Error().Err(err).Msg("error opening folder")
		return nil, err
	}
	return nil, nil
}
