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

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/updater"
	"github.com/rs/zerolog/log"
)

// HandleCheckForUpdates starts an update check in the background. Results
// are only ever pushed as notifications, the request itself returns
// straight away.
//
//nolint:gocritic // single-use parameter in API handler
func HandleCheckForUpdates(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received check for updates request")

	var params models.CheckForUpdatesParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		log.Warn().Err(err).Msg("invalid check for updates params")
		return nil, err
	}

	channel, err := updater.ParseChannel(params.Channel)
	if err != nil {
		return nil, validation.ErrInvalidParams
	}

	// the request context ends with the response
	go env.Updater.Check(env.State.GetContext(), channel)

	return nil, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleInstallUpdate(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received install update request")

	err := env.Updater.Install(env.Context)
	if errors.Is(err, updater.ErrNoPendingUpdate) {
		return nil, errors.New("no update has been downloaded")
	} else if err != nil {
		log.Error().Err(err).Msg("error installing update")
		return nil, errors.New("error installing update")
	}

	go env.Lifecycle.Relaunch(env.State.GetContext())
	return nil, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleRelaunch(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received relaunch request")
	go env.Lifecycle.Relaunch(env.State.GetContext())
	return nil, nil
}
