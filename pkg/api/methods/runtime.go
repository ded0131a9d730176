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
	"context"
	"fmt"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/notifications"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/validation"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/runtimepath"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/worker"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleGetUserData(env requests.RequestEnv) (any, error) {
	return env.State.UserDataDir(), nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleGetInitialRuntimePath(env requests.RequestEnv) (any, error) {
	return env.Resolver.InitialPath(), nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleGetRuntimePath(env requests.RequestEnv) (any, error) {
	return env.State.RuntimePath(), nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleValidateRuntimePath(env requests.RequestEnv) (any, error) {
	var params models.ValidateRuntimePathParams
	if err := validation.UnmarshalOptional(env.Params, &params); err != nil {
		return nil, err
	}

	candidate := ""
	if params.Path != nil {
		candidate = *params.Path
	}
	return env.Resolver.Validate(env.State.RuntimePath(), candidate), nil
}

// HandleChangeRuntimePath moves the worker's data to a new directory and
// relaunches so the worker starts from there. Progress is pushed for every
// file copied and removed. A failed migration returns the error and skips
// the relaunch.
//
//nolint:gocritic // single-use parameter in API handler
func HandleChangeRuntimePath(env requests.RequestEnv) (any, error) {
	var params models.ChangeRuntimePathParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		log.Warn().Err(err).Msg("invalid change runtime path params")
		return nil, err
	}

	current := env.State.RuntimePath()
	if params.Path == current {
		return nil, nil
	}

	log.Info().
		Str("from", current).
		Str("to", params.Path).
		Msg("received change runtime path request")

	if err := env.Resolver.EnsureDir(params.Path); err != nil {
		log.Error().Err(err).Msg("error creating new runtime path")
		return nil, fmt.Errorf("error creating new runtime path: %w", err)
	}

	stopWorker(env.Context, env.Launch)

	err := env.Resolver.Migrate(current, params.Path, func(p runtimepath.Progress) {
		err := notifications.ChangeRuntimePathProgress(env.Context, env.State.Notifications,
			models.RuntimePathProgress{
				Action:      p.Action,
				CurrentName: p.CurrentName,
				Current:     p.Current,
				Total:       p.Total,
			})
		if err != nil {
			log.Warn().Err(err).Msg("runtime path progress not delivered")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("error migrating runtime path")
		return nil, fmt.Errorf("error migrating runtime path: %w", err)
	}

	go env.Lifecycle.Relaunch(env.State.GetContext())
	return nil, nil
}

// stopWorker kills the worker and waits for it to exit so its files can be
// moved. It gives up after WorkerStopTimeout.
func stopWorker(ctx context.Context, h *worker.Handle) {
	if h == nil {
		return
	}
	h.Kill()

	ctx, cancel := context.WithTimeout(ctx, config.WorkerStopTimeout)
	defer cancel()

	select {
	case <-h.Exited():
	case <-ctx.Done():
		log.Warn().Msg("worker did not exit in time, migrating anyway")
	}
}

// CoreModuleResponse converts a launch result to what the renderer
// expects.
func CoreModuleResponse(r worker.Result) models.CoreModuleResponse {
	if r.Type == worker.ResultSuccess {
		port := r.Port
		return models.CoreModuleResponse{
			Type: models.CoreModuleSuccess,
			Port: &port,
		}
	}

	logs := make([]models.CoreModuleLog, 0, len(r.Logs))
	for _, l := range r.Logs {
		logs = append(logs, models.CoreModuleLog{
			Type:    string(l.Type),
			Message: l.Message,
		})
	}
	return models.CoreModuleResponse{
		Type: models.CoreModuleError,
		Logs: logs,
	}
}

// HandleGetCoreModule waits for the worker launch to settle. It never
// fails: problems are reported as an error result instead. The wait uses
// the application context since a launch can outlast the request timeout.
//
//nolint:gocritic // single-use parameter in API handler
func HandleGetCoreModule(env requests.RequestEnv) (any, error) {
	if env.Launch == nil {
		return CoreModuleResponse(worker.Result{
			Type: worker.ResultError,
			Logs: []worker.LogEntry{{Type: worker.LogError, Message: "core module was not launched"}},
		}), nil
	}

	r, err := env.Launch.Wait(env.State.GetContext())
	if err != nil {
		return CoreModuleResponse(worker.Result{
			Type: worker.ResultError,
			Logs: append(env.Launch.Logs(), worker.LogEntry{
				Type:    worker.LogError,
				Message: "launcher is shutting down",
			}),
		}), nil
	}
	return CoreModuleResponse(r), nil
}
