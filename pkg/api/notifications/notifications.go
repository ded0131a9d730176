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

// Package notifications queues push notifications for the renderer. Most
// sends never block: a full channel drops the notification with a warning.
// Migration progress is counted by the renderer, so it waits for room
// instead.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/rs/zerolog/log"
)

func newNotification(method string, payload any) (models.Notification, error) {
	n := models.Notification{Method: method}
	if payload == nil {
		return n, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return n, fmt.Errorf("failed to marshal %s notification: %w", method, err)
	}
	n.Params = data
	return n, nil
}

func sendNotification(ns chan<- models.Notification, method string, payload any) {
	n, err := newNotification(method, payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to build notification")
		return
	}

	select {
	case ns <- n:
	default:
		log.Warn().Str("method", method).Msg("notification channel full, dropping notification")
	}
}

// sendNotificationWait blocks until the notification is queued or ctx is
// done.
func sendNotificationWait(
	ctx context.Context,
	ns chan<- models.Notification,
	method string,
	payload any,
) error {
	n, err := newNotification(method, payload)
	if err != nil {
		return err
	}

	select {
	case ns <- n:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("queueing %s notification: %w", method, ctx.Err())
	}
}

func UpdateAvailable(ns chan<- models.Notification, info models.UpdateInfo) {
	sendNotification(ns, models.NotificationUpdateAvailable, info)
}

func UpdateNotAvailable(ns chan<- models.Notification, info models.UpdateInfo) {
	sendNotification(ns, models.NotificationUpdateNotAvailable, info)
}

func DownloadProgress(ns chan<- models.Notification, progress models.DownloadProgress) {
	sendNotification(ns, models.NotificationDownloadProgress, progress)
}

func UpdateDownloaded(ns chan<- models.Notification, info models.UpdateInfo) {
	sendNotification(ns, models.NotificationUpdateDownloaded, info)
}

// ChangeRuntimePathProgress waits for room in the queue so every step of a
// migration reaches the renderer in order.
func ChangeRuntimePathProgress(
	ctx context.Context,
	ns chan<- models.Notification,
	progress models.RuntimePathProgress,
) error {
	return sendNotificationWait(ctx, ns, models.NotificationChangeRuntimePathProgress, progress)
}

func ShowAppCloseWarning(ns chan<- models.Notification) {
	sendNotification(ns, models.NotificationShowAppCloseWarning, nil)
}

func AdSizeChanged(ns chan<- models.Notification, size models.AdSizeResponse) {
	sendNotification(ns, models.NotificationAdSizeChanged, size)
}
