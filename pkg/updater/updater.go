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

// Package updater checks for, downloads and installs launcher releases.
package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/notifications"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrNoPendingUpdate = errors.New("no update has been downloaded")

// Release is an update found by a Backend. The backend may keep its own
// data in ref.
type Release struct {
	PublishedAt time.Time
	ref         any
	Version     string
	Name        string
	Notes       string
	Size        int64
}

type LatestOptions struct {
	Channel        Channel
	CurrentVersion string
	AllowDowngrade bool
}

// Backend talks to wherever releases are published.
type Backend interface {
	// Latest returns the release the running build should update to, or
	// false if it's already up to date.
	Latest(ctx context.Context, opts LatestOptions) (*Release, bool, error)
	Download(ctx context.Context, rel *Release, w io.Writer) error
	// Apply replaces the running executable with the downloaded asset.
	Apply(ctx context.Context, rel *Release, asset io.Reader) error
}

type Options struct {
	Backend       Backend
	Clock         clockwork.Clock
	Fs            afero.Fs
	Notifications chan<- models.Notification
	// Config is optional, the selected channel is saved to it.
	Config      *config.Instance
	Version     string
	DownloadDir string
}

type pendingUpdate struct {
	release *Release
	path    string
}

type Updater struct {
	backend     Backend
	clock       clockwork.Clock
	fs          afero.Fs
	ns          chan<- models.Notification
	cfg         *config.Instance
	pending     *pendingUpdate
	version     string
	downloadDir string
	mu          syncutil.Mutex
	checking    bool
}

func NewUpdater(opts Options) *Updater {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Updater{
		backend:     opts.Backend,
		clock:       clock,
		fs:          fs,
		ns:          opts.Notifications,
		cfg:         opts.Config,
		version:     opts.Version,
		downloadDir: opts.DownloadDir,
	}
}

func releaseInfo(rel *Release) models.UpdateInfo {
	info := models.UpdateInfo{
		Version:      rel.Version,
		ReleaseName:  rel.Name,
		ReleaseNotes: rel.Notes,
	}
	if !rel.PublishedAt.IsZero() {
		info.ReleaseDate = rel.PublishedAt.UTC().Format(time.RFC3339)
	}
	return info
}

// Check looks for an update on channel and downloads it straight away.
// Results are only reported as notifications, failures are logged.
func (u *Updater) Check(ctx context.Context, channel Channel) {
	if IsDevelopmentBuild(u.version) {
		log.Debug().Str("version", u.version).Msg("development build, skipping update check")
		return
	}
	if u.backend == nil {
		log.Warn().Msg("no update backend, skipping update check")
		return
	}

	u.mu.Lock()
	if u.checking {
		u.mu.Unlock()
		log.Debug().Msg("update check already running")
		return
	}
	u.checking = true
	u.mu.Unlock()
	defer func() {
		u.mu.Lock()
		u.checking = false
		u.mu.Unlock()
	}()

	u.saveChannel(channel)

	opts := LatestOptions{
		Channel:        channel,
		CurrentVersion: u.version,
		AllowDowngrade: AllowDowngrade(channel, u.version),
	}
	log.Info().
		Str("channel", string(channel)).
		Bool("allowDowngrade", opts.AllowDowngrade).
		Msg("checking for updates")

	rel, found, err := u.backend.Latest(ctx, opts)
	if err != nil {
		log.Error().Err(err).Msg("failed to check for updates")
		return
	}
	if !found {
		log.Info().Msg("no update available")
		notifications.UpdateNotAvailable(u.ns, models.UpdateInfo{Version: u.version})
		return
	}

	info := releaseInfo(rel)
	log.Info().Str("version", rel.Version).Msg("update available")
	notifications.UpdateAvailable(u.ns, info)

	if p := u.Pending(); p != nil && p.Version == rel.Version {
		notifications.UpdateDownloaded(u.ns, info)
		return
	}

	path, err := u.download(ctx, rel)
	if err != nil {
		log.Error().Err(err).Str("version", rel.Version).Msg("failed to download update")
		return
	}

	u.mu.Lock()
	old := u.pending
	u.pending = &pendingUpdate{release: rel, path: path}
	u.mu.Unlock()
	if old != nil {
		u.removeDownload(old.path)
	}

	log.Info().Str("version", rel.Version).Msg("update downloaded")
	notifications.UpdateDownloaded(u.ns, info)
}

func (u *Updater) saveChannel(channel Channel) {
	if u.cfg == nil || u.cfg.UpdateChannel() == string(channel) {
		return
	}
	u.cfg.SetUpdateChannel(string(channel))
	if err := u.cfg.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to save update channel")
	}
}

// Pending returns the downloaded release waiting to be installed.
func (u *Updater) Pending() *Release {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pending == nil {
		return nil
	}
	return u.pending.release
}

func (u *Updater) takePending() *pendingUpdate {
	u.mu.Lock()
	defer u.mu.Unlock()
	p := u.pending
	u.pending = nil
	return p
}

func (u *Updater) download(ctx context.Context, rel *Release) (string, error) {
	if err := u.fs.MkdirAll(u.downloadDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	f, err := afero.TempFile(u.fs, u.downloadDir, "update-*")
	if err != nil {
		return "", fmt.Errorf("failed to create download file: %w", err)
	}

	pw := newProgressWriter(u.clock, u.ns, rel.Size)
	err = u.backend.Download(ctx, rel, io.MultiWriter(f, pw))
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close download file: %w", closeErr)
	}
	if err != nil {
		u.removeDownload(f.Name())
		return "", fmt.Errorf("failed to download %s: %w", rel.Version, err)
	}
	pw.finish()

	return f.Name(), nil
}

func (u *Updater) removeDownload(path string) {
	if err := u.fs.Remove(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove update download")
	}
}

func (u *Updater) apply(ctx context.Context, p *pendingUpdate) error {
	defer u.removeDownload(p.path)

	f, err := u.fs.Open(p.path)
	if err != nil {
		return fmt.Errorf("failed to open update download: %w", err)
	}
	defer func(f afero.File) {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close update download")
		}
	}(f)

	if err := u.backend.Apply(ctx, p.release, f); err != nil {
		return fmt.Errorf("failed to apply update %s: %w", p.release.Version, err)
	}
	log.Info().Str("version", p.release.Version).Msg("update installed")
	return nil
}

// Install applies the downloaded update now. The caller relaunches.
func (u *Updater) Install(ctx context.Context) error {
	p := u.takePending()
	if p == nil {
		return ErrNoPendingUpdate
	}
	return u.apply(ctx, p)
}

// InstallOnQuit applies a downloaded update while the launcher is quitting.
func (u *Updater) InstallOnQuit() {
	p := u.takePending()
	if p == nil {
		return
	}
	if err := u.apply(context.Background(), p); err != nil {
		log.Error().Err(err).Msg("failed to install update on quit")
	}
}
