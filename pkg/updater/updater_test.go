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

package updater

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const downloadDir = "/data/updates"

type fakeBackend struct {
	latestErr   error
	downloadErr error
	release     *Release
	latestOpts  []LatestOptions
	applied     [][]byte
	chunks      [][]byte
	downloads   int
}

func (b *fakeBackend) Latest(_ context.Context, opts LatestOptions) (*Release, bool, error) {
	b.latestOpts = append(b.latestOpts, opts)
	if b.latestErr != nil {
		return nil, false, b.latestErr
	}
	return b.release, b.release != nil, nil
}

func (b *fakeBackend) Download(_ context.Context, _ *Release, w io.Writer) error {
	b.downloads++
	for _, c := range b.chunks {
		if _, err := w.Write(c); err != nil {
			return err
		}
	}
	return b.downloadErr
}

func (b *fakeBackend) Apply(_ context.Context, _ *Release, asset io.Reader) error {
	data, err := io.ReadAll(asset)
	if err != nil {
		return err
	}
	b.applied = append(b.applied, data)
	return nil
}

func chunks(n, size int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = bytes.Repeat([]byte{byte('a' + i)}, size)
	}
	return out
}

type testEnv struct {
	backend *fakeBackend
	fs      afero.Fs
	ns      chan models.Notification
	u       *Updater
}

func newTestEnv(version string) *testEnv {
	env := &testEnv{
		backend: &fakeBackend{},
		fs:      afero.NewMemMapFs(),
		ns:      make(chan models.Notification, 100),
	}
	env.u = NewUpdater(Options{
		Backend:       env.backend,
		Clock:         clockwork.NewFakeClock(),
		Fs:            env.fs,
		Notifications: env.ns,
		Version:       version,
		DownloadDir:   downloadDir,
	})
	return env
}

func (e *testEnv) methods() []string {
	var out []string
	for {
		select {
		case n := <-e.ns:
			out = append(out, n.Method)
		default:
			return out
		}
	}
}

func (e *testEnv) downloadFiles(t *testing.T) []string {
	t.Helper()
	exists, err := afero.DirExists(e.fs, downloadDir)
	require.NoError(t, err)
	if !exists {
		return nil
	}
	matches, err := afero.Glob(e.fs, filepath.Join(downloadDir, "*"))
	require.NoError(t, err)
	return matches
}

func TestCheckSkipsDevelopmentBuilds(t *testing.T) {
	t.Parallel()

	for _, version := range []string{"DEVELOPMENT", "1.0.0-snapshot-1a2b3c"} {
		env := newTestEnv(version)
		env.backend.release = &Release{Version: "9.9.9"}

		env.u.Check(context.Background(), ChannelStable)

		assert.Empty(t, env.backend.latestOpts, version)
		assert.Empty(t, env.methods(), version)
	}
}

func TestCheckNotAvailable(t *testing.T) {
	t.Parallel()

	env := newTestEnv("1.2.0")
	env.u.Check(context.Background(), ChannelStable)

	n := <-env.ns
	assert.Equal(t, models.NotificationUpdateNotAvailable, n.Method)
	assert.JSONEq(t, `{"version":"1.2.0"}`, string(n.Params))
	assert.Empty(t, env.methods())
	assert.Nil(t, env.u.Pending())
}

func TestCheckDownloadsUpdate(t *testing.T) {
	t.Parallel()

	env := newTestEnv("1.2.0")
	env.backend.release = &Release{
		Version:     "1.3.0",
		Name:        "Launcher 1.3.0",
		Notes:       "fixes",
		PublishedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Size:        100,
	}
	env.backend.chunks = chunks(4, 25)

	env.u.Check(context.Background(), ChannelStable)

	available := <-env.ns
	assert.Equal(t, models.NotificationUpdateAvailable, available.Method)
	assert.JSONEq(t, `{
		"version": "1.3.0",
		"releaseName": "Launcher 1.3.0",
		"releaseNotes": "fixes",
		"releaseDate": "2026-03-01T12:00:00Z"
	}`, string(available.Params))

	for _, want := range []int{25, 50, 75, 100} {
		n := <-env.ns
		require.Equal(t, models.NotificationDownloadProgress, n.Method)
		assert.JSONEq(t, `{
			"percent": `+strconv.Itoa(want)+`,
			"bytesPerSecond": 0,
			"transferred": `+strconv.Itoa(want)+`,
			"total": 100
		}`, string(n.Params))
	}

	downloaded := <-env.ns
	assert.Equal(t, models.NotificationUpdateDownloaded, downloaded.Method)
	assert.Empty(t, env.methods())

	require.NotNil(t, env.u.Pending())
	assert.Equal(t, "1.3.0", env.u.Pending().Version)
	assert.Len(t, env.downloadFiles(t), 1)
}

func TestCheckDownloadWithUnknownSize(t *testing.T) {
	t.Parallel()

	env := newTestEnv("1.2.0")
	env.backend.release = &Release{Version: "1.3.0"}
	env.backend.chunks = chunks(3, 10)

	env.u.Check(context.Background(), ChannelStable)

	assert.Equal(t, []string{
		models.NotificationUpdateAvailable,
		models.NotificationDownloadProgress,
		models.NotificationDownloadProgress,
		models.NotificationUpdateDownloaded,
	}, env.methods())
}

func TestCheckSkipsDownloadWhenAlreadyPending(t *testing.T) {
	t.Parallel()

	env := newTestEnv("1.2.0")
	env.backend.release = &Release{Version: "1.3.0", Size: 10}
	env.backend.chunks = chunks(1, 10)

	env.u.Check(context.Background(), ChannelStable)
	env.methods()
	env.u.Check(context.Background(), ChannelStable)

	assert.Equal(t, 1, env.backend.downloads)
	assert.Equal(t, []string{
		models.NotificationUpdateAvailable,
		models.NotificationUpdateDownloaded,
	}, env.methods())
}

func TestCheckReplacesOlderPendingDownload(t *testing.T) {
	t.Parallel()

	env := newTestEnv("1.2.0")
	env.backend.release = &Release{Version: "1.3.0", Size: 10}
	env.backend.chunks = chunks(1, 10)
	env.u.Check(context.Background(), ChannelBeta)

	env.backend.release = &Release{Version: "1.4.0-beta.1", Size: 10}
	env.u.Check(context.Background(), ChannelBeta)

	assert.Equal(t, "1.4.0-beta.1", env.u.Pending().Version)
	assert.Len(t, env.downloadFiles(t), 1)
}

func TestCheckErrorsAreNotReported(t *testing.T) {
	t.Parallel()

	env := newTestEnv("1.2.0")
	env.backend.latestErr = errors.New("rate limited")

	env.u.Check(context.Background(), ChannelStable)
	assert.Empty(t, env.methods())
}

func TestCheckDownloadFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv("1.2.0")
	env.backend.release = &Release{Version: "1.3.0", Size: 100}
	env.backend.chunks = chunks(1, 10)
	env.backend.downloadErr = errors.New("connection reset")

	env.u.Check(context.Background(), ChannelStable)

	assert.Equal(t, []string{
		models.NotificationUpdateAvailable,
		models.NotificationDownloadProgress,
	}, env.methods())
	assert.Nil(t, env.u.Pending())
	assert.Empty(t, env.downloadFiles(t))
}

func TestCheckPassesChannelOptions(t *testing.T) {
	t.Parallel()

	env := newTestEnv("1.2.0-beta.4")
	env.u.Check(context.Background(), ChannelStable)
	env.u.Check(context.Background(), ChannelAlpha)

	assert.Equal(t, []LatestOptions{
		{Channel: ChannelStable, CurrentVersion: "1.2.0-beta.4", AllowDowngrade: true},
		{Channel: ChannelAlpha, CurrentVersion: "1.2.0-beta.4", AllowDowngrade: false},
	}, env.backend.latestOpts)
}

func TestCheckSavesChannel(t *testing.T) {
	t.Setenv(config.CfgEnv, "")

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	env := newTestEnv("1.2.0")
	env.u.cfg = cfg
	env.u.Check(context.Background(), ChannelBeta)

	assert.Equal(t, "beta", cfg.UpdateChannel())
	require.NoError(t, cfg.Load())
	assert.Equal(t, "beta", cfg.UpdateChannel())
}

func TestInstall(t *testing.T) {
	t.Parallel()

	env := newTestEnv("1.2.0")
	env.backend.release = &Release{Version: "1.3.0", Size: 4}
	env.backend.chunks = [][]byte{[]byte("data")}
	env.u.Check(context.Background(), ChannelStable)

	require.NoError(t, env.u.Install(context.Background()))

	assert.Equal(t, [][]byte{[]byte("data")}, env.backend.applied)
	assert.Nil(t, env.u.Pending())
	assert.Empty(t, env.downloadFiles(t))

	err := env.u.Install(context.Background())
	require.ErrorIs(t, err, ErrNoPendingUpdate)
}

func TestInstallOnQuit(t *testing.T) {
	t.Parallel()

	env := newTestEnv("1.2.0")
	env.u.InstallOnQuit()
	assert.Empty(t, env.backend.applied)

	env.backend.release = &Release{Version: "1.3.0", Size: 4}
	env.backend.chunks = [][]byte{[]byte("data")}
	env.u.Check(context.Background(), ChannelStable)

	env.u.InstallOnQuit()
	env.u.InstallOnQuit()
	assert.Len(t, env.backend.applied, 1)
}
