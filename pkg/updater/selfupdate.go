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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/creativeprojects/go-selfupdate/update"
	"github.com/rs/zerolog/log"
)

// ReleaseRepository is where launcher releases are published.
const ReleaseRepository = "ZaparooProject/zaparoo-launcher"

var errUnknownRelease = errors.New("release was not found by this backend")

// channelSource hides releases from channels less stable than the
// selected one.
type channelSource struct {
	selfupdate.Source
	channel Channel
}

func (s channelSource) ListReleases(
	ctx context.Context,
	repository selfupdate.Repository,
) ([]selfupdate.SourceRelease, error) {
	rels, err := s.Source.ListReleases(ctx, repository)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}

	filtered := make([]selfupdate.SourceRelease, 0, len(rels))
	for _, rel := range rels {
		if InferChannel(rel.GetTagName()).Rank() <= s.channel.Rank() {
			filtered = append(filtered, rel)
		}
	}
	return filtered, nil
}

// SelfUpdateBackend finds and installs releases with go-selfupdate.
type SelfUpdateBackend struct {
	source  selfupdate.Source
	repo    selfupdate.Repository
	goos    string
	goarch  string
	exePath string
}

// NewSelfUpdateBackend uses the GitHub releases of ReleaseRepository.
func NewSelfUpdateBackend() (*SelfUpdateBackend, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create release source: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	logger := log.With().Str("component", "selfupdate").Logger()
	selfupdate.SetLogger(&logger)

	return newSelfUpdateBackend(source, runtime.GOOS, runtime.GOARCH, exe), nil
}

func newSelfUpdateBackend(source selfupdate.Source, goos, goarch, exePath string) *SelfUpdateBackend {
	return &SelfUpdateBackend{
		source:  source,
		repo:    selfupdate.ParseSlug(ReleaseRepository),
		goos:    goos,
		goarch:  goarch,
		exePath: exePath,
	}
}

func (b *SelfUpdateBackend) Latest(ctx context.Context, opts LatestOptions) (*Release, bool, error) {
	current, err := semver.NewVersion(opts.CurrentVersion)
	if err != nil {
		return nil, false, fmt.Errorf("invalid current version %q: %w", opts.CurrentVersion, err)
	}

	up, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     channelSource{Source: b.source, channel: opts.Channel},
		OS:         b.goos,
		Arch:       b.goarch,
		Prerelease: opts.Channel != ChannelStable,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create updater: %w", err)
	}

	rel, found, err := up.DetectLatest(ctx, b.repo)
	if err != nil {
		return nil, false, fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	latest, err := semver.NewVersion(rel.Version())
	if err != nil {
		return nil, false, fmt.Errorf("invalid release version %q: %w", rel.Version(), err)
	}
	switch {
	case latest.Equal(current):
		return nil, false, nil
	case latest.LessThan(current) && !opts.AllowDowngrade:
		log.Debug().
			Str("latest", latest.String()).
			Str("current", current.String()).
			Msg("latest release is older, downgrade not allowed")
		return nil, false, nil
	}

	return &Release{
		ref:         rel,
		Version:     rel.Version(),
		Name:        rel.Name,
		Notes:       rel.ReleaseNotes,
		PublishedAt: rel.PublishedAt,
		Size:        int64(rel.AssetByteSize),
	}, true, nil
}

func sourceRelease(rel *Release) (*selfupdate.Release, error) {
	sr, ok := rel.ref.(*selfupdate.Release)
	if !ok || sr == nil {
		return nil, errUnknownRelease
	}
	return sr, nil
}

func (b *SelfUpdateBackend) Download(ctx context.Context, rel *Release, w io.Writer) error {
	sr, err := sourceRelease(rel)
	if err != nil {
		return err
	}

	r, err := b.source.DownloadReleaseAsset(ctx, sr, sr.AssetID)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", sr.AssetName, err)
	}
	defer func(r io.ReadCloser) {
		if closeErr := r.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close release download")
		}
	}(r)

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("failed to read %s: %w", sr.AssetName, err)
	}
	return nil
}

func (b *SelfUpdateBackend) Apply(_ context.Context, rel *Release, asset io.Reader) error {
	sr, err := sourceRelease(rel)
	if err != nil {
		return err
	}

	cmd, err := selfupdate.DecompressCommand(asset, sr.AssetName, filepath.Base(b.exePath), b.goos, b.goarch)
	if err != nil {
		return fmt.Errorf("failed to decompress %s: %w", sr.AssetName, err)
	}

	err = update.Apply(cmd, update.Options{TargetPath: b.exePath})
	if err != nil {
		return fmt.Errorf("failed to replace executable: %w", err)
	}
	return nil
}
