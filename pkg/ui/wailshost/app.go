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

package wailshost

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/lifecycle"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

const (
	// SingleInstanceID is shared by every launcher install so a second
	// start finds the running one.
	SingleInstanceID = "org.zaparoo.launcher"
	// IntroQueryParam tells the renderer whether to skip the intro.
	IntroQueryParam = "skip-intro-animation"
)

//go:embed all:frontend
var frontendFS embed.FS

// Hooks connect the native window events to the lifecycle manager.
type Hooks struct {
	// OnStartup runs once the runtime is up, before the renderer loads.
	OnStartup  func(ctx context.Context)
	OnDomReady func(ctx context.Context)
	// OnBeforeClose returns true to keep the window open.
	OnBeforeClose    func() bool
	OnClosed         func(ctx context.Context)
	OnSecondInstance func()
	OnShutdown       func(ctx context.Context)
}

type RunOptions struct {
	Hooks
	Display DisplayListener
	Clock   clockwork.Clock
	// Assets defaults to the embedded placeholder page.
	Assets                 fs.FS
	Bind                   []any
	DisableGPU             bool
	AllowMultipleInstances bool
	Debug                  bool
}

// Run blocks until the app quits.
func (h *Host) Run(opts RunOptions) error {
	app, err := h.appOptions(opts)
	if err != nil {
		return err
	}
	if err := wails.Run(app); err != nil {
		return fmt.Errorf("window host failed: %w", err)
	}
	return nil
}

func (h *Host) appOptions(opts RunOptions) (*options.App, error) {
	assets := opts.Assets
	if assets == nil {
		sub, err := fs.Sub(frontendFS, "frontend")
		if err != nil {
			return nil, fmt.Errorf("failed to load frontend assets: %w", err)
		}
		assets = sub
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	logLevel := logger.INFO
	if opts.Debug {
		logLevel = logger.DEBUG
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	layout := lifecycle.AdLayout(fallbackDisplay)

	app := &options.App{
		Title:       config.AppTitle,
		Width:       layout.Width,
		Height:      layout.Height,
		MinWidth:    layout.MinWidth,
		MinHeight:   layout.MinHeight,
		StartHidden: true,
		AssetServer: &assetserver.Options{
			Assets:     assets,
			Middleware: h.introMiddleware,
		},
		Logger:   zerologLogger{},
		LogLevel: logLevel,
		Bind:     opts.Bind,
		OnStartup: func(ctx context.Context) {
			h.startup(ctx)
			if opts.Display != nil {
				go newDisplayWatcher(clock, opts.Display, h.screens).Run(watchCtx)
			}
			if opts.OnStartup != nil {
				opts.OnStartup(ctx)
			}
		},
		OnDomReady: func(ctx context.Context) {
			if opts.OnDomReady != nil {
				opts.OnDomReady(ctx)
			}
		},
		OnBeforeClose: func(ctx context.Context) bool {
			return h.beforeClose(ctx, opts.Hooks)
		},
		OnShutdown: func(ctx context.Context) {
			stopWatch()
			h.mu.Lock()
			h.quitting = true
			h.mu.Unlock()
			if opts.OnShutdown != nil {
				opts.OnShutdown(ctx)
			}
		},
		Windows: &windows.Options{
			WebviewGpuIsDisabled: opts.DisableGPU,
		},
		Linux: &linux.Options{
			ProgramName:      config.AppName,
			WebviewGpuPolicy: linuxGPUPolicy(opts.DisableGPU),
		},
	}

	if !opts.AllowMultipleInstances {
		app.SingleInstanceLock = &options.SingleInstanceLock{
			UniqueId: SingleInstanceID,
			OnSecondInstanceLaunch: func(data options.SecondInstanceData) {
				log.Info().Strs("args", data.Args).Msg("second instance launched")
				if opts.OnSecondInstance != nil {
					opts.OnSecondInstance()
				}
			},
		}
	}

	return app, nil
}

// introMiddleware redirects the start page to carry the intro hint as a
// query parameter, which is where the renderer looks for it.
func (h *Host) introMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isStart := r.URL.Path == "/" || r.URL.Path == "/index.html"
		if !isStart || r.URL.Query().Has(IntroQueryParam) {
			next.ServeHTTP(w, r)
			return
		}

		q := r.URL.Query()
		q.Set(IntroQueryParam, strconv.FormatBool(h.skipIntroAnimation()))
		target := url.URL{Path: r.URL.Path, RawQuery: q.Encode()}
		http.Redirect(w, r, target.String(), http.StatusFound)
	})
}
