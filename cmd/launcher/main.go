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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/internal/telemetry"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/lifecycle"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/runtimepath"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/state"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/ui/dialogs"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/ui/wailshost"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/updater"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/worker"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run(helpers.ParseArgs(os.Args[1:])))
}

func run(args helpers.Args) (code int) {
	if args.Has(helpers.ArgVersion) {
		_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", config.AppName, config.AppVersion)
		return 0
	}

	devMode := os.Getenv(config.DevModeEnv) != ""
	userDataDir := helpers.UserDataDir(!devMode)
	// a data dir from an earlier run means the intro was already seen
	dataDirExisted := helpers.PathExists(userDataDir)

	var logWriters []io.Writer
	if devMode {
		logWriters = append(logWriters, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if err := helpers.InitLogging(userDataDir, logWriters); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		return 1
	}

	cfg, err := config.NewConfig(userDataDir, config.BaseDefaults)
	if err != nil {
		log.Error().Err(err).Msg("error loading config")
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	cfg.SetDebugLogging(cfg.DebugLogging() || devMode)

	bootUUID := uuid.New().String()
	err = telemetry.Init(telemetry.Options{
		Enabled:   cfg.ErrorReporting() && !args.Has(helpers.ArgDisableSentry),
		DeviceID:  cfg.DeviceID(),
		SessionID: bootUUID,
		Version:   config.AppVersion,
	})
	if err != nil {
		log.Warn().Err(err).Msg("error reporting unavailable")
	}
	defer telemetry.Close()

	defer func() {
		if r := recover(); r != nil {
			telemetry.CapturePanic(r)
			telemetry.Flush()
			log.Error().Interface("panic", r).Msg("launcher panicked")
			code = 1
		}
	}()

	log.Info().
		Str("version", config.AppVersion).
		Str("userData", userDataDir).
		Bool("dev", devMode).
		Msg("starting launcher")

	st, notifications := state.NewState(userDataDir, bootUUID)
	st.SetSkipIntroAnimation(dataDirExisted)

	resolver := runtimepath.NewResolver(afero.NewOsFs(), userDataDir)
	override := args.Lookup(helpers.ArgRuntimePath).ValueOr(os.Getenv(config.RuntimePathEnv))
	runtimePath, source, err := resolver.Resolve(override)
	if err != nil {
		log.Error().Err(err).Msg("failed to set up runtime path")
		telemetry.Capture(err)
		_, _ = fmt.Fprintf(os.Stderr, "Error creating runtime path: %v\n", err)
		return 1
	}
	st.SetRuntimePath(runtimePath)
	log.Info().Str("path", runtimePath).Stringer("source", source).Msg("runtime path resolved")

	if args.Has(helpers.ArgDisableGPU) || cfg.DisableGPU() || wailshost.GPUUnsupported(st.GetContext()) {
		st.SetGPUDisabled(true)
	}
	if args.Has(helpers.ArgEnableAccessibility) {
		log.Info().Msg("accessibility requested, the webview enables it on demand")
	}

	exec := &command.RealExecutor{}
	host := wailshost.New()
	manager := lifecycle.NewManager(lifecycle.Options{
		Host:   host,
		State:  st,
		Config: cfg,
	})

	updaterOpts := updater.Options{
		Notifications: st.Notifications,
		Config:        cfg,
		Version:       config.AppVersion,
		DownloadDir:   filepath.Join(userDataDir, config.UpdatesDir),
	}
	if backend, err := updater.NewSelfUpdateBackend(); err != nil {
		log.Error().Err(err).Msg("failed to set up updates")
	} else {
		updaterOpts.Backend = backend
	}
	upd := updater.NewUpdater(updaterOpts)
	manager.SetUpdater(upd)

	server := api.NewServer(api.Options{
		Config:    cfg,
		State:     st,
		Resolver:  resolver,
		Lifecycle: manager,
		Updater:   upd,
		Dialogs:   dialogs.NewNative(),
		Command:   exec,
	})
	server.AddEmitter(host)

	supervisor := worker.NewSupervisor(exec, clockwork.NewRealClock(), telemetry.Capture)
	launch := supervisor.Launch(worker.LaunchOptions{
		OnEvent:     manager.HandleWorkerEvent,
		RuntimePath: runtimePath,
		BaseAPI:     baseAPI(args, devMode),
		DevMode:     devMode,
	})
	server.SetLaunch(launch)
	manager.SetLaunch(launch)

	ln, err := server.Listen(cfg.BridgePort())
	if err != nil {
		log.Error().Err(err).Msg("failed to start bridge")
		launch.Kill()
		return 1
	}

	g, gctx := errgroup.WithContext(st.GetContext())
	g.Go(func() error {
		return server.Serve(gctx, ln, notifications)
	})

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info().Stringer("signal", sig).Msg("signal received, quitting")
			manager.Shutdown(st.GetContext())
		case <-st.GetContext().Done():
		}
	}()

	waitGPUDecision(clockwork.NewRealClock(), st, launch, config.GPUDecisionTimeout)
	st.SetHostStarted()

	err = host.Run(wailshost.RunOptions{
		Hooks: wailshost.Hooks{
			OnStartup: func(context.Context) {
				if _, err := manager.CreateWindow(st.GetContext()); err != nil {
					log.Error().Err(err).Msg("failed to create window")
				}
			},
			OnDomReady: func(context.Context) {
				manager.WindowReady()
			},
			OnBeforeClose: manager.OnCloseRequested,
			OnClosed: func(context.Context) {
				manager.WindowClosed(st.GetContext())
			},
			OnSecondInstance: func() {
				manager.OnSecondInstance(st.GetContext())
			},
			OnShutdown: func(context.Context) {
				manager.Shutdown(st.GetContext())
				launch.Kill()
			},
		},
		Display:                manager,
		Bind:                   []any{wailshost.NewBridge(st.GetContext(), server)},
		DisableGPU:             st.GPUDisabled(),
		AllowMultipleInstances: args.Has(helpers.ArgAllowMultipleInstances),
		Debug:                  cfg.DebugLogging(),
	})
	if err != nil {
		log.Error().Err(err).Msg("window host exited with error")
		code = 1
	}

	launch.Kill()
	st.StopService()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("bridge server error")
	}

	if host.RelaunchRequested() {
		// a migrated runtime dir is found through the override file
		if err := helpers.Relaunch(context.Background(), exec, args.Without(helpers.ArgRuntimePath)); err != nil {
			log.Error().Err(err).Msg("failed to relaunch")
			return 1
		}
	}

	log.Info().Msg("launcher stopped")
	return code
}

// baseAPI returns the backend API override passed to the worker. The
// environment variable is only honoured in dev mode.
func baseAPI(args helpers.Args, devMode bool) string {
	fallback := ""
	if devMode {
		fallback = os.Getenv(config.BaseAPIEnv)
	}
	return args.Lookup(helpers.ArgOverrideBaseAPI).ValueOr(fallback)
}

// waitGPUDecision holds back the native window until the worker has said
// whether to disable the GPU, the launch has settled or timeout passed. A
// decision after that only applies on the next start.
func waitGPUDecision(clock clockwork.Clock, st *state.State, launch *worker.Handle, timeout time.Duration) {
	start := clock.Now()
	select {
	case <-st.GPUDecided():
		log.Debug().Bool("disabled", st.GPUDisabled()).Msg("gpu mode decided")
	case <-launch.Done():
		log.Debug().Msg("worker launch settled before gpu mode was reported")
	case <-clock.After(timeout):
		log.Debug().Msg("timed out waiting for gpu mode")
	case <-st.GetContext().Done():
	}
	log.Debug().Dur("waited", clock.Since(start)).Msg("continuing startup")
}
