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

// Package worker spawns the core_module backend and decodes the line
// protocol it writes on stdout.
package worker

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	BinaryBaseName = "core_module"
	// maxLineSize allows for long stack traces on a single line.
	maxLineSize = 1024 * 1024
)

var ErrStartTimeout = errors.New("core module took too long to start")

// BinaryName returns the worker executable name for goos.
func BinaryName(goos string) string {
	if goos == "windows" {
		return BinaryBaseName + ".exe"
	}
	return BinaryBaseName
}

// DefaultBinaryDir is where packaged builds ship the worker.
func DefaultBinaryDir() string {
	return filepath.Join(helpers.ExeDir(), "resources", "binaries")
}

// EventHandler receives every protocol event except status lines, in the
// order the worker wrote them. It's called from the stdout reader so it
// must not block for long.
type EventHandler func(Event)

type LaunchOptions struct {
	OnEvent     EventHandler
	RuntimePath string
	BaseAPI     string
	// BinaryDir defaults to DefaultBinaryDir.
	BinaryDir string
	// Env defaults to the launcher's environment.
	Env     []string
	DevMode bool
}

type Supervisor struct {
	exec    command.Executor
	clock   clockwork.Clock
	capture func(error)
	timeout time.Duration
}

// NewSupervisor creates a supervisor. capture receives launch failures
// which should be reported to error telemetry and may be nil.
func NewSupervisor(
	exec command.Executor,
	clock clockwork.Clock,
	capture func(error),
) *Supervisor {
	if capture == nil {
		capture = func(error) {}
	}
	return &Supervisor{
		exec:    exec,
		clock:   clock,
		capture: capture,
		timeout: config.WorkerStartTimeout,
	}
}

// Launch starts the worker and returns immediately. The handle resolves
// once the worker reports its port, exits, fails to spawn or doesn't start
// within the startup timeout.
func (s *Supervisor) Launch(opts LaunchOptions) *Handle {
	h := newHandle()

	if opts.DevMode {
		log.Info().Int("port", config.DevWorkerPort).Msg("dev mode, using external worker")
		h.mu.Lock()
		h.port = config.DevWorkerPort
		h.started = true
		h.mu.Unlock()
		h.resolve(Result{Type: ResultSuccess, Port: config.DevWorkerPort})
		h.markExited()
		return h
	}

	binDir := opts.BinaryDir
	if binDir == "" {
		binDir = DefaultBinaryDir()
	}
	binPath := filepath.Join(binDir, BinaryName(runtime.GOOS))

	args := []string{"--runtime_path", opts.RuntimePath}
	if opts.BaseAPI != "" {
		args = append(args, "--base_api", opts.BaseAPI)
	}

	env := opts.Env
	if env == nil {
		env = os.Environ()
	}
	env = append(env[:len(env):len(env)], "RUST_BACKTRACE=full")

	log.Info().Str("path", binPath).Strs("args", args).Msg("spawning worker")

	proc, err := s.exec.Spawn(command.SpawnOptions{
		Name:       binPath,
		Args:       args,
		Env:        env,
		HideWindow: true,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to spawn worker")
		h.appendLog(LogError, err.Error())
		h.resolve(Result{Type: ResultError})
		h.markExited()
		return h
	}

	h.mu.Lock()
	h.proc = proc
	h.mu.Unlock()
	log.Info().Int("pid", proc.Pid()).Msg("worker spawned")

	timer := s.clock.AfterFunc(s.timeout, func() {
		s.onTimeout(h)
	})

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		s.readStdout(h, proc.Stdout(), opts.OnEvent)
	}()
	go func() {
		defer readers.Done()
		s.readStderr(h, proc.Stderr())
	}()

	go func() {
		// streams are drained before Wait so no output is lost
		readers.Wait()
		code, err := proc.Wait()
		timer.Stop()
		defer h.markExited()

		if err != nil {
			log.Error().Err(err).Msg("failed waiting for worker")
			h.appendLog(LogError, err.Error())
			h.resolve(Result{Type: ResultError})
			return
		}

		log.Info().Int("code", code).Msg("worker exited")
		if code != 0 {
			h.resolve(Result{Type: ResultError})
			return
		}
		// exiting cleanly before reporting a port still counts as success
		h.resolve(Result{Type: ResultSuccess, Port: 0})
	}()

	return h
}

func (s *Supervisor) onTimeout(h *Handle) {
	h.mu.Lock()
	skip := h.started || h.killed
	h.mu.Unlock()
	if skip {
		return
	}

	select {
	case <-h.Done():
		return
	default:
	}

	log.Error().Dur("timeout", s.timeout).Msg("worker took too long to start")
	s.capture(ErrStartTimeout)
	h.resolve(Result{Type: ResultError})
}

func (*Supervisor) readStdout(h *Handle, r io.Reader, onEvent EventHandler) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		log.Debug().Str("worker", "stdout").Msg(line)

		switch ev := ParseLine(line).(type) {
		case StatusEvent:
			handleStatus(h, ev)
		case LogLine:
			h.appendLog(LogInfo, ev.Text)
		default:
			if onEvent != nil {
				onEvent(ev)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("error reading worker stdout")
		// keep the pipe drained so the worker can't block on a full buffer
		_, _ = io.Copy(io.Discard, r)
	}
}

func handleStatus(h *Handle, ev StatusEvent) {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		log.Debug().Int("port", ev.Port).Msg("ignoring repeated worker status")
		return
	}
	h.started = true
	h.port = ev.Port
	h.mu.Unlock()

	log.Info().Int("port", ev.Port).Str("state", ev.State).Msg("worker started")
	h.resolve(Result{Type: ResultSuccess, Port: ev.Port})
}

func (*Supervisor) readStderr(h *Handle, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		log.Warn().Str("worker", "stderr").Msg(line)
		h.appendLog(LogError, line)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("error reading worker stderr")
		_, _ = io.Copy(io.Discard, r)
	}
}
