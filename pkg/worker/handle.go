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

package worker

import (
	"context"
	"slices"
	"sync"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

type ResultType string

const (
	ResultSuccess ResultType = "success"
	ResultError   ResultType = "error"
)

type LogType string

const (
	LogInfo  LogType = "info"
	LogError LogType = "error"
)

type LogEntry struct {
	Type    LogType
	Message string
}

// Result is the outcome of a launch. Port is only meaningful on success,
// Logs holds everything the worker wrote up to the moment it resolved.
type Result struct {
	Type ResultType
	Logs []LogEntry
	Port int
}

// Handle tracks one launch attempt. It resolves exactly once, whatever
// happens first out of the worker reporting its port, exiting, failing to
// spawn or timing out.
type Handle struct {
	proc        command.Process
	done        chan struct{}
	exitedCh    chan struct{}
	logs        []LogEntry
	result      Result
	resolveOnce sync.Once
	mu          syncutil.Mutex
	port        int
	started     bool
	killed      bool
	exited      bool
}

func newHandle() *Handle {
	return &Handle{
		done:     make(chan struct{}),
		exitedCh: make(chan struct{}),
	}
}

// resolve settles the handle. Only the first call has an effect and the
// return value reports whether it was this one.
func (h *Handle) resolve(r Result) bool {
	resolved := false
	h.resolveOnce.Do(func() {
		h.mu.Lock()
		r.Logs = slices.Clone(h.logs)
		h.result = r
		h.mu.Unlock()

		resolved = true
		close(h.done)
	})
	return resolved
}

// Done is closed once the launch has resolved.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Exited is closed once the worker process is gone, or straight away when
// no process was spawned.
func (h *Handle) Exited() <-chan struct{} {
	return h.exitedCh
}

func (h *Handle) markExited() {
	h.mu.Lock()
	h.exited = true
	h.mu.Unlock()
	close(h.exitedCh)
}

// Result returns the launch result and whether it has resolved yet.
func (h *Handle) Result() (Result, bool) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the launch resolves or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		r, _ := h.Result()
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err() //nolint:wrapcheck // plain context error
	}
}

// Port is the port reported by the worker, 0 until it's known.
func (h *Handle) Port() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.port
}

func (h *Handle) Started() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started
}

// Logs returns a copy of everything logged by the worker so far.
func (h *Handle) Logs() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.logs)
}

func (h *Handle) appendLog(t LogType, msg string) {
	h.mu.Lock()
	h.logs = append(h.logs, LogEntry{Type: t, Message: msg})
	h.mu.Unlock()
}

// Kill terminates the worker. It never fails: killing a worker which was
// never spawned, already exited or was already killed does nothing, and
// errors are only logged. Safe to call on a nil handle.
func (h *Handle) Kill() {
	if h == nil {
		return
	}

	h.mu.Lock()
	if h.killed || h.exited || h.proc == nil {
		h.mu.Unlock()
		return
	}
	h.killed = true
	proc := h.proc
	h.mu.Unlock()

	if err := proc.Kill(); err != nil {
		log.Warn().Err(err).Int("pid", proc.Pid()).Msg("failed to kill worker")
		return
	}
	log.Info().Int("pid", proc.Pid()).Msg("worker killed")
}
