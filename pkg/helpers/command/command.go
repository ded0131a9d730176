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

// Package command provides an abstraction over exec.Command for testability.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// SpawnOptions configures a supervised child process.
type SpawnOptions struct {
	Name string
	Args []string
	// Env is the full child environment. Nil inherits the parent's.
	Env []string
	// HideWindow prevents a console window from appearing (Windows-only).
	HideWindow bool
}

// Process is a running child started by Spawn. Its output streams end at
// EOF, or are closed a short delay after the process exits if something
// else still holds them.
type Process interface {
	Pid() int
	Stdout() io.Reader
	Stderr() io.Reader
	// Wait blocks until the process exits. Exiting with a non-zero status is
	// not an error, it's reported through the exit code.
	Wait() (exitCode int, err error)
	// Kill asks the process to terminate. Killing a process which already
	// exited is not an error.
	Kill() error
}

// Executor provides an abstraction over exec.Command for testability.
// This allows commands to be mocked in tests without executing real system commands.
type Executor interface {
	// Run executes a command and waits for it to complete.
	Run(ctx context.Context, name string, args ...string) error

	// Start starts a command without waiting for it to complete (fire-and-forget).
	Start(ctx context.Context, name string, args ...string) error

	// Spawn starts a long-running child with piped stdout and stderr.
	Spawn(opts SpawnOptions) (Process, error)
}

// DefaultWaitDelay is how long a spawned process's output pipes stay open
// after it exits.
const DefaultWaitDelay = 2 * time.Second

// RealExecutor uses actual exec.Command to execute system commands.
type RealExecutor struct {
	// WaitDelay bounds how long output pipes are kept open after a spawned
	// process exits. Grandchildren which inherited them would otherwise
	// hold them open forever. Zero uses DefaultWaitDelay.
	WaitDelay time.Duration
}

// Run executes a system command using exec.CommandContext.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Start starts a command without waiting for it to complete. The child
// isn't tied to ctx so it can outlive the launcher, like a relaunched copy
// of ourselves.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Start(_ context.Context, name string, args ...string) error {
	cmd := exec.Command(name, args...) //nolint:noctx // detached on purpose
	applyPlatformOptions(cmd, true)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func (e *RealExecutor) Spawn(opts SpawnOptions) (Process, error) {
	cmd := exec.Command(opts.Name, opts.Args...) //nolint:noctx // lifetime managed by Kill
	cmd.Env = opts.Env
	applyPlatformOptions(cmd, opts.HideWindow)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdout.Close()
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdout.Close()
		_ = stderr.Close()
		return nil, fmt.Errorf("failed to start process: %w", err)
	}

	delay := e.WaitDelay
	if delay <= 0 {
		delay = DefaultWaitDelay
	}

	p := &execProcess{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		exited: make(chan struct{}),
	}
	go p.reap(delay)
	return p, nil
}

type execProcess struct {
	waitErr   error
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	stderr    io.ReadCloser
	exited    chan struct{}
	closePipe sync.Once
	exitCode  int
}

// reap waits on the process itself rather than through cmd.Wait, which
// would block until every holder of the pipes is gone. Pipes still open
// delay after exit are closed so readers see the end of the stream.
func (p *execProcess) reap(delay time.Duration) {
	state, err := p.cmd.Process.Wait()
	switch {
	case err != nil:
		p.exitCode = -1
		p.waitErr = fmt.Errorf("failed waiting for process: %w", err)
	default:
		p.exitCode = state.ExitCode()
	}
	close(p.exited)

	time.AfterFunc(delay, p.closePipes)
}

func (p *execProcess) closePipes() {
	p.closePipe.Do(func() {
		_ = p.stdout.Close()
		_ = p.stderr.Close()
	})
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Stdout() io.Reader {
	return p.stdout
}

func (p *execProcess) Stderr() io.Reader {
	return p.stderr
}

func (p *execProcess) Wait() (int, error) {
	<-p.exited
	return p.exitCode, p.waitErr
}

// Kill sends a graceful terminate through gopsutil first, and only falls
// back to a hard kill if that fails.
func (p *execProcess) Kill() error {
	select {
	case <-p.exited:
		return nil
	default:
	}

	pid := p.cmd.Process.Pid

	proc, err := process.NewProcess(int32(pid)) //nolint:gosec // pids fit in int32
	if err == nil {
		err = proc.Terminate()
		if err == nil {
			return nil
		}
		log.Debug().Err(err).Int("pid", pid).Msg("terminate failed, killing")
	}

	err = p.cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill process %d: %w", pid, err)
	}
	return nil
}
