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

package mocks

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
)

// FakeProcess is an in-memory command.Process. Output written with
// WriteStdout and WriteStderr is delivered through pipes, so writes block
// until the reader side consumes them just like a real child's output.
type FakeProcess struct {
	stdoutR  *io.PipeReader
	stdoutW  *io.PipeWriter
	stderrR  *io.PipeReader
	stderrW  *io.PipeWriter
	exited   chan struct{}
	exitOnce sync.Once
	kills    atomic.Int32
	exitCode int
	PID      int
}

func NewFakeProcess() *FakeProcess {
	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	return &FakeProcess{
		stdoutR: stdoutR,
		stdoutW: stdoutW,
		stderrR: stderrR,
		stderrW: stderrW,
		exited:  make(chan struct{}),
		PID:     4242,
	}
}

func (p *FakeProcess) Pid() int {
	return p.PID
}

func (p *FakeProcess) Stdout() io.Reader {
	return p.stdoutR
}

func (p *FakeProcess) Stderr() io.Reader {
	return p.stderrR
}

// WriteStdout writes each line followed by a newline.
func (p *FakeProcess) WriteStdout(lines ...string) error {
	return writeLines(p.stdoutW, lines)
}

func (p *FakeProcess) WriteStderr(lines ...string) error {
	return writeLines(p.stderrW, lines)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
	}
	return nil
}

// Exit closes both output streams and makes Wait return code. Only the
// first call has an effect.
func (p *FakeProcess) Exit(code int) {
	p.exitOnce.Do(func() {
		p.exitCode = code
		_ = p.stdoutW.Close()
		_ = p.stderrW.Close()
		close(p.exited)
	})
}

func (p *FakeProcess) Wait() (int, error) {
	<-p.exited
	return p.exitCode, nil
}

// Kill exits the process with code -1, as if it was terminated by a signal.
func (p *FakeProcess) Kill() error {
	p.kills.Add(1)
	p.Exit(-1)
	return nil
}

// Kills returns how many times Kill was called.
func (p *FakeProcess) Kills() int {
	return int(p.kills.Load())
}

var _ command.Process = (*FakeProcess)(nil)
