//go:build !windows

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

package command

import (
	"bufio"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealExecutor_Run(t *testing.T) {
	t.Parallel()

	executor := &RealExecutor{}

	t.Run("executes_successful_command", func(t *testing.T) {
		t.Parallel()

		err := executor.Run(context.Background(), "true")

		assert.NoError(t, err)
	})

	t.Run("returns_error_for_failed_command", func(t *testing.T) {
		t.Parallel()

		err := executor.Run(context.Background(), "false")

		assert.Error(t, err)
	})

	t.Run("returns_error_for_nonexistent_command", func(t *testing.T) {
		t.Parallel()

		err := executor.Run(context.Background(), "nonexistent_command_that_should_not_exist_12345")

		require.Error(t, err)
	})
}

func TestRealExecutor_Start(t *testing.T) {
	t.Parallel()

	executor := &RealExecutor{}

	t.Run("starts_command_without_waiting", func(t *testing.T) {
		t.Parallel()

		err := executor.Start(context.Background(), "true")

		assert.NoError(t, err)
	})

	t.Run("returns_error_for_nonexistent_command", func(t *testing.T) {
		t.Parallel()

		err := executor.Start(context.Background(), "nonexistent_command_that_should_not_exist_12345")

		require.Error(t, err)
	})
}

func TestRealExecutor_Spawn(t *testing.T) {
	t.Parallel()

	executor := &RealExecutor{}

	t.Run("pipes_output_and_reports_exit_code", func(t *testing.T) {
		t.Parallel()

		proc, err := executor.Spawn(SpawnOptions{
			Name: "sh",
			Args: []string{"-c", "echo out; echo err 1>&2; exit 3"},
		})
		require.NoError(t, err)
		assert.Positive(t, proc.Pid())

		stdout, err := io.ReadAll(proc.Stdout())
		require.NoError(t, err)
		stderr, err := io.ReadAll(proc.Stderr())
		require.NoError(t, err)

		code, err := proc.Wait()
		require.NoError(t, err)

		assert.Equal(t, "out\n", string(stdout))
		assert.Equal(t, "err\n", string(stderr))
		assert.Equal(t, 3, code)
	})

	t.Run("passes_environment", func(t *testing.T) {
		t.Parallel()

		proc, err := executor.Spawn(SpawnOptions{
			Name: "sh",
			Args: []string{"-c", "echo $WORKER_TEST"},
			Env:  []string{"WORKER_TEST=hello"},
		})
		require.NoError(t, err)

		line, err := bufio.NewReader(proc.Stdout()).ReadString('\n')
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, proc.Stderr())

		code, err := proc.Wait()
		require.NoError(t, err)
		assert.Equal(t, "hello\n", line)
		assert.Equal(t, 0, code)
	})

	t.Run("returns_error_for_nonexistent_command", func(t *testing.T) {
		t.Parallel()

		_, err := executor.Spawn(SpawnOptions{Name: "nonexistent_command_that_should_not_exist_12345"})

		require.Error(t, err)
	})

	t.Run("grandchild_holding_stdout_does_not_block", func(t *testing.T) {
		t.Parallel()

		quick := &RealExecutor{WaitDelay: 500 * time.Millisecond}
		proc, err := quick.Spawn(SpawnOptions{
			Name: "sh",
			Args: []string{"-c", "sleep 5 & echo started; exit 2"},
		})
		require.NoError(t, err)

		type drained struct {
			stdout string
			code   int
		}
		done := make(chan drained, 1)
		go func() {
			out, _ := io.ReadAll(proc.Stdout())
			_, _ = io.Copy(io.Discard, proc.Stderr())
			code, _ := proc.Wait()
			done <- drained{stdout: string(out), code: code}
		}()

		select {
		case d := <-done:
			assert.Equal(t, "started\n", d.stdout)
			assert.Equal(t, 2, d.code)
		case <-time.After(3 * time.Second):
			t.Fatal("output never ended after the process exited")
		}
	})

	t.Run("kill_is_safe_to_repeat", func(t *testing.T) {
		t.Parallel()

		proc, err := executor.Spawn(SpawnOptions{Name: "sleep", Args: []string{"30"}})
		require.NoError(t, err)

		require.NoError(t, proc.Kill())

		done := make(chan int, 1)
		go func() {
			_, _ = io.Copy(io.Discard, proc.Stdout())
			_, _ = io.Copy(io.Discard, proc.Stderr())
			code, _ := proc.Wait()
			done <- code
		}()

		select {
		case code := <-done:
			assert.NotEqual(t, 0, code)
		case <-time.After(10 * time.Second):
			t.Fatal("process was not killed")
		}

		assert.NoError(t, proc.Kill())
	})
}

func TestExecutor_Interface(t *testing.T) {
	t.Parallel()

	var _ Executor = (*RealExecutor)(nil)
}
