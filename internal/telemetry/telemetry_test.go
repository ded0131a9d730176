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

package telemetry

import (
	"errors"
	"testing"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no username in path",
			input:    "/usr/local/bin/zaparoo-launcher",
			expected: "/usr/local/bin/zaparoo-launcher",
		},
		{
			name:     "linux home path",
			input:    "/home/sam/dev/zaparoo-launcher/pkg/config/config.go",
			expected: "/home/<user>/dev/zaparoo-launcher/pkg/config/config.go",
		},
		{
			name:     "linux home path uppercase",
			input:    "/Home/Sam/dev/zaparoo-launcher/pkg/config/config.go",
			expected: "/home/<user>/dev/zaparoo-launcher/pkg/config/config.go",
		},
		{
			name:     "macos users path",
			input:    "/Users/sam/Documents/zaparoo/config.toml",
			expected: "/Users/<user>/Documents/zaparoo/config.toml",
		},
		{
			name:     "macos users path lowercase",
			input:    "/users/sam/Documents/zaparoo/config.toml",
			expected: "/Users/<user>/Documents/zaparoo/config.toml",
		},
		{
			name:     "windows path",
			input:    "C:\\Users\\sam\\AppData\\Local\\zaparoo\\config.toml",
			expected: "C:\\Users\\<user>\\AppData\\Local\\zaparoo\\config.toml",
		},
		{
			name:     "windows path lowercase drive",
			input:    "c:\\Users\\JohnDoe\\Documents\\zaparoo",
			expected: "C:\\Users\\<user>\\Documents\\zaparoo",
		},
		{
			name:     "windows path different drive",
			input:    "D:\\Users\\admin\\zaparoo\\logs",
			expected: "C:\\Users\\<user>\\zaparoo\\logs",
		},
		{
			name:     "error message with path",
			input:    "failed to open file: /home/user123/config.toml: no such file",
			expected: "failed to open file: /home/<user>/config.toml: no such file",
		},
		{
			name:     "multiple paths in message",
			input:    "copying /home/alice/src to /home/bob/dst",
			expected: "copying /home/<user>/src to /home/<user>/dst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := sanitizePath(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "sams-desktop",
		Message:    "failed to copy /home/sam/.local/share/zaparoo-launcher/data/a.db",
		Extra: map[string]any{
			"path":  "C:\\Users\\sam\\AppData\\Roaming",
			"count": 3,
		},
		Exception: []sentry.Exception{{
			Value: "open /Users/sam/Library/a.json: permission denied",
			Stacktrace: &sentry.Stacktrace{Frames: []sentry.Frame{{
				AbsPath:  "/home/sam/src/zaparoo-launcher/pkg/worker/supervisor.go",
				Filename: "pkg/worker/supervisor.go",
			}}},
		}},
	}

	got := sanitizeEvent(event)

	assert.Empty(t, got.ServerName)
	assert.Equal(t, "failed to copy /home/<user>/.local/share/zaparoo-launcher/data/a.db", got.Message)
	assert.Equal(t, "C:\\Users\\<user>\\AppData\\Roaming", got.Extra["path"])
	assert.Equal(t, 3, got.Extra["count"])
	assert.Equal(t, "open /Users/<user>/Library/a.json: permission denied", got.Exception[0].Value)
	frame := got.Exception[0].Stacktrace.Frames[0]
	assert.Equal(t, "/home/<user>/src/zaparoo-launcher/pkg/worker/supervisor.go", frame.AbsPath)
	assert.Equal(t, "pkg/worker/supervisor.go", frame.Filename)
}

func TestInitDisabled(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init(Options{Enabled: false, DSN: "https://key@example.com/1"}))
	assert.False(t, Enabled())
}

func TestResolveDSN(t *testing.T) {
	t.Setenv(config.SentryDSNEnv, "https://key@example.com/2")
	assert.Equal(t, "https://key@example.com/2", ResolveDSN())

	t.Setenv(config.SentryDSNEnv, "")
	assert.Equal(t, DefaultDSN, ResolveDSN())
}

func TestEnabled(t *testing.T) {
	t.Parallel()
	assert.False(t, Enabled(), "telemetry should be disabled by default")
}

func TestCaptureWhenDisabled(t *testing.T) {
	t.Parallel()

	Capture(errors.New("boom"))
	Capture(nil)
	CapturePanic("boom")
	CapturePanic(nil)
}

func TestCloseWhenDisabled(t *testing.T) {
	t.Parallel()
	Close()
	Close()
}

func TestFlushWhenDisabled(t *testing.T) {
	t.Parallel()
	Flush()
}
