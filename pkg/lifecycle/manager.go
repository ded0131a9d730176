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

// Package lifecycle owns the launcher's window and reacts to game sessions
// reported by the worker.
package lifecycle

import (
	"context"
	"slices"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/notifications"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/state"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/worker"
	"github.com/rs/zerolog/log"
)

type Phase int

const (
	PhaseNoWindow Phase = iota
	PhaseSpawning
	PhaseVisible
	PhaseHidden
	PhaseMinimized
	PhaseClosing
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseVisible:
		return "visible"
	case PhaseHidden:
		return "hidden"
	case PhaseMinimized:
		return "minimized"
	case PhaseClosing:
		return "closing"
	default:
		return "no_window"
	}
}

// MetricWorkArea is the display metric which triggers a resize.
const MetricWorkArea = "workArea"

type Options struct {
	Host  Host
	State *state.State
	// Config, Integration and Updater are optional.
	Config      *config.Instance
	Integration Integration
	Updater     PendingInstaller
}

// Manager is the only writer of the window reference and the game session
// state. Host and window calls are made outside the lock since the host may
// call back into the manager.
type Manager struct {
	host        Host
	st          *state.State
	cfg         *config.Instance
	integration Integration
	updater     PendingInstaller
	win         Window
	launch      *worker.Handle
	lastDisplay *Display
	mu          syncutil.Mutex
	phase       Phase
	spawning    bool
	shutdown    bool
}

func NewManager(opts Options) *Manager {
	return &Manager{
		host:        opts.Host,
		st:          opts.State,
		cfg:         opts.Config,
		integration: opts.Integration,
		updater:     opts.Updater,
	}
}

// SetLaunch sets the worker launch the window waits on before showing.
func (m *Manager) SetLaunch(h *worker.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.launch = h
}

func (m *Manager) SetUpdater(u PendingInstaller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updater = u
}

func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Window returns the current window, or nil if there's none.
func (m *Manager) Window() Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.win
}

func (m *Manager) setPhase(p Phase) {
	m.mu.Lock()
	old := m.phase
	m.phase = p
	m.mu.Unlock()
	if old != p {
		log.Debug().Stringer("from", old).Stringer("to", p).Msg("window phase changed")
	}
}

func alive(w Window) bool {
	return w != nil && !w.IsDestroyed()
}

// CreateWindow creates the main window. A call made while a window is
// already being created returns that window instead of creating another.
func (m *Manager) CreateWindow(ctx context.Context) (Window, error) {
	m.mu.Lock()
	if m.spawning {
		win := m.win
		m.mu.Unlock()
		log.Debug().Msg("window is already being created")
		return win, nil
	}
	if m.shutdown {
		m.mu.Unlock()
		return nil, nil
	}
	m.spawning = true
	if m.win != nil && m.win.IsDestroyed() {
		m.win = nil
	}
	existing := m.win
	m.phase = PhaseSpawning
	m.mu.Unlock()

	if existing != nil {
		// only one native window exists, bring it back instead
		existing.Show()
		existing.Focus()
		m.mu.Lock()
		m.spawning = false
		m.phase = PhaseVisible
		m.mu.Unlock()
		return existing, nil
	}

	display := m.host.PrimaryDisplay()
	layout := AdLayout(display)

	win, err := m.host.NewWindow(ctx, WindowOptions{
		Title:              config.AppTitle,
		Layout:             layout,
		SkipIntroAnimation: m.st.SkipIntroAnimation(),
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.spawning = false
		m.phase = PhaseNoWindow
		return nil, err
	}
	m.win = win
	m.lastDisplay = &display
	log.Info().
		Str("display", display.ID).
		Int("width", layout.Width).
		Int("height", layout.Height).
		Msg("window created")

	return win, nil
}

// WindowReady marks the window as painted. It's shown once the worker
// launch has settled so the UI never appears before the backend can answer.
// The returned channel is closed after the window was shown.
func (m *Manager) WindowReady() <-chan struct{} {
	m.mu.Lock()
	m.spawning = false
	launch := m.launch
	m.mu.Unlock()

	shown := make(chan struct{})
	go func() {
		defer close(shown)
		if launch != nil {
			select {
			case <-launch.Done():
			case <-m.st.GetContext().Done():
				return
			}
		}

		win := m.Window()
		if !alive(win) {
			return
		}
		win.Show()
		m.setPhase(PhaseVisible)
	}()

	return shown
}

// HandleWorkerEvent applies a protocol event from the worker.
func (m *Manager) HandleWorkerEvent(ev worker.Event) {
	switch e := ev.(type) {
	case worker.InstanceStateEvent:
		m.handleInstanceState(e)
	case worker.CloseWarningEvent:
		log.Info().Bool("show", e.Show).Msg("app close warning changed")
		m.st.SetShowAppCloseWarning(e.Show)
	case worker.PotatoPCModeEvent:
		m.handlePotatoPCMode(e.Enabled)
	case worker.HashedEmailEvent:
		log.Info().Bool("enabled", e.Enabled).Msg("hashed email preference changed")
		if m.integration != nil {
			m.integration.HashedEmailPreferenceChanged(e.Enabled, e.Email)
		}
	default:
		log.Debug().Type("event", ev).Msg("ignoring worker event")
	}
}

func (m *Manager) handleInstanceState(e worker.InstanceStateEvent) {
	ctx := m.st.GetContext()
	win := m.Window()

	switch e.Event {
	case worker.GameLaunched:
		m.st.SetGameRunning(true)
		log.Info().Str("action", string(e.Action)).Msg("game launched")

		switch e.Action {
		case worker.ActionCloseWindow:
			if win != nil {
				win.Close()
			}
			m.mu.Lock()
			m.win = nil
			m.phase = PhaseNoWindow
			m.mu.Unlock()
		case worker.ActionHideWindow:
			if alive(win) {
				win.Hide()
				m.setPhase(PhaseHidden)
			}
		case worker.ActionMinimizeWindow:
			if alive(win) {
				win.Minimize()
				m.setPhase(PhaseMinimized)
			}
		case worker.ActionQuitApp:
			m.st.SetShowAppCloseWarning(false)
			m.Shutdown(ctx)
		case worker.ActionNone:
		}

	case worker.GameClosed:
		m.st.SetGameRunning(false)
		log.Info().Str("action", string(e.Action)).Msg("game closed")

		switch e.Action {
		case worker.ActionCloseWindow:
			if !alive(win) {
				m.createWindow(ctx)
			}
		case worker.ActionHideWindow, worker.ActionMinimizeWindow:
			if alive(win) {
				if win.IsMinimized() {
					win.Restore()
				}
				win.Show()
				win.Focus()
				m.setPhase(PhaseVisible)
			} else {
				m.createWindow(ctx)
			}
		case worker.ActionNone, worker.ActionQuitApp:
			// quitApp already quit when the game launched
		}
	}
}

func (m *Manager) createWindow(ctx context.Context) {
	if _, err := m.CreateWindow(ctx); err != nil {
		log.Error().Err(err).Msg("failed to create window")
	}
}

// handlePotatoPCMode records the GPU decision. It can only take effect
// before the native host starts, later reports are saved for next time.
func (m *Manager) handlePotatoPCMode(enabled bool) {
	log.Info().Bool("enabled", enabled).Msg("potato pc mode reported")

	if m.st.HostStarted() {
		log.Warn().Msg("host already started, gpu mode applies on next start")
	}
	m.st.SetGPUDisabled(m.st.GPUDisabled() || enabled)

	if m.cfg != nil && m.cfg.DisableGPU() != enabled {
		m.cfg.SetDisableGPU(enabled)
		if err := m.cfg.Save(); err != nil {
			log.Error().Err(err).Msg("failed to save gpu mode")
		}
	}
}

// OnCloseRequested is called when the user tries to close the window. It
// returns true to keep the window open, in which case the renderer is asked
// to show the close warning.
func (m *Manager) OnCloseRequested() bool {
	m.mu.Lock()
	shuttingDown := m.shutdown
	m.mu.Unlock()
	if shuttingDown {
		return false
	}

	if m.st.GameRunning() && m.st.ShowAppCloseWarning() {
		log.Info().Msg("game running, asking before closing")
		notifications.ShowAppCloseWarning(m.st.Notifications)
		return true
	}

	m.setPhase(PhaseClosing)
	return false
}

// WindowClosed is called once the window has actually closed. With no
// windows left the launcher quits.
func (m *Manager) WindowClosed(ctx context.Context) {
	m.mu.Lock()
	m.win = nil
	m.mu.Unlock()
	m.Shutdown(ctx)
}

// HandleMove re-fits the window when it was moved to another display.
func (m *Manager) HandleMove() {
	m.refit(func(Layout) bool { return true })
}

// HandleDisplayChange re-fits the window after display metrics changed.
// The window is only resized when the work area was one of the changes.
func (m *Manager) HandleDisplayChange(changedMetrics []string) {
	m.refit(func(Layout) bool {
		return slices.Contains(changedMetrics, MetricWorkArea)
	})
}

func (m *Manager) refit(shouldResize func(Layout) bool) {
	win := m.Window()
	if !alive(win) {
		return
	}

	display := win.Display()

	m.mu.Lock()
	if m.lastDisplay != nil && m.lastDisplay.ID == display.ID {
		m.mu.Unlock()
		return
	}
	m.lastDisplay = &display
	m.mu.Unlock()

	layout := AdLayout(display)
	if !shouldResize(layout) {
		return
	}

	log.Info().
		Str("display", display.ID).
		Int("minWidth", layout.MinWidth).
		Int("minHeight", layout.MinHeight).
		Msg("display changed, resizing window")

	win.SetMinimumSize(layout.MinWidth, layout.MinHeight)
	win.SetSize(layout.MinWidth, layout.MinHeight)
	notifications.AdSizeChanged(m.st.Notifications, models.AdSizeResponse{
		Width:  layout.AdSize.Width,
		Height: layout.AdSize.Height,
	})
}

// AdSize returns the ad slot size for the display the window is on, or
// the primary display when there's no window.
func (m *Manager) AdSize() AdSize {
	win := m.Window()
	if alive(win) {
		return AdLayout(win.Display()).AdSize
	}
	return AdLayout(m.host.PrimaryDisplay()).AdSize
}

// OnSecondInstance brings the existing window to the front when the user
// starts the launcher again, or recreates it.
func (m *Manager) OnSecondInstance(ctx context.Context) {
	win := m.Window()
	if alive(win) {
		log.Info().Msg("second instance started, focusing window")
		if win.IsMinimized() {
			win.Restore()
		}
		win.Show()
		win.Focus()
		m.setPhase(PhaseVisible)
		return
	}
	m.createWindow(ctx)
}

// CloseWindow closes the window on the renderer's request.
func (m *Manager) CloseWindow(ctx context.Context) {
	win := m.Window()
	if win != nil {
		win.Close()
	}
	m.WindowClosed(ctx)
}

// Relaunch stops the worker and restarts the launcher.
func (m *Manager) Relaunch(ctx context.Context) {
	log.Info().Msg("relaunching")
	m.host.RequestRelaunch()
	m.quit(ctx, true)
}

// Shutdown stops the worker, applies a pending update and quits. It's
// ignored while a window is being created.
func (m *Manager) Shutdown(ctx context.Context) {
	m.quit(ctx, false)
}

func (m *Manager) quit(_ context.Context, force bool) {
	m.mu.Lock()
	if m.spawning && !force {
		m.mu.Unlock()
		log.Debug().Msg("window is being created, not quitting")
		return
	}
	if m.shutdown {
		m.mu.Unlock()
		return
	}
	m.shutdown = true
	launch := m.launch
	updater := m.updater
	win := m.win
	m.win = nil
	m.phase = PhaseClosing
	m.mu.Unlock()

	log.Info().Msg("shutting down")

	// failures are logged by Kill, quitting must go ahead regardless
	launch.Kill()

	if updater != nil {
		updater.InstallOnQuit()
	}

	if alive(win) {
		win.Close()
	}

	m.st.StopService()
	m.host.Quit()
}
