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
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/notifications"
	"github.com/jonboulle/clockwork"
)

// progressWriter pushes a downloadProgress notification each time the
// download passes another whole percent.
type progressWriter struct {
	start       time.Time
	clock       clockwork.Clock
	ns          chan<- models.Notification
	total       int64
	transferred int64
	lastPercent int
}

func newProgressWriter(clock clockwork.Clock, ns chan<- models.Notification, total int64) *progressWriter {
	return &progressWriter{
		start:       clock.Now(),
		clock:       clock,
		ns:          ns,
		total:       total,
		lastPercent: -1,
	}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.transferred += int64(len(b))
	percent := p.percent()
	if int(percent) > p.lastPercent {
		p.lastPercent = int(percent)
		p.send(percent)
	}
	return len(b), nil
}

func (p *progressWriter) percent() float64 {
	if p.total <= 0 {
		return 0
	}
	return min(float64(p.transferred)*100/float64(p.total), 100)
}

// finish makes sure the last push reports a complete download, even when
// the size wasn't known up front.
func (p *progressWriter) finish() {
	if p.lastPercent >= 100 {
		return
	}
	p.lastPercent = 100
	if p.total <= 0 {
		p.total = p.transferred
	}
	p.send(100)
}

func (p *progressWriter) send(percent float64) {
	var bps int64
	if elapsed := p.clock.Since(p.start).Seconds(); elapsed > 0 {
		bps = int64(float64(p.transferred) / elapsed)
	}
	notifications.DownloadProgress(p.ns, models.DownloadProgress{
		Percent:        percent,
		BytesPerSecond: bps,
		Transferred:    p.transferred,
		Total:          p.total,
	})
}
