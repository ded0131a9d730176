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

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Burst(t *testing.T) {
	t.Parallel()
	limiter := NewRateLimiter(clockwork.NewFakeClock())

	for i := range BurstSize {
		assert.True(t, limiter.Allow("session-a"), "should allow request %d within burst", i+1)
	}
	assert.False(t, limiter.Allow("session-a"), "should block request beyond burst size")
}

func TestRateLimiter_SeparateKeys(t *testing.T) {
	t.Parallel()
	limiter := NewRateLimiter(clockwork.NewFakeClock())

	for range BurstSize {
		limiter.Allow("session-a")
	}

	assert.False(t, limiter.Allow("session-a"))
	assert.True(t, limiter.Allow("session-b"))
	assert.Equal(t, 2, limiter.Len())
}

func TestRateLimiter_Refills(t *testing.T) {
	t.Parallel()
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(clock)

	for range BurstSize {
		limiter.Allow("session-a")
	}
	require.False(t, limiter.Allow("session-a"))

	clock.Advance(time.Second)
	for i := range RequestsPerSecond {
		assert.True(t, limiter.Allow("session-a"), "refilled token %d", i+1)
	}
	assert.False(t, limiter.Allow("session-a"))
}

func TestRateLimiter_Forget(t *testing.T) {
	t.Parallel()
	limiter := NewRateLimiter(clockwork.NewFakeClock())

	for range BurstSize + 1 {
		limiter.Allow("session-a")
	}
	limiter.Forget("session-a")

	assert.Equal(t, 0, limiter.Len())
	assert.True(t, limiter.Allow("session-a"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	t.Parallel()
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(clock)

	limiter.Allow("old")
	clock.Advance(limiterMaxAge - time.Minute)
	limiter.Allow("recent")
	clock.Advance(2 * time.Minute)

	limiter.Cleanup()

	assert.Equal(t, 1, limiter.Len())
}

func TestRateLimiter_StartCleanup(t *testing.T) {
	t.Parallel()
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(clock)
	limiter.Allow("old")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	limiter.StartCleanup(ctx)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(limiterMaxAge + limiterCleanupInterval)

	assert.Eventually(t, func() bool {
		return limiter.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHTTPRateLimitMiddleware(t *testing.T) {
	t.Parallel()
	limiter := NewRateLimiter(clockwork.NewFakeClock())

	handler := HTTPRateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for range BurstSize {
		req := httptest.NewRequest(http.MethodPost, "/api", http.NoBody)
		req.RemoteAddr = "127.0.0.1:50000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api", http.NoBody)
	req.RemoteAddr = "127.0.0.1:50000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestLoopbackOnly(t *testing.T) {
	t.Parallel()

	handler := LoopbackOnly(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		addr string
		want int
	}{
		{"127.0.0.1:4000", http.StatusOK},
		{"[::1]:4000", http.StatusOK},
		{"192.168.1.20:4000", http.StatusForbidden},
		{"garbage", http.StatusForbidden},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api", http.NoBody)
		req.RemoteAddr = tt.addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, tt.want, rr.Code, tt.addr)
	}
}
