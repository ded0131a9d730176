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

// Package client talks to a running launcher's bridge over WebSocket. It's
// used by tooling and tests, the renderer has its own client.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrInvalidParams    = errors.New("invalid params")
	ErrRequestCancelled = errors.New("request cancelled")
)

const APIPath = "/api"

// RPCError is an error response from the bridge.
type RPCError struct {
	Message string
	Code    int
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

func wsURL(port int) string {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort("127.0.0.1", strconv.Itoa(port)),
		Path:   APIPath,
	}
	return u.String()
}

func dial(ctx context.Context, port int) (*websocket.Conn, error) {
	c, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL(port), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bridge: %w", err)
	}
	return c, nil
}

func closeConn(c *websocket.Conn) {
	if err := c.Close(); err != nil {
		log.Debug().Err(err).Msg("error closing websocket")
	}
}

func timeoutChan(timeout time.Duration) (<-chan time.Time, func()) {
	switch {
	case timeout == 0:
		timer := time.NewTimer(config.APIRequestTimeout)
		return timer.C, func() { timer.Stop() }
	case timeout > 0:
		timer := time.NewTimer(timeout)
		return timer.C, func() { timer.Stop() }
	default:
		// negative timeouts wait forever
		return nil, func() {}
	}
}

// LocalClient sends a single method with params to the bridge on port,
// waits for the response and disconnects. params may be empty, a JSON
// object or a positional JSON array.
func LocalClient(
	ctx context.Context,
	port int,
	method string,
	params string,
) (string, error) {
	id := models.NewStringID(uuid.New().String())
	req := models.RequestObject{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
	}

	if len(params) == 0 {
		req.Params = nil
	} else if json.Valid([]byte(params)) {
		req.Params = []byte(params)
	} else {
		return "", ErrInvalidParams
	}

	c, err := dial(ctx, port)
	if err != nil {
		return "", err
	}
	defer closeConn(c)

	done := make(chan struct{})
	var resp *models.ResponseErrorObject
	var result json.RawMessage

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Msg("error reading message")
				return
			}

			var m struct {
				Result json.RawMessage `json:"result"`
				models.ResponseErrorObject
			}
			if err := json.Unmarshal(message, &m); err != nil {
				continue
			}
			if m.JSONRPC != "2.0" {
				log.Warn().Msg("invalid jsonrpc version")
				continue
			}
			if !id.Equal(m.ID) {
				continue
			}

			resp = &m.ResponseErrorObject
			result = m.Result
			return
		}
	}()

	if err := c.WriteJSON(req); err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	timeout, stop := timeoutChan(0)
	defer stop()

	select {
	case <-done:
	case <-timeout:
		closeConn(c)
		return "", ErrRequestTimeout
	case <-ctx.Done():
		closeConn(c)
		return "", ErrRequestCancelled
	}

	if resp == nil {
		return "", ErrRequestTimeout
	}
	if resp.Error != nil {
		return "", &RPCError{Message: resp.Error.Message, Code: resp.Error.Code}
	}
	if len(result) == 0 {
		return "null", nil
	}
	return string(result), nil
}

// WaitNotification waits for the first notification named method and
// returns its params. A zero timeout uses the default request timeout and a
// negative one waits until ctx is done.
func WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	port int,
	method string,
) (string, error) {
	c, err := dial(ctx, port)
	if err != nil {
		return "", err
	}
	defer closeConn(c)

	done := make(chan struct{})
	var notif *models.RequestObject

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Msg("error reading message")
				return
			}

			var m models.RequestObject
			if err := json.Unmarshal(message, &m); err != nil {
				continue
			}
			if m.JSONRPC != "2.0" || !m.ID.IsAbsent() || m.Method != method {
				continue
			}

			notif = &m
			return
		}
	}()

	timerChan, stop := timeoutChan(timeout)
	defer stop()

	select {
	case <-done:
	case <-timerChan:
		closeConn(c)
		return "", ErrRequestTimeout
	case <-ctx.Done():
		closeConn(c)
		return "", ErrRequestCancelled
	}

	if notif == nil {
		return "", ErrRequestTimeout
	}
	if len(notif.Params) == 0 {
		return "null", nil
	}
	return string(notif.Params), nil
}
