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

// Package api is the bridge between the renderer and the launcher. It
// serves JSON-RPC 2.0 over a loopback WebSocket and over the native window
// binding, and pushes notifications to both.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/middleware"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/runtimepath"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/service/state"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/worker"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

const (
	// maxRequestSize covers the largest dialog options the renderer sends.
	maxRequestSize  = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Emitter receives every push notification. The native window host uses it
// to forward notifications to the renderer as window events.
type Emitter interface {
	Emit(method string, params json.RawMessage)
}

type Options struct {
	Config    *config.Instance
	State     *state.State
	Resolver  *runtimepath.Resolver
	Lifecycle requests.Lifecycle
	Updater   requests.Updater
	Dialogs   requests.Dialogs
	Command   command.Executor
	// Clock and Methods are optional.
	Clock   clockwork.Clock
	Methods *MethodMap
}

type Server struct {
	opts           Options
	methods        *MethodMap
	melody         *melody.Melody
	limiter        *middleware.RateLimiter
	launch         *worker.Handle
	emitters       []Emitter
	requestTimeout time.Duration
	mu             syncutil.RWMutex
}

func NewServer(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Methods == nil {
		opts.Methods = NewMethodMap()
	}

	s := &Server{
		opts:           opts,
		methods:        opts.Methods,
		melody:         melody.New(),
		limiter:        middleware.NewRateLimiter(opts.Clock),
		requestTimeout: config.APIRequestTimeout,
	}
	s.melody.Config.MaxMessageSize = maxRequestSize
	// LoopbackOnly guards the route, the renderer's origin differs per
	// platform
	s.melody.Upgrader.CheckOrigin = func(*http.Request) bool { return true }
	s.melody.HandleConnect(s.handleConnect)
	s.melody.HandleDisconnect(s.handleDisconnect)
	s.melody.HandleMessage(middleware.WebSocketRateLimitHandler(s.limiter, s.handleWSMessage))

	return s
}

// SetLaunch sets the handle of the worker launch served by getCoreModule.
func (s *Server) SetLaunch(h *worker.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.launch = h
}

func (s *Server) AddEmitter(e Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitters = append(s.emitters, e)
}

func (s *Server) requestEnv(ctx context.Context) requests.RequestEnv {
	s.mu.RLock()
	launch := s.launch
	s.mu.RUnlock()

	return requests.RequestEnv{
		Context:   ctx,
		State:     s.opts.State,
		Config:    s.opts.Config,
		Launch:    launch,
		Resolver:  s.opts.Resolver,
		Lifecycle: s.opts.Lifecycle,
		Updater:   s.opts.Updater,
		Dialogs:   s.opts.Dialogs,
		Command:   s.opts.Command,
	}
}

func (*Server) handleConnect(session *melody.Session) {
	key, _ := session.Get(middleware.SessionKey)
	id, _ := key.(string)
	log.Debug().Str("session", id).Msg("bridge client connected")
}

func (s *Server) handleDisconnect(session *melody.Session) {
	key, _ := session.Get(middleware.SessionKey)
	id, _ := key.(string)
	s.limiter.Forget(id)
	log.Debug().Str("session", id).Msg("bridge client disconnected")
}

func (s *Server) handleWSMessage(session *melody.Session, msg []byte) {
	// heartbeat
	if string(msg) == "ping" {
		if err := session.Write([]byte("pong")); err != nil {
			log.Error().Err(err).Msg("sending pong")
		}
		return
	}

	// getCoreModule can wait minutes for the worker, requests mustn't
	// hold up the session's read loop
	go func() {
		resp := s.Dispatch(s.opts.State.GetContext(), msg)
		if resp == nil {
			return
		}
		if err := session.Write(resp); err != nil {
			log.Error().Err(err).Msg("error sending response")
		}
	}()
}

// handlePostRequest serves one JSON-RPC message per HTTP request. Errors
// are reported in the body with a 200 status, notifications get a 204.
func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestSize))
	if err != nil {
		log.Warn().Err(err).Msg("error reading request body")
		http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
		return
	}

	resp := s.Dispatch(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		log.Error().Err(err).Msg("error writing response")
	}
}

// Router builds the bridge's HTTP routes. Only loopback clients are
// accepted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.NoCache)
	r.Use(middleware.LoopbackOnly)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "http://wails.localhost*", "wails://*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		err := s.melody.HandleRequestWithKeys(w, r, map[string]any{
			middleware.SessionKey: uuid.New().String(),
		})
		if err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})
	r.With(middleware.HTTPRateLimitMiddleware(s.limiter)).Post("/api", s.handlePostRequest)

	return r
}

// Broadcast sends a notification to every connected session and emitter.
func (s *Server) Broadcast(notif models.Notification) {
	data, err := json.Marshal(models.RequestObject{
		JSONRPC: "2.0",
		Method:  notif.Method,
		Params:  notif.Params,
	})
	if err != nil {
		log.Error().Err(err).Msg("marshalling notification request")
		return
	}

	if err := s.melody.Broadcast(data); err != nil && !errors.Is(err, melody.ErrClosed) {
		log.Error().Err(err).Msg("broadcasting notification")
	}

	s.mu.RLock()
	emitters := s.emitters
	s.mu.RUnlock()
	for _, e := range emitters {
		e.Emit(notif.Method, notif.Params)
	}
}

// BroadcastNotifications forwards notifications until ctx is done. They
// are sent one at a time so progress pushes arrive in order.
func (s *Server) BroadcastNotifications(ctx context.Context, notifications <-chan models.Notification) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("stopping notification broadcasts")
			return
		case notif := <-notifications:
			s.Broadcast(notif)
		}
	}
}

// Listen binds the bridge to the loopback interface. A port of 0 picks a
// free one.
func (*Server) Listen(port int) (net.Listener, error) {
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("bridge listening")
	return ln, nil
}

// Serve runs the bridge on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener, notifications <-chan models.Notification) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.BroadcastNotifications(ctx, notifications)
	s.limiter.StartCleanup(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("bridge server failed: %w", err)
	case <-ctx.Done():
	}

	log.Debug().Msg("closing bridge server via context cancellation")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.melody.Close(); err != nil && !errors.Is(err, melody.ErrClosed) {
		log.Warn().Err(err).Msg("error closing websocket sessions")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down bridge server: %w", err)
	}
	return nil
}

// Port returns the port ln is bound to.
func Port(ln net.Listener) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}
