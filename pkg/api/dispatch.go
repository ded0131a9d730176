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

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/validation"
	"github.com/rs/zerolog/log"
)

var (
	JSONRPCErrorParseError = models.ErrorObject{
		Code:    -32700,
		Message: "Parse error",
	}
	JSONRPCErrorInvalidRequest = models.ErrorObject{
		Code:    -32600,
		Message: "Invalid Request",
	}
	JSONRPCErrorMethodNotFound = models.ErrorObject{
		Code:    -32601,
		Message: "Method not found",
	}
	JSONRPCErrorInvalidParams = models.ErrorObject{
		Code:    -32602,
		Message: "Invalid params",
	}
	JSONRPCErrorInternalError = models.ErrorObject{
		Code:    -32603,
		Message: "Internal error",
	}
)

const jsonRPCServerErrorCode = -32000

// maxLoggedLogs caps how many worker log entries are written to the log
// when a getCoreModule response is logged.
const maxLoggedLogs = 20

var errHandlerPanic = errors.New("handler panicked")

// normalizeParams turns positional params into the object form the
// handlers decode. Methods listed in models.PositionalParams get their
// arguments named, any other method may pass its single options object
// wrapped in an array.
func normalizeParams(method string, params json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(params)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return params, nil
	}

	var args []json.RawMessage
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, validation.ErrInvalidParams
	}

	if names, ok := models.PositionalParams[method]; ok {
		if len(args) > len(names) {
			return nil, validation.ErrInvalidParams
		}
		obj := make(map[string]json.RawMessage, len(args))
		for i, arg := range args {
			obj[names[i]] = arg
		}
		data, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		return data, nil
	}

	switch len(args) {
	case 0:
		return nil, nil
	case 1:
		return args[0], nil
	default:
		return nil, validation.ErrInvalidParams
	}
}

// errorObject picks the JSON-RPC error for a handler error. Handler
// messages are passed through so the renderer can show them.
func errorObject(err error) models.ErrorObject {
	var ve *validation.Error
	switch {
	case errors.Is(err, errHandlerPanic):
		return JSONRPCErrorInternalError
	case errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams),
		errors.As(err, &ve):
		return models.ErrorObject{
			Code:    JSONRPCErrorInvalidParams.Code,
			Message: err.Error(),
		}
	default:
		return models.ErrorObject{
			Code:    jsonRPCServerErrorCode,
			Message: err.Error(),
		}
	}
}

func callMethod(fn MethodFunc, env requests.RequestEnv) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("recovered from panic in bridge handler")
			err = errHandlerPanic
		}
	}()
	return fn(env)
}

// logSafeResponse logs a response without flooding the log with worker
// output.
func logSafeResponse(result any) {
	if resp, ok := result.(models.CoreModuleResponse); ok && len(resp.Logs) > maxLoggedLogs {
		log.Debug().
			Str("type", resp.Type).
			Int("logs", len(resp.Logs)).
			Interface("tail", resp.Logs[len(resp.Logs)-maxLoggedLogs:]).
			Msg("sending response (logs truncated)")
		return
	}
	log.Debug().Interface("result", result).Msg("sending response")
}

func marshalResponse(id models.RPCID, result any) []byte {
	logSafeResponse(result)

	data, err := json.Marshal(models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
	if err != nil {
		log.Error().Err(err).Msg("error marshalling response")
		return marshalError(id, JSONRPCErrorInternalError)
	}
	return data
}

func marshalError(id models.RPCID, errObj models.ErrorObject) []byte {
	log.Debug().Int("code", errObj.Code).Str("message", errObj.Message).Msg("sending error")

	data, err := json.Marshal(models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &errObj,
	})
	if err != nil {
		// can't happen with the plain types used here
		log.Error().Err(err).Msg("error marshalling error response")
		return nil
	}
	return data
}

// Dispatch handles one JSON-RPC message and returns the encoded response,
// or nil for notifications. It's shared by the WebSocket and HTTP
// transports and the native window binding.
func (s *Server) Dispatch(ctx context.Context, msg []byte) []byte {
	if !json.Valid(msg) {
		log.Error().Msg("data not valid json")
		return marshalError(models.NullRPCID, JSONRPCErrorParseError)
	}

	var req models.RequestObject
	if err := json.Unmarshal(msg, &req); err != nil {
		log.Error().Err(err).Msg("message is not a request object")
		return marshalError(models.NullRPCID, JSONRPCErrorInvalidRequest)
	}

	id := models.NullRPCID
	if !req.ID.IsAbsent() {
		id = *req.ID
	}

	if req.JSONRPC != "2.0" {
		log.Error().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
		return marshalError(id, JSONRPCErrorInvalidRequest)
	}
	if req.Method == "" {
		log.Error().Msg("request has no method")
		return marshalError(id, JSONRPCErrorInvalidRequest)
	}
	if req.ID.IsAbsent() {
		log.Info().Str("method", req.Method).Msg("received notification, ignoring")
		return nil
	}

	log.Debug().Str("method", req.Method).Stringer("id", req.ID).Msg("received request")

	fn, ok := s.methods.GetMethod(req.Method)
	if !ok {
		log.Warn().Str("method", req.Method).Msg("unknown method")
		return marshalError(id, JSONRPCErrorMethodNotFound)
	}

	params, err := normalizeParams(req.Method, req.Params)
	if err != nil {
		return marshalError(id, errorObject(err))
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	env := s.requestEnv(ctx)
	env.Params = params
	env.ID = id

	result, err := callMethod(fn, env)
	if err != nil {
		log.Warn().Err(err).Str("method", req.Method).Msg("request failed")
		return marshalError(id, errorObject(err))
	}
	return marshalResponse(id, result)
}
