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

// Package helpers provides testing utilities shared across packages.
//
// The API helpers run a melody WebSocket server for testing bridge
// clients, and send JSON-RPC requests to a real bridge:
//
//	server := helpers.NewWebSocketTestServer(t, func(s *melody.Session, msg []byte) {
//		_ = s.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":null}`))
//	})
//	defer server.Close()
//
//	conn, err := server.CreateWebSocketClient()
//	require.NoError(t, err)
package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/stretchr/testify/require"
)

// APIPath is the path the test servers serve WebSockets on, matching the
// bridge.
const APIPath = "/api"

// WebSocketTestServer provides utilities for testing WebSocket connections
type WebSocketTestServer struct {
	Server   *httptest.Server
	Melody   *melody.Melody
	Messages []WebSocketMessage
	mu       sync.RWMutex
}

// WebSocketMessage captures a message received during testing
type WebSocketMessage struct {
	Timestamp time.Time
	Error     error
	Type      string
	Data      []byte
}

// JSONRPCRequest represents a JSON-RPC request for testing
type JSONRPCRequest struct {
	Params  any    `json:"params,omitempty"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      string `json:"id"`
}

// JSONRPCResponse represents a JSON-RPC response for testing
type JSONRPCResponse struct {
	Result json.RawMessage     `json:"result,omitempty"`
	Error  *models.ErrorObject `json:"error,omitempty"`
	ID     json.RawMessage     `json:"id"`
}

// NewWebSocketTestServer creates a new WebSocket test server
func NewWebSocketTestServer(t *testing.T, handler func(*melody.Session, []byte)) *WebSocketTestServer {
	t.Helper()

	m := melody.New()
	wsts := &WebSocketTestServer{
		Melody:   m,
		Messages: make([]WebSocketMessage, 0),
	}

	if handler != nil {
		m.HandleMessage(func(session *melody.Session, msg []byte) {
			wsts.recordMessage("received", msg, nil)
			handler(session, msg)
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc(APIPath, func(w http.ResponseWriter, r *http.Request) {
		err := m.HandleRequest(w, r)
		if err != nil {
			wsts.recordMessage("error", nil, err)
		}
	})

	wsts.Server = httptest.NewServer(mux)
	return wsts
}

func (wsts *WebSocketTestServer) recordMessage(msgType string, data []byte, err error) {
	wsts.mu.Lock()
	defer wsts.mu.Unlock()

	wsts.Messages = append(wsts.Messages, WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now(),
		Error:     err,
	})
}

// Close shuts down the test server
func (wsts *WebSocketTestServer) Close() {
	_ = wsts.Melody.Close()
	wsts.Server.Close()
}

// GetMessages returns all recorded messages (thread-safe)
func (wsts *WebSocketTestServer) GetMessages() []WebSocketMessage {
	wsts.mu.RLock()
	defer wsts.mu.RUnlock()

	msgs := make([]WebSocketMessage, len(wsts.Messages))
	copy(msgs, wsts.Messages)
	return msgs
}

// CreateWebSocketClient creates a WebSocket client connected to the test server
func (wsts *WebSocketTestServer) CreateWebSocketClient() (*websocket.Conn, error) {
	return DialWebSocket(wsts.Server.URL)
}

// DialWebSocket connects to the API path of the server at serverURL.
func DialWebSocket(serverURL string) (*websocket.Conn, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server URL: %w", err)
	}

	u.Scheme = "ws"
	u.Path = APIPath

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dial WebSocket: %w", err)
	}
	return conn, nil
}

// SendJSONRPCRequest sends a JSON-RPC request and returns the first
// response read back. Notifications pushed in between are skipped.
func SendJSONRPCRequest(conn *websocket.Conn, method string, params any) (*JSONRPCResponse, error) {
	request := JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      uuid.New().String(),
		Method:  method,
		Params:  params,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	err = conn.WriteMessage(websocket.TextMessage, requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	for {
		_, responseData, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		var response JSONRPCResponse
		err = json.Unmarshal(responseData, &response)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if len(response.ID) == 0 {
			continue
		}
		return &response, nil
	}
}

// AssertJSONRPCSuccess verifies a JSON-RPC response was successful
func AssertJSONRPCSuccess(t *testing.T, response *JSONRPCResponse) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.Nil(t, response.Error, "response should not contain an error")
}

// AssertJSONRPCError verifies a JSON-RPC response contains an error
func AssertJSONRPCError(t *testing.T, response *JSONRPCResponse, expectedCode int) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.NotNil(t, response.Error, "response should contain an error")
	require.Equal(t, expectedCode, response.Error.Code, "error code should match")
}

// PostJSONRPC sends a raw JSON-RPC body to the API path via HTTP POST.
func PostJSONRPC(ctx context.Context, client *http.Client, serverURL string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+APIPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send POST request: %w", err)
	}
	return resp, nil
}
