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

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRPCIDUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
		isNull  bool
	}{
		{name: "string", input: `"abc"`},
		{name: "number", input: `42`},
		{name: "null", input: `null`, isNull: true},
		{name: "object", input: `{"a":1}`, wantErr: ErrInvalidRPCID},
		{name: "array", input: ` [1]`, wantErr: ErrInvalidRPCID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var id RPCID
			err := id.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.isNull, id.IsNull())
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestRequestObjectIDRoundTrip(t *testing.T) {
	t.Parallel()

	var req RequestObject
	require.NoError(t, json.Unmarshal(
		[]byte(`{"jsonrpc":"2.0","id":"req-1","method":"getRuntimePath"}`),
		&req,
	))
	require.NotNil(t, req.ID)
	assert.False(t, req.ID.IsAbsent())

	resp := ResponseObject{JSONRPC: "2.0", ID: *req.ID, Result: "/data"}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"req-1","result":"/data"}`, string(data))
}

func TestRequestObjectWithoutIDIsNotification(t *testing.T) {
	t.Parallel()

	var req RequestObject
	require.NoError(t, json.Unmarshal(
		[]byte(`{"jsonrpc":"2.0","method":"relaunch"}`),
		&req,
	))
	assert.True(t, req.ID.IsAbsent())
	id := NewStringID("x")
	assert.True(t, id.Equal(NewStringID("x")))
}
