// Rewind Core
// Copyright (c) 2026 The Rewind Launcher Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Rewind Core.
//
// Rewind Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Rewind Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Rewind Core.  If not, see <http://www.gnu.org/licenses/>.

package models

import (
	"encoding/json"
)

const (
	NotificationTokenStored     = "auth.token.stored"
	NotificationGameStarted     = "game.started"
	NotificationGameStopped     = "game.stopped"
	NotificationVersionsChanged = "versions.changed"
)

const (
	MethodVersionsDetect  = "versions.detect"
	MethodVersionsAdd     = "versions.add"
	MethodVersions        = "versions"
	MethodVersionsStored  = "versions.stored"
	MethodVersionsRemove  = "versions.remove"
	MethodBuilds          = "builds"
	MethodGameLaunch      = "game.launch"
	MethodGameRunning     = "game.running"
	MethodGameStop        = "game.stop"
	MethodAuthToken       = "auth.token"
	MethodAuthTokenClear  = "auth.token.clear"
	MethodAuthDeepLink    = "auth.deeplink"
	MethodDiscordActivity = "discord.activity"
	MethodDiscordClear    = "discord.clear"
	MethodSessions        = "sessions"
	MethodShop            = "shop"
	MethodEvents          = "events"
	MethodServerStatus    = "server.status"
	MethodServerStats     = "server.stats"
	MethodUpdateCheck     = "update.check"
	MethodVersion         = "version"
)

type Notification struct {
	Params any
	Method string
}

// RequestObject is a JSON-RPC 2.0 request. A request without an ID is a
// notification and gets no response.
type RequestObject struct {
	ID      json.RawMessage `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// HasID reports whether the request carries an ID, which may be null.
func (r *RequestObject) HasID() bool {
	return len(r.ID) > 0
}

type ErrorObject struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ResponseObject struct {
	Result  any             `json:"result"`
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
}

type ResponseErrorObject struct {
	Error   *ErrorObject    `json:"error"`
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
}

// NotificationObject is a server push. It never has an ID.
type NotificationObject struct {
	Params  any    `json:"params,omitempty"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
}
