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

// Package notifications queues JSON-RPC notifications for broadcast to
// every connected API client.
package notifications

import (
	"github.com/rewindlauncher/rewind-core/pkg/api/models"
	"github.com/rewindlauncher/rewind-core/pkg/process/tracker"
	"github.com/rewindlauncher/rewind-core/pkg/versions"
	"github.com/rs/zerolog/log"
)

// send drops the notification if the queue is full so handlers never
// block on slow clients.
func send(ns chan<- models.Notification, n models.Notification) {
	if ns == nil {
		return
	}
	select {
	case ns <- n:
	default:
		log.Warn().Str("method", n.Method).Msg("notification queue full, dropping")
	}
}

func TokenStored(ns chan<- models.Notification, payload models.TokenResponse) {
	send(ns, models.Notification{
		Method: models.NotificationTokenStored,
		Params: payload,
	})
}

func GameStarted(ns chan<- models.Notification, snap tracker.Snapshot) {
	send(ns, models.Notification{
		Method: models.NotificationGameStarted,
		Params: snap,
	})
}

func GameStopped(ns chan<- models.Notification) {
	send(ns, models.Notification{
		Method: models.NotificationGameStopped,
	})
}

func VersionsChanged(ns chan<- models.Notification, list []versions.VersionWithStatus) {
	send(ns, models.Notification{
		Method: models.NotificationVersionsChanged,
		Params: list,
	})
}
