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

package notifications

import (
	"testing"

	"github.com/rewindlauncher/rewind-core/pkg/api/models"
	"github.com/rewindlauncher/rewind-core/pkg/process/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStored(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)
	TokenStored(ns, models.TokenResponse{Token: "abc", StoredAt: 10})

	n := <-ns
	assert.Equal(t, models.NotificationTokenStored, n.Method)
	assert.Equal(t, models.TokenResponse{Token: "abc", StoredAt: 10}, n.Params)
}

func TestGameNotifications(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 2)
	GameStarted(ns, tracker.Snapshot{Main: 4})
	GameStopped(ns)

	require.Len(t, ns, 2)
	assert.Equal(t, models.NotificationGameStarted, (<-ns).Method)
	stopped := <-ns
	assert.Equal(t, models.NotificationGameStopped, stopped.Method)
	assert.Nil(t, stopped.Params)
}

func TestSendDropsWhenFull(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)
	GameStopped(ns)
	GameStopped(ns)
	assert.Len(t, ns, 1)

	// nil queue is a no-op
	GameStopped(nil)
}
