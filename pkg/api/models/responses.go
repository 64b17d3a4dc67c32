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
	"github.com/rewindlauncher/rewind-core/pkg/process/tracker"
)

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

type GameRunningResponse struct {
	Processes tracker.Snapshot `json:"processes"`
	Running   bool             `json:"running"`
}

type TokenResponse struct {
	Token    string `json:"token"`
	StoredAt int64  `json:"storedAt"`
}

type DiscordResponse struct {
	Connected bool `json:"connected"`
}
