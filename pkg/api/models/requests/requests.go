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

package requests

import (
	"context"
	"encoding/json"

	"github.com/rewindlauncher/rewind-core/pkg/api/models"
	"github.com/rewindlauncher/rewind-core/pkg/auth"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rewindlauncher/rewind-core/pkg/discord"
	"github.com/rewindlauncher/rewind-core/pkg/platforms"
	"github.com/rewindlauncher/rewind-core/pkg/remote"
	"github.com/rewindlauncher/rewind-core/pkg/service/game"
	"github.com/rewindlauncher/rewind-core/pkg/versions"
)

// Services are the long-lived components handlers operate on.
type Services struct {
	Registry *versions.Registry
	Game     *game.Controller
	Remote   *remote.Client
	Tokens   *auth.TokenStore
	Discord  *discord.Client
}

type RequestEnv struct {
	Context       context.Context
	Platform      platforms.Platform
	Config        *config.Instance
	Services      *Services
	Notifications chan<- models.Notification
	Params        json.RawMessage
	ID            json.RawMessage
	IsLocal       bool
}
