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

package methods

import (
	"github.com/rewindlauncher/rewind-core/pkg/api/models/requests"
	"github.com/rewindlauncher/rewind-core/pkg/config"
)

func HandleBuilds(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return env.Services.Remote.FetchBuilds(env.Context)
}

func HandleSessions(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return env.Services.Remote.FetchSessions(env.Context)
}

func HandleShop(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return env.Services.Remote.FetchShop(env.Context)
}

func HandleEvents(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return env.Services.Remote.FetchEvents(env.Context)
}

func HandleServerStatus(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return env.Services.Remote.ServerStatus(env.Context)
}

func HandleServerStats(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return env.Services.Remote.FetchServerStats(env.Context)
}

func HandleUpdateCheck(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return env.Services.Remote.CheckVersion(env.Context, config.AppVersion)
}
