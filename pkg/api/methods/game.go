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
	"github.com/rewindlauncher/rewind-core/pkg/api/models"
	"github.com/rewindlauncher/rewind-core/pkg/api/models/requests"
	"github.com/rewindlauncher/rewind-core/pkg/api/notifications"
	"github.com/rewindlauncher/rewind-core/pkg/api/validation"
	"github.com/rewindlauncher/rewind-core/pkg/service/game"
)

func HandleGameLaunch(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.LaunchParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}
	snap, err := env.Services.Game.Launch(env.Context, game.LaunchRequest{
		Path:     params.Path,
		Email:    params.Email,
		Password: params.Password,
	})
	if err != nil {
		return nil, err
	}
	notifications.GameStarted(env.Notifications, snap)
	return snap, nil
}

func HandleGameRunning(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	running, err := env.Services.Game.Running(env.Context)
	if err != nil {
		return nil, err
	}
	return models.GameRunningResponse{
		Running:   running,
		Processes: env.Services.Game.Status(),
	}, nil
}

func HandleGameStop(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	if err := env.Services.Game.Stop(env.Context); err != nil {
		return nil, err
	}
	notifications.GameStopped(env.Notifications)
	return nil, nil
}
