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
	"github.com/rs/zerolog/log"
)

func HandleVersionsDetect(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.PathParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}
	log.Info().Str("path", params.Path).Msg("detecting version")
	return env.Services.Registry.Detect(params.Path)
}

func HandleVersionsAdd(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.PathParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}
	list, err := env.Services.Registry.Register(env.Context, params.Path)
	if err != nil {
		return nil, err
	}
	notifications.VersionsChanged(env.Notifications, list)
	return list, nil
}

func HandleVersions(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return env.Services.Registry.List(env.Context)
}

func HandleVersionsStored(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	return env.Services.Registry.Stored(), nil
}

func HandleVersionsRemove(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.RemoveVersionParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}
	list, err := env.Services.Registry.Unregister(env.Context, params.Path, params.DeleteFiles)
	if err != nil {
		return nil, err
	}
	notifications.VersionsChanged(env.Notifications, list)
	return list, nil
}
