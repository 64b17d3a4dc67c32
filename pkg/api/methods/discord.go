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
	"errors"

	"github.com/rewindlauncher/rewind-core/pkg/api/models"
	"github.com/rewindlauncher/rewind-core/pkg/api/models/requests"
	"github.com/rewindlauncher/rewind-core/pkg/api/validation"
	"github.com/rewindlauncher/rewind-core/pkg/discord"
)

var ErrDiscordDisabled = errors.New("discord presence is disabled")

func HandleDiscordActivity(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	if !env.Config.DiscordEnabled() {
		return nil, ErrDiscordDisabled
	}

	var activity discord.Activity
	if err := validation.ValidateAndUnmarshal(env.Params, &activity); err != nil {
		return nil, err
	}

	client := env.Services.Discord
	if !client.Connected() {
		if err := client.Connect(env.Context); err != nil {
			return nil, err
		}
	}
	if err := client.SetActivity(&activity); err != nil {
		return nil, err
	}
	return models.DiscordResponse{Connected: client.Connected()}, nil
}

func HandleDiscordClear(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	client := env.Services.Discord
	if !client.Connected() {
		return models.DiscordResponse{Connected: false}, nil
	}
	if err := client.ClearActivity(); err != nil {
		return nil, err
	}
	return models.DiscordResponse{Connected: client.Connected()}, nil
}
