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
	"github.com/rewindlauncher/rewind-core/pkg/api/notifications"
	"github.com/rewindlauncher/rewind-core/pkg/api/validation"
	"github.com/rewindlauncher/rewind-core/pkg/auth"
	"github.com/rs/zerolog/log"
)

// ErrLocalOnly is returned to clients outside the loopback interface for
// methods that expose the launcher token.
var ErrLocalOnly = errors.New("method is only available to local clients")

// HandleAuthToken returns the stored launcher token, or null if none has
// been received yet.
func HandleAuthToken(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	if !env.IsLocal {
		return nil, ErrLocalOnly
	}
	tok, err := env.Services.Tokens.Load()
	if errors.Is(err, auth.ErrNoStoredToken) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return models.TokenResponse{Token: tok.Token, StoredAt: tok.StoredAt}, nil
}

func HandleAuthTokenClear(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	if !env.IsLocal {
		return nil, ErrLocalOnly
	}
	return nil, env.Services.Tokens.Clear()
}

// HandleAuthDeepLink stores the token from a rewindlauncher:// link and
// tells every client about it.
func HandleAuthDeepLink(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.DeepLinkParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	token, err := auth.ParseDeepLink(params.URL)
	if err != nil {
		return nil, err
	}

	stored, err := env.Services.Tokens.Save(token)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("stored launcher token from deep link")

	resp := models.TokenResponse{Token: stored.Token, StoredAt: stored.StoredAt}
	notifications.TokenStored(env.Notifications, resp)
	return resp, nil
}
