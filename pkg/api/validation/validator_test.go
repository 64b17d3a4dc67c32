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

package validation

import (
	"encoding/json"
	"testing"

	"github.com/rewindlauncher/rewind-core/pkg/api/models"
	"github.com/rewindlauncher/rewind-core/pkg/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndUnmarshal_Missing(t *testing.T) {
	t.Parallel()

	var p models.PathParams
	require.ErrorIs(t, ValidateAndUnmarshal(nil, &p), ErrMissingParams)
	require.ErrorIs(t, ValidateAndUnmarshal(json.RawMessage("null"), &p), ErrMissingParams)
}

func TestValidateAndUnmarshal_Invalid(t *testing.T) {
	t.Parallel()

	var p models.PathParams
	err := ValidateAndUnmarshal(json.RawMessage(`{"path":42}`), &p)
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestInstallPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  string
		valid bool
	}{
		{name: "unix absolute", path: "/games/Fortnite 12.41", valid: true},
		{name: "windows drive", path: `C:\Builds\12.41`, valid: true},
		{name: "windows forward slashes", path: "d:/Builds/8.51", valid: true},
		{name: "relative", path: "Builds/12.41", valid: false},
		{name: "parent reference", path: "/games/../etc", valid: false},
		{name: "windows parent reference", path: `C:\Builds\..\Windows`, valid: false},
		{name: "drive only", path: "C:", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw, err := json.Marshal(map[string]string{"path": tt.path})
			require.NoError(t, err)

			var p models.PathParams
			err = ValidateAndUnmarshal(raw, &p)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.path, p.Path)
				return
			}
			var ve *Error
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "path", ve.Fields[0].Field)
			assert.Equal(t, "installpath", ve.Fields[0].Tag)
		})
	}
}

func TestLaunchParams_Required(t *testing.T) {
	t.Parallel()

	var p models.LaunchParams
	err := ValidateAndUnmarshal(json.RawMessage(`{"path":"/games/12.41"}`), &p)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 2)
	assert.Equal(t, "email is required; password is required", ve.Error())
}

func TestDiscordActivity(t *testing.T) {
	t.Parallel()

	var a discord.Activity
	err := ValidateAndUnmarshal(json.RawMessage(`{
		"state": "In Launcher",
		"buttons": [{"label": "Join", "url": "not a url"}]
	}`), &a)

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "url", ve.Fields[0].Tag)

	err = ValidateAndUnmarshal(json.RawMessage(`{
		"state": "In Launcher",
		"buttons": [{"label": "Join", "url": "https://rewind.test"}]
	}`), &a)
	require.NoError(t, err)
}
