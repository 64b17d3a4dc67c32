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

package auth

import (
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseDeepLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		link    string
		want    string
		wantErr bool
	}{
		{name: "plain token", link: "rewindlauncher://auth?launcherToken=abc123", want: "abc123"},
		{name: "trailing slash", link: "rewindlauncher://auth/?launcherToken=abc123", want: "abc123"},
		{name: "case insensitive", link: "RewindLauncher://AUTH?LAUNCHERTOKEN=abc", want: "abc"},
		{name: "url encoded", link: "rewindlauncher://auth?launcherToken=a%2Bb%3D%3D", want: "a+b=="},
		{name: "invalid escape kept raw", link: "rewindlauncher://auth?launcherToken=a%zz", want: "a%zz"},
		{name: "wrapped in quotes by shell", link: `"rewindlauncher://auth?launcherToken=xyz"`, want: `xyz"`},
		{name: "missing token", link: "rewindlauncher://auth?launcherToken=", wantErr: true},
		{name: "other host", link: "rewindlauncher://login?launcherToken=abc", wantErr: true},
		{name: "other scheme", link: "https://auth?launcherToken=abc", wantErr: true},
		{name: "empty", link: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDeepLink(tt.link)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPropertyParseDeepLinkRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		token := rapid.StringMatching(`[A-Za-z0-9._\-+/=]{1,64}`).Draw(t, "token")
		link := "rewindlauncher://auth?launcherToken=" + url.QueryEscape(token)

		got, err := ParseDeepLink(link)
		if err != nil {
			t.Fatalf("parse %q: %v", link, err)
		}
		if got != token {
			t.Fatalf("got %q, want %q", got, token)
		}
	})
}

func TestTokenStore(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))
	store := NewTokenStore(fs, "/data", clock)

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoStoredToken)

	saved, err := store.Save("tok")
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Unix(), saved.StoredAt)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	raw, err := afero.ReadFile(fs, filepath.Join("/data", config.TokenFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"tok","stored_at":1792238400}`, string(raw))

	clock.Advance(time.Hour)
	saved, err = store.Save("tok2")
	require.NoError(t, err)
	assert.Equal(t, loaded.StoredAt+3600, saved.StoredAt)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoStoredToken)
}

func TestTokenStore_Errors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := NewTokenStore(fs, "/data", nil)

	_, err := store.Save("")
	require.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, afero.WriteFile(fs, filepath.Join("/data", config.TokenFile), []byte("garbage"), 0o600))
	_, err = store.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoStoredToken)

	ro := NewTokenStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/data", nil)
	_, err = ro.Save("tok")
	require.Error(t, err)
}
