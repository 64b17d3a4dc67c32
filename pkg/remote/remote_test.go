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

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeFetcher) Get(_ context.Context, u string) ([]byte, error) {
	f.calls = append(f.calls, u)
	if err := f.errs[u]; err != nil {
		return nil, err
	}
	body, ok := f.responses[u]
	if !ok {
		return nil, errors.New("404 " + u)
	}
	return []byte(body), nil
}

func (f *fakeFetcher) GetJSON(ctx context.Context, u string, v any) error {
	body, err := f.Get(ctx, u)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

var testEndpoints = config.Endpoints{
	Builds:       "https://backend.test/builds",
	Catalog:      "https://backend.test/catalog",
	Cosmetic:     "https://cosmetics.test/br/",
	Sessions:     "https://backend.test/sessions",
	Events:       "https://backend.test/events",
	ServerStatus: "https://backend.test/status",
	ServerStats:  "https://backend.test/stats",
	VersionCheck: "https://backend.test/version?channel=stable",
}

const cacheDir = "/tmp/rewind"

func newTestClient(t *testing.T) (*Client, *fakeFetcher, afero.Fs) {
	t.Helper()
	ff := newFakeFetcher()
	fs := afero.NewMemMapFs()
	return NewClient(ff, testEndpoints, fs, cacheDir), ff, fs
}

func TestFetchBuilds(t *testing.T) {
	t.Parallel()

	c, ff, _ := newTestClient(t)
	ff.responses[testEndpoints.Builds] = `{"builds":[
		{"build":"++Fortnite+Release-4.5","name":"Fortnite 4.5","accessType":"public","season_number":"4"},
		{"build":"++Fortnite+Release-12.41","name":"Fortnite 12.41","accessType":"donator","season_number":"12"}
	]}`

	builds, err := c.FetchBuilds(context.Background())
	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.Equal(t, Build{
		Build:        "++Fortnite+Release-4.5",
		Name:         "Fortnite 4.5",
		AccessType:   "public",
		SeasonNumber: "4",
	}, builds[0])
	assert.Equal(t, "donator", builds[1].AccessType)
}

func TestFetchBuilds_Error(t *testing.T) {
	t.Parallel()

	c, ff, _ := newTestClient(t)
	ff.errs[testEndpoints.Builds] = errors.New("connection refused")

	_, err := c.FetchBuilds(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchSessions(t *testing.T) {
	t.Parallel()

	c, ff, _ := newTestClient(t)
	ff.responses[testEndpoints.Sessions] = `[{"started":true,"ownerId":"abc","publicPlayers":["p1","p2"],"sessionId":"s1","sessionName":"EU Solo"}]`

	sessions, err := c.FetchSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, Session{
		Started:       true,
		OwnerID:       "abc",
		PublicPlayers: []string{"p1", "p2"},
		SessionID:     "s1",
		SessionName:   "EU Solo",
	}, sessions[0])

	ff.responses[testEndpoints.Sessions] = `null`
	sessions, err = c.FetchSessions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestFetchEvents(t *testing.T) {
	t.Parallel()

	c, ff, _ := newTestClient(t)
	ff.responses[testEndpoints.Events] = `[{"id":3,"name":"Winterfest","card_name":"Winter","active":true,"ButtonIco":"gift","audio_url":null}]`

	events, err := c.FetchEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 3, events[0].ID)
	assert.Equal(t, "Winterfest", events[0].Name)
	assert.True(t, events[0].Active)
	require.NotNil(t, events[0].ButtonIcon)
	assert.Equal(t, "gift", *events[0].ButtonIcon)
	assert.Nil(t, events[0].AudioURL)
}

func TestServerStatusAndStats(t *testing.T) {
	t.Parallel()

	c, ff, fs := newTestClient(t)
	ff.responses[testEndpoints.ServerStatus] = `{"isServerReady":true}`
	ff.responses[testEndpoints.ServerStats] = `{"server_count":4,"player_count":120}`

	status, err := c.ServerStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Ready)

	stats, err := c.FetchServerStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ServerStats{Servers: 4, Players: 120}, stats)

	cached, err := afero.ReadFile(fs, filepath.Join(cacheDir, config.StatsCacheFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"server_count":4,"player_count":120}`, string(cached))
}

func TestCheckVersion(t *testing.T) {
	t.Parallel()

	c, ff, _ := newTestClient(t)
	u, err := url.Parse(testEndpoints.VersionCheck)
	require.NoError(t, err)
	q := u.Query()
	q.Set("version", "0.0.15")
	u.RawQuery = q.Encode()
	ff.responses[u.String()] = `{"type":"update","message":"New version","version":"0.0.16","download_url":"https://dl.test/rewind.exe"}`

	check, err := c.CheckVersion(context.Background(), "0.0.15")
	require.NoError(t, err)
	assert.Equal(t, "update", check.Type)
	assert.Equal(t, "New version", check.Message)
	require.NotNil(t, check.Version)
	assert.Equal(t, "0.0.16", *check.Version)
	require.NotNil(t, check.DownloadURL)
	assert.Equal(t, "https://dl.test/rewind.exe", *check.DownloadURL)
}

func TestRemoveCaches(t *testing.T) {
	t.Parallel()

	c, _, fs := newTestClient(t)
	for _, name := range CacheFiles() {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(cacheDir, name), []byte("{}"), 0o600))
	}
	require.NoError(t, afero.WriteFile(fs, filepath.Join(cacheDir, "core.log"), []byte("log"), 0o600))

	c.RemoveCaches()
	c.RemoveCaches()

	for _, name := range CacheFiles() {
		exists, err := afero.Exists(fs, filepath.Join(cacheDir, name))
		require.NoError(t, err)
		assert.False(t, exists, name)
	}
	exists, err := afero.Exists(fs, filepath.Join(cacheDir, "core.log"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNoCacheDir(t *testing.T) {
	t.Parallel()

	ff := newFakeFetcher()
	ff.responses[testEndpoints.ServerStats] = `{"server_count":1,"player_count":2}`
	fs := afero.NewMemMapFs()
	c := NewClient(ff, testEndpoints, fs, "")

	_, err := c.FetchServerStats(context.Background())
	require.NoError(t, err)
	c.RemoveCaches()

	entries, err := afero.ReadDir(fs, "/")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
