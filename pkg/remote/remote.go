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

// Package remote talks to the launcher backend and the public cosmetics
// API.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrMalformed = errors.New("malformed remote response")

// Fetcher is the transport used by Client, satisfied by
// *httpclient.Client.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	GetJSON(ctx context.Context, url string, v any) error
}

type Client struct {
	http      Fetcher
	fs        afero.Fs
	endpoints config.Endpoints
	cacheDir  string
}

// NewClient returns a client for endpoints. Results worth caching are
// written to cacheDir on fs; an empty cacheDir disables caching.
//
//nolint:gocritic // endpoints copied for immutability
func NewClient(http Fetcher, endpoints config.Endpoints, fs afero.Fs, cacheDir string) *Client {
	return &Client{
		http:      http,
		endpoints: endpoints,
		fs:        fs,
		cacheDir:  cacheDir,
	}
}

// CacheFiles lists every cache file the client may write.
func CacheFiles() []string {
	return []string{config.ShopCacheFile, config.StatsCacheFile}
}

func (c *Client) writeCache(name string, v any) {
	if c.cacheDir == "" || c.fs == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("file", name).Msg("failed to encode cache")
		return
	}
	if err := c.fs.MkdirAll(c.cacheDir, 0o750); err != nil {
		log.Warn().Err(err).Str("dir", c.cacheDir).Msg("failed to create cache dir")
		return
	}
	path := filepath.Join(c.cacheDir, name)
	if err := afero.WriteFile(c.fs, path, data, 0o600); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to write cache")
	}
}

// RemoveCaches deletes the cache files written by the client. Missing
// files are ignored.
func (c *Client) RemoveCaches() {
	if c.cacheDir == "" || c.fs == nil {
		return
	}
	for _, name := range CacheFiles() {
		path := filepath.Join(c.cacheDir, name)
		err := c.fs.Remove(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove cache")
		}
	}
}

func withQuery(base string, q url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", base, err)
	}
	existing := u.Query()
	for k, vs := range q {
		for _, v := range vs {
			existing.Add(k, v)
		}
	}
	u.RawQuery = existing.Encode()
	return u.String(), nil
}
