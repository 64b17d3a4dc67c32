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

package config

import "time"

const (
	DefaultBuildsURL       = "https://api.rewindlauncher.com/launcher/builds"
	DefaultCatalogURL      = "https://api.rewindlauncher.com/launcher/shop"
	DefaultCosmeticURL     = "https://fortnite-api.com/v2/cosmetics/br/"
	DefaultSessionsURL     = "https://api.rewindlauncher.com/launcher/sessions"
	DefaultEventsURL       = "https://api.rewindlauncher.com/launcher/events"
	DefaultServerStatusURL = "https://api.rewindlauncher.com/launcher/status"
	DefaultServerStatsURL  = "https://api.rewindlauncher.com/launcher/stats"
	DefaultVersionCheckURL = "https://api.rewindlauncher.com/launcher/version"
	DefaultRemoteTimeout   = 15 * time.Second
	DefaultRemoteRetries   = 2
)

type Remote struct {
	Retries         *int   `toml:"retries,omitempty"`
	BuildsURL       string `toml:"builds_url,omitempty"`
	CatalogURL      string `toml:"catalog_url,omitempty"`
	CosmeticURL     string `toml:"cosmetic_url,omitempty"`
	SessionsURL     string `toml:"sessions_url,omitempty"`
	EventsURL       string `toml:"events_url,omitempty"`
	ServerStatusURL string `toml:"server_status_url,omitempty"`
	ServerStatsURL  string `toml:"server_stats_url,omitempty"`
	VersionCheckURL string `toml:"version_check_url,omitempty"`
	Timeout         string `toml:"timeout,omitempty"`
}

// Endpoints is a snapshot of every remote URL the service talks to.
type Endpoints struct {
	Builds       string
	Catalog      string
	Cosmetic     string
	Sessions     string
	Events       string
	ServerStatus string
	ServerStats  string
	VersionCheck string
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (c *Instance) RemoteEndpoints() Endpoints {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r := c.vals.Remote
	return Endpoints{
		Builds:       orDefault(r.BuildsURL, DefaultBuildsURL),
		Catalog:      orDefault(r.CatalogURL, DefaultCatalogURL),
		Cosmetic:     orDefault(r.CosmeticURL, DefaultCosmeticURL),
		Sessions:     orDefault(r.SessionsURL, DefaultSessionsURL),
		Events:       orDefault(r.EventsURL, DefaultEventsURL),
		ServerStatus: orDefault(r.ServerStatusURL, DefaultServerStatusURL),
		ServerStats:  orDefault(r.ServerStatsURL, DefaultServerStatsURL),
		VersionCheck: orDefault(r.VersionCheckURL, DefaultVersionCheckURL),
	}
}

func (c *Instance) SetBuildsURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Remote.BuildsURL = u
}

// RemoteTimeout parses the configured duration, falling back to the
// default when unset or invalid.
func (c *Instance) RemoteTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Remote.Timeout == "" {
		return DefaultRemoteTimeout
	}
	d, err := time.ParseDuration(c.vals.Remote.Timeout)
	if err != nil || d <= 0 {
		return DefaultRemoteTimeout
	}
	return d
}

func (c *Instance) RemoteRetries() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Remote.Retries == nil || *c.vals.Remote.Retries < 0 {
		return DefaultRemoteRetries
	}
	return *c.vals.Remote.Retries
}
