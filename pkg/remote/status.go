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
	"fmt"

	"github.com/rewindlauncher/rewind-core/pkg/config"
)

type ServerStatus struct {
	Ready bool `json:"isServerReady"`
}

type ServerStats struct {
	Servers int `json:"server_count"`
	Players int `json:"player_count"`
}

func (c *Client) ServerStatus(ctx context.Context) (ServerStatus, error) {
	var status ServerStatus
	if err := c.http.GetJSON(ctx, c.endpoints.ServerStatus, &status); err != nil {
		return ServerStatus{}, fmt.Errorf("failed to fetch server status: %w", err)
	}
	return status, nil
}

// FetchServerStats returns the live server and player counts and caches
// them to the temp dir.
func (c *Client) FetchServerStats(ctx context.Context) (ServerStats, error) {
	var stats ServerStats
	if err := c.http.GetJSON(ctx, c.endpoints.ServerStats, &stats); err != nil {
		return ServerStats{}, fmt.Errorf("failed to fetch server stats: %w", err)
	}
	c.writeCache(config.StatsCacheFile, stats)
	return stats, nil
}
