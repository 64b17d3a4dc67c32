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
)

// Build is one entry of the remote build list.
type Build struct {
	Build        string `json:"build"`
	Name         string `json:"name"`
	AccessType   string `json:"accessType"`
	SeasonNumber string `json:"season_number"`
}

type buildsResponse struct {
	Builds []Build `json:"builds"`
}

func (c *Client) FetchBuilds(ctx context.Context) ([]Build, error) {
	var resp buildsResponse
	if err := c.http.GetJSON(ctx, c.endpoints.Builds, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch builds: %w", err)
	}
	return resp.Builds, nil
}
