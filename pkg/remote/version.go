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
	"net/url"
)

// VersionCheck is the backend's verdict on the running launcher version.
type VersionCheck struct {
	Version     *string `json:"version,omitempty"`
	DownloadURL *string `json:"download_url,omitempty"`
	Type        string  `json:"type"`
	Message     string  `json:"message"`
}

// CheckVersion asks the backend whether current is still supported.
func (c *Client) CheckVersion(ctx context.Context, current string) (VersionCheck, error) {
	u, err := withQuery(c.endpoints.VersionCheck, url.Values{"version": {current}})
	if err != nil {
		return VersionCheck{}, err
	}

	var check VersionCheck
	if err := c.http.GetJSON(ctx, u, &check); err != nil {
		return VersionCheck{}, fmt.Errorf("failed to check version: %w", err)
	}
	return check, nil
}
