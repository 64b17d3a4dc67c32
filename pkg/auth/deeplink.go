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
	"errors"
	"net/url"
	"regexp"
)

const Scheme = "rewindlauncher"

var ErrNoToken = errors.New("deep link does not carry a launcher token")

var deepLinkRe = regexp.MustCompile(`(?i)rewindlauncher://auth/?[?]launcherToken=(.+)`)

// ParseDeepLink extracts the launcher token from a link of the form
// rewindlauncher://auth?launcherToken=<token>. The token is URL-decoded;
// if decoding fails the raw value is returned.
func ParseDeepLink(link string) (string, error) {
	m := deepLinkRe.FindStringSubmatch(link)
	if m == nil {
		return "", ErrNoToken
	}
	token, err := url.QueryUnescape(m[1])
	if err != nil {
		token = m[1]
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
