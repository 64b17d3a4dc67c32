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

import (
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyLookupAuthEmptyAlwaysNil verifies empty auth returns nil.
func TestPropertyLookupAuthEmptyAlwaysNil(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		url := rapid.StringMatching(`https?://[a-z]+\.[a-z]+(/[a-z]*)?`).Draw(t, "url")

		if result := LookupAuth(Auth{}, url); result != nil {
			t.Fatalf("Empty auth should return nil, got %v for URL %q", result, url)
		}
	})
}

// TestPropertyLookupAuthPathPrefix verifies any sub path of a configured
// URL resolves to its credentials.
func TestPropertyLookupAuthPathPrefix(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		host := rapid.StringMatching(`[a-z]{3,10}`).Draw(t, "host")
		base := rapid.StringMatching(`/[a-z]{1,8}`).Draw(t, "base")
		sub := rapid.StringMatching(`(/[a-z]{1,8}){0,3}`).Draw(t, "sub")
		bearer := rapid.StringMatching(`[a-zA-Z0-9]{8,16}`).Draw(t, "bearer")

		authCfg := Auth{Creds: map[string]CredentialEntry{
			"https://" + host + ".com" + base: {Bearer: bearer},
		}}

		reqURL := "https://" + strings.ToUpper(host) + ".com" + base + sub
		result := LookupAuth(authCfg, reqURL)
		if result == nil {
			t.Fatalf("Expected match for URL %q", reqURL)
			return
		}
		if result.Bearer != bearer {
			t.Fatalf("Bearer mismatch: expected %s, got %s", bearer, result.Bearer)
		}
	})
}

// TestPropertyAPIPortRoundTrip verifies SetAPIPort is reflected by the
// port and listen getters.
func TestPropertyAPIPortRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		inst := &Instance{}
		inst.SetAPIPort(port)
		if inst.APIPort() != port {
			t.Fatalf("expected port %d, got %d", port, inst.APIPort())
		}
		if !strings.HasSuffix(inst.APIListen(), ":"+strconv.Itoa(port)) {
			t.Fatalf("listen address %q does not end with port %d", inst.APIListen(), port)
		}
	})
}
