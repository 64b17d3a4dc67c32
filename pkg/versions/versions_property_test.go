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

package versions

import (
	"context"
	"strings"
	"testing"

	"github.com/rewindlauncher/rewind-core/pkg/fingerprint"
	"github.com/rewindlauncher/rewind-core/pkg/remote"
	"github.com/spf13/afero"
	"pgregory.net/rapid"
)

var releaseGen = rapid.OneOf(
	rapid.StringMatching(`[1-9][0-9]?\.[0-9]{1,2}`),
	rapid.SampledFrom([]string{"Live", "Next", "Cert"}),
)

// TestPropertyJoinKeys verifies a stored version matches a build exactly
// when the build name is the release with the prefix.
func TestPropertyJoinKeys(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		release := releaseGen.Draw(t, "release")
		cl := rapid.StringMatching(`[0-9]{1,9}`).Draw(t, "cl")
		listed := rapid.Bool().Draw(t, "listed")

		stored := []StoredVersion{{Path: "/x", Version: release + " (CL-" + cl + ")"}}
		var builds []remote.Build
		if listed {
			builds = append(builds, remote.Build{Name: "Fortnite " + release, AccessType: "public"})
		}

		got := Join(stored, builds)
		if len(got) != 1 {
			t.Fatalf("expected one result, got %d", len(got))
		}
		if listed && got[0].AccessType != "public" {
			t.Fatalf("expected match for %q", release)
		}
		if !listed && got[0].AccessType != UnknownAccessType {
			t.Fatalf("unexpected match for %q", release)
		}
		if got[0].BuildName != "Fortnite "+release {
			t.Fatalf("build name %q for release %q", got[0].BuildName, release)
		}
	})
}

// TestPropertyRegistryRoundTrip verifies every registered version
// survives a reload from disk.
func TestPropertyRegistryRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		paths := rapid.SliceOfNDistinct(
			rapid.StringMatching(`/games/[a-z]{1,8}/[A-Za-z0-9 ]{1,8}`),
			1, 6,
			func(s string) string { return s },
		).Draw(t, "paths")

		results := map[string]fingerprint.Info{}
		for _, p := range paths {
			release := releaseGen.Draw(t, "release")
			results[p] = fingerprint.Info{
				Version:          release + " (CL-1)",
				TechnicalVersion: release + ".0-CL-1",
				SplashImage:      "data:image/bmp;base64," + strings.Repeat("A", len(p)),
			}
		}

		fs := afero.NewMemMapFs()
		r := NewRegistry(fs, dataDir, &fakeBuilds{}).WithScanner(fakeScanner(results))
		for _, p := range paths {
			if _, err := r.Register(context.Background(), p); err != nil {
				t.Fatalf("register %q: %v", p, err)
			}
		}

		reloaded := NewRegistry(fs, dataDir, &fakeBuilds{})
		reloaded.Load()
		got := reloaded.Stored()
		if len(got) != len(paths) {
			t.Fatalf("reloaded %d versions, want %d", len(got), len(paths))
		}
		for _, v := range got {
			want := results[v.Path]
			if v.Version != want.Version || v.TechnicalVersion != want.TechnicalVersion ||
				v.SplashImage != want.SplashImage {
				t.Fatalf("version for %q changed across reload: %+v", v.Path, v)
			}
		}
	})
}
