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

package fingerprint

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
	"pgregory.net/rapid"
)

const testRoot = "/games/Fortnite 4.5"

func encode(t testing.TB, s string) []byte {
	t.Helper()
	b, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func writeInstall(t *testing.T, fs afero.Fs, exe, splash []byte) {
	t.Helper()
	if exe != nil {
		require.NoError(t, afero.WriteFile(fs, ExecutableIn(testRoot), exe, 0o644))
	}
	if splash != nil {
		require.NoError(t, afero.WriteFile(fs, SplashIn(testRoot), splash, 0o644))
	}
}

func padding(n int) []byte {
	return bytes.Repeat([]byte{0x90}, n)
}

func TestScan(t *testing.T) {
	t.Parallel()

	splash := []byte("BM fake bitmap")

	tests := []struct {
		name     string
		exe      func(t *testing.T) []byte
		wantVer  string
		wantTech string
	}{
		{
			name: "numeric release",
			exe: func(t *testing.T) []byte {
				return append(append(padding(1024), encode(t, "++Fortnite+Release-4.5-CL-4159770")...), padding(512)...)
			},
			wantVer:  "4.5 (CL-4159770)",
			wantTech: "4.5.0-CL-4159770",
		},
		{
			name: "release with eight digit changelist",
			exe: func(t *testing.T) []byte {
				return append(append(padding(2048), encode(t, "++Fortnite+Release-24.10-CL-12345678")...), padding(256)...)
			},
			wantVer:  "24.10 (CL-12345678)",
			wantTech: "24.10.0-CL-12345678",
		},
		{
			name: "named release",
			exe: func(t *testing.T) []byte {
				return append(append(padding(64), encode(t, "++Fortnite+Release-Cert-CL-3541083")...), padding(512)...)
			},
			wantVer:  "Cert (CL-3541083)",
			wantTech: "Cert.0-CL-3541083",
		},
		{
			name: "first marker without version is skipped",
			exe: func(t *testing.T) []byte {
				var b []byte
				b = append(b, encode(t, "++Fortnite+Release-garbage")...)
				b = append(b, padding(400)...)
				b = append(b, encode(t, "++Fortnite+Release-12.41-CL-12905909")...)
				return append(b, padding(400)...)
			},
			wantVer:  "12.41 (CL-12905909)",
			wantTech: "12.41.0-CL-12905909",
		},
		{
			name: "first matching offset wins",
			exe: func(t *testing.T) []byte {
				var b []byte
				b = append(b, encode(t, "++Fortnite+Release-Live-CL-1")...)
				b = append(b, padding(400)...)
				b = append(b, encode(t, "++Fortnite+Release-Next-CL-2")...)
				return b
			},
			wantVer:  "Live (CL-1)",
			wantTech: "Live.0-CL-1",
		},
		{
			name: "marker at end of file",
			exe: func(t *testing.T) []byte {
				return append(padding(3000), encode(t, "++Fortnite+Release-1.8-CL-3724489")...)
			},
			wantVer:  "1.8 (CL-3724489)",
			wantTech: "1.8.0-CL-3724489",
		},
		{
			name: "odd length file",
			exe: func(t *testing.T) []byte {
				b := append(padding(3), encode(t, "++Fortnite+Release-7.30-CL-5")...)
				return append(b, 0x41)
			},
			wantVer:  "7.30 (CL-5)",
			wantTech: "7.30.0-CL-5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			writeInstall(t, fs, tt.exe(t), splash)

			info, err := Scan(fs, testRoot)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVer, info.Version)
			assert.Equal(t, tt.wantTech, info.TechnicalVersion)
			assert.Equal(t,
				"data:image/bmp;base64,"+base64.StdEncoding.EncodeToString(splash),
				info.SplashImage,
			)
		})
	}
}

func TestScan_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		exe     []byte
		splash  []byte
		wantErr error
	}{
		{
			name:    "nothing installed",
			wantErr: ErrMissingExecutable,
		},
		{
			name:    "missing executable with splash present",
			splash:  []byte("BM"),
			wantErr: ErrMissingExecutable,
		},
		{
			name:    "missing splash",
			exe:     []byte("MZ"),
			wantErr: ErrMissingSplash,
		},
		{
			name:    "no marker",
			exe:     padding(4096),
			splash:  []byte("BM"),
			wantErr: ErrPatternNotFound,
		},
		{
			name:    "ascii marker does not count",
			exe:     []byte("++Fortnite+Release-4.5-CL-4159770"),
			splash:  []byte("BM"),
			wantErr: ErrPatternNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			writeInstall(t, fs, tt.exe, tt.splash)

			info, err := Scan(fs, testRoot)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, Info{}, info)
		})
	}
}

type failOpenFs struct {
	afero.Fs
}

func (failOpenFs) Open(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
}

func TestScan_IOFailure(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	writeInstall(t, mem, []byte("MZ"), []byte("BM"))

	_, err := Scan(failOpenFs{Fs: mem}, testRoot)
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, os.ErrPermission)
}

func TestExecutableIn(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		filepath.Join("root", "FortniteGame", "Binaries", "Win64", "FortniteClient-Win64-Shipping.exe"),
		ExecutableIn("root"),
	)
}

func TestMarkerBytes(t *testing.T) {
	t.Parallel()

	b := MarkerBytes()
	require.Len(t, b, 2*len(Marker))
	assert.Equal(t, []byte{'+', 0, '+', 0, 'F', 0}, b[:6])
}

func TestParseWindow(t *testing.T) {
	t.Parallel()

	w := encode(t, "++Fortnite+Release-3.5-CL-4008490")

	rel, cl, ok := ParseWindow(w)
	require.True(t, ok)
	assert.Equal(t, "3.5", rel)
	assert.Equal(t, "4008490", cl)

	// odd trailing byte and an unpaired surrogate after the match
	w = append(append(w, 0x00, 0xD8), 0x7F)
	rel, cl, ok = ParseWindow(w)
	require.True(t, ok)
	assert.Equal(t, "3.5", rel)
	assert.Equal(t, "4008490", cl)

	_, _, ok = ParseWindow(encode(t, "++Fortnite+Release-123.4-CL-1"))
	assert.False(t, ok)

	_, _, ok = ParseWindow(nil)
	assert.False(t, ok)
}

func naiveFindAll(buf, needle []byte) []int {
	var out []int
	for i := 0; i+len(needle) <= len(buf); i++ {
		if bytes.Equal(buf[i:i+len(needle)], needle) {
			out = append(out, i)
		}
	}
	return out
}

// TestPropertyFindAllMatchesSlidingWindow compares FindAll against a
// byte-by-byte sliding window over small alphabets where overlaps are
// common.
func TestPropertyFindAllMatchesSlidingWindow(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		buf := rapid.SliceOfN(rapid.ByteRange('a', 'c'), 0, 64).Draw(t, "buf")
		needle := rapid.SliceOfN(rapid.ByteRange('a', 'c'), 1, 4).Draw(t, "needle")

		got := FindAll(buf, needle)
		want := naiveFindAll(buf, needle)
		if len(got) != len(want) {
			t.Fatalf("FindAll(%q, %q) = %v, want %v", buf, needle, got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("FindAll(%q, %q) = %v, want %v", buf, needle, got, want)
			}
		}
	})
}

// TestPropertyScanRoundTrip embeds an arbitrary release in random padding
// and expects Scan to report it.
func TestPropertyScanRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(rt *rapid.T) {
		release := rapid.OneOf(
			rapid.StringMatching(`[1-9][0-9]?\.[0-9]{1,2}`),
			rapid.SampledFrom([]string{"Live", "Next", "Cert"}),
		).Draw(rt, "release")
		cl := rapid.StringMatching(`[1-9][0-9]{0,8}`).Draw(rt, "cl")
		pre := rapid.IntRange(0, 256).Draw(rt, "pre")

		marker := encode(t, "++Fortnite+Release-"+release+"-CL-"+cl)
		exe := append(padding(pre), marker...)
		exe = append(exe, 0, 0)

		fs := afero.NewMemMapFs()
		require.NoError(rt, afero.WriteFile(fs, ExecutableIn(testRoot), exe, 0o644))
		require.NoError(rt, afero.WriteFile(fs, SplashIn(testRoot), []byte("BM"), 0o644))

		info, err := Scan(fs, testRoot)
		if err != nil {
			rt.Fatalf("scan failed: %v", err)
		}
		if info.Version != release+" (CL-"+cl+")" {
			rt.Fatalf("version %q for release %q cl %q", info.Version, release, cl)
		}
	})
}
