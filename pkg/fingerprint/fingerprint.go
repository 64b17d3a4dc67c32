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

// Package fingerprint identifies an installed game build by scanning the
// shipping executable for its embedded release marker.
package fingerprint

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
)

const (
	ExecutablePath = "FortniteGame/Binaries/Win64/FortniteClient-Win64-Shipping.exe"
	SplashPath     = "FortniteGame/Content/Splash/Splash.bmp"
	Marker         = "++Fortnite+Release-"
	// WindowSize is the number of bytes read at each marker offset.
	WindowSize = 200
)

var (
	ErrMissingExecutable = errors.New("game executable not found")
	ErrMissingSplash     = errors.New("splash image not found")
	ErrPatternNotFound   = errors.New("release marker not found")
	ErrIO                = errors.New("failed to read game files")
)

var releaseRe = regexp.MustCompile(
	`\+\+Fortnite\+Release-(\d{1,2}\.\d{1,2}|Live|Next|Cert)-CL-(\d+)`,
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Info describes a detected build. Version is the display form, e.g.
// "4.5 (CL-4159770)", TechnicalVersion the dotted form "4.5.0-CL-4159770".
type Info struct {
	Version          string `json:"version"`
	TechnicalVersion string `json:"technical_version"`
	SplashImage      string `json:"splash_image"`
}

func ExecutableIn(root string) string {
	return filepath.Join(root, filepath.FromSlash(ExecutablePath))
}

func SplashIn(root string) string {
	return filepath.Join(root, filepath.FromSlash(SplashPath))
}

// MarkerBytes returns the release marker encoded as UTF-16LE without a BOM.
func MarkerBytes() []byte {
	b, err := utf16le.NewEncoder().Bytes([]byte(Marker))
	if err != nil {
		// the marker is plain ASCII
		panic(err)
	}
	return b
}

// FindAll returns the offset of every occurrence of needle in buf in
// ascending order, including overlapping ones.
func FindAll(buf, needle []byte) []int {
	if len(needle) == 0 || len(buf) < len(needle) {
		return nil
	}
	var offsets []int
	start := 0
	for {
		i := bytes.Index(buf[start:], needle)
		if i < 0 {
			return offsets
		}
		offsets = append(offsets, start+i)
		start += i + 1
	}
}

// ParseWindow decodes a raw UTF-16LE window and extracts the release
// and changelist numbers. An odd trailing byte is ignored and invalid
// sequences decode to U+FFFD.
func ParseWindow(window []byte) (release, changelist string, ok bool) {
	window = window[:len(window)&^1]
	decoded, err := utf16le.NewDecoder().Bytes(window)
	if err != nil {
		return "", "", false
	}
	m := releaseRe.FindSubmatch(decoded)
	if m == nil {
		return "", "", false
	}
	return string(m[1]), string(m[2]), true
}

func exists(fs afero.Fs, path string) (bool, error) {
	_, err := fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Scan fingerprints the install at root. Both required files are checked
// before any read. Each marker offset is re-read from the file itself, so
// the result reflects the file contents at read time.
func Scan(fs afero.Fs, root string) (Info, error) {
	exePath := ExecutableIn(root)
	splashPath := SplashIn(root)

	ok, err := exists(fs, exePath)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrIO, err)
	} else if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrMissingExecutable, exePath)
	}

	ok, err = exists(fs, splashPath)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrIO, err)
	} else if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrMissingSplash, splashPath)
	}

	f, err := fs.Open(exePath)
	if err != nil {
		return Info{}, fmt.Errorf("%w: open executable: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close executable")
		}
	}()

	buf, err := io.ReadAll(f)
	if err != nil {
		return Info{}, fmt.Errorf("%w: read executable: %w", ErrIO, err)
	}

	splash, err := afero.ReadFile(fs, splashPath)
	if err != nil {
		return Info{}, fmt.Errorf("%w: read splash: %w", ErrIO, err)
	}
	splashImage := "data:image/bmp;base64," + base64.StdEncoding.EncodeToString(splash)

	offsets := FindAll(buf, MarkerBytes())
	log.Debug().Str("path", exePath).Int("matches", len(offsets)).Msg("scanned executable")

	window := make([]byte, WindowSize)
	for _, off := range offsets {
		if _, err := f.Seek(int64(off), io.SeekStart); err != nil {
			return Info{}, fmt.Errorf("%w: seek to %d: %w", ErrIO, off, err)
		}
		n, err := io.ReadFull(f, window)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return Info{}, fmt.Errorf("%w: read at %d: %w", ErrIO, off, err)
		}

		release, cl, ok := ParseWindow(window[:n])
		if !ok {
			continue
		}

		return Info{
			Version:          fmt.Sprintf("%s (CL-%s)", release, cl),
			TechnicalVersion: fmt.Sprintf("%s.0-CL-%s", release, cl),
			SplashImage:      splashImage,
		}, nil
	}

	return Info{}, fmt.Errorf("%w: %s", ErrPatternNotFound, exePath)
}
