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

// Package versions keeps the registry of installed game builds and joins
// it with the remote build list.
package versions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rewindlauncher/rewind-core/pkg/fingerprint"
	"github.com/rewindlauncher/rewind-core/pkg/helpers/syncutil"
	"github.com/rewindlauncher/rewind-core/pkg/remote"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

var (
	ErrPersist = errors.New("failed to save versions")
	ErrDelete  = errors.New("failed to delete version files")
)

const (
	buildNamePrefix   = "Fortnite "
	changelistSuffix  = " (CL-"
	UnknownAccessType = "unknown"
)

type StoredVersion struct {
	Path             string `json:"path"`
	Version          string `json:"version"`
	TechnicalVersion string `json:"technical_version"`
	SplashImage      string `json:"splash_image"`
}

type VersionWithStatus struct {
	StoredVersion
	AccessType string `json:"access_type"`
	BuildName  string `json:"build_name"`
}

type BuildSource interface {
	FetchBuilds(ctx context.Context) ([]remote.Build, error)
}

// ScanFunc fingerprints the install at root.
type ScanFunc func(fs afero.Fs, root string) (fingerprint.Info, error)

type Registry struct {
	fs       afero.Fs
	builds   BuildSource
	scan     ScanFunc
	versions map[string]StoredVersion
	file     string
	mu       syncutil.RWMutex
}

// NewRegistry returns an empty registry persisted to versions.json in
// dataDir. Call Load before serving requests.
func NewRegistry(fs afero.Fs, dataDir string, builds BuildSource) *Registry {
	return &Registry{
		fs:       fs,
		builds:   builds,
		scan:     fingerprint.Scan,
		versions: make(map[string]StoredVersion),
		file:     filepath.Join(dataDir, config.VersionsFile),
	}
}

// WithScanner replaces the fingerprint scanner. Intended for tests.
func (r *Registry) WithScanner(scan ScanFunc) *Registry {
	r.scan = scan
	return r
}

func (r *Registry) File() string {
	return r.file
}

// Load merges the persisted registry into memory. A missing file is an
// empty registry. An unreadable or corrupt file is logged and ignored.
func (r *Registry) Load() {
	data, err := afero.ReadFile(r.fs, r.file)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Error().Err(err).Str("path", r.file).Msg("failed to read versions file")
		}
		return
	}

	var stored map[string]StoredVersion
	if err := json.Unmarshal(data, &stored); err != nil {
		log.Error().Err(err).Str("path", r.file).Msg("failed to parse versions file, starting empty")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range stored {
		r.versions[k] = v
	}
	log.Info().Int("count", len(stored)).Msg("loaded stored versions")
}

// saveLocked writes the whole map. Caller must hold mu for writing.
func (r *Registry) saveLocked() error {
	if err := r.fs.MkdirAll(filepath.Dir(r.file), 0o750); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	data, err := json.MarshalIndent(r.versions, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := afero.WriteFile(r.fs, r.file, data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Detect fingerprints the install at path without storing it.
func (r *Registry) Detect(path string) (fingerprint.Info, error) {
	return r.scan(r.fs, path)
}

// Register scans path and stores the result, replacing any entry for the
// same path. A failed scan leaves the registry untouched.
func (r *Registry) Register(ctx context.Context, path string) ([]VersionWithStatus, error) {
	info, err := r.scan(r.fs, path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.versions[path] = StoredVersion{
		Path:             path,
		Version:          info.Version,
		TechnicalVersion: info.TechnicalVersion,
		SplashImage:      info.SplashImage,
	}
	err = r.saveLocked()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	log.Info().Str("path", path).Str("version", info.Version).Msg("registered version")
	return r.List(ctx)
}

// Unregister removes path from the registry. With deleteFiles the parent
// directory of path is removed as well; a failed delete is reported but
// the registry entry stays removed.
func (r *Registry) Unregister(
	ctx context.Context,
	path string,
	deleteFiles bool,
) ([]VersionWithStatus, error) {
	r.mu.Lock()
	delete(r.versions, path)
	err := r.saveLocked()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Bool("deleteFiles", deleteFiles).Msg("unregistered version")

	if deleteFiles {
		parent, ok := parentDir(path)
		if !ok {
			return nil, fmt.Errorf("%w: could not determine parent directory of %q", ErrDelete, path)
		}
		if err := r.fs.RemoveAll(parent); err != nil {
			log.Error().Err(err).Str("dir", parent).Msg("failed to delete version directory")
			return nil, fmt.Errorf("%w: %w", ErrDelete, err)
		}
	}

	return r.List(ctx)
}

func parentDir(path string) (string, bool) {
	clean := filepath.Clean(path)
	parent := filepath.Dir(clean)
	if path == "" || parent == "." || parent == clean {
		return "", false
	}
	return parent, true
}

// Stored returns a copy of every stored version ordered by path.
func (r *Registry) Stored() []StoredVersion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]StoredVersion, 0, len(r.versions))
	for _, v := range r.versions {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// List joins the stored versions with the remote build list. The copy
// and the fetch run concurrently and the fetch never holds the lock.
func (r *Registry) List(ctx context.Context) ([]VersionWithStatus, error) {
	var stored []StoredVersion
	var builds []remote.Build

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stored = r.Stored()
		return nil
	})
	g.Go(func() error {
		var err error
		builds, err = r.builds.FetchBuilds(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Join(stored, builds), nil
}

// BuildKey strips the leading "Fortnite " from a build name.
func BuildKey(name string) string {
	for strings.HasPrefix(name, buildNamePrefix) {
		name = strings.TrimPrefix(name, buildNamePrefix)
	}
	return name
}

// VersionKey cuts the changelist suffix from a display version, so
// "4.5 (CL-4159770)" becomes "4.5".
func VersionKey(version string) string {
	key, _, _ := strings.Cut(version, changelistSuffix)
	return key
}

// Join matches each stored version to a build by key. Unmatched versions
// get the unknown access type and a synthesized build name.
func Join(stored []StoredVersion, builds []remote.Build) []VersionWithStatus {
	byKey := make(map[string]remote.Build, len(builds))
	for _, b := range builds {
		byKey[BuildKey(b.Name)] = b
	}

	out := make([]VersionWithStatus, 0, len(stored))
	for _, v := range stored {
		key := VersionKey(v.Version)
		vs := VersionWithStatus{
			StoredVersion: v,
			AccessType:    UnknownAccessType,
			BuildName:     buildNamePrefix + key,
		}
		if b, ok := byKey[key]; ok {
			vs.AccessType = b.AccessType
			vs.BuildName = b.Name
		}
		out = append(out, vs)
	}
	return out
}
