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

// Package auth handles the launcher token delivered through the
// rewindlauncher:// deep link.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rewindlauncher/rewind-core/pkg/helpers/syncutil"
	"github.com/spf13/afero"
)

var ErrNoStoredToken = errors.New("no stored launcher token")

type StoredToken struct {
	Token    string `json:"token"`
	StoredAt int64  `json:"stored_at"`
}

// TokenStore persists the launcher token as JSON in the data dir.
type TokenStore struct {
	fs    afero.Fs
	clock clockwork.Clock
	path  string
	mu    syncutil.Mutex
}

func NewTokenStore(fs afero.Fs, dataDir string, clock clockwork.Clock) *TokenStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenStore{
		fs:    fs,
		clock: clock,
		path:  filepath.Join(dataDir, config.TokenFile),
	}
}

func (s *TokenStore) Save(token string) (StoredToken, error) {
	if token == "" {
		return StoredToken{}, ErrNoToken
	}

	st := StoredToken{Token: token, StoredAt: s.clock.Now().Unix()}
	data, err := json.Marshal(st)
	if err != nil {
		return StoredToken{}, fmt.Errorf("failed to encode token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return StoredToken{}, fmt.Errorf("failed to create token dir: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o600); err != nil {
		return StoredToken{}, fmt.Errorf("failed to write token: %w", err)
	}
	return st, nil
}

// Load returns the stored token or ErrNoStoredToken.
func (s *TokenStore) Load() (StoredToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return StoredToken{}, ErrNoStoredToken
	} else if err != nil {
		return StoredToken{}, fmt.Errorf("failed to read token: %w", err)
	}

	var st StoredToken
	if err := json.Unmarshal(data, &st); err != nil {
		return StoredToken{}, fmt.Errorf("failed to decode token: %w", err)
	}
	if st.Token == "" {
		return StoredToken{}, ErrNoStoredToken
	}
	return st, nil
}

// Clear removes the stored token. Clearing with nothing stored is not an
// error.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fs.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}
