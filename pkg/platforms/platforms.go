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

// Package platforms describes the host operating systems Rewind Core runs
// on and the OS primitives each one provides.
package platforms

import (
	"context"

	"github.com/rewindlauncher/rewind-core/pkg/process/launcher"
)

type Settings struct {
	// DataDir is where the version registry and stored token live. It
	// should be accessed through helpers.DataDir so a portable user dir
	// takes precedence.
	DataDir string
	// ConfigDir is where config.toml and auth.toml are stored. It should
	// be accessed through helpers.ConfigDir.
	ConfigDir string
	// TempDir holds logs and remote response caches. Expect it to be
	// deleted.
	TempDir string
}

// ProcessTable is the running-process view a platform exposes to the
// tracker and game session.
type ProcessTable interface {
	PIDs(ctx context.Context) ([]int, error)
	Kill(ctx context.Context, pid int) error
	FindByName(ctx context.Context, name string) (int, error)
}

type Platform interface {
	// ID is the unique platform ID, reported by the version method.
	ID() string
	Settings() Settings
	// Launcher starts executables suspended.
	Launcher() launcher.Launcher
	Processes() ProcessTable
}
