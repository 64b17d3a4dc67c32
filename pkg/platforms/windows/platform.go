//go:build windows

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

// Package windows is the primary Rewind Core platform.
package windows

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rewindlauncher/rewind-core/pkg/platforms"
	"github.com/rewindlauncher/rewind-core/pkg/platforms/ids"
	"github.com/rewindlauncher/rewind-core/pkg/process/launcher"
	"github.com/rewindlauncher/rewind-core/pkg/process/proctable"
)

type Platform struct {
	procs *proctable.Table
}

func NewPlatform() *Platform {
	return &Platform{procs: proctable.New()}
}

func (*Platform) ID() string {
	return ids.Windows
}

func (*Platform) Settings() platforms.Settings {
	return platforms.Settings{
		DataDir:   filepath.Join(xdg.DataHome, config.AppName),
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		TempDir:   filepath.Join(os.TempDir(), config.AppName),
	}
}

func (*Platform) Launcher() launcher.Launcher {
	return launcher.OS{}
}

func (p *Platform) Processes() platforms.ProcessTable {
	return p.procs
}
