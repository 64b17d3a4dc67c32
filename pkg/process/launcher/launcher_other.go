//go:build !windows && !linux

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

package launcher

type sysHandle struct{}

func createSuspended(_ string, _ []string) (*sysHandle, int, error) {
	return nil, 0, ErrUnsupported
}

func (*sysHandle) resume() error { return ErrUnsupported }

func (*sysHandle) kill() error { return ErrUnsupported }

func (*sysHandle) close(_ bool) error { return nil }
