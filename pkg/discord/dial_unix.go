//go:build !windows

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

package discord

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// socketDirs lists where Discord may create its sockets, including the
// Flatpak and Snap sandboxes.
func socketDirs() []string {
	var bases []string
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if v := os.Getenv(env); v != "" {
			bases = append(bases, v)
		}
	}
	bases = append(bases, "/tmp")

	dirs := make([]string, 0, len(bases)*3)
	for _, b := range bases {
		dirs = append(dirs,
			b,
			filepath.Join(b, "app", "com.discordapp.Discord"),
			filepath.Join(b, "snap.discord"),
		)
	}
	return dirs
}

func dialIPC(ctx context.Context, n int) (net.Conn, error) {
	var d net.Dialer
	d.Timeout = ioTimeout
	name := fmt.Sprintf("discord-ipc-%d", n)
	var errs []error
	for _, dir := range socketDirs() {
		conn, err := d.DialContext(ctx, "unix", filepath.Join(dir, name))
		if err == nil {
			return conn, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
