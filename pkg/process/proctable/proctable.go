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

// Package proctable reads and signals the OS process table through
// gopsutil.
package proctable

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

var ErrNotFound = errors.New("process not found")

type Table struct{}

func New() *Table {
	return &Table{}
}

// PIDs returns every process id currently in the table.
func (*Table) PIDs(ctx context.Context) ([]int, error) {
	raw, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	pids := make([]int, 0, len(raw))
	for _, pid := range raw {
		pids = append(pids, int(pid))
	}
	return pids, nil
}

func (*Table) Kill(ctx context.Context, pid int) error {
	p, err := process.NewProcessWithContext(ctx, int32(pid)) //nolint:gosec // pids fit in int32
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return fmt.Errorf("%w: %d", ErrNotFound, pid)
		}
		return fmt.Errorf("failed to open process %d: %w", pid, err)
	}
	if err := p.KillWithContext(ctx); err != nil {
		return fmt.Errorf("failed to kill process %d: %w", pid, err)
	}
	return nil
}

// FindByName returns the pid of the first process whose executable name
// matches name, ignoring case and any directory part.
func (*Table) FindByName(ctx context.Context, name string) (int, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list processes: %w", err)
	}

	want := filepath.Base(name)
	for _, p := range procs {
		pname, err := p.NameWithContext(ctx)
		if err != nil {
			// exited or inaccessible
			continue
		}
		if strings.EqualFold(pname, want) {
			log.Debug().Str("name", want).Int32("pid", p.Pid).Msg("found process by name")
			return int(p.Pid), nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrNotFound, want)
}
