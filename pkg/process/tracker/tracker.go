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

// Package tracker records the process ids of one game session and checks
// or terminates them as a group.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rewindlauncher/rewind-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

var ErrNoProcessesTerminated = errors.New("no processes were terminated")

type Role int

const (
	Main Role = iota
	LauncherHelper
	AntiCheat
)

// Roles lists every role in termination order.
var Roles = []Role{Main, LauncherHelper, AntiCheat}

func (r Role) String() string {
	switch r {
	case Main:
		return "main"
	case LauncherHelper:
		return "launcherHelper"
	case AntiCheat:
		return "anticheat"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ProcessTable is the subset of OS process control the tracker needs.
type ProcessTable interface {
	PIDs(ctx context.Context) ([]int, error)
	Kill(ctx context.Context, pid int) error
}

// Snapshot is a copy of the role slots. Zero means the slot is empty.
type Snapshot struct {
	Main           int `json:"main"`
	LauncherHelper int `json:"launcherHelper"`
	AntiCheat      int `json:"anticheat"`
}

func (s Snapshot) Empty() bool {
	return s.Main == 0 && s.LauncherHelper == 0 && s.AntiCheat == 0
}

type Tracker struct {
	table ProcessTable
	slots [3]int
	mu    syncutil.Mutex
}

func New(table ProcessTable) *Tracker {
	return &Tracker{table: table}
}

func validRole(r Role) bool {
	return r >= Main && r <= AntiCheat
}

// Record stores pid for role, replacing any previous value. A pid of zero
// clears the slot.
func (t *Tracker) Record(role Role, pid int) {
	if !validRole(role) {
		log.Warn().Int("role", int(role)).Msg("ignoring record for unknown role")
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots[role] = pid
	log.Debug().Stringer("role", role).Int("pid", pid).Msg("recorded process")
}

// PID returns the recorded pid for role and whether one is set.
func (t *Tracker) PID(role Role) (int, bool) {
	if !validRole(role) {
		return 0, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	pid := t.slots[role]
	return pid, pid != 0
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		Main:           t.slots[Main],
		LauncherHelper: t.slots[LauncherHelper],
		AntiCheat:      t.slots[AntiCheat],
	}
}

// IsAnyRunning reports whether any recorded process still exists. The
// process table is read once per call and slots whose process is gone are
// cleared. A slot recorded while the table was being read is left alone
// and counts as running.
func (t *Tracker) IsAnyRunning(ctx context.Context) (bool, error) {
	snap := t.Snapshot()
	if snap.Empty() {
		return false, nil
	}

	pids, err := t.table.PIDs(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read process table: %w", err)
	}
	alive := make(map[int]struct{}, len(pids))
	for _, pid := range pids {
		alive[pid] = struct{}{}
	}

	checked := [3]int{snap.Main, snap.LauncherHelper, snap.AntiCheat}

	t.mu.Lock()
	defer t.mu.Unlock()

	running := false
	for _, role := range Roles {
		pid := t.slots[role]
		if pid == 0 {
			continue
		}
		if pid != checked[role] {
			running = true
			continue
		}
		if _, ok := alive[pid]; ok {
			running = true
			continue
		}
		log.Debug().Stringer("role", role).Int("pid", pid).Msg("clearing exited process")
		t.slots[role] = 0
	}

	return running, nil
}

// TerminateAll kills the recorded processes in role order. It succeeds if
// at least one kill succeeded. Every slot is cleared afterwards whatever
// the outcome.
func (t *Tracker) TerminateAll(ctx context.Context) error {
	t.mu.Lock()
	snap := t.snapshotLocked()
	t.slots = [3]int{}
	t.mu.Unlock()

	if snap.Empty() {
		return ErrNoProcessesTerminated
	}

	pids := map[Role]int{
		Main:           snap.Main,
		LauncherHelper: snap.LauncherHelper,
		AntiCheat:      snap.AntiCheat,
	}

	var errs []error
	killed := 0
	for _, role := range Roles {
		pid := pids[role]
		if pid == 0 {
			continue
		}
		if err := t.table.Kill(ctx, pid); err != nil {
			log.Warn().Err(err).Stringer("role", role).Int("pid", pid).Msg("failed to terminate process")
			errs = append(errs, fmt.Errorf("%s (%d): %w", role, pid, err))
			continue
		}
		log.Info().Stringer("role", role).Int("pid", pid).Msg("terminated process")
		killed++
	}

	if killed == 0 {
		return fmt.Errorf("%w: %w", ErrNoProcessesTerminated, errors.Join(errs...))
	}
	return nil
}
