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

package proctable

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIDs_ContainsSelf(t *testing.T) {
	t.Parallel()

	pids, err := New().PIDs(context.Background())
	require.NoError(t, err)
	assert.Contains(t, pids, os.Getpid())
}

func TestFindByName_Self(t *testing.T) {
	t.Parallel()

	self, err := process.NewProcess(int32(os.Getpid()))
	require.NoError(t, err)
	name, err := self.Name()
	require.NoError(t, err)

	pid, err := New().FindByName(context.Background(), filepath.Join("some", "dir", name))
	require.NoError(t, err)

	found, err := process.NewProcess(int32(pid))
	require.NoError(t, err)
	foundName, err := found.Name()
	require.NoError(t, err)
	assert.Equal(t, name, foundName)
}

func TestFindByName_Missing(t *testing.T) {
	t.Parallel()

	_, err := New().FindByName(context.Background(), "rewind-no-such-process-name.exe")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestKill_Missing(t *testing.T) {
	t.Parallel()

	// pid well above any default pid_max
	err := New().Kill(context.Background(), 1<<30)
	require.Error(t, err)
}
