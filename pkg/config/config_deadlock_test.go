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

package config

import (
	"testing"
	"time"
)

// TestAPIListen_NoRecursiveLock fails under -tags=deadlock if APIListen
// re-acquires the read lock through APIPort.
func TestAPIListen_NoRecursiveLock(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}

	done := make(chan struct{})
	go func() {
		_ = cfg.APIListen()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("APIListen() deadlocked")
	}
}

func TestGetters_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}

	done := make(chan struct{})
	for range 10 {
		go func() {
			for range 100 {
				_ = cfg.APIPort()
				_ = cfg.APIListen()
				_ = cfg.RemoteEndpoints()
				cfg.SetLaunchHelpers(true)
				_ = cfg.LaunchHelpers()
			}
			done <- struct{}{}
		}()
	}

	for range 10 {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent access deadlocked")
		}
	}
}
