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

import "time"

const DefaultDiscoveryTimeout = 10 * time.Second

var DefaultGameArgs = []string{
	"-epicapp=Fortnite",
	"-epicenv=Prod",
	"-epiclocale=en-us",
	"-epicportal",
	"-skippatchcheck",
	"-nobe",
	"-fromfl=eac",
}

type Game struct {
	LaunchHelpers    *bool    `toml:"launch_helpers,omitempty"`
	DiscoveryTimeout string   `toml:"discovery_timeout,omitempty"`
	Args             []string `toml:"args,omitempty,multiline"`
}

// GameArgs returns a copy of the base arguments passed to the shipping
// executable before the per-launch auth arguments.
func (c *Instance) GameArgs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	args := make([]string, len(c.vals.Game.Args))
	copy(args, c.vals.Game.Args)
	return args
}

func (c *Instance) SetGameArgs(args []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Game.Args = args
}

func (c *Instance) LaunchHelpers() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Game.LaunchHelpers == nil {
		return true
	}
	return *c.vals.Game.LaunchHelpers
}

func (c *Instance) SetLaunchHelpers(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Game.LaunchHelpers = &enabled
}

func (c *Instance) DiscoveryTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Game.DiscoveryTimeout == "" {
		return DefaultDiscoveryTimeout
	}
	d, err := time.ParseDuration(c.vals.Game.DiscoveryTimeout)
	if err != nil || d < 0 {
		return DefaultDiscoveryTimeout
	}
	return d
}
