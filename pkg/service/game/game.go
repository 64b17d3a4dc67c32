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

// Package game starts a registered build with its helper processes and
// tracks the resulting session.
package game

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rewindlauncher/rewind-core/pkg/fingerprint"
	"github.com/rewindlauncher/rewind-core/pkg/helpers/syncutil"
	"github.com/rewindlauncher/rewind-core/pkg/process/launcher"
	"github.com/rewindlauncher/rewind-core/pkg/process/tracker"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	LauncherExe  = "FortniteLauncher.exe"
	AntiCheatExe = "FortniteClient-Win64-Shipping_EAC.exe"
	pollInterval = 500 * time.Millisecond
)

var (
	ErrAlreadyRunning = errors.New("game is already running")
	ErrPatchFailed    = errors.New("failed to patch game process")
)

// processNames maps the helper roles to the image names discovery looks
// for.
var processNames = map[tracker.Role]string{
	tracker.LauncherHelper: LauncherExe,
	tracker.AntiCheat:      AntiCheatExe,
}

type LaunchRequest struct {
	Path     string `json:"path"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Patcher modifies the game while it is still suspended, before any of its
// code has run.
type Patcher interface {
	Patch(ctx context.Context, p launcher.Process) error
}

type PatcherFunc func(ctx context.Context, p launcher.Process) error

func (f PatcherFunc) Patch(ctx context.Context, p launcher.Process) error {
	return f(ctx, p)
}

// Finder looks up a running process by image name.
type Finder interface {
	FindByName(ctx context.Context, name string) (int, error)
}

type Options struct {
	Launcher  launcher.Launcher
	Tracker   *tracker.Tracker
	Processes Finder
	Fs        afero.Fs
	Clock     clockwork.Clock
	Patcher   Patcher
	Config    *config.Instance
}

type Controller struct {
	launcher  launcher.Launcher
	tracker   *tracker.Tracker
	processes Finder
	fs        afero.Fs
	clock     clockwork.Clock
	patcher   Patcher
	cfg       *config.Instance
	ctx       context.Context
	cancel    context.CancelFunc
	discover  context.CancelFunc
	discDone  chan struct{}
	wg        sync.WaitGroup
	mu        syncutil.Mutex
}

func New(opts Options) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		launcher:  opts.Launcher,
		tracker:   opts.Tracker,
		processes: opts.Processes,
		fs:        opts.Fs,
		clock:     opts.Clock,
		patcher:   opts.Patcher,
		cfg:       opts.Config,
		ctx:       ctx,
		cancel:    cancel,
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	return c
}

func (c *Controller) args(req LaunchRequest) []string {
	args := c.cfg.GameArgs()
	return append(args,
		"-AUTH_LOGIN="+req.Email,
		"-AUTH_PASSWORD="+req.Password,
		"-AUTH_TYPE=epic",
	)
}

// startHelper starts a helper executable suspended and leaves it that way.
// A missing or failing helper is not fatal to the launch.
func (c *Controller) startHelper(dir, name string, role tracker.Role, args []string) {
	path := filepath.Join(dir, name)
	ok, err := afero.Exists(c.fs, path)
	if err != nil || !ok {
		log.Debug().Str("path", path).Msg("helper executable not present")
		return
	}

	p, err := c.launcher.LaunchSuspended(path, args)
	if err != nil {
		log.Warn().Err(err).Str("role", role.String()).Msg("failed to start helper process")
		return
	}
	c.tracker.Record(role, p.PID())
	if err := p.Close(); err != nil {
		log.Warn().Err(err).Str("role", role.String()).Msg("failed to close helper handle")
	}
	log.Info().Str("role", role.String()).Int("pid", p.PID()).Msg("started helper process")
}

// Launch starts the build installed at req.Path. Helpers are started
// first and left suspended, then the shipping executable is created
// suspended, patched and resumed. Roles that were not started directly
// are looked up by name in the background until the discovery timeout
// elapses.
func (c *Controller) Launch(ctx context.Context, req LaunchRequest) (tracker.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	running, err := c.tracker.IsAnyRunning(ctx)
	if err != nil {
		return tracker.Snapshot{}, fmt.Errorf("failed to check running processes: %w", err)
	}
	if running {
		return tracker.Snapshot{}, ErrAlreadyRunning
	}

	exe := fingerprint.ExecutableIn(req.Path)
	ok, err := afero.Exists(c.fs, exe)
	if err != nil {
		return tracker.Snapshot{}, fmt.Errorf("%w: %w", fingerprint.ErrIO, err)
	}
	if !ok {
		return tracker.Snapshot{}, fmt.Errorf("%w: %s", fingerprint.ErrMissingExecutable, exe)
	}

	args := c.args(req)
	if c.cfg.LaunchHelpers() {
		dir := filepath.Dir(exe)
		c.startHelper(dir, LauncherExe, tracker.LauncherHelper, args)
		c.startHelper(dir, AntiCheatExe, tracker.AntiCheat, args)
	}

	log.Info().
		Str("path", exe).
		Strs("args", c.cfg.GameArgs()).
		Msg("launching game")

	pid, err := launcher.Run(c.launcher, exe, args, func(p launcher.Process) error {
		if c.patcher == nil {
			return nil
		}
		if perr := c.patcher.Patch(ctx, p); perr != nil {
			return fmt.Errorf("%w: %w", ErrPatchFailed, perr)
		}
		return nil
	})
	if err != nil && !closeOnly(err) {
		c.rollback(ctx)
		return tracker.Snapshot{}, err
	}
	if err != nil {
		log.Warn().Err(err).Int("pid", pid).Msg("game started but handle close failed")
	}

	c.tracker.Record(tracker.Main, pid)
	log.Info().Int("pid", pid).Msg("game started")

	c.startDiscovery()

	return c.tracker.Snapshot(), nil
}

// closeOnly reports whether err is only a handle close failure from a
// process that was otherwise started and resumed.
func closeOnly(err error) bool {
	return errors.Is(err, launcher.ErrHandleClose) &&
		!errors.Is(err, launcher.ErrResumeFailed) &&
		!errors.Is(err, ErrPatchFailed) &&
		!errors.Is(err, launcher.ErrCreateFailed)
}

func (c *Controller) rollback(ctx context.Context) {
	if c.tracker.Snapshot().Empty() {
		return
	}
	err := c.tracker.TerminateAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to clean up helpers after launch failure")
	}
}

func (c *Controller) startDiscovery() {
	c.stopDiscoveryLocked()
	ctx, cancel := context.WithCancel(c.ctx)
	done := make(chan struct{})
	c.discover = cancel
	c.discDone = done

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)
		defer cancel()
		c.Discover(ctx)
	}()
}

// stopDiscoveryLocked cancels the running discovery and waits for it to
// exit, so nothing is recorded afterwards. Caller must hold mu.
func (c *Controller) stopDiscoveryLocked() {
	if c.discover == nil {
		return
	}
	c.discover()
	<-c.discDone
	c.discover = nil
	c.discDone = nil
}

func (c *Controller) missingRoles() []tracker.Role {
	snap := c.tracker.Snapshot()
	var missing []tracker.Role
	if snap.LauncherHelper == 0 {
		missing = append(missing, tracker.LauncherHelper)
	}
	if snap.AntiCheat == 0 {
		missing = append(missing, tracker.AntiCheat)
	}
	return missing
}

// Discover polls the process table for helper roles that have no PID
// until all are found, the discovery timeout elapses or ctx is done.
func (c *Controller) Discover(ctx context.Context) {
	deadline := c.clock.Now().Add(c.cfg.DiscoveryTimeout())
	for {
		missing := c.missingRoles()
		if len(missing) == 0 {
			return
		}

		for _, role := range missing {
			pid, err := c.processes.FindByName(ctx, processNames[role])
			if ctx.Err() != nil {
				return
			}
			if err != nil || pid == 0 {
				continue
			}
			if _, ok := c.tracker.PID(role); ok {
				continue
			}
			c.tracker.Record(role, pid)
			log.Info().Str("role", role.String()).Int("pid", pid).Msg("discovered process")
		}

		if len(c.missingRoles()) == 0 {
			return
		}
		if !c.clock.Now().Before(deadline) {
			log.Debug().Int("missing", len(c.missingRoles())).Msg("process discovery timed out")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-c.clock.After(pollInterval):
		}
	}
}

func (c *Controller) Running(ctx context.Context) (bool, error) {
	running, err := c.tracker.IsAnyRunning(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check running processes: %w", err)
	}
	return running, nil
}

func (c *Controller) Status() tracker.Snapshot {
	return c.tracker.Snapshot()
}

// Stop ends discovery, then terminates every tracked process.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopDiscoveryLocked()
	if err := c.tracker.TerminateAll(ctx); err != nil {
		return fmt.Errorf("failed to stop game: %w", err)
	}
	log.Info().Msg("game stopped")
	return nil
}

// Close cancels background discovery and waits for it to exit. Tracked
// processes are left running.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}
