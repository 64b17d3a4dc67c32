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

// Package launcher starts executables with their primary thread suspended
// so the caller can patch the process image before any entry code runs.
package launcher

import (
	"errors"
	"fmt"

	"github.com/rewindlauncher/rewind-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

var (
	ErrCreateFailed = errors.New("failed to create suspended process")
	ErrResumeFailed = errors.New("failed to resume process")
	ErrHandleClose  = errors.New("failed to close process handle")
	ErrHandleClosed = errors.New("process handle is closed")
	ErrUnsupported  = errors.New("suspended launch is not supported on this platform")
)

// Process is a child created in the suspended state. It owns OS resources
// until Close is called.
type Process interface {
	PID() int
	Resume() error
	Kill() error
	Close() error
}

type Launcher interface {
	LaunchSuspended(path string, args []string) (Process, error)
}

// OS is the Launcher backed by the native process API of the current
// platform.
type OS struct{}

func (OS) LaunchSuspended(path string, args []string) (Process, error) {
	h, err := LaunchSuspended(path, args)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Handle is a suspended process created by LaunchSuspended.
type Handle struct {
	sys     *sysHandle
	pid     int
	mu      syncutil.Mutex
	resumed bool
	killed  bool
	closed  bool
}

// LaunchSuspended creates the process at path with args. The returned
// handle must be closed on every path, including after Resume. There is
// no retry: any OS rejection is returned wrapped in ErrCreateFailed.
func LaunchSuspended(path string, args []string) (*Handle, error) {
	sys, pid, err := createSuspended(path, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateFailed, path, err)
	}
	log.Debug().Str("path", path).Int("pid", pid).Msg("created suspended process")
	return &Handle{sys: sys, pid: pid}, nil
}

func (h *Handle) PID() int {
	return h.pid
}

// Resume starts the primary thread. Resuming twice is a no-op.
func (h *Handle) Resume() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHandleClosed
	}
	if h.resumed {
		return nil
	}
	if err := h.sys.resume(); err != nil {
		return fmt.Errorf("%w: pid %d: %w", ErrResumeFailed, h.pid, err)
	}
	h.resumed = true
	log.Debug().Int("pid", h.pid).Msg("resumed process")
	return nil
}

// Kill terminates the process, whether or not it has been resumed.
func (h *Handle) Kill() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHandleClosed
	}
	if h.killed {
		return nil
	}
	if err := h.sys.kill(); err != nil {
		return fmt.Errorf("failed to kill pid %d: %w", h.pid, err)
	}
	h.killed = true
	return nil
}

// Close releases every OS resource held for the process. The process
// itself keeps running, or stays suspended if it was never resumed.
// Close is idempotent.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	if err := h.sys.close(h.resumed || h.killed); err != nil {
		return fmt.Errorf("%w: pid %d: %w", ErrHandleClose, h.pid, err)
	}
	return nil
}

// Run launches path suspended and passes the process to hook. The process
// is resumed only if hook succeeds and is killed otherwise. The handle is
// closed on every return path.
func Run(l Launcher, path string, args []string, hook func(Process) error) (pid int, err error) {
	p, err := l.LaunchSuspended(path, args)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	pid = p.PID()
	if hook != nil {
		if herr := hook(p); herr != nil {
			if kerr := p.Kill(); kerr != nil {
				log.Warn().Err(kerr).Int("pid", pid).Msg("failed to kill process after hook error")
			}
			return pid, herr
		}
	}

	if err := p.Resume(); err != nil {
		return pid, err
	}
	return pid, nil
}
