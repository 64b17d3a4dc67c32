//go:build linux

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

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// tracer serialises ptrace requests onto a single locked OS thread. The
// kernel only accepts ptrace calls from the thread that owns the tracee.
type tracer struct {
	reqs chan func()
	done chan struct{}
}

func newTracer() *tracer {
	t := &tracer{
		reqs: make(chan func()),
		done: make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *tracer) loop() {
	// left locked on purpose: the thread is discarded when the loop exits
	runtime.LockOSThread()
	defer close(t.done)
	for fn := range t.reqs {
		fn()
	}
}

func (t *tracer) do(fn func() error) error {
	errCh := make(chan error, 1)
	t.reqs <- func() { errCh <- fn() }
	return <-errCh
}

func (t *tracer) stop() {
	close(t.reqs)
	<-t.done
}

// sysHandle tracks a child started with PTRACE_TRACEME. The child stops
// with SIGTRAP at execve, before the new image runs any code.
type sysHandle struct {
	tracer   *tracer
	cmd      *exec.Cmd
	pid      int
	detached bool
}

func createSuspended(path string, args []string) (*sysHandle, int, error) {
	cmd := exec.Command(path, args...)
	cmd.Dir = filepath.Dir(path)
	cmd.SysProcAttr = &syscall.SysProcAttr{Ptrace: true}

	t := newTracer()
	err := t.do(func() error {
		if err := cmd.Start(); err != nil {
			return err
		}
		var ws unix.WaitStatus
		if _, err := unix.Wait4(cmd.Process.Pid, &ws, 0, nil); err != nil {
			return fmt.Errorf("wait for exec stop: %w", err)
		}
		if !ws.Stopped() {
			return fmt.Errorf("process did not stop at exec (status %d)", ws)
		}
		return nil
	})
	if err != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
			go reap(cmd)
		}
		t.stop()
		return nil, 0, err
	}

	pid := cmd.Process.Pid
	return &sysHandle{tracer: t, cmd: cmd, pid: pid}, pid, nil
}

func reap(cmd *exec.Cmd) {
	if err := cmd.Wait(); err != nil {
		log.Debug().Err(err).Int("pid", cmd.Process.Pid).Msg("launched process exited")
	}
}

func (s *sysHandle) detach(stopped bool) error {
	if s.detached {
		return nil
	}
	err := s.tracer.do(func() error {
		if stopped {
			// queued before detach so the child re-enters a stop right away
			if err := unix.Kill(s.pid, unix.SIGSTOP); err != nil {
				return err
			}
		}
		return unix.PtraceDetach(s.pid)
	})
	if err != nil {
		return err
	}
	s.release()
	return nil
}

// release stops the tracer thread and hands the child to a reaper.
func (s *sysHandle) release() {
	s.detached = true
	s.tracer.stop()
	go reap(s.cmd)
}

func (s *sysHandle) resume() error {
	return s.detach(false)
}

func (s *sysHandle) kill() error {
	if err := unix.Kill(s.pid, unix.SIGKILL); err != nil {
		return err
	}
	if !s.detached {
		s.release()
	}
	return nil
}

// close leaves a never-resumed child in a job-control stop, the closest
// match to a suspended thread once the tracer goes away.
func (s *sysHandle) close(running bool) error {
	if running || s.detached {
		return nil
	}
	if err := s.detach(true); err != nil {
		s.release()
		return err
	}
	return nil
}
