//go:build windows

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
	"errors"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

type sysHandle struct {
	process windows.Handle
	thread  windows.Handle
}

func createSuspended(path string, args []string) (*sysHandle, int, error) {
	appName, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, 0, err
	}
	cmdLine, err := windows.UTF16PtrFromString(
		windows.ComposeCommandLine(append([]string{path}, args...)),
	)
	if err != nil {
		return nil, 0, err
	}
	workDir, err := windows.UTF16PtrFromString(filepath.Dir(path))
	if err != nil {
		return nil, 0, err
	}

	si := &windows.StartupInfo{}
	si.Cb = uint32(unsafe.Sizeof(*si))
	pi := &windows.ProcessInformation{}

	err = windows.CreateProcess(
		appName,
		cmdLine,
		nil,
		nil,
		false,
		windows.CREATE_SUSPENDED|windows.CREATE_UNICODE_ENVIRONMENT,
		nil,
		workDir,
		si,
		pi,
	)
	if err != nil {
		return nil, 0, err
	}

	return &sysHandle{process: pi.Process, thread: pi.Thread}, int(pi.ProcessId), nil
}

func (s *sysHandle) resume() error {
	// ResumeThread returns the previous suspend count, 0xFFFFFFFF on failure
	if _, err := windows.ResumeThread(s.thread); err != nil {
		return err
	}
	return nil
}

func (s *sysHandle) kill() error {
	return windows.TerminateProcess(s.process, 1)
}

func (s *sysHandle) close(_ bool) error {
	var errs []error
	if s.thread != 0 {
		if err := windows.CloseHandle(s.thread); err != nil {
			errs = append(errs, err)
		}
		s.thread = 0
	}
	if s.process != 0 {
		if err := windows.CloseHandle(s.process); err != nil {
			errs = append(errs, err)
		}
		s.process = 0
	}
	return errors.Join(errs...)
}
