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

package mocks

import (
	"context"

	"github.com/rewindlauncher/rewind-core/pkg/platforms"
	"github.com/rewindlauncher/rewind-core/pkg/process/launcher"
	"github.com/stretchr/testify/mock"
)

// MockPlatform is a mock implementation of the Platform interface using
// testify/mock.
type MockPlatform struct {
	mock.Mock
}

func NewMockPlatform() *MockPlatform {
	return &MockPlatform{}
}

func (m *MockPlatform) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlatform) Settings() platforms.Settings {
	args := m.Called()
	if settings, ok := args.Get(0).(platforms.Settings); ok {
		return settings
	}
	return platforms.Settings{}
}

func (m *MockPlatform) Launcher() launcher.Launcher {
	args := m.Called()
	if l, ok := args.Get(0).(launcher.Launcher); ok {
		return l
	}
	return nil
}

func (m *MockPlatform) Processes() platforms.ProcessTable {
	args := m.Called()
	if pt, ok := args.Get(0).(platforms.ProcessTable); ok {
		return pt
	}
	return nil
}

// SetupBasicMock configures the mock with typical default values.
func (m *MockPlatform) SetupBasicMock(settings platforms.Settings) {
	m.On("ID").Return("mock-platform").Maybe()
	m.On("Settings").Return(settings).Maybe()
	m.On("Processes").Return(NewMockProcessTable()).Maybe()
}

// MockProcessTable is a testify/mock process table.
type MockProcessTable struct {
	mock.Mock
}

func NewMockProcessTable() *MockProcessTable {
	return &MockProcessTable{}
}

func (m *MockProcessTable) PIDs(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	pids, _ := args.Get(0).([]int)
	return pids, args.Error(1)
}

func (m *MockProcessTable) Kill(ctx context.Context, pid int) error {
	args := m.Called(ctx, pid)
	return args.Error(0)
}

func (m *MockProcessTable) FindByName(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}
