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

package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no username in path",
			input:    "/usr/local/bin/rewind-core",
			expected: "/usr/local/bin/rewind-core",
		},
		{
			name:     "linux home path",
			input:    "/home/kim/.local/share/rewind/versions.json",
			expected: "/home/<user>/.local/share/rewind/versions.json",
		},
		{
			name:     "linux home path uppercase",
			input:    "/Home/Kim/builds/14.40",
			expected: "/home/<user>/builds/14.40",
		},
		{
			name:     "macos users path",
			input:    "/Users/kim/Documents/rewind/config.toml",
			expected: "/Users/<user>/Documents/rewind/config.toml",
		},
		{
			name:     "windows path",
			input:    `C:\Users\kim\AppData\Local\rewind\config.toml`,
			expected: `C:\Users\<user>\AppData\Local\rewind\config.toml`,
		},
		{
			name:     "windows path keeps drive letter",
			input:    `D:\Users\admin\Builds\Fortnite 12.41`,
			expected: `D:\Users\<user>\Builds\Fortnite 12.41`,
		},
		{
			name:     "multiple paths in message",
			input:    "copying /home/alice/src to /home/bob/dst",
			expected: "copying /home/<user>/src to /home/<user>/dst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "kims-pc",
		Message:    "failed to scan /home/kim/builds/8.51",
		Extra:      map[string]any{"path": `C:\Users\kim\builds`, "count": 3},
		Exception: []sentry.Exception{{
			Value: "open /home/kim/x: denied",
			Stacktrace: &sentry.Stacktrace{Frames: []sentry.Frame{{
				AbsPath:  "/home/kim/src/rewind-core/pkg/versions/versions.go",
				Filename: "versions.go",
			}}},
		}},
	}

	out := sanitizeEvent(event)
	require.NotNil(t, out)
	assert.Empty(t, out.ServerName)
	assert.Equal(t, "failed to scan /home/<user>/builds/8.51", out.Message)
	assert.Equal(t, `C:\Users\<user>\builds`, out.Extra["path"])
	assert.Equal(t, 3, out.Extra["count"])
	assert.Equal(t, "open /home/<user>/x: denied", out.Exception[0].Value)
	assert.Equal(t,
		"/home/<user>/src/rewind-core/pkg/versions/versions.go",
		out.Exception[0].Stacktrace.Frames[0].AbsPath)
}

func TestInitDisabled(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init(Options{Enabled: false, DSN: "https://key@example.test/1"}))
	require.NoError(t, Init(Options{Enabled: true}))
	assert.False(t, Enabled())

	// no-ops while disabled
	Flush()
	Close()
}
