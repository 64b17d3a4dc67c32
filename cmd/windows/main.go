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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rewindlauncher/rewind-core/pkg/api/client"
	"github.com/rewindlauncher/rewind-core/pkg/cli"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rewindlauncher/rewind-core/pkg/platforms/windows"
	"github.com/rewindlauncher/rewind-core/pkg/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	pl := windows.NewPlatform()
	flags := cli.SetupFlags()

	flags.Pre(pl)

	defaults := config.BaseDefaults
	defaults.DebugLogging = true

	cfg := cli.Setup(
		pl,
		defaults,
		[]io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}},
	)

	// the desktop app registers the rewindlauncher:// scheme against
	// this binary with -deeplink
	flags.Post(cfg, pl)

	if cli.IsServiceRunning(client.NewLocalAPIClient(cfg)) {
		_, _ = fmt.Println("Service already running on", cfg.APIListen())
		os.Exit(1)
	}

	stopSvc, err := service.Start(pl, cfg)
	if err != nil {
		log.Error().Msgf("error starting service: %s", err)
		_, _ = fmt.Println("Error starting service:", err)
		os.Exit(1)
	}

	_, _ = fmt.Printf("Rewind v%s listening on %s\n", config.AppVersion, cfg.APIListen())
	<-sigs

	if err := stopSvc(); err != nil {
		log.Error().Msgf("error stopping service: %s", err)
		os.Exit(1)
	}
	os.Exit(0)
}
