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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rewindlauncher/rewind-core/pkg/api/client"
	"github.com/rewindlauncher/rewind-core/pkg/cli"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rewindlauncher/rewind-core/pkg/platforms/linux"
	"github.com/rewindlauncher/rewind-core/pkg/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	pl := linux.NewPlatform()
	flags := cli.SetupFlags()

	quiet := flag.Bool(
		"quiet",
		false,
		"only log to the log file",
	)

	flags.Pre(pl)

	if os.Geteuid() == 0 {
		return errors.New("rewind cannot be run as root")
	}

	var logWriters []io.Writer
	if !*quiet {
		logWriters = []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	}

	cfg := cli.Setup(
		pl,
		config.BaseDefaults,
		logWriters,
	)

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	flags.Post(cfg, pl)

	if cli.IsServiceRunning(client.NewLocalAPIClient(cfg)) {
		return fmt.Errorf("service already running on %s", cfg.APIListen())
	}

	stopSvc, err := service.Start(pl, cfg)
	if err != nil {
		log.Error().Msgf("error starting service: %s", err)
		return fmt.Errorf("error starting service: %w", err)
	}

	defer func() {
		err := stopSvc()
		if err != nil {
			log.Error().Msgf("error stopping service: %s", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	_, _ = fmt.Printf("Rewind v%s listening on %s\n", config.AppVersion, cfg.APIListen())
	<-sigs

	return nil
}
