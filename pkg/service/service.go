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

// Package service wires the Rewind Core components together and runs the
// local API until stopped.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rewindlauncher/rewind-core/internal/telemetry"
	"github.com/rewindlauncher/rewind-core/pkg/api"
	"github.com/rewindlauncher/rewind-core/pkg/api/models"
	"github.com/rewindlauncher/rewind-core/pkg/api/models/requests"
	"github.com/rewindlauncher/rewind-core/pkg/auth"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rewindlauncher/rewind-core/pkg/discord"
	"github.com/rewindlauncher/rewind-core/pkg/helpers"
	"github.com/rewindlauncher/rewind-core/pkg/platforms"
	"github.com/rewindlauncher/rewind-core/pkg/process/tracker"
	"github.com/rewindlauncher/rewind-core/pkg/remote"
	"github.com/rewindlauncher/rewind-core/pkg/service/game"
	"github.com/rewindlauncher/rewind-core/pkg/shared/httpclient"
	"github.com/rewindlauncher/rewind-core/pkg/versions"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const notificationQueueSize = 100

func setupEnvironment(pl platforms.Platform) error {
	if _, ok := helpers.HasUserDir(); ok {
		log.Info().Msg("using 'user' directory for storage")
	}

	log.Info().Msg("creating platform directories")
	dirs := []string{
		helpers.ConfigDir(pl),
		pl.Settings().TempDir,
		helpers.DataDir(pl),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

type instance struct {
	server  *api.Server
	game    *game.Controller
	discord *discord.Client
	remote  *remote.Client
}

func start(pl platforms.Platform, cfg *config.Instance, fs afero.Fs) (*instance, error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	if err := setupEnvironment(pl); err != nil {
		log.Error().Err(err).Msg("error setting up environment")
		return nil, err
	}

	rc := remote.NewClient(
		httpclient.NewClientFromConfig(cfg),
		cfg.RemoteEndpoints(),
		fs,
		pl.Settings().TempDir,
	)

	log.Info().Msg("loading version registry")
	reg := versions.NewRegistry(fs, helpers.DataDir(pl), rc)
	reg.Load()

	ctrl := game.New(game.Options{
		Launcher:  pl.Launcher(),
		Tracker:   tracker.New(pl.Processes()),
		Processes: pl.Processes(),
		Fs:        fs,
		Config:    cfg,
	})

	dc := discord.NewClient(cfg.DiscordClientID())

	services := &requests.Services{
		Registry: reg,
		Game:     ctrl,
		Remote:   rc,
		Tokens:   auth.NewTokenStore(fs, helpers.DataDir(pl), nil),
		Discord:  dc,
	}

	log.Info().Msg("starting API service")
	srv, err := api.Start(pl, cfg, services, make(chan models.Notification, notificationQueueSize))
	if err != nil {
		ctrl.Close()
		return nil, err
	}

	return &instance{server: srv, game: ctrl, discord: dc, remote: rc}, nil
}

func (i *instance) stop() error {
	log.Info().Msg("stopping service")

	err := i.server.Shutdown(context.Background())
	i.game.Close()
	if derr := i.discord.Close(); derr != nil {
		err = errors.Join(err, derr)
	}
	i.remote.RemoveCaches()
	telemetry.Flush()

	log.Info().Msg("service cleanup completed")
	return err
}

// Start runs the service in the background and returns a function that
// shuts it down. Tracked game processes are left running on stop.
func Start(pl platforms.Platform, cfg *config.Instance) (stop func() error, err error) {
	i, err := start(pl, cfg, afero.NewOsFs())
	if err != nil {
		return nil, err
	}
	return i.stop, nil
}
