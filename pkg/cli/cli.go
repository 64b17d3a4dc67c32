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

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rewindlauncher/rewind-core/internal/telemetry"
	"github.com/rewindlauncher/rewind-core/pkg/api/client"
	"github.com/rewindlauncher/rewind-core/pkg/api/models"
	"github.com/rewindlauncher/rewind-core/pkg/auth"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rewindlauncher/rewind-core/pkg/helpers"
	"github.com/rewindlauncher/rewind-core/pkg/platforms"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const serviceCheckTimeout = 2 * time.Second

type Flags struct {
	API      *string
	DeepLink *string
	Version  *bool
}

// SetupFlags defines all common CLI flags between platforms.
func SetupFlags() *Flags {
	return &Flags{
		API: flag.String(
			"api",
			"",
			"send method and params to API and print response",
		),
		DeepLink: flag.String(
			"deeplink",
			"",
			"handle a rewindlauncher:// link and store its token",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre(pl platforms.Platform) {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Println(versionString(pl))
		os.Exit(0)
	}
}

func versionString(pl platforms.Platform) string {
	return fmt.Sprintf("Rewind v%s (%s)", config.AppVersion, pl.ID())
}

// splitAPIFlag splits a method:params value. Params are optional and may
// contain further colons.
func splitAPIFlag(value string) (method, params string) {
	ps := strings.SplitN(value, ":", 2)
	method = ps[0]
	if len(ps) > 1 {
		params = ps[1]
	}
	return method, params
}

func callAPI(ctx context.Context, c client.APIClient, value string, out io.Writer) error {
	if value == "" {
		return errors.New("api flag requires a value")
	}
	method, params := splitAPIFlag(value)
	resp, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, resp)
	return nil
}

type tokenSaver interface {
	Save(token string) (auth.StoredToken, error)
}

// handleDeepLink forwards a deep link to the running service so connected
// clients are notified. When no service answers the token is written
// straight to the store.
func handleDeepLink(ctx context.Context, c client.APIClient, store tokenSaver, link string) error {
	if link == "" {
		return errors.New("deeplink flag requires a value")
	}

	data, err := json.Marshal(&models.DeepLinkParams{URL: link})
	if err != nil {
		return fmt.Errorf("error encoding params: %w", err)
	}

	_, err = c.Call(ctx, models.MethodAuthDeepLink, string(data))
	if err == nil {
		return nil
	} else if errors.Is(err, client.ErrRPC) {
		return err
	}
	log.Debug().Err(err).Msg("service not reachable, storing token directly")

	token, err := auth.ParseDeepLink(link)
	if err != nil {
		return err
	}
	if _, err := store.Save(token); err != nil {
		return fmt.Errorf("error storing token: %w", err)
	}
	return nil
}

// IsServiceRunning reports whether an API service answers on the
// configured address.
func IsServiceRunning(c client.APIClient) bool {
	ctx, cancel := context.WithTimeout(context.Background(), serviceCheckTimeout)
	defer cancel()
	_, err := c.Call(ctx, models.MethodVersion, "")
	if err != nil {
		log.Debug().Err(err).Msg("service not running")
		return false
	}
	return true
}

// Post actions all remaining common flags that require the environment to be
// set up. Logging is allowed.
func (f *Flags) Post(cfg *config.Instance, pl platforms.Platform) {
	c := client.NewLocalAPIClient(cfg)

	switch {
	case isFlagPassed("api"):
		if err := callAPI(context.Background(), c, *f.API, os.Stdout); err != nil {
			log.Error().Err(err).Msg("error calling API")
			_, _ = fmt.Fprintf(os.Stderr, "Error calling API: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	case isFlagPassed("deeplink"):
		store := auth.NewTokenStore(afero.NewOsFs(), helpers.DataDir(pl), nil)
		if err := handleDeepLink(context.Background(), c, store, *f.DeepLink); err != nil {
			log.Error().Err(err).Msg("error handling deep link")
			_, _ = fmt.Fprintf(os.Stderr, "Error handling deep link: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}
}

// Setup initializes the user config and logging. Returns a user config object.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	pl platforms.Platform,
	defaultConfig config.Values,
	writers []io.Writer,
) *config.Instance {
	cfg, err := setup(pl, defaultConfig, writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

//nolint:gocritic // config struct copied for immutability
func setup(
	pl platforms.Platform,
	defaultConfig config.Values,
	writers []io.Writer,
) (*config.Instance, error) {
	// directories must exist before the log file is opened
	if err := helpers.EnsureDirectories(pl); err != nil {
		return nil, fmt.Errorf("error creating directories: %w", err)
	}

	if err := helpers.InitLogging(pl, writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(pl), defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// error reporting is opt-in
	if err := telemetry.Init(telemetry.Options{
		Enabled:    cfg.ErrorReporting(),
		DSN:        cfg.ErrorReportingDSN(),
		DeviceID:   cfg.DeviceID(),
		AppVersion: config.AppVersion,
		PlatformID: pl.ID(),
	}); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, nil
}
