/*
Playtime Core
Copyright (C) 2026 The Playtime Project Contributors

This file is part of Playtime Core.

Playtime Core is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Playtime Core is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Playtime Core.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/api"
	"github.com/PlaytimeProject/playtime-core/pkg/api/models"
	"github.com/PlaytimeProject/playtime-core/pkg/config"
	"github.com/PlaytimeProject/playtime-core/pkg/database/playdb"
	"github.com/PlaytimeProject/playtime-core/pkg/helpers"
	"github.com/PlaytimeProject/playtime-core/pkg/service/playtime"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// cleanupInterval is how often the retention window is re-applied while the
// service runs.
const cleanupInterval = 6 * time.Hour

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	daemonMode := flag.Bool(
		"daemon",
		false,
		"run service in foreground logging to stderr",
	)
	configDir := flag.String(
		"config",
		"",
		"override configuration directory",
	)
	dataDir := flag.String(
		"data",
		"",
		"override data directory",
	)
	showVersion := flag.Bool(
		"version",
		false,
		"print version and exit",
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", config.AppName, config.AppVersion)
		return nil
	}

	data := helpers.DataDir(*dataDir)

	var logWriters []io.Writer
	if *daemonMode {
		logWriters = []io.Writer{os.Stderr}
	}
	if err := helpers.InitLogging(data, logWriters); err != nil {
		return fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(*configDir), config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := playdb.OpenPlayDB(ctx, data)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing database")
		}
	}()

	if err := db.MigrateUp(); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	notifications := make(chan models.Notification, 100)
	pt := playtime.NewService(cfg, db, clockwork.NewRealClock(), notifications)

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := pt.CleanupHistory(); err != nil {
					log.Error().Err(err).Msg("error cleaning up history")
				}
			}
		}
	}()

	log.Info().
		Str("version", config.AppVersion).
		Int("port", cfg.APIPort()).
		Msg("starting playtime service")

	api.Start(ctx, cfg, pt, notifications)

	log.Info().Msg("playtime service stopped")
	return nil
}
