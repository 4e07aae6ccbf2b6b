// Playtime Core
// Copyright (c) 2026 The Playtime Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Playtime Core.
//
// Playtime Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Playtime Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Playtime Core.  If not, see <http://www.gnu.org/licenses/>.

// Package playtime is the façade combining the checksum registry, session
// ledger and aggregator into the externally named operations.
package playtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/api/models"
	"github.com/PlaytimeProject/playtime-core/pkg/config"
	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/PlaytimeProject/playtime-core/pkg/service/ledger"
	"github.com/PlaytimeProject/playtime-core/pkg/service/registry"
	"github.com/PlaytimeProject/playtime-core/pkg/service/stats"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type Service struct {
	db            database.PlaytimeDBI
	cfg           *config.Instance
	registry      *registry.Registry
	ledger        *ledger.Ledger
	stats         *stats.Aggregator
	notifications chan<- models.Notification
}

func NewService(
	cfg *config.Instance,
	db database.PlaytimeDBI,
	clock clockwork.Clock,
	notifications chan<- models.Notification,
) *Service {
	loc := cfg.ReportingTimezone()
	return &Service{
		db:            db,
		cfg:           cfg,
		registry:      registry.NewRegistry(db),
		ledger:        ledger.NewLedger(db, loc),
		stats:         stats.NewAggregator(db, clock, loc),
		notifications: notifications,
	}
}

func (s *Service) notify(method string, payload any) {
	if s.notifications == nil {
		return
	}
	params, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("method", method).Msg("marshalling notification params")
		return
	}
	select {
	case s.notifications <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification channel full, dropping")
	}
}

// AddTime resolves the checksum to a logical game (allocating a new game id
// on first sighting, never rejecting the write) and appends the session.
func (s *Service) AddTime(checksum, name string, startedAt, endedAt time.Time) (string, int64, error) {
	// Rejecting bad input must happen before the registry allocates a game
	// id or touches the dictionary.
	normalized, err := registry.NormalizeChecksum(checksum)
	if err != nil {
		return "", 0, err
	}
	if !endedAt.After(startedAt) {
		return "", 0, fmt.Errorf("%w: %s to %s",
			database.ErrInvalidRange,
			startedAt.UTC().Format(time.RFC3339),
			endedAt.UTC().Format(time.RFC3339))
	}

	gameID, created, err := s.registry.Resolve(normalized)
	if err != nil {
		return "", 0, err
	}

	if err := s.db.UpsertGame(&database.Game{GameID: gameID, Name: name}); err != nil {
		return "", 0, fmt.Errorf("failed to upsert game entry: %w", err)
	}

	sessionID, err := s.ledger.AppendSession(&database.PlaySession{
		GameID:    gameID,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Checksum:  normalized,
	})
	if err != nil {
		return "", 0, err
	}

	log.Info().
		Str("game_id", gameID).
		Bool("new_game", created).
		Int64("session_id", sessionID).
		Msg("recorded play time")

	if created {
		s.notify(models.NotificationGameAllocated, models.GameEntry{
			GameID: gameID,
			Name:   name,
		})
	}
	s.notify(models.NotificationSessionAdded, models.AddPlaytimeResponse{
		GameID:    gameID,
		SessionID: sessionID,
	})

	return gameID, sessionID, nil
}

// ApplyManualTimeCorrection appends an additive signed adjustment on top of
// the sessions-derived total for that game-day.
func (s *Service) ApplyManualTimeCorrection(gameID, name, day string, delta time.Duration) (int64, error) {
	if err := registry.ValidateGameID(gameID); err != nil {
		return 0, err
	}
	if err := s.ledger.ValidateDay(day); err != nil {
		return 0, err
	}

	if name != "" {
		if err := s.db.UpsertGame(&database.Game{GameID: gameID, Name: name}); err != nil {
			return 0, fmt.Errorf("failed to upsert game entry: %w", err)
		}
	}

	dbid, err := s.ledger.AppendCorrection(&database.ManualCorrection{
		GameID:   gameID,
		Day:      day,
		DeltaSec: int64(delta / time.Second),
	})
	if err != nil {
		return 0, err
	}

	s.notify(models.NotificationCorrectionAdded, models.CorrectionResponse{
		CorrectionID: dbid,
	})

	return dbid, nil
}

func (s *Service) GetGamesDictionary() ([]database.Game, error) {
	games, err := s.db.GetAllGames()
	if err != nil {
		return nil, fmt.Errorf("failed to read games dictionary: %w", err)
	}
	return games, nil
}

// SaveGameChecksum links a checksum to a game, optionally refreshing the
// game's display name.
func (s *Service) SaveGameChecksum(checksum, gameID, name, algorithm string) error {
	if err := s.registry.Link(checksum, gameID, algorithm); err != nil {
		return err
	}
	if err := s.db.UpsertGame(&database.Game{GameID: gameID, Name: name}); err != nil {
		return fmt.Errorf("failed to upsert game entry: %w", err)
	}
	return nil
}

// SaveGameChecksumBulk links all pairs atomically; a single malformed pair
// leaves every mapping unchanged.
func (s *Service) SaveGameChecksumBulk(links []database.ChecksumLink) error {
	return s.registry.LinkBulk(links)
}

func (s *Service) RemoveGameChecksum(checksum string) error {
	return s.registry.Unlink(checksum)
}

// RemoveAllGameChecksum unlinks every checksum for a game. Session history
// is not deleted; use PurgeGame for that.
func (s *Service) RemoveAllGameChecksum(gameID string) (int64, error) {
	return s.registry.UnlinkAllFor(gameID)
}

// RemoveAllChecksums resets the registry for a full reindex. Ledger history
// stays queryable by game id.
func (s *Service) RemoveAllChecksums() error {
	return s.registry.Reset()
}

func (s *Service) GetGamesChecksum() ([]database.ChecksumLink, error) {
	return s.registry.All()
}

// LinkGameToGameWithChecksum merges a renamed or updated executable's
// future sessions into an existing game's identity.
func (s *Service) LinkGameToGameWithChecksum(checksum, targetGameID string) error {
	return s.registry.Link(checksum, targetGameID, "")
}

/*
 * Query operations
 */

func (s *Service) DailyStatisticsForPeriod(gameID, startDay, endDay string) ([]database.DayBucket, error) {
	return s.stats.DailyStatisticsForPeriod(gameID, startDay, endDay)
}

func (s *Service) StatisticsForLastTwoWeeks() ([]database.DayBucket, error) {
	return s.stats.StatisticsForLastTwoWeeks()
}

func (s *Service) PerGameOverallStatistics() ([]database.GameStatistics, error) {
	return s.stats.PerGameOverallStatistics()
}

func (s *Service) ShortPerGameOverallStatistics() ([]database.GameTotal, error) {
	return s.stats.ShortPerGameOverallStatistics()
}

func (s *Service) FetchPlaytimeInformation(gameID string) (*database.PlaytimeInfo, error) {
	return s.stats.FetchPlaytimeInformation(gameID)
}

func (s *Service) SessionsIn(gameID string, from, to time.Time) ([]database.PlaySession, error) {
	return s.ledger.SessionsIn(gameID, from, to)
}

func (s *Service) HasDataBefore(cutoff time.Time) (bool, error) {
	return s.ledger.HasDataBefore(cutoff)
}

/*
 * Maintenance
 */

// PurgeGame discards a game's entire history: sessions, corrections,
// dictionary entry and checksum links, in one transaction.
func (s *Service) PurgeGame(gameID string) error {
	if err := registry.ValidateGameID(gameID); err != nil {
		return err
	}
	if err := s.db.PurgeGame(gameID); err != nil {
		return fmt.Errorf("failed to purge game: %w", err)
	}
	log.Info().Str("game_id", gameID).Msg("purged game history")
	return nil
}

// CleanupHistory removes sessions older than the configured retention
// window. A retention of 0 disables cleanup.
func (s *Service) CleanupHistory() (int64, error) {
	retention := s.cfg.PlaytimeRetention()
	if retention <= 0 {
		return 0, nil
	}
	removed, err := s.db.CleanupSessions(retention)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up history: %w", err)
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Int("retention_days", retention).
			Msg("cleaned up old play sessions")
	}
	return removed, nil
}
