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

// Package ledger is the append-only store of play sessions and manual
// corrections. Sessions are never rewritten after creation; corrections are
// separate additive entries.
package ledger

import (
	"fmt"
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/PlaytimeProject/playtime-core/pkg/helpers/syncutil"
	"github.com/PlaytimeProject/playtime-core/pkg/service/registry"
	"github.com/rs/zerolog/log"
)

const DayFormat = "2006-01-02"

// Ledger serializes writes per game-identity stream: appends for one game
// are mutually exclusive while independent games proceed concurrently.
type Ledger struct {
	db    database.PlaytimeDBI
	games map[string]*syncutil.Mutex
	loc   *time.Location
	mu    syncutil.Mutex
}

func NewLedger(db database.PlaytimeDBI, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{
		db:    db,
		games: make(map[string]*syncutil.Mutex),
		loc:   loc,
	}
}

// Location returns the ledger's fixed reporting timezone.
func (l *Ledger) Location() *time.Location {
	return l.loc
}

// ValidateDay checks a YYYY-MM-DD day string against the reporting timezone.
func (l *Ledger) ValidateDay(day string) error {
	if _, err := time.ParseInLocation(DayFormat, day, l.loc); err != nil {
		return fmt.Errorf("%w: day %q", database.ErrInvalidIdentity, day)
	}
	return nil
}

func (l *Ledger) lockFor(gameID string) *syncutil.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.games[gameID]
	if !ok {
		m = &syncutil.Mutex{}
		l.games[gameID] = m
	}
	return m
}

// AppendSession durably appends one play interval and returns its identity.
// Overlapping sessions for the same game are accepted and later summed;
// overlaps are a client bug, not a ledger invariant.
func (l *Ledger) AppendSession(session *database.PlaySession) (int64, error) {
	if err := registry.ValidateGameID(session.GameID); err != nil {
		return 0, err
	}
	if !session.EndedAt.After(session.StartedAt) {
		return 0, fmt.Errorf("%w: %s to %s",
			database.ErrInvalidRange,
			session.StartedAt.UTC().Format(time.RFC3339),
			session.EndedAt.UTC().Format(time.RFC3339))
	}

	m := l.lockFor(session.GameID)
	m.Lock()
	defer m.Unlock()

	dbid, err := l.db.AddSession(session)
	if err != nil {
		return 0, fmt.Errorf("failed to append session: %w", err)
	}

	log.Debug().
		Str("game_id", session.GameID).
		Int64("session_id", dbid).
		Dur("duration", session.Duration()).
		Msg("appended play session")

	return dbid, nil
}

// AppendCorrection appends an additive signed adjustment for one game-day.
// Multiple corrections for the same day accumulate.
func (l *Ledger) AppendCorrection(correction *database.ManualCorrection) (int64, error) {
	if err := registry.ValidateGameID(correction.GameID); err != nil {
		return 0, err
	}
	if err := l.ValidateDay(correction.Day); err != nil {
		return 0, err
	}

	m := l.lockFor(correction.GameID)
	m.Lock()
	defer m.Unlock()

	dbid, err := l.db.AddCorrection(correction)
	if err != nil {
		return 0, fmt.Errorf("failed to append correction: %w", err)
	}

	log.Debug().
		Str("game_id", correction.GameID).
		Str("day", correction.Day).
		Int64("delta_sec", correction.DeltaSec).
		Msg("appended manual correction")

	return dbid, nil
}

// SessionsIn returns sessions for a game whose interval intersects the
// half-open range [from, to), ordered by start time ascending.
func (l *Ledger) SessionsIn(gameID string, from, to time.Time) ([]database.PlaySession, error) {
	sessions, err := l.db.GetSessionsIn(gameID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}

// HasDataBefore reports whether any session or correction for any game has
// an effective time strictly before the cutoff. Used upstream to decide
// whether historical backfill is needed.
func (l *Ledger) HasDataBefore(cutoff time.Time) (bool, error) {
	local := cutoff.In(l.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, l.loc)

	// A correction's effective time is the start of its day. Corrections on
	// the cutoff's own day count only when the cutoff is past day start.
	beforeDay := dayStart.Format(DayFormat)
	if cutoff.After(dayStart) {
		beforeDay = dayStart.AddDate(0, 0, 1).Format(DayFormat)
	}

	has, err := l.db.HasDataBefore(cutoff, beforeDay)
	if err != nil {
		return false, fmt.Errorf("failed to check ledger history: %w", err)
	}
	return has, nil
}
