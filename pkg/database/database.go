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

package database

import (
	"database/sql"
	"errors"
	"time"
)

/*
 * Record structs and storage interfaces live at this generic package level
 * to avoid circular imports between the concrete store and the services.
 * The actual implementation is in playdb.
 */

var (
	// ErrNullSQL is returned when the store is used before Open.
	ErrNullSQL = errors.New("PlayDB is not connected")
	// ErrInvalidRange is returned when a session end is not after its start.
	ErrInvalidRange = errors.New("session end must be after start")
	// ErrInvalidIdentity is returned for a malformed game id or checksum.
	ErrInvalidIdentity = errors.New("invalid game id or checksum")
	// ErrUnknownGame is returned for queries against a game id absent from
	// both the registry and the ledger.
	ErrUnknownGame = errors.New("unknown game")
)

const (
	AlgoSHA256 = "sha256"
	AlgoMD5    = "md5"
)

/*
 * Structs for SQL records
 */

type Game struct {
	GameID string `json:"gameId"`
	Name   string `json:"name"`
}

type PlaySession struct {
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	GameID    string    `json:"gameId"`
	Checksum  string    `json:"checksum,omitempty"`
	Source    string    `json:"source,omitempty"`
	DBID      int64     `json:"id"`
}

// Duration returns the wall time covered by the session.
func (s *PlaySession) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

type ManualCorrection struct {
	Day      string `json:"day"` // YYYY-MM-DD in the reporting timezone
	GameID   string `json:"gameId"`
	Source   string `json:"source,omitempty"`
	DBID     int64  `json:"id"`
	DeltaSec int64  `json:"deltaSec"`
}

type ChecksumLink struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Checksum  string    `json:"checksum"`
	GameID    string    `json:"gameId"`
	Algorithm string    `json:"algorithm"`
}

/*
 * Derived views (never stored)
 */

type DayBucket struct {
	Day    string        `json:"day"`
	GameID string        `json:"gameId"`
	Total  time.Duration `json:"total"`
}

type GameStatistics struct {
	LastPlayedAt *time.Time    `json:"lastPlayedAt,omitempty"`
	Game         Game          `json:"game"`
	Total        time.Duration `json:"total"`
	Sessions     int64         `json:"sessions"`
}

type GameTotal struct {
	GameID string        `json:"gameId"`
	Total  time.Duration `json:"total"`
}

type PlaytimeInfo struct {
	LastPlayedAt *time.Time    `json:"lastPlayedAt,omitempty"`
	Game         Game          `json:"game"`
	RecentDays   []DayBucket   `json:"recentDays"`
	Total        time.Duration `json:"total"`
}

/*
 * Interfaces for external deps
 */

type GenericDBI interface {
	Open() error
	UnsafeGetSQLDb() *sql.DB
	Truncate() error
	Allocate() error
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

type PlaytimeDBI interface {
	GenericDBI

	// Sessions and corrections
	AddSession(session *PlaySession) (int64, error)
	GetSessionsIn(gameID string, from, to time.Time) ([]PlaySession, error)
	GetAllSessionsIn(from, to time.Time) ([]PlaySession, error)
	AddCorrection(correction *ManualCorrection) (int64, error)
	GetCorrectionsIn(gameID, fromDay, toDay string) ([]ManualCorrection, error)
	GetAllCorrectionsIn(fromDay, toDay string) ([]ManualCorrection, error)
	HasDataBefore(cutoff time.Time, beforeDay string) (bool, error)
	GameHasLedgerData(gameID string) (bool, error)
	TotalsByGame() ([]GameTotal, error)
	TotalForGame(gameID string) (time.Duration, error)
	SessionStatsForGame(gameID string) (sessions int64, lastEnded *time.Time, err error)
	CleanupSessions(retentionDays int) (int64, error)

	// Game dictionary
	UpsertGame(game *Game) error
	GetGame(gameID string) (*Game, error)
	GetAllGames() ([]Game, error)

	// Checksum table
	GetChecksumLink(checksum string) (*ChecksumLink, error)
	PutChecksumLink(link *ChecksumLink) error
	PutChecksumLinks(links []ChecksumLink) error
	DeleteChecksumLink(checksum string) error
	DeleteChecksumLinksForGame(gameID string) (int64, error)
	ResetChecksumLinks() error
	GetAllChecksumLinks() ([]ChecksumLink, error)
	GameHasChecksums(gameID string) (bool, error)

	// Destructive maintenance
	PurgeGame(gameID string) error
}
