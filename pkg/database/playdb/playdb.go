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

package playdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	_ "github.com/mattn/go-sqlite3"
)

const (
	dbFile           = "playtime.db"
	sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"
)

type PlayDB struct {
	sql     *sql.DB
	ctx     context.Context
	dataDir string
}

// OpenPlayDB opens (and creates, if missing) the playtime database under
// dataDir and runs migrations on first allocation.
func OpenPlayDB(ctx context.Context, dataDir string) (*PlayDB, error) {
	db := &PlayDB{sql: nil, ctx: ctx, dataDir: dataDir}
	err := db.Open()
	return db, err
}

func (db *PlayDB) Open() error {
	exists := true
	dbPath := db.GetDBPath()
	_, err := os.Stat(dbPath)
	if err != nil {
		exists = false
		mkdirErr := os.MkdirAll(filepath.Dir(dbPath), 0o750)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	if !exists {
		return db.Allocate()
	}
	return nil
}

func (db *PlayDB) GetDBPath() string {
	return filepath.Join(db.dataDir, dbFile)
}

func (db *PlayDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *PlayDB) Truncate() error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *PlayDB) Allocate() error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *PlayDB) MigrateUp() error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *PlayDB) Vacuum() error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *PlayDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing.
// This method should only be used in tests to set up temp databases.
func (db *PlayDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB) error {
	db.sql = sqlDB
	db.ctx = ctx
	return db.Allocate()
}

/*
 * Sessions and corrections
 */

func (db *PlayDB) AddSession(session *database.PlaySession) (int64, error) {
	if db.sql == nil {
		return 0, database.ErrNullSQL
	}
	return sqlAddSession(db.ctx, db.sql, session)
}

func (db *PlayDB) GetSessionsIn(gameID string, from, to time.Time) ([]database.PlaySession, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetSessionsIn(db.ctx, db.sql, gameID, from, to)
}

func (db *PlayDB) GetAllSessionsIn(from, to time.Time) ([]database.PlaySession, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetSessionsIn(db.ctx, db.sql, "", from, to)
}

func (db *PlayDB) AddCorrection(correction *database.ManualCorrection) (int64, error) {
	if db.sql == nil {
		return 0, database.ErrNullSQL
	}
	return sqlAddCorrection(db.ctx, db.sql, correction)
}

func (db *PlayDB) GetCorrectionsIn(gameID, fromDay, toDay string) ([]database.ManualCorrection, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetCorrectionsIn(db.ctx, db.sql, gameID, fromDay, toDay)
}

func (db *PlayDB) GetAllCorrectionsIn(fromDay, toDay string) ([]database.ManualCorrection, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetCorrectionsIn(db.ctx, db.sql, "", fromDay, toDay)
}

// HasDataBefore reports whether any session started before cutoff or any
// correction applies to a day before beforeDay. The caller converts cutoff
// to a day boundary in the reporting timezone.
func (db *PlayDB) HasDataBefore(cutoff time.Time, beforeDay string) (bool, error) {
	if db.sql == nil {
		return false, database.ErrNullSQL
	}
	return sqlHasDataBefore(db.ctx, db.sql, cutoff, beforeDay)
}

func (db *PlayDB) GameHasLedgerData(gameID string) (bool, error) {
	if db.sql == nil {
		return false, database.ErrNullSQL
	}
	return sqlGameHasLedgerData(db.ctx, db.sql, gameID)
}

func (db *PlayDB) TotalsByGame() ([]database.GameTotal, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlTotalsByGame(db.ctx, db.sql)
}

func (db *PlayDB) TotalForGame(gameID string) (time.Duration, error) {
	if db.sql == nil {
		return 0, database.ErrNullSQL
	}
	return sqlTotalForGame(db.ctx, db.sql, gameID)
}

func (db *PlayDB) SessionStatsForGame(gameID string) (int64, *time.Time, error) {
	if db.sql == nil {
		return 0, nil, database.ErrNullSQL
	}
	return sqlSessionStatsForGame(db.ctx, db.sql, gameID)
}

// CleanupSessions removes sessions older than the retention period.
func (db *PlayDB) CleanupSessions(retentionDays int) (int64, error) {
	if db.sql == nil {
		return 0, database.ErrNullSQL
	}
	return sqlCleanupSessions(db.ctx, db.sql, retentionDays)
}

/*
 * Game dictionary
 */

func (db *PlayDB) UpsertGame(game *database.Game) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlUpsertGame(db.ctx, db.sql, game)
}

func (db *PlayDB) GetGame(gameID string) (*database.Game, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetGame(db.ctx, db.sql, gameID)
}

func (db *PlayDB) GetAllGames() ([]database.Game, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetAllGames(db.ctx, db.sql)
}

/*
 * Checksum table
 */

func (db *PlayDB) GetChecksumLink(checksum string) (*database.ChecksumLink, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetChecksumLink(db.ctx, db.sql, checksum)
}

func (db *PlayDB) PutChecksumLink(link *database.ChecksumLink) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlPutChecksumLinks(db.ctx, db.sql, []database.ChecksumLink{*link})
}

// PutChecksumLinks applies all links in a single transaction. Either every
// mapping is updated or none are.
func (db *PlayDB) PutChecksumLinks(links []database.ChecksumLink) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlPutChecksumLinks(db.ctx, db.sql, links)
}

func (db *PlayDB) DeleteChecksumLink(checksum string) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlDeleteChecksumLink(db.ctx, db.sql, checksum)
}

func (db *PlayDB) DeleteChecksumLinksForGame(gameID string) (int64, error) {
	if db.sql == nil {
		return 0, database.ErrNullSQL
	}
	return sqlDeleteChecksumLinksForGame(db.ctx, db.sql, gameID)
}

func (db *PlayDB) ResetChecksumLinks() error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlResetChecksumLinks(db.ctx, db.sql)
}

func (db *PlayDB) GetAllChecksumLinks() ([]database.ChecksumLink, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetAllChecksumLinks(db.ctx, db.sql)
}

func (db *PlayDB) GameHasChecksums(gameID string) (bool, error) {
	if db.sql == nil {
		return false, database.ErrNullSQL
	}
	return sqlGameHasChecksums(db.ctx, db.sql, gameID)
}

/*
 * Destructive maintenance
 */

// PurgeGame deletes a game's sessions, corrections, dictionary entry and
// checksum links in one transaction.
func (db *PlayDB) PurgeGame(gameID string) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlPurgeGame(db.ctx, db.sql, gameID)
}
