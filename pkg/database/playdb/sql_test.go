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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PlaytimeProject/playtime-core/pkg/database"
	testsqlmock "github.com/PlaytimeProject/playtime-core/pkg/testing/sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilSQLGuards(t *testing.T) {
	t.Parallel()

	db := &PlayDB{}

	_, err := db.AddSession(&database.PlaySession{})
	assert.ErrorIs(t, err, database.ErrNullSQL)

	_, err = db.TotalsByGame()
	assert.ErrorIs(t, err, database.ErrNullSQL)

	err = db.PutChecksumLink(&database.ChecksumLink{})
	assert.ErrorIs(t, err, database.ErrNullSQL)

	err = db.PurgeGame("game-a")
	assert.ErrorIs(t, err, database.ErrNullSQL)
}

func TestAddSessionInsertError(t *testing.T) {
	t.Parallel()

	mockDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	mock.ExpectPrepare(`INSERT INTO PlaySessions`).
		ExpectExec().
		WillReturnError(assert.AnError)

	db := &PlayDB{sql: mockDB, ctx: context.Background()}
	_, err = db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: time.Now().Add(-time.Hour),
		EndedAt:   time.Now(),
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSessionNullableColumns(t *testing.T) {
	t.Parallel()

	mockDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	started := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ended := started.Add(time.Hour)

	// Empty checksum and source must insert as NULL, not empty string.
	mock.ExpectPrepare(`INSERT INTO PlaySessions`).
		ExpectExec().
		WithArgs("game-a", started.Unix(), ended.Unix(), nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	db := &PlayDB{sql: mockDB, ctx: context.Background()}
	dbid, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: started,
		EndedAt:   ended,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), dbid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeGameRollsBackOnError(t *testing.T) {
	t.Parallel()

	mockDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM PlaySessions`).
		WithArgs("game-a").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	db := &PlayDB{sql: mockDB, ctx: context.Background()}
	err = db.PurgeGame("game-a")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
