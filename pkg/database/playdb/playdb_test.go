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

package playdb_test

import (
	"testing"
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/PlaytimeProject/playtime-core/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionInsertAndRangeQuery(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	id1, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: base,
		EndedAt:   base.Add(time.Hour),
		Checksum:  "abc123abc123abc123abc123abc12345",
	})
	require.NoError(t, err)
	assert.Positive(t, id1)

	id2, err := db.AddSession(&database.PlaySession{
		GameID:    "game-b",
		StartedAt: base.Add(2 * time.Hour),
		EndedAt:   base.Add(3 * time.Hour),
	})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	// Intersection semantics: a session counts if any part of it overlaps
	// the half-open query range.
	sessions, err := db.GetAllSessionsIn(base.Add(30*time.Minute), base.Add(90*time.Minute))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "game-a", sessions[0].GameID)
	assert.Equal(t, "abc123abc123abc123abc123abc12345", sessions[0].Checksum)

	// A range touching only the exact end of a session excludes it.
	sessions, err = db.GetAllSessionsIn(base.Add(time.Hour), base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// Per-game filter.
	sessions, err = db.GetSessionsIn("game-b", base, base.Add(4*time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, id2, sessions[0].DBID)
	assert.Empty(t, sessions[0].Checksum)
}

func TestSessionOrdering(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: base.Add(2 * time.Hour),
		EndedAt:   base.Add(3 * time.Hour),
	})
	require.NoError(t, err)
	_, err = db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: base,
		EndedAt:   base.Add(time.Hour),
	})
	require.NoError(t, err)

	sessions, err := db.GetSessionsIn("game-a", base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].StartedAt.Before(sessions[1].StartedAt))
}

func TestCorrectionsRangeInclusive(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	for _, day := range []string{"2026-03-09", "2026-03-10", "2026-03-11"} {
		_, err := db.AddCorrection(&database.ManualCorrection{
			GameID:   "game-a",
			Day:      day,
			DeltaSec: 60,
		})
		require.NoError(t, err)
	}

	corrections, err := db.GetCorrectionsIn("game-a", "2026-03-09", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, corrections, 2)
	assert.Equal(t, "2026-03-09", corrections[0].Day)
	assert.Equal(t, "2026-03-10", corrections[1].Day)
}

func TestUpsertGamePreservesName(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	require.NoError(t, db.UpsertGame(&database.Game{GameID: "game-a", Name: "Spelunky"}))

	// An upsert with no name must not erase the known one.
	require.NoError(t, db.UpsertGame(&database.Game{GameID: "game-a", Name: ""}))

	game, err := db.GetGame("game-a")
	require.NoError(t, err)
	require.NotNil(t, game)
	assert.Equal(t, "Spelunky", game.Name)

	// A new non-empty name replaces the old one.
	require.NoError(t, db.UpsertGame(&database.Game{GameID: "game-a", Name: "Spelunky 2"}))
	game, err = db.GetGame("game-a")
	require.NoError(t, err)
	require.NotNil(t, game)
	assert.Equal(t, "Spelunky 2", game.Name)
}

func TestGetGameMissing(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	game, err := db.GetGame("nope")
	require.NoError(t, err)
	assert.Nil(t, game)
}

func TestChecksumLinkLifecycle(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	checksum := "0123456789abcdef0123456789abcdef"

	link, err := db.GetChecksumLink(checksum)
	require.NoError(t, err)
	assert.Nil(t, link)

	require.NoError(t, db.PutChecksumLink(&database.ChecksumLink{
		Checksum:  checksum,
		GameID:    "game-a",
		Algorithm: database.AlgoMD5,
	}))

	link, err = db.GetChecksumLink(checksum)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "game-a", link.GameID)
	assert.Equal(t, database.AlgoMD5, link.Algorithm)

	// Relink overwrites the existing mapping.
	require.NoError(t, db.PutChecksumLink(&database.ChecksumLink{
		Checksum:  checksum,
		GameID:    "game-b",
		Algorithm: database.AlgoSHA256,
	}))
	link, err = db.GetChecksumLink(checksum)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "game-b", link.GameID)

	require.NoError(t, db.DeleteChecksumLink(checksum))
	link, err = db.GetChecksumLink(checksum)
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestChecksumLinksPerGame(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	links := []database.ChecksumLink{
		{Checksum: "aaaa456789abcdef0123456789abcdef", GameID: "game-a", Algorithm: database.AlgoSHA256},
		{Checksum: "bbbb456789abcdef0123456789abcdef", GameID: "game-a", Algorithm: database.AlgoSHA256},
		{Checksum: "cccc456789abcdef0123456789abcdef", GameID: "game-b", Algorithm: database.AlgoSHA256},
	}
	require.NoError(t, db.PutChecksumLinks(links))

	has, err := db.GameHasChecksums("game-a")
	require.NoError(t, err)
	assert.True(t, has)

	removed, err := db.DeleteChecksumLinksForGame("game-a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	has, err = db.GameHasChecksums("game-a")
	require.NoError(t, err)
	assert.False(t, has)

	all, err := db.GetAllChecksumLinks()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "game-b", all[0].GameID)

	require.NoError(t, db.ResetChecksumLinks())
	all, err = db.GetAllChecksumLinks()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTotalsByGame(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: base,
		EndedAt:   base.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = db.AddCorrection(&database.ManualCorrection{
		GameID:   "game-a",
		Day:      "2026-03-10",
		DeltaSec: -600,
	})
	require.NoError(t, err)

	// Dictionary-only game with no ledger data still shows up.
	require.NoError(t, db.UpsertGame(&database.Game{GameID: "game-b", Name: "Quiet"}))

	// Corrections can push a game's total below zero; it reports as zero.
	_, err = db.AddCorrection(&database.ManualCorrection{
		GameID:   "game-c",
		Day:      "2026-03-10",
		DeltaSec: -120,
	})
	require.NoError(t, err)

	totals, err := db.TotalsByGame()
	require.NoError(t, err)
	require.Len(t, totals, 3)

	byGame := make(map[string]time.Duration, len(totals))
	for _, gt := range totals {
		byGame[gt.GameID] = gt.Total
	}
	assert.Equal(t, 50*time.Minute, byGame["game-a"])
	assert.Equal(t, time.Duration(0), byGame["game-b"])
	assert.Equal(t, time.Duration(0), byGame["game-c"])

	total, err := db.TotalForGame("game-a")
	require.NoError(t, err)
	assert.Equal(t, 50*time.Minute, total)
}

func TestSessionStatsForGame(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	sessions, lastEnded, err := db.SessionStatsForGame("game-a")
	require.NoError(t, err)
	assert.Zero(t, sessions)
	assert.Nil(t, lastEnded)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err = db.AddSession(&database.PlaySession{
			GameID:    "game-a",
			StartedAt: base.Add(time.Duration(i) * 2 * time.Hour),
			EndedAt:   base.Add(time.Duration(i)*2*time.Hour + time.Hour),
		})
		require.NoError(t, err)
	}

	sessions, lastEnded, err = db.SessionStatsForGame("game-a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), sessions)
	require.NotNil(t, lastEnded)
	assert.Equal(t, base.Add(5*time.Hour), lastEnded.UTC())
}

func TestHasDataBefore(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	cutoff := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	has, err := db.HasDataBefore(cutoff, "2026-03-10")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = db.AddCorrection(&database.ManualCorrection{
		GameID:   "game-a",
		Day:      "2026-03-09",
		DeltaSec: 60,
	})
	require.NoError(t, err)

	has, err = db.HasDataBefore(cutoff, "2026-03-10")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCleanupSessions(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	old := time.Now().AddDate(0, 0, -400)
	recent := time.Now().Add(-time.Hour)

	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: old,
		EndedAt:   old.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: recent,
		EndedAt:   recent.Add(30 * time.Minute),
	})
	require.NoError(t, err)

	removed, err := db.CleanupSessions(365)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	sessions, err := db.GetSessionsIn("game-a", time.Now().AddDate(-2, 0, 0), time.Now())
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestPurgeGame(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.UpsertGame(&database.Game{GameID: "game-a", Name: "Doomed"}))
	require.NoError(t, db.UpsertGame(&database.Game{GameID: "game-b", Name: "Survivor"}))
	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: base,
		EndedAt:   base.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = db.AddSession(&database.PlaySession{
		GameID:    "game-b",
		StartedAt: base,
		EndedAt:   base.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = db.AddCorrection(&database.ManualCorrection{
		GameID: "game-a", Day: "2026-03-10", DeltaSec: 60,
	})
	require.NoError(t, err)
	require.NoError(t, db.PutChecksumLink(&database.ChecksumLink{
		Checksum: "dddd456789abcdef0123456789abcdef", GameID: "game-a", Algorithm: database.AlgoSHA256,
	}))

	require.NoError(t, db.PurgeGame("game-a"))

	game, err := db.GetGame("game-a")
	require.NoError(t, err)
	assert.Nil(t, game)

	has, err := db.GameHasLedgerData("game-a")
	require.NoError(t, err)
	assert.False(t, has)

	has, err = db.GameHasChecksums("game-a")
	require.NoError(t, err)
	assert.False(t, has)

	// Other games are untouched.
	game, err = db.GetGame("game-b")
	require.NoError(t, err)
	require.NotNil(t, game)
	sessions, err := db.GetSessionsIn("game-b", base, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	db, cleanup := helpers.NewInMemoryPlayDB(t)
	defer cleanup()

	require.NoError(t, db.UpsertGame(&database.Game{GameID: "game-a", Name: "Gone"}))
	require.NoError(t, db.Truncate())

	games, err := db.GetAllGames()
	require.NoError(t, err)
	assert.Empty(t, games)
}
