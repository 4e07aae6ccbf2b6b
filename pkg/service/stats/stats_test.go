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

package stats_test

import (
	"testing"
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/PlaytimeProject/playtime-core/pkg/service/stats"
	"github.com/PlaytimeProject/playtime-core/pkg/testing/helpers"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregator(t *testing.T) (*stats.Aggregator, database.PlaytimeDBI, clockwork.Clock) {
	t.Helper()
	db, cleanup := helpers.NewInMemoryPlayDB(t)
	t.Cleanup(cleanup)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC))
	return stats.NewAggregator(db, clock, time.UTC), db, clock
}

func bucketTotal(t *testing.T, buckets []database.DayBucket, day, gameID string) time.Duration {
	t.Helper()
	for _, b := range buckets {
		if b.Day == day && b.GameID == gameID {
			return b.Total
		}
	}
	t.Fatalf("no bucket for %s/%s", day, gameID)
	return 0
}

func TestDailyStatisticsValidation(t *testing.T) {
	t.Parallel()

	agg, _, _ := newAggregator(t)

	_, err := agg.DailyStatisticsForPeriod("", "March 10", "2026-03-11")
	assert.ErrorIs(t, err, database.ErrInvalidIdentity)

	_, err = agg.DailyStatisticsForPeriod("", "2026-03-11", "2026-03-10")
	assert.ErrorIs(t, err, database.ErrInvalidRange)
}

func TestDailyStatisticsBucketsPerDay(t *testing.T) {
	t.Parallel()

	agg, db, _ := newAggregator(t)

	// One hour on the 10th, nothing on the 11th, half hour on the 12th.
	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	buckets, err := agg.DailyStatisticsForPeriod("game-a", "2026-03-10", "2026-03-12")
	require.NoError(t, err)

	// Every day in the period appears, zero-activity days included.
	require.Len(t, buckets, 3)
	assert.Equal(t, time.Hour, bucketTotal(t, buckets, "2026-03-10", "game-a"))
	assert.Equal(t, time.Duration(0), bucketTotal(t, buckets, "2026-03-11", "game-a"))
	assert.Equal(t, 30*time.Minute, bucketTotal(t, buckets, "2026-03-12", "game-a"))
}

func TestDailyStatisticsMidnightSplit(t *testing.T) {
	t.Parallel()

	agg, db, _ := newAggregator(t)

	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	buckets, err := agg.DailyStatisticsForPeriod("game-a", "2026-03-10", "2026-03-11")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, bucketTotal(t, buckets, "2026-03-10", "game-a"))
	assert.Equal(t, 30*time.Minute, bucketTotal(t, buckets, "2026-03-11", "game-a"))

	// Querying only the first day reports only that day's share.
	buckets, err = agg.DailyStatisticsForPeriod("game-a", "2026-03-10", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 30*time.Minute, buckets[0].Total)
}

func TestDailyStatisticsCorrectionsApply(t *testing.T) {
	t.Parallel()

	agg, db, _ := newAggregator(t)

	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = db.AddCorrection(&database.ManualCorrection{
		GameID: "game-a", Day: "2026-03-10", DeltaSec: -600,
	})
	require.NoError(t, err)

	// Corrections never push a day below zero.
	_, err = db.AddCorrection(&database.ManualCorrection{
		GameID: "game-a", Day: "2026-03-11", DeltaSec: -3600,
	})
	require.NoError(t, err)

	buckets, err := agg.DailyStatisticsForPeriod("game-a", "2026-03-10", "2026-03-11")
	require.NoError(t, err)
	assert.Equal(t, 50*time.Minute, bucketTotal(t, buckets, "2026-03-10", "game-a"))
	assert.Equal(t, time.Duration(0), bucketTotal(t, buckets, "2026-03-11", "game-a"))
}

func TestDailyStatisticsOverlappingSessionsSum(t *testing.T) {
	t.Parallel()

	agg, db, _ := newAggregator(t)

	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	buckets, err := agg.DailyStatisticsForPeriod("game-a", "2026-03-10", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 2*time.Hour, buckets[0].Total)
}

func TestDailyStatisticsAllGames(t *testing.T) {
	t.Parallel()

	agg, db, _ := newAggregator(t)

	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = db.AddSession(&database.PlaySession{
		GameID:    "game-b",
		StartedAt: time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 3, 11, 12, 15, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	buckets, err := agg.DailyStatisticsForPeriod("", "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	// Two days times two games.
	require.Len(t, buckets, 4)
	assert.Equal(t, time.Hour, bucketTotal(t, buckets, "2026-03-10", "game-a"))
	assert.Equal(t, time.Duration(0), bucketTotal(t, buckets, "2026-03-10", "game-b"))
	assert.Equal(t, 15*time.Minute, bucketTotal(t, buckets, "2026-03-11", "game-b"))
}

func TestStatisticsForLastTwoWeeks(t *testing.T) {
	t.Parallel()

	agg, db, clock := newAggregator(t)
	today := clock.Now().UTC().Format("2006-01-02")

	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: clock.Now().Add(-2 * time.Hour),
		EndedAt:   clock.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	buckets, err := agg.StatisticsForLastTwoWeeks()
	require.NoError(t, err)
	require.Len(t, buckets, 14)
	assert.Equal(t, time.Hour, bucketTotal(t, buckets, today, "game-a"))
}

func TestPerGameOverallStatistics(t *testing.T) {
	t.Parallel()

	agg, db, _ := newAggregator(t)

	require.NoError(t, db.UpsertGame(&database.Game{GameID: "game-a", Name: "Tetris"}))
	ended := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	_, err := db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: ended.Add(-time.Hour),
		EndedAt:   ended,
	})
	require.NoError(t, err)

	list, err := agg.PerGameOverallStatistics()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tetris", list[0].Game.Name)
	assert.Equal(t, time.Hour, list[0].Total)
	assert.Equal(t, int64(1), list[0].Sessions)
	require.NotNil(t, list[0].LastPlayedAt)
	assert.Equal(t, ended, list[0].LastPlayedAt.UTC())
}

func TestFetchPlaytimeInformation(t *testing.T) {
	t.Parallel()

	agg, db, clock := newAggregator(t)

	// Unknown everywhere: dictionary, ledger and checksum table.
	_, err := agg.FetchPlaytimeInformation("ghost")
	assert.ErrorIs(t, err, database.ErrUnknownGame)

	// Known via ledger only still reports.
	started := clock.Now().Add(-3 * time.Hour)
	_, err = db.AddSession(&database.PlaySession{
		GameID:    "game-a",
		StartedAt: started,
		EndedAt:   started.Add(time.Hour),
	})
	require.NoError(t, err)

	info, err := agg.FetchPlaytimeInformation("game-a")
	require.NoError(t, err)
	assert.Equal(t, "game-a", info.Game.GameID)
	assert.Equal(t, time.Hour, info.Total)
	require.NotNil(t, info.LastPlayedAt)
	assert.Len(t, info.RecentDays, 14)
}
