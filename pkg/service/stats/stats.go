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

// Package stats is the read-only aggregation engine over the ledger. Day
// buckets are computed at query time from the session log and correction
// log; nothing here mutates state or caches rollups.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/PlaytimeProject/playtime-core/pkg/service/ledger"
	"github.com/PlaytimeProject/playtime-core/pkg/service/registry"
	"github.com/jonboulle/clockwork"
)

const recentDays = 14

type Aggregator struct {
	db    database.PlaytimeDBI
	clock clockwork.Clock
	loc   *time.Location
}

func NewAggregator(db database.PlaytimeDBI, clock clockwork.Clock, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{db: db, clock: clock, loc: loc}
}

// DailyStatisticsForPeriod computes the day-bucket total for every date in
// the inclusive range, per requested game or for all games when gameID is
// empty. Sessions spanning midnight contribute to each day in proportion to
// the seconds overlapping that day. Days with no activity are reported with
// a zero total, never omitted.
func (a *Aggregator) DailyStatisticsForPeriod(gameID, startDay, endDay string) ([]database.DayBucket, error) {
	start, err := time.ParseInLocation(ledger.DayFormat, startDay, a.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q", database.ErrInvalidIdentity, startDay)
	}
	end, err := time.ParseInLocation(ledger.DayFormat, endDay, a.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: end date %q", database.ErrInvalidIdentity, endDay)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: period %s to %s", database.ErrInvalidRange, startDay, endDay)
	}

	from := start
	to := end.AddDate(0, 0, 1)

	var sessions []database.PlaySession
	var corrections []database.ManualCorrection
	if gameID == "" {
		sessions, err = a.db.GetAllSessionsIn(from, to)
	} else {
		sessions, err = a.db.GetSessionsIn(gameID, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions for period: %w", err)
	}
	if gameID == "" {
		corrections, err = a.db.GetAllCorrectionsIn(startDay, endDay)
	} else {
		corrections, err = a.db.GetCorrectionsIn(gameID, startDay, endDay)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read corrections for period: %w", err)
	}

	games, err := a.requestedGames(gameID, sessions, corrections)
	if err != nil {
		return nil, err
	}

	type key struct {
		day    string
		gameID string
	}
	totals := make(map[key]time.Duration)

	for i := range sessions {
		s := &sessions[i]
		for _, part := range splitByDay(s, a.loc) {
			// Intersecting sessions can spill into days outside the period.
			if part.day < startDay || part.day > endDay {
				continue
			}
			totals[key{day: part.day, gameID: s.GameID}] += part.total
		}
	}

	for i := range corrections {
		c := &corrections[i]
		totals[key{day: c.Day, gameID: c.GameID}] += time.Duration(c.DeltaSec) * time.Second
	}

	buckets := make([]database.DayBucket, 0, len(games))
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		day := cur.Format(ledger.DayFormat)
		for _, g := range games {
			total := totals[key{day: day, gameID: g}]
			if total < 0 {
				total = 0
			}
			buckets = append(buckets, database.DayBucket{
				Day:    day,
				GameID: g,
				Total:  total,
			})
		}
	}

	return buckets, nil
}

// StatisticsForLastTwoWeeks reports day buckets for all games over the 14
// calendar days ending today, anchored to the aggregator's clock.
func (a *Aggregator) StatisticsForLastTwoWeeks() ([]database.DayBucket, error) {
	today := a.clock.Now().In(a.loc)
	start := today.AddDate(0, 0, -(recentDays - 1))
	return a.DailyStatisticsForPeriod(
		"",
		start.Format(ledger.DayFormat),
		today.Format(ledger.DayFormat),
	)
}

// PerGameOverallStatistics reports total time per game across all history:
// session durations plus corrections, never negative per game.
func (a *Aggregator) PerGameOverallStatistics() ([]database.GameStatistics, error) {
	totals, err := a.db.TotalsByGame()
	if err != nil {
		return nil, fmt.Errorf("failed to read game totals: %w", err)
	}

	list := make([]database.GameStatistics, 0, len(totals))
	for _, t := range totals {
		game, err := a.db.GetGame(t.GameID)
		if err != nil {
			return nil, fmt.Errorf("failed to read game entry: %w", err)
		}
		if game == nil {
			game = &database.Game{GameID: t.GameID}
		}

		sessions, lastEnded, err := a.db.SessionStatsForGame(t.GameID)
		if err != nil {
			return nil, fmt.Errorf("failed to read session stats: %w", err)
		}

		list = append(list, database.GameStatistics{
			Game:         *game,
			Total:        t.Total,
			Sessions:     sessions,
			LastPlayedAt: lastEnded,
		})
	}

	return list, nil
}

// ShortPerGameOverallStatistics is the minimal projection of the overall
// totals: game identity and total duration only.
func (a *Aggregator) ShortPerGameOverallStatistics() ([]database.GameTotal, error) {
	totals, err := a.db.TotalsByGame()
	if err != nil {
		return nil, fmt.Errorf("failed to read game totals: %w", err)
	}
	return totals, nil
}

// FetchPlaytimeInformation returns the combined per-game view: overall
// total, last played time, and the most recent day buckets.
func (a *Aggregator) FetchPlaytimeInformation(gameID string) (*database.PlaytimeInfo, error) {
	if err := registry.ValidateGameID(gameID); err != nil {
		return nil, err
	}

	game, err := a.db.GetGame(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to read game entry: %w", err)
	}
	if game == nil {
		hasLedger, err := a.db.GameHasLedgerData(gameID)
		if err != nil {
			return nil, fmt.Errorf("failed to check ledger data: %w", err)
		}
		hasChecksums, err := a.db.GameHasChecksums(gameID)
		if err != nil {
			return nil, fmt.Errorf("failed to check checksum links: %w", err)
		}
		if !hasLedger && !hasChecksums {
			return nil, fmt.Errorf("%w: %s", database.ErrUnknownGame, gameID)
		}
		game = &database.Game{GameID: gameID}
	}

	total, err := a.db.TotalForGame(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to read game total: %w", err)
	}

	_, lastEnded, err := a.db.SessionStatsForGame(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session stats: %w", err)
	}

	today := a.clock.Now().In(a.loc)
	start := today.AddDate(0, 0, -(recentDays - 1))
	recent, err := a.DailyStatisticsForPeriod(
		gameID,
		start.Format(ledger.DayFormat),
		today.Format(ledger.DayFormat),
	)
	if err != nil {
		return nil, err
	}

	return &database.PlaytimeInfo{
		Game:         *game,
		Total:        total,
		LastPlayedAt: lastEnded,
		RecentDays:   recent,
	}, nil
}

// requestedGames resolves the set of games a period query reports on: the
// single requested game, or every game known to the dictionary or ledger.
func (a *Aggregator) requestedGames(
	gameID string,
	sessions []database.PlaySession,
	corrections []database.ManualCorrection,
) ([]string, error) {
	if gameID != "" {
		return []string{gameID}, nil
	}

	seen := make(map[string]struct{})
	totals, err := a.db.TotalsByGame()
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	for _, t := range totals {
		seen[t.GameID] = struct{}{}
	}
	for i := range sessions {
		seen[sessions[i].GameID] = struct{}{}
	}
	for i := range corrections {
		seen[corrections[i].GameID] = struct{}{}
	}

	games := make([]string, 0, len(seen))
	for g := range seen {
		games = append(games, g)
	}
	sort.Strings(games)
	return games, nil
}
