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

package methods

import (
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/api/models"
	"github.com/PlaytimeProject/playtime-core/pkg/api/models/requests"
	"github.com/PlaytimeProject/playtime-core/pkg/api/validation"
	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/rs/zerolog/log"
)

func bucketEntries(buckets []database.DayBucket) []models.DayBucketEntry {
	entries := make([]models.DayBucketEntry, len(buckets))
	for i, b := range buckets {
		entries[i] = models.DayBucketEntry{
			Day:      b.Day,
			GameID:   b.GameID,
			TotalSec: int64(b.Total / time.Second),
		}
	}
	return entries
}

func epochPtr(t *time.Time) *int64 {
	if t == nil || t.IsZero() {
		return nil
	}
	epoch := t.Unix()
	return &epoch
}

//nolint:gocritic // single-use parameter in API handler
func HandleDailyStats(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received daily stats request")

	var params models.DailyStatsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	buckets, err := env.Playtime.DailyStatisticsForPeriod(
		params.GameID, params.StartDay, params.EndDay)
	if err != nil {
		return nil, err
	}

	return models.DailyStatsResponse{Buckets: bucketEntries(buckets)}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleRecentStats(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received recent stats request")

	buckets, err := env.Playtime.StatisticsForLastTwoWeeks()
	if err != nil {
		return nil, err
	}

	return models.DailyStatsResponse{Buckets: bucketEntries(buckets)}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleOverallStats(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received overall stats request")

	stats, err := env.Playtime.PerGameOverallStatistics()
	if err != nil {
		return nil, err
	}

	resp := models.OverallStatsResponse{
		Games: make([]models.GameStatsEntry, len(stats)),
	}
	for i, s := range stats {
		resp.Games[i] = models.GameStatsEntry{
			GameID:       s.Game.GameID,
			Name:         s.Game.Name,
			TotalSec:     int64(s.Total / time.Second),
			Sessions:     s.Sessions,
			LastPlayedAt: epochPtr(s.LastPlayedAt),
		}
	}

	return resp, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleOverallStatsShort(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received short overall stats request")

	totals, err := env.Playtime.ShortPerGameOverallStatistics()
	if err != nil {
		return nil, err
	}

	resp := models.OverallStatsShortResponse{
		Games: make([]models.GameTotalEntry, len(totals)),
	}
	for i, t := range totals {
		resp.Games[i] = models.GameTotalEntry{
			GameID:   t.GameID,
			TotalSec: int64(t.Total / time.Second),
		}
	}

	return resp, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleGameStats(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received game stats request")

	var params models.GameStatsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	info, err := env.Playtime.FetchPlaytimeInformation(params.GameID)
	if err != nil {
		return nil, err
	}

	return models.GameStatsResponse{
		GameID:       info.Game.GameID,
		Name:         info.Game.Name,
		TotalSec:     int64(info.Total / time.Second),
		LastPlayedAt: epochPtr(info.LastPlayedAt),
		RecentDays:   bucketEntries(info.RecentDays),
	}, nil
}
