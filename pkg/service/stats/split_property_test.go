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

package stats

import (
	"testing"
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// sessionGen generates sessions with positive durations up to a week,
// anywhere in a two year window.
func sessionGen() *rapid.Generator[database.PlaySession] {
	return rapid.Custom(func(t *rapid.T) database.PlaySession {
		epoch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		startOffset := rapid.Int64Range(0, 2*365*24*60*60).Draw(t, "startOffset")
		durationSec := rapid.Int64Range(1, 7*24*60*60).Draw(t, "durationSec")

		started := epoch.Add(time.Duration(startOffset) * time.Second)
		return database.PlaySession{
			GameID:    "game-a",
			StartedAt: started,
			EndedAt:   started.Add(time.Duration(durationSec) * time.Second),
		}
	})
}

// Splitting a session across days must conserve its duration exactly, keep
// days contiguous and in order, and never produce an empty part.
func TestSplitByDayConservesDuration(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		session := sessionGen().Draw(t, "session")

		parts := splitByDay(&session, time.UTC)
		require.NotEmpty(t, parts)

		var sum time.Duration
		for i, part := range parts {
			require.Positive(t, part.total)
			require.LessOrEqual(t, part.total, 24*time.Hour)
			sum += part.total

			if i > 0 {
				prev, err := time.Parse("2006-01-02", parts[i-1].day)
				require.NoError(t, err)
				cur, err := time.Parse("2006-01-02", part.day)
				require.NoError(t, err)
				require.Equal(t, prev.AddDate(0, 0, 1), cur, "days must be contiguous")
			}
		}

		require.Equal(t, session.Duration(), sum)
	})
}

func TestSplitByDayFirstDayMatchesStart(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		session := sessionGen().Draw(t, "session")

		parts := splitByDay(&session, time.UTC)
		require.NotEmpty(t, parts)
		require.Equal(t, session.StartedAt.UTC().Format("2006-01-02"), parts[0].day)
	})
}
