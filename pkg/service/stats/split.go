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
	"time"

	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/PlaytimeProject/playtime-core/pkg/service/ledger"
)

type dayPart struct {
	day   string
	total time.Duration
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	tl := t.In(loc)
	return time.Date(tl.Year(), tl.Month(), tl.Day(), 0, 0, 0, 0, loc)
}

// splitByDay divides a session's duration across the calendar days it
// touches in loc. Day windows are half-open [00:00, 24:00) so the parts
// always sum exactly to the session duration.
func splitByDay(session *database.PlaySession, loc *time.Location) []dayPart {
	start := session.StartedAt.In(loc)
	end := session.EndedAt.In(loc)

	parts := make([]dayPart, 0, 1)
	cur := dayStart(start, loc)
	for cur.Before(end) {
		next := cur.AddDate(0, 0, 1)

		overlapStart := start
		if cur.After(overlapStart) {
			overlapStart = cur
		}
		overlapEnd := end
		if next.Before(overlapEnd) {
			overlapEnd = next
		}

		if d := overlapEnd.Sub(overlapStart); d > 0 {
			parts = append(parts, dayPart{
				day:   cur.Format(ledger.DayFormat),
				total: d,
			})
		}

		cur = next
	}

	return parts
}
