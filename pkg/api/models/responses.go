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

package models

type AddPlaytimeResponse struct {
	GameID    string `json:"gameId"`
	SessionID int64  `json:"sessionId"`
}

type CorrectionResponse struct {
	CorrectionID int64 `json:"correctionId"`
}

type GameEntry struct {
	GameID string `json:"gameId"`
	Name   string `json:"name"`
}

type GamesDictionaryResponse struct {
	Games []GameEntry `json:"games"`
}

type ChecksumEntry struct {
	Checksum  string `json:"checksum"`
	GameID    string `json:"gameId"`
	Algorithm string `json:"algorithm"`
}

type ChecksumsResponse struct {
	Checksums []ChecksumEntry `json:"checksums"`
}

type RemovedResponse struct {
	Removed int64 `json:"removed"`
}

type DayBucketEntry struct {
	Day      string `json:"day"`
	GameID   string `json:"gameId"`
	TotalSec int64  `json:"totalSec"`
}

type DailyStatsResponse struct {
	Buckets []DayBucketEntry `json:"buckets"`
}

type GameStatsEntry struct {
	GameID       string `json:"gameId"`
	Name         string `json:"name"`
	TotalSec     int64  `json:"totalSec"`
	Sessions     int64  `json:"sessions"`
	LastPlayedAt *int64 `json:"lastPlayedAt"`
}

type OverallStatsResponse struct {
	Games []GameStatsEntry `json:"games"`
}

type GameTotalEntry struct {
	GameID   string `json:"gameId"`
	TotalSec int64  `json:"totalSec"`
}

type OverallStatsShortResponse struct {
	Games []GameTotalEntry `json:"games"`
}

type GameStatsResponse struct {
	GameID       string           `json:"gameId"`
	Name         string           `json:"name"`
	TotalSec     int64            `json:"totalSec"`
	LastPlayedAt *int64           `json:"lastPlayedAt"`
	RecentDays   []DayBucketEntry `json:"recentDays"`
}

type VersionResponse struct {
	Version string `json:"version"`
}
