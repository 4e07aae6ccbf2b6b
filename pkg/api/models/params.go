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

// Timestamps on the wire are epoch seconds in UTC. Checksums are lowercase
// hex digests; mixed case is accepted on input and normalized.

type AddPlaytimeParams struct {
	Checksum  string `json:"checksum"  validate:"required,checksum"`
	Name      string `json:"name"`
	StartedAt int64  `json:"startedAt" validate:"required"`
	EndedAt   int64  `json:"endedAt"   validate:"required"`
}

type CorrectionParams struct {
	GameID   string `json:"gameId"   validate:"required,gameid"`
	Name     string `json:"name"`
	Day      string `json:"day"      validate:"required,day"`
	DeltaSec int64  `json:"deltaSec" validate:"required"`
}

type SaveChecksumParams struct {
	Checksum  string `json:"checksum"  validate:"required,checksum"`
	GameID    string `json:"gameId"    validate:"required,gameid"`
	Name      string `json:"name"`
	Algorithm string `json:"algorithm" validate:"omitempty,oneof=sha256 md5"`
}

type SaveChecksumBulkParams struct {
	Links []SaveChecksumParams `json:"links" validate:"required,min=1,dive"`
}

type RemoveChecksumParams struct {
	Checksum string `json:"checksum" validate:"required,checksum"`
}

type RemoveGameChecksumsParams struct {
	GameID string `json:"gameId" validate:"required,gameid"`
}

type LinkChecksumParams struct {
	Checksum string `json:"checksum" validate:"required,checksum"`
	GameID   string `json:"gameId"   validate:"required,gameid"`
}

type DailyStatsParams struct {
	GameID   string `json:"gameId"   validate:"omitempty,gameid"`
	StartDay string `json:"startDay" validate:"required,day"`
	EndDay   string `json:"endDay"   validate:"required,day"`
}

type GameStatsParams struct {
	GameID string `json:"gameId" validate:"required,gameid"`
}

type PurgeGameParams struct {
	GameID string `json:"gameId" validate:"required,gameid"`
}
