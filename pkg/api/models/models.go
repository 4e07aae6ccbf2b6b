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

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	MethodPlaytimeAdd        = "playtime.add"
	MethodPlaytimeCorrection = "playtime.correction"

	MethodGamesDictionary = "games.dictionary"
	MethodGamesPurge      = "games.purge"

	MethodChecksums           = "checksums"
	MethodChecksumsSave       = "checksums.save"
	MethodChecksumsSaveBulk   = "checksums.save.bulk"
	MethodChecksumsRemove     = "checksums.remove"
	MethodChecksumsRemoveGame = "checksums.remove.game"
	MethodChecksumsReset      = "checksums.reset"
	MethodChecksumsLink       = "checksums.link"

	MethodStatsDaily        = "stats.daily"
	MethodStatsRecent       = "stats.recent"
	MethodStatsOverall      = "stats.overall"
	MethodStatsOverallShort = "stats.overall.short"
	MethodStatsGame         = "stats.game"

	MethodVersion = "version"
)

const (
	NotificationSessionAdded    = "playtime.session.added"
	NotificationCorrectionAdded = "playtime.correction.added"
	NotificationGameAllocated   = "playtime.game.allocated"
)

type Notification struct {
	Method string
	Params json.RawMessage
}

type RequestObject struct {
	ID      *uuid.UUID      `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorObject struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ResponseObject struct {
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
}

// ResponseErrorObject exists for sending errors, so we can omit result from
// the response, but so nil responses are still returned when using the main
// ResponseObject.
type ResponseErrorObject struct {
	Error   *ErrorObject `json:"error"`
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
}
