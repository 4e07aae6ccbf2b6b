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
	"github.com/PlaytimeProject/playtime-core/pkg/api/models"
	"github.com/PlaytimeProject/playtime-core/pkg/api/models/requests"
	"github.com/PlaytimeProject/playtime-core/pkg/api/validation"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleGamesDictionary(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received games dictionary request")

	games, err := env.Playtime.GetGamesDictionary()
	if err != nil {
		return nil, err
	}

	resp := models.GamesDictionaryResponse{
		Games: make([]models.GameEntry, len(games)),
	}
	for i, g := range games {
		resp.Games[i] = models.GameEntry{
			GameID: g.GameID,
			Name:   g.Name,
		}
	}

	return resp, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandlePurgeGame(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received purge game request")

	var params models.PurgeGameParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Playtime.PurgeGame(params.GameID); err != nil {
		return nil, err
	}

	return nil, nil //nolint:nilnil // JSON-RPC null result
}
