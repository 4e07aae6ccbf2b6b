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
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleAddPlaytime(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received add playtime request")

	var params models.AddPlaytimeParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	startedAt := time.Unix(params.StartedAt, 0).UTC()
	endedAt := time.Unix(params.EndedAt, 0).UTC()

	gameID, sessionID, err := env.Playtime.AddTime(
		params.Checksum, params.Name, startedAt, endedAt)
	if err != nil {
		return nil, err
	}

	return models.AddPlaytimeResponse{
		GameID:    gameID,
		SessionID: sessionID,
	}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleCorrection(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received playtime correction request")

	var params models.CorrectionParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	correctionID, err := env.Playtime.ApplyManualTimeCorrection(
		params.GameID, params.Name, params.Day,
		time.Duration(params.DeltaSec)*time.Second)
	if err != nil {
		return nil, err
	}

	return models.CorrectionResponse{CorrectionID: correctionID}, nil
}
