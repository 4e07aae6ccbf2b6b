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
	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleChecksums(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received checksums request")

	links, err := env.Playtime.GetGamesChecksum()
	if err != nil {
		return nil, err
	}

	resp := models.ChecksumsResponse{
		Checksums: make([]models.ChecksumEntry, len(links)),
	}
	for i, l := range links {
		resp.Checksums[i] = models.ChecksumEntry{
			Checksum:  l.Checksum,
			GameID:    l.GameID,
			Algorithm: l.Algorithm,
		}
	}

	return resp, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleSaveChecksum(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received save checksum request")

	var params models.SaveChecksumParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	err := env.Playtime.SaveGameChecksum(
		params.Checksum, params.GameID, params.Name, params.Algorithm)
	if err != nil {
		return nil, err
	}

	return nil, nil //nolint:nilnil // JSON-RPC null result
}

//nolint:gocritic // single-use parameter in API handler
func HandleSaveChecksumBulk(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received bulk save checksum request")

	var params models.SaveChecksumBulkParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	links := make([]database.ChecksumLink, len(params.Links))
	for i, l := range params.Links {
		links[i] = database.ChecksumLink{
			Checksum:  l.Checksum,
			GameID:    l.GameID,
			Algorithm: l.Algorithm,
		}
	}

	if err := env.Playtime.SaveGameChecksumBulk(links); err != nil {
		return nil, err
	}

	return nil, nil //nolint:nilnil // JSON-RPC null result
}

//nolint:gocritic // single-use parameter in API handler
func HandleRemoveChecksum(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received remove checksum request")

	var params models.RemoveChecksumParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Playtime.RemoveGameChecksum(params.Checksum); err != nil {
		return nil, err
	}

	return nil, nil //nolint:nilnil // JSON-RPC null result
}

//nolint:gocritic // single-use parameter in API handler
func HandleRemoveGameChecksums(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received remove game checksums request")

	var params models.RemoveGameChecksumsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	removed, err := env.Playtime.RemoveAllGameChecksum(params.GameID)
	if err != nil {
		return nil, err
	}

	return models.RemovedResponse{Removed: removed}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleResetChecksums(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received reset checksums request")

	if err := env.Playtime.RemoveAllChecksums(); err != nil {
		return nil, err
	}

	return nil, nil //nolint:nilnil // JSON-RPC null result
}

//nolint:gocritic // single-use parameter in API handler
func HandleLinkChecksum(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received link checksum request")

	var params models.LinkChecksumParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	err := env.Playtime.LinkGameToGameWithChecksum(params.Checksum, params.GameID)
	if err != nil {
		return nil, err
	}

	return nil, nil //nolint:nilnil // JSON-RPC null result
}
